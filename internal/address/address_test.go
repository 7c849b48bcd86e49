package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    Address
	}{
		{
			name:    "well formed",
			display: "742 Evergreen Terrace\nSpringfield, OR 97403",
			want:    Address{Street: "742 Evergreen Terrace", City: "Springfield", State: "OR", Zip: "97403", Country: DefaultCountry},
		},
		{
			name:    "carriage return line break",
			display: "1 Main St\r\nAustin, TX 78701",
			want:    Address{Street: "1 Main St", City: "Austin", State: "TX", Zip: "78701", Country: DefaultCountry},
		},
		{
			name:    "full state name is normalized",
			display: "1 Main St\nSacramento, California 95814",
			want:    Address{Street: "1 Main St", City: "Sacramento", State: "CA", Zip: "95814", Country: DefaultCountry},
		},
		{
			name:    "multi word state splits positionally",
			display: "1 Main St\nAlbany, New York 12207",
			want:    Address{Street: "1 Main St", City: "Albany", State: "NEW", Zip: "York", Country: DefaultCountry},
		},
		{
			name:    "single line",
			display: "PO Box 12",
			want:    Address{Street: "PO Box 12", Country: DefaultCountry},
		},
		{
			name:    "missing comma",
			display: "1 Main St\nAustin TX 78701",
			want:    Address{Street: "1 Main St", City: "Austin TX 78701", Country: DefaultCountry},
		},
		{
			name:    "missing zip",
			display: "1 Main St\nAustin, TX",
			want:    Address{Street: "1 Main St", City: "Austin", State: "TX", Country: DefaultCountry},
		},
		{
			name:    "empty",
			display: "",
			want:    Address{Country: DefaultCountry},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDisplay(tt.display))
		})
	}
}

func TestAddress_DisplayRoundTrip(t *testing.T) {
	addr := Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: DefaultCountry}
	assert.Equal(t, addr, ParseDisplay(addr.Display()))
}

func TestAddress_With(t *testing.T) {
	addr := Address{}.
		With(FieldStreet, "1 Main St").
		With(FieldCity, "Springfield").
		With(FieldState, "Illinois").
		With(FieldZip, "62701").
		With(FieldCountry, DefaultCountry)

	assert.Equal(t, "IL", addr.State)
	assert.Equal(t, "1 Main St", addr.Get(FieldStreet))
	assert.True(t, addr.Complete())
}

func TestAddress_WithTrimsState(t *testing.T) {
	assert.Equal(t, "NY", Address{}.With(FieldState, " new york ").State)
	assert.Equal(t, "CA", Address{}.With(FieldState, " ca").State)
}

func TestAddress_MissingFields(t *testing.T) {
	addr := Address{Street: "1 Main St", City: " ", State: "IL"}
	assert.Equal(t, []Field{FieldCity, FieldZip}, addr.MissingFields())
	assert.False(t, addr.Complete())

	// country is never required
	addr = Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701"}
	assert.Empty(t, addr.MissingFields())
}

func TestParseField(t *testing.T) {
	f, ok := ParseField(" Zip ")
	assert.True(t, ok)
	assert.Equal(t, FieldZip, f)

	_, ok = ParseField("province")
	assert.False(t, ok)
}
