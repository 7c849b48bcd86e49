package webhook

import (
	"testing"

	"github.com/cyphera/address-relay/internal/address"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directPayload = `{
	"customer_name": "Jane Doe",
	"customer_id": 81234567,
	"shopify_customer_id": "7001122334455",
	"email": "jane@example.com",
	"timestamp": "2025-03-01T12:00:00Z",
	"subscriptions": [
		{"subscription_id": "698319426", "subscription_name": "Coffee Club", "address": "12 Oak Ave\nPortland, OR 97201"},
		{"subscription_id": 698319427, "subscription_name": "Tea Club", "address": "98 Pine Rd\nBoise, ID 83702"}
	]
}`

func TestDecode_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "direct object", body: directPayload},
		{name: "nested under output", body: `{"output": ` + directPayload + `}`},
		{name: "array with output", body: `[{"output": ` + directPayload + `}]`},
		{name: "array of direct object", body: `[` + directPayload + `]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Decode([]byte(tt.body))
			require.NoError(t, err)

			assert.Equal(t, Customer{
				Name:              "Jane Doe",
				CustomerID:        "81234567",
				ShopifyCustomerID: "7001122334455",
				Email:             "jane@example.com",
				Timestamp:         "2025-03-01T12:00:00Z",
			}, payload.Customer)

			require.Len(t, payload.Subscriptions, 2)
			first := payload.Subscriptions[0]
			assert.Equal(t, "698319426", first.ID)
			assert.Equal(t, "Coffee Club", first.Name)
			assert.Equal(t, "12 Oak Ave\nPortland, OR 97201", first.Address)
			assert.Equal(t, address.Address{
				Street: "12 Oak Ave", City: "Portland", State: "OR", Zip: "97201", Country: address.DefaultCountry,
			}, first.Original)
			assert.Equal(t, "698319427", payload.Subscriptions[1].ID)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "empty body", body: ``, wantErr: ErrMalformedPayload},
		{name: "not json", body: `hello`, wantErr: ErrMalformedPayload},
		{name: "scalar", body: `42`, wantErr: ErrMalformedPayload},
		{name: "empty array", body: `[]`, wantErr: ErrMissingFields},
		{name: "missing customer name", body: `{"subscriptions": []}`, wantErr: ErrMissingFields},
		{name: "blank customer name", body: `{"customer_name": " ", "subscriptions": []}`, wantErr: ErrMissingFields},
		{name: "missing subscriptions", body: `{"customer_name": "Jane"}`, wantErr: ErrMissingFields},
		{name: "null subscriptions", body: `{"customer_name": "Jane", "subscriptions": null}`, wantErr: ErrMissingFields},
		{name: "output without fields", body: `[{"output": {"foo": 1}}]`, wantErr: ErrMissingFields},
		{name: "subscriptions not a list", body: `{"customer_name": "Jane", "subscriptions": {"id": 1}}`, wantErr: ErrMalformedPayload},
		{name: "subscription without id", body: `{"customer_name": "Jane", "subscriptions": [{"address": "x"}]}`, wantErr: ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Decode([]byte(tt.body))
			assert.Nil(t, payload)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestDecode_EmptySubscriptionListIsAccepted(t *testing.T) {
	payload, err := Decode([]byte(`{"customer_name": "Jane", "subscriptions": []}`))
	require.NoError(t, err)
	assert.Empty(t, payload.Subscriptions)
}

func TestDecode_StringEncodedSubscriptions(t *testing.T) {
	body := `{"customer_name": "Jane", "subscriptions": "[{\"id\": 5, \"name\": \"Box\", \"address\": \"1 Main St\\nAustin, Texas 78701\"}]"}`

	payload, err := Decode([]byte(body))
	require.NoError(t, err)
	require.Len(t, payload.Subscriptions, 1)

	sub := payload.Subscriptions[0]
	assert.Equal(t, "5", sub.ID)
	assert.Equal(t, "Box", sub.Name)
	assert.Equal(t, "TX", sub.Original.State)
}

func TestDecode_PaddedProvinceIsNormalized(t *testing.T) {
	body := `{"customer_name": "Jane", "subscriptions": [{"id": 7, "name": "Box", "address1": "1 Main St", "city": "Austin", "province": " texas ", "zip": "78701"}]}`

	payload, err := Decode([]byte(body))
	require.NoError(t, err)
	require.Len(t, payload.Subscriptions, 1)
	assert.Equal(t, "TX", payload.Subscriptions[0].Original.State)
}

func TestDecode_StructuredAddressWins(t *testing.T) {
	body := `{"customer_name": "Jane", "subscriptions": [{
		"id": "9",
		"recipient_name": "Jane Doe",
		"address": "1 Main St Apt 4\nNew York, NY 10001",
		"address1": "1 Main St Apt 4",
		"city": "New York",
		"province": "New York",
		"zip": 10001
	}]}`

	payload, err := Decode([]byte(body))
	require.NoError(t, err)

	sub := payload.Subscriptions[0]
	assert.Equal(t, "Jane Doe", sub.Name)
	assert.Equal(t, address.Address{
		Street: "1 Main St Apt 4", City: "New York", State: "NY", Zip: "10001", Country: address.DefaultCountry,
	}, sub.Original)
}

func TestDecode_StructuredAddressFillsDisplay(t *testing.T) {
	body := `{"customer_name": "Jane", "subscriptions": [{"id": "9", "address1": "1 Main St", "city": "Austin", "province": "TX", "zip": "78701"}]}`

	payload, err := Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "1 Main St\nAustin, TX 78701", payload.Subscriptions[0].Address)
}

func TestPayload_Subscription(t *testing.T) {
	payload, err := Decode([]byte(directPayload))
	require.NoError(t, err)

	sub, ok := payload.Subscription("698319427")
	require.True(t, ok)
	assert.Equal(t, "Tea Club", sub.Name)

	_, ok = payload.Subscription("missing")
	assert.False(t, ok)
}
