// Package address holds the address value object shared by the webhook
// decoder, the form session and the outbound encoder.
package address

import (
	"fmt"
	"strings"
)

const (
	// DefaultCountry is the country given to every address derived from a
	// display string.
	DefaultCountry = "United States"

	// CountryCodeUS is the only country code emitted to the automation platform.
	CountryCodeUS = "US"
)

// Field names an editable address field.
type Field string

const (
	FieldStreet  Field = "street"
	FieldCity    Field = "city"
	FieldState   Field = "state"
	FieldZip     Field = "zip"
	FieldCountry Field = "country"
)

// RequiredFields are the fields that must be non-empty before an address can
// be submitted. Country is not required.
var RequiredFields = []Field{FieldStreet, FieldCity, FieldState, FieldZip}

// ParseField resolves a field name coming from a client.
func ParseField(name string) (Field, bool) {
	switch f := Field(strings.ToLower(strings.TrimSpace(name))); f {
	case FieldStreet, FieldCity, FieldState, FieldZip, FieldCountry:
		return f, true
	}
	return "", false
}

// Address is a US mailing address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// ParseDisplay derives an Address from a two line display string of the form
// "street\ncity, state zip".
//
// The split is positional: exactly one ", " between city and "state zip" and
// no spaces inside the zip are assumed. Input that does not fit leaves the
// affected fields empty instead of failing.
func ParseDisplay(display string) Address {
	addr := Address{Country: DefaultCountry}

	lines := strings.SplitN(strings.ReplaceAll(display, "\r\n", "\n"), "\n", 2)
	addr.Street = strings.TrimSpace(lines[0])
	if len(lines) < 2 {
		return addr
	}

	cityParts := strings.Split(strings.TrimSpace(lines[1]), ", ")
	addr.City = strings.TrimSpace(cityParts[0])
	if len(cityParts) < 2 {
		return addr
	}

	stateZip := strings.Split(strings.TrimSpace(cityParts[1]), " ")
	addr.State = NormalizeState(stateZip[0])
	if len(stateZip) > 1 {
		addr.Zip = strings.TrimSpace(stateZip[1])
	}
	return addr
}

// Display renders the address in the two line form accepted by ParseDisplay.
func (a Address) Display() string {
	return fmt.Sprintf("%s\n%s, %s %s", a.Street, a.City, a.State, a.Zip)
}

// Get returns the value of a single field.
func (a Address) Get(f Field) string {
	switch f {
	case FieldStreet:
		return a.Street
	case FieldCity:
		return a.City
	case FieldState:
		return a.State
	case FieldZip:
		return a.Zip
	case FieldCountry:
		return a.Country
	}
	return ""
}

// With returns a copy of the address with one field replaced. State values
// are normalized.
func (a Address) With(f Field, value string) Address {
	switch f {
	case FieldStreet:
		a.Street = value
	case FieldCity:
		a.City = value
	case FieldState:
		a.State = NormalizeState(strings.TrimSpace(value))
	case FieldZip:
		a.Zip = value
	case FieldCountry:
		a.Country = value
	}
	return a
}

// MissingFields lists the required fields that are blank.
func (a Address) MissingFields() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if strings.TrimSpace(a.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every required field is set.
func (a Address) Complete() bool {
	return len(a.MissingFields()) == 0
}
