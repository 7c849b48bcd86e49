// Package webhook decodes the payload pushed by the automation platform and
// keeps the most recent one for the form to pick up.
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cyphera/address-relay/internal/address"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedPayload is returned for bodies that are not a JSON object
	// or array of objects.
	ErrMalformedPayload = errors.New("malformed webhook payload")
	// ErrMissingFields is returned when customer_name or subscriptions is absent.
	ErrMissingFields = errors.New("missing required fields: customer_name and subscriptions")
)

// flexString accepts JSON strings and numbers. Identifiers arrive as either
// depending on how the automation scenario was built.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type wireSubscription struct {
	SubscriptionID   flexString `json:"subscription_id"`
	ID               flexString `json:"id"`
	SubscriptionName string     `json:"subscription_name"`
	Name             string     `json:"name"`
	RecipientName    string     `json:"recipient_name"`
	Address          string     `json:"address"`
	Address1         string     `json:"address1"`
	City             string     `json:"city"`
	Province         string     `json:"province"`
	Zip              flexString `json:"zip"`
	Country          string     `json:"country"`
}

type wirePayload struct {
	CustomerName      *string         `json:"customer_name"`
	CustomerID        flexString      `json:"customer_id"`
	ShopifyCustomerID flexString      `json:"shopify_customer_id"`
	Email             string          `json:"email"`
	Timestamp         flexString      `json:"timestamp"`
	Subscriptions     json.RawMessage `json:"subscriptions"`
	Output            json.RawMessage `json:"output"`
}

// Decode parses a webhook body. Three shapes are accepted: an array whose
// first element carries an "output" object, an object with customer_name
// and subscriptions, and that same object nested under "output".
func Decode(raw []byte) (*Payload, error) {
	body, err := unwrap(raw)
	if err != nil {
		return nil, err
	}

	var wire wirePayload
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, errors.Wrap(ErrMalformedPayload, err.Error())
	}

	if wire.CustomerName == nil && isObject(wire.Output) {
		if err := json.Unmarshal(wire.Output, &wire); err != nil {
			return nil, errors.Wrap(ErrMalformedPayload, err.Error())
		}
	}

	if wire.CustomerName == nil || strings.TrimSpace(*wire.CustomerName) == "" || isNull(wire.Subscriptions) {
		return nil, ErrMissingFields
	}

	subs, err := decodeSubscriptions(wire.Subscriptions)
	if err != nil {
		return nil, err
	}

	return &Payload{
		Customer: Customer{
			Name:              strings.TrimSpace(*wire.CustomerName),
			CustomerID:        string(wire.CustomerID),
			ShopifyCustomerID: string(wire.ShopifyCustomerID),
			Email:             strings.TrimSpace(wire.Email),
			Timestamp:         string(wire.Timestamp),
		},
		Subscriptions: subs,
	}, nil
}

// unwrap returns the object to decode, taking the first element of an array
// and its "output" member when present.
func unwrap(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrMalformedPayload, "empty body")
	}

	switch raw[0] {
	case '{':
		return raw, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.Wrap(ErrMalformedPayload, err.Error())
		}
		if len(items) == 0 {
			return nil, ErrMissingFields
		}
		var first struct {
			Output json.RawMessage `json:"output"`
		}
		if err := json.Unmarshal(items[0], &first); err != nil {
			return nil, errors.Wrap(ErrMalformedPayload, err.Error())
		}
		if isObject(first.Output) {
			return first.Output, nil
		}
		return items[0], nil
	default:
		return nil, errors.Wrap(ErrMalformedPayload, "expected a JSON object or array")
	}
}

// decodeSubscriptions accepts an array or a string holding a JSON array.
func decodeSubscriptions(raw json.RawMessage) ([]Subscription, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, errors.Wrap(ErrMalformedPayload, err.Error())
		}
		raw = []byte(inner)
	}

	var wire []wireSubscription
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Wrap(ErrMalformedPayload, "subscriptions: "+err.Error())
	}

	subs := make([]Subscription, 0, len(wire))
	for i, w := range wire {
		id := string(w.SubscriptionID)
		if id == "" {
			id = string(w.ID)
		}
		if id == "" {
			return nil, errors.Wrap(ErrMalformedPayload, fmt.Sprintf("subscription %d has no id", i))
		}
		subs = append(subs, newSubscription(id, w))
	}
	return subs, nil
}

func newSubscription(id string, w wireSubscription) Subscription {
	sub := Subscription{
		ID:      id,
		Name:    firstNonEmpty(w.SubscriptionName, w.Name, w.RecipientName),
		Address: strings.TrimSpace(w.Address),
	}

	if w.Address1 != "" || w.City != "" || w.Province != "" || w.Zip != "" {
		sub.Original = address.Address{
			Street:  strings.TrimSpace(w.Address1),
			City:    strings.TrimSpace(w.City),
			State:   address.NormalizeState(strings.TrimSpace(w.Province)),
			Zip:     string(w.Zip),
			Country: firstNonEmpty(w.Country, address.DefaultCountry),
		}
		if sub.Address == "" {
			sub.Address = sub.Original.Display()
		}
		return sub
	}

	sub.Original = address.ParseDisplay(sub.Address)
	return sub
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
