// Package outbound turns a completed form into the request expected by the
// automation platform and sends it.
package outbound

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/cyphera/address-relay/internal/address"
	"github.com/cyphera/address-relay/internal/webhook"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNoChanges is returned when a submission would carry no records.
var ErrNoChanges = errors.New("submission has no address changes")

// AddressFields is an address in the automation platform's field names.
type AddressFields struct {
	Address1    string `json:"address1"`
	City        string `json:"city"`
	Province    string `json:"province"`
	Zip         string `json:"zip"`
	CountryCode string `json:"country_code"`
}

// FromAddress converts an address. The country code is always US.
func FromAddress(a address.Address) AddressFields {
	return AddressFields{
		Address1:    strings.TrimSpace(a.Street),
		City:        strings.TrimSpace(a.City),
		Province:    address.NormalizeState(strings.TrimSpace(a.State)),
		Zip:         strings.TrimSpace(a.Zip),
		CountryCode: address.CountryCodeUS,
	}
}

// Change pairs the original and edited address of one subscription.
type Change struct {
	SubscriptionID   string        `json:"subscription_id"`
	SubscriptionName string        `json:"subscription_name"`
	OldAddress       AddressFields `json:"old_address"`
	NewAddress       AddressFields `json:"new_address"`
}

// Pair is an input to Encode: a subscription and its edited address.
type Pair struct {
	Subscription webhook.Subscription
	Updated      address.Address
}

// Submission is everything sent to the automation endpoint in one request.
type Submission struct {
	ID       string
	Customer webhook.Customer
	Changes  []Change
}

// Encode builds a submission with one change per pair, in order. The old
// address comes from the subscription as it was decoded, never from edits.
func Encode(customer webhook.Customer, pairs []Pair) (Submission, error) {
	if len(pairs) == 0 {
		return Submission{}, ErrNoChanges
	}

	changes := make([]Change, 0, len(pairs))
	for _, p := range pairs {
		changes = append(changes, Change{
			SubscriptionID:   p.Subscription.ID,
			SubscriptionName: p.Subscription.Name,
			OldAddress:       FromAddress(p.Subscription.Original),
			NewAddress:       FromAddress(p.Updated),
		})
	}

	return Submission{
		ID:       uuid.New().String(),
		Customer: customer,
		Changes:  changes,
	}, nil
}

// Query renders the submission as the query parameters of the outbound request.
func (s Submission) Query() (url.Values, error) {
	changes, err := json.Marshal(s.Changes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize address changes")
	}

	return url.Values{
		"customer_name":       {s.Customer.Name},
		"customer_id":         {s.Customer.CustomerID},
		"shopify_customer_id": {s.Customer.ShopifyCustomerID},
		"email":               {s.Customer.Email},
		"timestamp":           {s.Customer.Timestamp},
		"subscriptions":       {string(changes)},
	}, nil
}
