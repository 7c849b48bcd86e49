package webhook

import (
	"time"

	"github.com/cyphera/address-relay/internal/address"
)

// Customer is the customer metadata sent by the automation platform. Apart
// from Name it is never interpreted, only echoed back on submission.
type Customer struct {
	Name              string `json:"customer_name"`
	CustomerID        string `json:"customer_id,omitempty"`
	ShopifyCustomerID string `json:"shopify_customer_id,omitempty"`
	Email             string `json:"email,omitempty"`
	Timestamp         string `json:"timestamp,omitempty"`
}

// Subscription is one subscription whose shipping address can be changed.
type Subscription struct {
	ID   string `json:"subscription_id"`
	Name string `json:"subscription_name"`
	// Address is the display form, "street\ncity, state zip".
	Address string `json:"address"`
	// Original is the structured address captured at decode time and
	// reported as the old address on submission.
	Original address.Address `json:"original"`
}

// Payload is a decoded webhook body.
type Payload struct {
	Customer
	Subscriptions []Subscription `json:"subscriptions"`
}

// Subscription returns the subscription with the given id.
func (p *Payload) Subscription(id string) (Subscription, bool) {
	for _, s := range p.Subscriptions {
		if s.ID == id {
			return s, true
		}
	}
	return Subscription{}, false
}

// Record is a stored webhook payload.
type Record struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
	Payload    *Payload  `json:"payload"`
}
