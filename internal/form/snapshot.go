package form

import "github.com/cyphera/address-relay/internal/address"

// View is a point-in-time copy of the session for rendering.
type View struct {
	Loaded        bool               `json:"loaded"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Selected      []string           `json:"selected"`
	Subscriptions []SubscriptionView `json:"subscriptions"`
}

// SubscriptionView is one subscription as the form shows it.
type SubscriptionView struct {
	ID       string `json:"subscription_id"`
	Name     string `json:"subscription_name"`
	Address  string `json:"address"`
	Selected bool   `json:"selected"`
	// Edit is the in-progress address, set only while selected.
	Edit        *address.Address `json:"edit,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		Loaded:        s.loaded,
		Selected:      append([]string{}, s.selected...),
		Subscriptions: []SubscriptionView{},
	}
	if !s.loaded {
		return view
	}

	view.CustomerName = s.payload.Name
	for _, sub := range s.payload.Subscriptions {
		sv := SubscriptionView{
			ID:      sub.ID,
			Name:    sub.Name,
			Address: sub.Address,
		}
		if addr, ok := s.addresses[sub.ID]; ok {
			edit := addr
			sv.Selected = true
			sv.Edit = &edit
		}
		if list, ok := s.suggestions[sub.ID]; ok && list.visible {
			sv.Suggestions = append([]string{}, list.labels...)
		}
		view.Subscriptions = append(view.Subscriptions, sv)
	}
	return view
}
