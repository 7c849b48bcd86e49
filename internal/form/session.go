// Package form holds the server side state of the address update form: which
// subscriptions are selected, their in-progress addresses, and the lookups
// that fill them in as the customer types.
package form

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cyphera/address-relay/internal/address"
	"github.com/cyphera/address-relay/internal/client/geo"
	"github.com/cyphera/address-relay/internal/interfaces"
	"github.com/cyphera/address-relay/internal/logger"
	"github.com/cyphera/address-relay/internal/metrics"
	"github.com/cyphera/address-relay/internal/webhook"

	"go.uber.org/zap"
)

var (
	ErrNotLoaded           = errors.New("no customer data loaded")
	ErrUnknownSubscription = errors.New("unknown subscription")
	ErrNotSelected         = errors.New("subscription is not selected")
	ErrUnknownField        = errors.New("unknown address field")
	ErrSuggestionIndex     = errors.New("suggestion index out of range")
)

// Config holds the form timing settings.
type Config struct {
	StreetDelay   time.Duration
	ZipDelay      time.Duration
	BlurGrace     time.Duration
	LookupTimeout time.Duration
}

// DefaultConfig returns the timings used when none are configured.
func DefaultConfig() Config {
	return Config{
		StreetDelay:   300 * time.Millisecond,
		ZipDelay:      500 * time.Millisecond,
		BlurGrace:     200 * time.Millisecond,
		LookupTimeout: 10 * time.Second,
	}
}

// Dependencies are the collaborators a Session calls out to. Publisher and
// Metrics are optional.
type Dependencies struct {
	Locator    interfaces.LocationLookup
	Suggester  interfaces.SuggestionLookup
	Dispatcher interfaces.Dispatcher
	Publisher  interfaces.EventPublisher
	Metrics    *metrics.Metrics
}

type suggestionList struct {
	labels  []string
	visible bool
}

// Session is the form state for a single customer.
type Session struct {
	mu   sync.Mutex
	cfg  Config
	deps Dependencies

	loaded      bool
	payload     *webhook.Payload
	selected    []string
	addresses   map[string]address.Address
	suggestions map[string]*suggestionList

	streetLookups *debouncer
	zipLookups    *debouncer
	blurs         *debouncer
}

// NewSession creates an empty, unloaded session.
func NewSession(cfg Config, deps Dependencies) *Session {
	s := &Session{
		cfg:           cfg,
		deps:          deps,
		streetLookups: newDebouncer(cfg.StreetDelay),
		zipLookups:    newDebouncer(cfg.ZipDelay),
		blurs:         newDebouncer(cfg.BlurGrace),
	}
	s.clear()
	return s
}

func (s *Session) clear() {
	s.loaded = false
	s.payload = nil
	s.selected = nil
	s.addresses = make(map[string]address.Address)
	s.suggestions = make(map[string]*suggestionList)
}

// Load populates the session from a payload. It returns false without
// changing anything when the session is already loaded.
func (s *Session) Load(payload *webhook.Payload) bool {
	if payload == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return false
	}
	s.loaded = true
	s.payload = payload

	logger.Info("Form session loaded",
		zap.String("customer_name", payload.Name),
		zap.Int("subscriptions", len(payload.Subscriptions)),
	)
	return true
}

// LoadFromStore loads the most recent stored payload unless the session is
// already loaded.
func (s *Session) LoadFromStore(store webhook.Store) bool {
	if s.Loaded() {
		return false
	}
	record, ok := store.Latest()
	if !ok {
		return false
	}
	return s.Load(record.Payload)
}

// Loaded reports whether customer data has been loaded.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Reset discards all state so the next load takes effect.
func (s *Session) Reset() {
	s.streetLookups.Stop()
	s.zipLookups.Stop()
	s.blurs.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// Close stops all pending timers.
func (s *Session) Close() {
	s.streetLookups.Stop()
	s.zipLookups.Stop()
	s.blurs.Stop()
}

// Toggle flips the selection of a subscription and reports the new state.
func (s *Session) Toggle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.subscription(id); err != nil {
		return false, err
	}
	if s.isSelected(id) {
		s.deselect(id)
		return false, nil
	}
	s.selectLocked(id)
	return true, nil
}

// Select marks a subscription for update. Selecting an already selected
// subscription keeps its edits.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.subscription(id); err != nil {
		return err
	}
	if !s.isSelected(id) {
		s.selectLocked(id)
	}
	return nil
}

// Deselect drops a subscription and its edits.
func (s *Session) Deselect(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.subscription(id); err != nil {
		return err
	}
	if s.isSelected(id) {
		s.deselect(id)
	}
	return nil
}

func (s *Session) selectLocked(id string) {
	sub, _ := s.payload.Subscription(id)
	s.selected = append(s.selected, id)
	if _, ok := s.addresses[id]; !ok {
		s.addresses[id] = sub.Original
	}
}

func (s *Session) deselect(id string) {
	for i, selected := range s.selected {
		if selected == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			break
		}
	}
	delete(s.addresses, id)
	delete(s.suggestions, id)

	s.streetLookups.Cancel(id)
	s.zipLookups.Cancel(id)
	s.blurs.Cancel(id)
}

func (s *Session) isSelected(id string) bool {
	_, ok := s.addresses[id]
	return ok
}

func (s *Session) subscription(id string) (webhook.Subscription, error) {
	if !s.loaded {
		return webhook.Subscription{}, ErrNotLoaded
	}
	sub, ok := s.payload.Subscription(id)
	if !ok {
		return webhook.Subscription{}, ErrUnknownSubscription
	}
	return sub, nil
}

// editable returns the address being edited for a selected subscription.
func (s *Session) editable(id string) (address.Address, error) {
	if _, err := s.subscription(id); err != nil {
		return address.Address{}, err
	}
	addr, ok := s.addresses[id]
	if !ok {
		return address.Address{}, ErrNotSelected
	}
	return addr, nil
}

// SetField updates one field of a selected subscription's address and
// schedules the lookups the edit calls for.
func (s *Session) SetField(id, fieldName, value string) (address.Address, error) {
	field, ok := address.ParseField(fieldName)
	if !ok {
		return address.Address{}, ErrUnknownField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	addr, err := s.editable(id)
	if err != nil {
		return address.Address{}, err
	}
	addr = addr.With(field, value)
	s.addresses[id] = addr

	switch field {
	case address.FieldStreet:
		s.streetLookups.Schedule(id, func(generation uint64) {
			s.suggest(id, generation)
		})
	case address.FieldZip:
		if _, ready := geo.ZipReady(value); ready {
			s.zipLookups.Schedule(id, func(generation uint64) {
				s.locate(id, value, generation)
			})
		} else {
			s.zipLookups.Cancel(id)
		}
	}

	return addr, nil
}

func (s *Session) locate(id, zip string, generation uint64) {
	if s.deps.Locator == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.LookupTimeout)
	defer cancel()

	place, err := s.deps.Locator.Locate(ctx, zip)
	if err != nil {
		logger.Debug("Location lookup failed",
			zap.String("subscription_id", id),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.zipLookups.Current(id, generation) {
		s.deps.Metrics.RecordDiscarded(geo.KindLocation)
		return
	}
	addr, ok := s.addresses[id]
	if !ok || !place.Found() {
		return
	}
	s.addresses[id] = place.Apply(addr)
}

func (s *Session) suggest(id string, generation uint64) {
	if s.deps.Suggester == nil {
		return
	}

	s.mu.Lock()
	addr, ok := s.addresses[id]
	s.mu.Unlock()
	if !ok || strings.TrimSpace(addr.City) == "" || strings.TrimSpace(addr.State) == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.LookupTimeout)
	defer cancel()

	labels, err := s.deps.Suggester.Suggest(ctx, addr.Street, addr.City, addr.State)
	if err != nil {
		logger.Debug("Suggestion lookup failed",
			zap.String("subscription_id", id),
			zap.Error(err),
		)
		labels = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.streetLookups.Current(id, generation) {
		s.deps.Metrics.RecordDiscarded(geo.KindSuggestion)
		return
	}
	if _, ok := s.addresses[id]; !ok {
		return
	}
	s.suggestions[id] = &suggestionList{
		labels:  labels,
		visible: len(labels) > 0,
	}
}

// SelectSuggestion fills the street from the suggestion at index and hides
// the list.
func (s *Session) SelectSuggestion(id string, index int) (address.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr, err := s.editable(id)
	if err != nil {
		return address.Address{}, err
	}
	list, ok := s.suggestions[id]
	if !ok || index < 0 || index >= len(list.labels) {
		return address.Address{}, ErrSuggestionIndex
	}

	addr.Street = streetFromLabel(list.labels[index])
	s.addresses[id] = addr
	list.visible = false

	s.blurs.Cancel(id)
	s.streetLookups.Cancel(id)

	return addr, nil
}

// BlurSuggestions hides the suggestion list once the grace delay passes,
// unless a suggestion is selected first.
func (s *Session) BlurSuggestions(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.editable(id); err != nil {
		return err
	}

	s.blurs.Schedule(id, func(generation uint64) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.blurs.Current(id, generation) {
			return
		}
		if list, ok := s.suggestions[id]; ok {
			list.visible = false
		}
	})
	return nil
}

func streetFromLabel(label string) string {
	street, _, _ := strings.Cut(label, ",")
	return strings.TrimSpace(street)
}
