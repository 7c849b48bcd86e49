package interfaces

import (
	"context"

	"github.com/cyphera/address-relay/internal/client/geo"
	"github.com/cyphera/address-relay/internal/outbound"
)

//go:generate mockgen -source=clients.go -destination=../mocks/mock_clients.go -package=mocks

// LocationLookup resolves a ZIP code to a city and state.
type LocationLookup interface {
	Locate(ctx context.Context, zip string) (geo.Place, error)
}

// SuggestionLookup returns full address candidates for partial street text.
type SuggestionLookup interface {
	Suggest(ctx context.Context, street, city, state string) ([]string, error)
}

// Dispatcher delivers a submission to the automation platform.
type Dispatcher interface {
	Dispatch(ctx context.Context, submission outbound.Submission) error
}

// EventPublisher publishes relay events.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
