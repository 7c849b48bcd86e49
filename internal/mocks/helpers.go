package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockLocationLookupForTest creates a MockLocationLookup whose controller
// is finished on test cleanup.
func NewMockLocationLookupForTest(t *testing.T) *MockLocationLookup {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockLocationLookup(ctrl)
}

// NewMockSuggestionLookupForTest creates a MockSuggestionLookup for testing
func NewMockSuggestionLookupForTest(t *testing.T) *MockSuggestionLookup {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockSuggestionLookup(ctrl)
}

// NewMockDispatcherForTest creates a MockDispatcher for testing
func NewMockDispatcherForTest(t *testing.T) *MockDispatcher {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockDispatcher(ctrl)
}

// NewMockEventPublisherForTest creates a MockEventPublisher for testing
func NewMockEventPublisherForTest(t *testing.T) *MockEventPublisher {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockEventPublisher(ctrl)
}
