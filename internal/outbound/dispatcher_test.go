package outbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cyphera/address-relay/internal/address"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSubmission(t *testing.T) Submission {
	t.Helper()
	submission, err := Encode(testCustomer(), []Pair{{
		Subscription: testSubscription(),
		Updated:      address.Address{Street: "1 Main St", City: "Springfield", State: "CA", Zip: "90210"},
	}})
	require.NoError(t, err)
	return submission
}

func TestAutomationClient_Dispatch(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/hook/abc", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "Jane Doe", q.Get("customer_name"))

		var changes []Change
		assert.NoError(t, json.Unmarshal([]byte(q.Get("subscriptions")), &changes))
		assert.Len(t, changes, 1)

		_, _ = w.Write([]byte("Accepted"))
	}))
	defer server.Close()

	client := NewAutomationClient(server.URL+"/hook/abc", 0, nil)
	require.NoError(t, client.Dispatch(context.Background(), testSubmission(t)))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAutomationClient_FailureIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAutomationClient(server.URL, 0, nil)
	err := client.Dispatch(context.Background(), testSubmission(t))
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAutomationClient_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewAutomationClient(url, 0, nil)
	assert.Error(t, client.Dispatch(context.Background(), testSubmission(t)))
}
