package events

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/123456789012/address-events"

type fakeSender struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSender) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSQSPublisher_Publish(t *testing.T) {
	sender := &fakeSender{}
	p := &SQSPublisher{client: sender, queueURL: testQueueURL}

	require.NoError(t, p.Publish(context.Background(), SubjectUpdateSubmitted, map[string]string{"subscription_id": "42"}))
	require.Len(t, sender.inputs, 1)

	input := sender.inputs[0]
	assert.Equal(t, testQueueURL, aws.ToString(input.QueueUrl))
	attr := input.MessageAttributes[SubjectAttribute]
	assert.Equal(t, "String", aws.ToString(attr.DataType))
	assert.Equal(t, SubjectUpdateSubmitted, aws.ToString(attr.StringValue))

	var event Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(input.MessageBody)), &event))
	assert.Equal(t, SubjectUpdateSubmitted, event.Subject)
	assert.False(t, event.OccurredAt.IsZero())
	assert.Equal(t, map[string]interface{}{"subscription_id": "42"}, event.Data)
}

func TestSQSPublisher_SendError(t *testing.T) {
	p := &SQSPublisher{client: &fakeSender{err: errors.New("throttled")}, queueURL: testQueueURL}

	err := p.Publish(context.Background(), SubjectWebhookReceived, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSQSPublisher_UnmarshalableData(t *testing.T) {
	sender := &fakeSender{}
	p := &SQSPublisher{client: sender, queueURL: testQueueURL}

	assert.Error(t, p.Publish(context.Background(), SubjectWebhookReceived, make(chan int)))
	assert.Empty(t, sender.inputs)
}

type sqsAttribute struct {
	DataType    string `json:"DataType"`
	StringValue string `json:"StringValue"`
}

type sqsSendRequest struct {
	QueueUrl          string                  `json:"QueueUrl"`
	MessageBody       string                  `json:"MessageBody"`
	MessageAttributes map[string]sqsAttribute `json:"MessageAttributes"`
}

// attributesMD5 digests string attributes the way SQS does for
// MD5OfMessageAttributes.
func attributesMD5(attrs map[string]sqsAttribute) string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	h := md5.New()
	writeField := func(s string) {
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(s)))
		h.Write(size[:])
		h.Write([]byte(s))
	}
	for _, name := range names {
		writeField(name)
		writeField(attrs[name].DataType)
		h.Write([]byte{1})
		writeField(attrs[name].StringValue)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func TestSQSPublisher_EndpointOverride(t *testing.T) {
	requests := make(chan sqsSendRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AmazonSQS.SendMessage", r.Header.Get("X-Amz-Target"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		var req sqsSendRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		requests <- req

		bodySum := md5.Sum([]byte(req.MessageBody))
		w.Header().Set("Content-Type", "application/x-amz-json-1.0")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"MessageId":              "msg-1",
			"MD5OfMessageBody":       hex.EncodeToString(bodySum[:]),
			"MD5OfMessageAttributes": attributesMD5(req.MessageAttributes),
		})
	}))
	defer server.Close()

	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDTEST", "secret", ""),
	}
	p, err := NewSQSPublisherFromConfig(cfg, testQueueURL, func(o *sqs.Options) {
		o.BaseEndpoint = aws.String(server.URL)
	})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), SubjectWebhookReceived, map[string]int{"subscriptions": 2}))

	req := <-requests
	assert.Equal(t, testQueueURL, req.QueueUrl)
	assert.Equal(t, SubjectWebhookReceived, req.MessageAttributes[SubjectAttribute].StringValue)
	assert.Contains(t, req.MessageBody, `"subject":"address.webhook.received"`)
	assert.NotPanics(t, p.Close)
}

func TestNewSQSPublisher(t *testing.T) {
	p, err := NewSQSPublisher(context.Background(), testQueueURL,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIDTEST", "secret", "")),
	)
	require.NoError(t, err)
	assert.Equal(t, testQueueURL, p.queueURL)

	_, err = NewSQSPublisherFromConfig(aws.Config{Region: "us-east-1"}, "")
	assert.Error(t, err)
}
