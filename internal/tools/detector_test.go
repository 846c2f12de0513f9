package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/llm"
	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
)

func testTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:     "order.lookup",
			Mode:     domain.ToolModeBuiltin,
			Handler:  "order.lookup",
			Keywords: []string{"order", "package", "delivery"},
		},
		{
			Name:    "account.lookup",
			Mode:    domain.ToolModeBuiltin,
			Handler: "account.lookup",
		},
	}
}

func newTestDetector(client llm.Client) *Detector {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewDetector(client, logger)
}

func TestDetectByKeyword(t *testing.T) {
	d := newTestDetector(&llm.MockClient{Err: errors.New("must not be called")})

	intents := d.Detect(context.Background(), "Where is my ORDER 123?", testTools())
	assert.Len(t, intents, 1)
	assert.Equal(t, "order.lookup", intents[0].Name)
}

func TestDetectFallsBackToClassifier(t *testing.T) {
	client := &llm.MockClient{
		Reply: `{"tools": [{"name": "account.lookup", "parameters": {"customer_id": "c1"}}]}`,
	}
	d := newTestDetector(client)

	intents := d.Detect(context.Background(), "Can you check my profile details?", testTools())
	assert.Len(t, intents, 1)
	assert.Equal(t, "account.lookup", intents[0].Name)
	assert.Equal(t, "c1", intents[0].Parameters["customer_id"])
}

func TestDetectClassifierWrappedInProse(t *testing.T) {
	client := &llm.MockClient{
		Reply: "Sure! Here is the result:\n```json\n{\"tools\": [{\"name\": \"account.lookup\"}]}\n```",
	}
	d := newTestDetector(client)

	intents := d.Detect(context.Background(), "show me my profile", testTools())
	assert.Len(t, intents, 1)
	assert.Equal(t, "account.lookup", intents[0].Name)
}

func TestDetectFiltersUnknownTools(t *testing.T) {
	client := &llm.MockClient{
		Reply: `{"tools": [{"name": "payments.transfer"}, {"name": "account.lookup"}]}`,
	}
	d := newTestDetector(client)

	intents := d.Detect(context.Background(), "move money and show my profile", testTools())
	assert.Len(t, intents, 1)
	assert.Equal(t, "account.lookup", intents[0].Name)
}

func TestDetectClassifierFailureYieldsNoTools(t *testing.T) {
	d := newTestDetector(&llm.MockClient{Err: errors.New("upstream down")})

	intents := d.Detect(context.Background(), "something unrelated", testTools())
	assert.Empty(t, intents)
}

func TestDetectUnparseableReplyYieldsNoTools(t *testing.T) {
	d := newTestDetector(&llm.MockClient{Reply: "I could not decide."})

	intents := d.Detect(context.Background(), "something unrelated", testTools())
	assert.Empty(t, intents)
}

func TestDetectNoToolsConfigured(t *testing.T) {
	d := newTestDetector(&llm.MockClient{Err: errors.New("must not be called")})

	intents := d.Detect(context.Background(), "where is my order", nil)
	assert.Empty(t, intents)
}
