package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai/aitest"
)

func TestFlowRunRendersInstructionAndInput(t *testing.T) {
	fake := &aitest.FakeModel{Reply: "  hello  "}
	flow, err := ai.NewFlow(context.Background(), "echo", fake, "Reply with {\"a\": 1} only.", nil)
	require.NoError(t, err)
	require.True(t, flow.Available())

	reply, err := flow.Run(context.Background(), "input with {braces}")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	input := fake.LastInput()
	require.Len(t, input, 2)
	assert.Equal(t, schema.System, input[0].Role)
	assert.Equal(t, "Reply with {\"a\": 1} only.", input[0].Content)
	assert.Equal(t, schema.User, input[1].Role)
	assert.Equal(t, "input with {braces}", input[1].Content)
}

func TestFlowWithoutModel(t *testing.T) {
	flow, err := ai.NewFlow(context.Background(), "none", nil, "x", nil)
	require.NoError(t, err)
	assert.False(t, flow.Available())

	_, err = flow.Run(context.Background(), "hi")
	assert.ErrorIs(t, err, ai.ErrModelUnavailable)

	_, err = flow.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.ErrorIs(t, err, ai.ErrModelUnavailable)
}

func TestFlowEmptyReply(t *testing.T) {
	fake := &aitest.FakeModel{Reply: "   "}
	flow, err := ai.NewFlow(context.Background(), "empty", fake, "x", nil)
	require.NoError(t, err)

	_, err = flow.Run(context.Background(), "hi")
	assert.ErrorIs(t, err, ai.ErrEmptyReply)
}

func TestFlowPropagatesModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	fake := &aitest.FakeModel{Err: boom}
	flow, err := ai.NewFlow(context.Background(), "broken", fake, "x", nil)
	require.NoError(t, err)

	_, err = flow.Run(context.Background(), "hi")
	assert.ErrorIs(t, err, boom)
}

func TestFlowRunJSON(t *testing.T) {
	fake := &aitest.FakeModel{Reply: "```json\n{\"isEmergency\": true, \"response\": \"go\"}\n```"}
	flow, err := ai.NewFlow(context.Background(), "json", fake, "x", nil)
	require.NoError(t, err)

	var out struct {
		IsEmergency bool   `json:"isEmergency"`
		Response    string `json:"response"`
	}
	require.NoError(t, flow.RunJSON(context.Background(), "hi", &out))
	assert.True(t, out.IsEmergency)
	assert.Equal(t, "go", out.Response)

	fake.Reply = "no structure here"
	assert.ErrorIs(t, flow.RunJSON(context.Background(), "hi", &out), ai.ErrNoJSON)
}

func TestDecodeJSONMalformed(t *testing.T) {
	var out map[string]any
	assert.Error(t, ai.DecodeJSON("{not json}", &out))
	assert.ErrorIs(t, ai.DecodeJSON("}{", &out), ai.ErrNoJSON)
}
