package triage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keywords "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/analysis/triage"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai/aitest"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/triage"
)

func newService(t *testing.T, fake *aitest.FakeModel) *triage.Service {
	t.Helper()
	var svc *triage.Service
	var err error
	if fake == nil {
		svc, err = triage.NewService(context.Background(), nil, nil)
	} else {
		svc, err = triage.NewService(context.Background(), fake, nil)
	}
	require.NoError(t, err)
	return svc
}

func chestPainResponse(t *testing.T) string {
	t.Helper()
	response, ok := keywords.ResponseFor(keywords.ChestPain)
	require.True(t, ok)
	return response
}

func TestAssessPrimaryEmergency(t *testing.T) {
	fake := &aitest.FakeModel{Reply: `{"isEmergency": true, "category": "chest_pain", "response": "` + chestPainResponse(t) + `"}`}
	svc := newService(t, fake)

	got := svc.Assess(context.Background(), "I have chest pain and a headache")
	assert.True(t, got.IsEmergency)
	assert.Equal(t, chestPainResponse(t), got.Response)
	assert.Equal(t, "chest_pain", got.Category)
	assert.Equal(t, ai.Primary, got.Outcome)
	assert.Equal(t, 1, fake.Calls())
}

func TestAssessPromptListsCategories(t *testing.T) {
	fake := &aitest.FakeModel{Reply: `{"isEmergency": false, "category": "", "response": ""}`}
	svc := newService(t, fake)

	svc.Assess(context.Background(), "mild headache")
	input := fake.LastInput()
	require.NotEmpty(t, input)
	for _, rule := range keywords.Rules() {
		assert.True(t, strings.Contains(input[0].Content, rule.Response), "missing %s", rule.Category)
	}
}

func TestAssessPrimaryNonEmergencyDropsResponse(t *testing.T) {
	fake := &aitest.FakeModel{Reply: `{"isEmergency": false, "response": "drink water"}`}
	svc := newService(t, fake)

	got := svc.Assess(context.Background(), "I have a mild headache")
	assert.False(t, got.IsEmergency)
	assert.Empty(t, got.Response)
	assert.Equal(t, ai.Primary, got.Outcome)
}

func TestAssessFillsCannedResponseForEmptyModelText(t *testing.T) {
	fake := &aitest.FakeModel{Reply: `{"isEmergency": true, "category": "stroke_symptoms", "response": ""}`}
	svc := newService(t, fake)

	got := svc.Assess(context.Background(), "her face is drooping")
	want, _ := keywords.ResponseFor(keywords.Stroke)
	assert.True(t, got.IsEmergency)
	assert.Equal(t, want, got.Response)
	assert.Equal(t, ai.Primary, got.Outcome)
}

func TestAssessFallsBackOnModelError(t *testing.T) {
	fake := &aitest.FakeModel{Err: errors.New("network down")}
	svc := newService(t, fake)

	got := svc.Assess(context.Background(), "I have CHEST PAIN and a headache")
	assert.True(t, got.IsEmergency)
	assert.Equal(t, chestPainResponse(t), got.Response)
	assert.Equal(t, ai.Degraded, got.Outcome)
}

func TestAssessFallsBackOnMalformedReply(t *testing.T) {
	cases := []string{
		"I think this is an emergency",
		`{"response": "missing flag"}`,
		`{"isEmergency": true, "category": "unknown", "response": ""}`,
	}
	for _, reply := range cases {
		svc := newService(t, &aitest.FakeModel{Reply: reply})
		got := svc.Assess(context.Background(), "severe bleeding from my arm")
		want, _ := keywords.ResponseFor(keywords.Bleeding)
		assert.Equal(t, ai.Degraded, got.Outcome, reply)
		assert.True(t, got.IsEmergency, reply)
		assert.Equal(t, want, got.Response, reply)
	}
}

func TestAssessWithoutModelUsesKeywords(t *testing.T) {
	svc := newService(t, nil)

	got := svc.Assess(context.Background(), "I have a runny nose")
	assert.False(t, got.IsEmergency)
	assert.Empty(t, got.Response)
	assert.Equal(t, ai.Degraded, got.Outcome)
}

func TestAssessEmptyInputSkipsModel(t *testing.T) {
	fake := &aitest.FakeModel{Reply: `{"isEmergency": true}`}
	svc := newService(t, fake)

	got := svc.Assess(context.Background(), "   ")
	assert.False(t, got.IsEmergency)
	assert.Zero(t, fake.Calls())
}
