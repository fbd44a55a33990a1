package terminology_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai/aitest"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/terminology"
)

func TestSimplify(t *testing.T) {
	fake := &aitest.FakeModel{Reply: "High blood pressure."}
	svc, err := terminology.NewService(context.Background(), fake, nil)
	require.NoError(t, err)

	got := svc.Simplify(context.Background(), "Hypertension")
	assert.Equal(t, "High blood pressure.", got.SimplifiedText)
	assert.Equal(t, ai.Primary, got.Outcome)
	assert.Equal(t, "Hypertension", fake.LastInput()[1].Content)
}

func TestSimplifyBlankInputSkipsModel(t *testing.T) {
	fake := &aitest.FakeModel{Reply: "unused"}
	svc, err := terminology.NewService(context.Background(), fake, nil)
	require.NoError(t, err)

	for _, input := range []string{"", "   ", "\t\n"} {
		got := svc.Simplify(context.Background(), input)
		assert.Empty(t, got.SimplifiedText)
	}
	assert.Zero(t, fake.Calls())
}

func TestSimplifyFailureReturnsErrorMessage(t *testing.T) {
	fake := &aitest.FakeModel{Err: errors.New("quota")}
	svc, err := terminology.NewService(context.Background(), fake, nil)
	require.NoError(t, err)

	got := svc.Simplify(context.Background(), "Myocardial infarction")
	assert.Equal(t, terminology.ErrorMessage, got.SimplifiedText)
	assert.Equal(t, ai.Failed, got.Outcome)
}
