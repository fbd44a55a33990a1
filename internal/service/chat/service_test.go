package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	model "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/chat"
	chat "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/chat"
)

func TestServiceTranscriptWelcome(t *testing.T) {
	svc := chat.NewService(config.HistoryConfig{TTL: time.Hour, MaxMessages: 10})

	got, err := svc.Transcript(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.WelcomeID, got[0].ID)
	assert.Equal(t, model.RoleAssistant, got[0].Role)
}

func TestServiceAppendAndClear(t *testing.T) {
	svc := chat.NewService(config.HistoryConfig{TTL: time.Hour, MaxMessages: 10})
	ctx := context.Background()

	err := svc.Append(ctx, "u1",
		model.Message{Role: model.RoleUser, Content: "hi"},
		model.Message{Role: model.RoleAssistant, Content: "hello"},
	)
	require.NoError(t, err)

	got, err := svc.Transcript(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, "hello", got[1].Content)

	other, err := svc.Transcript(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, model.WelcomeID, other[0].ID)

	require.NoError(t, svc.Clear(ctx, "u1"))
	got, err = svc.Transcript(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.WelcomeID, got[0].ID)
}

func TestServiceAppendTrimsOldest(t *testing.T) {
	svc := chat.NewService(config.HistoryConfig{TTL: time.Hour, MaxMessages: 3})
	ctx := context.Background()

	for _, content := range []string{"a", "b", "c", "d"} {
		require.NoError(t, svc.Append(ctx, "u1", model.Message{Role: model.RoleUser, Content: content}))
	}

	got, err := svc.Transcript(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Content)
	assert.Equal(t, "d", got[2].Content)
}

func TestServiceRequiresUser(t *testing.T) {
	svc := chat.NewService(config.HistoryConfig{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.Append(ctx, "", model.Message{Content: "x"}), chat.ErrUserRequired)
	_, err := svc.Transcript(ctx, "")
	assert.ErrorIs(t, err, chat.ErrUserRequired)
	assert.ErrorIs(t, svc.Clear(ctx, ""), chat.ErrUserRequired)
}

func TestServiceSubscribe(t *testing.T) {
	svc := chat.NewService(config.HistoryConfig{TTL: time.Hour, MaxMessages: 10})
	ctx := context.Background()

	events, cancel := svc.Subscribe("u1")
	otherEvents, cancelOther := svc.Subscribe("u2")
	defer cancelOther()

	require.NoError(t, svc.Append(ctx, "u1", model.Message{Role: model.RoleUser, Content: "hi"}))
	select {
	case ev := <-events:
		assert.Equal(t, model.HistoryAppended, ev.Type)
		assert.Equal(t, 1, ev.Total)
		require.Len(t, ev.Messages, 1)
		assert.Equal(t, "hi", ev.Messages[0].Content)
	case <-time.After(time.Second):
		require.FailNow(t, "expected history event")
	}

	require.NoError(t, svc.Clear(ctx, "u1"))
	ev := <-events
	assert.Equal(t, model.HistoryCleared, ev.Type)

	select {
	case ev := <-otherEvents:
		assert.Failf(t, "unexpected event for other user", "%+v", ev)
	default:
	}

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)
}
