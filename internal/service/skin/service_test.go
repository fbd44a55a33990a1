package skin_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai/aitest"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/skin"
)

var pngURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG fake pixels"))

func TestAnalyzeSendsMultimodalMessage(t *testing.T) {
	fake := &aitest.FakeModel{Reply: "Looks like mild eczema."}
	svc, err := skin.NewService(context.Background(), fake, nil)
	require.NoError(t, err)

	got, err := svc.Analyze(context.Background(), pngURI)
	require.NoError(t, err)
	assert.Equal(t, "Looks like mild eczema.", got.Analysis)
	assert.Equal(t, ai.Primary, got.Outcome)

	input := fake.LastInput()
	require.Len(t, input, 2)
	assert.Contains(t, input[0].Content, "MEDICAL=BLOCK_NONE")

	parts := input[1].MultiContent
	require.Len(t, parts, 2)
	assert.Equal(t, schema.ChatMessagePartTypeText, parts[0].Type)
	assert.Equal(t, schema.ChatMessagePartTypeImageURL, parts[1].Type)
	require.NotNil(t, parts[1].ImageURL)
	assert.Equal(t, pngURI, parts[1].ImageURL.URL)
}

func TestAnalyzeModelFailure(t *testing.T) {
	fake := &aitest.FakeModel{Err: errors.New("blocked")}
	svc, err := skin.NewService(context.Background(), fake, nil)
	require.NoError(t, err)

	got, err := svc.Analyze(context.Background(), pngURI)
	require.NoError(t, err)
	assert.Equal(t, skin.ErrorMessage, got.Analysis)
	assert.Equal(t, ai.Failed, got.Outcome)
}

func TestAnalyzeRejectsInvalidImage(t *testing.T) {
	fake := &aitest.FakeModel{Reply: "unused"}
	svc, err := skin.NewService(context.Background(), fake, nil)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), "https://example.com/a.png")
	assert.ErrorIs(t, err, skin.ErrInvalidImage)
	assert.Zero(t, fake.Calls())
}

func TestParseImageDataURI(t *testing.T) {
	img, err := skin.ParseImageDataURI(" " + pngURI + " ")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)
	assert.Equal(t, []byte("\x89PNG fake pixels"), img.Data)

	invalid := []string{
		"",
		"data:image/png,rawbytes",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/;base64,aGVsbG8=",
		"data:image/jpeg;base64,***",
		"data:image/jpeg;base64,",
		"data:image/jpeg;base64",
	}
	for _, uri := range invalid {
		_, err := skin.ParseImageDataURI(uri)
		assert.ErrorIs(t, err, skin.ErrInvalidImage, uri)
	}
}

func TestParseImageDataURIRejectsOversized(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("a", skin.MaxImageBytes+1)))
	_, err := skin.ParseImageDataURI("data:image/jpeg;base64," + payload)
	assert.ErrorIs(t, err, skin.ErrInvalidImage)
}
