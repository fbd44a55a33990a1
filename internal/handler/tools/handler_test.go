package tools_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keywords "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/analysis/triage"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/tools"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai/aitest"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/conditions"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/skin"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/terminology"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/triage"
)

// newRouter backs every flow with the same fake model.
func newRouter(t *testing.T, fake *aitest.FakeModel) http.Handler {
	t.Helper()
	ctx := context.Background()

	tri, err := triage.NewService(ctx, fake, nil)
	require.NoError(t, err)
	mapper, err := conditions.NewService(ctx, fake, nil)
	require.NoError(t, err)
	simplifier, err := terminology.NewService(ctx, fake, nil)
	require.NoError(t, err)
	analyzer, err := skin.NewService(ctx, fake, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	tools.New(tools.Services{
		Triage:      tri,
		Conditions:  mapper,
		Terminology: simplifier,
		Skin:        analyzer,
	}, nil).RegisterRoutes(r)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTriageEndpointFallsBackToKeywords(t *testing.T) {
	r := newRouter(t, &aitest.FakeModel{Err: errors.New("down")})

	rec := post(r, "/tools/triage", `{"input":"I can't breathe"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got triage.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	want, _ := keywords.ResponseFor(keywords.Breathing)
	assert.True(t, got.IsEmergency)
	assert.Equal(t, want, got.Response)
	assert.Equal(t, ai.Degraded, got.Outcome)
}

func TestConditionsEndpoint(t *testing.T) {
	r := newRouter(t, &aitest.FakeModel{Reply: `{"potentialConditions":"1. Common cold","disclaimer":"ignored"}`})

	rec := post(r, "/tools/conditions", `{"symptoms":"runny nose"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got conditions.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "1. Common cold", got.PotentialConditions)
	assert.Equal(t, conditions.Disclaimer, got.Disclaimer)
}

func TestSimplifyEndpoint(t *testing.T) {
	r := newRouter(t, &aitest.FakeModel{Reply: "High blood pressure."})

	rec := post(r, "/tools/simplify", `{"medicalText":"Hypertension"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got terminology.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "High blood pressure.", got.SimplifiedText)
}

func TestSimplifyEndpointBlankText(t *testing.T) {
	fake := &aitest.FakeModel{Reply: "unused"}
	r := newRouter(t, fake)

	for _, body := range []string{`{}`, `{"medicalText":"   "}`} {
		rec := post(r, "/tools/simplify", body)
		require.Equal(t, http.StatusOK, rec.Code, body)

		var got terminology.Result
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Empty(t, got.SimplifiedText)
	}
	assert.Zero(t, fake.Calls())
}

func TestSkinEndpoint(t *testing.T) {
	r := newRouter(t, &aitest.FakeModel{Reply: "Possible contact dermatitis."})
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))

	rec := post(r, "/tools/skin", `{"photoDataUri":"`+uri+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got skin.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Possible contact dermatitis.", got.Analysis)

	rec = post(r, "/tools/skin", `{"photoDataUri":"not-a-data-uri"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToolsRejectMissingFields(t *testing.T) {
	r := newRouter(t, &aitest.FakeModel{Reply: "unused"})

	for _, path := range []string{"/tools/triage", "/tools/conditions", "/tools/skin"} {
		rec := post(r, path, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
