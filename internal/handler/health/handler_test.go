package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	healthhandler "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/health"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/middleware"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/health"
	healthservice "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/health"
)

func newRouter() http.Handler {
	svc := healthservice.NewService(config.HistoryConfig{TTL: time.Hour}, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), "u1")))
		})
	})
	healthhandler.New(svc, nil).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDataPoints(t *testing.T) {
	r := newRouter()

	rec := do(r, http.MethodGet, "/health/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		DataPoints []health.DataPoint `json:"dataPoints"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	seeded := len(list.DataPoints)
	assert.NotZero(t, seeded)

	rec = do(r, http.MethodPost, "/health/metrics", `{"weight":70.2,"systolic":118,"diastolic":76,"mood":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, http.MethodGet, "/health/metrics", "")
	list.DataPoints = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list.DataPoints, seeded+1)
}

func TestDataPointValidation(t *testing.T) {
	rec := do(newRouter(), http.MethodPost, "/health/metrics", `{"weight":70,"systolic":118,"diastolic":76,"mood":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "mood")
}

func TestReminderLifecycle(t *testing.T) {
	r := newRouter()

	rec := do(r, http.MethodPost, "/health/reminders", `{"title":"Vitamin D","type":"medication","time":"21:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(r, http.MethodPost, "/health/reminders", `{"title":"Dentist","type":"appointment","time":"08:30"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created health.Reminder
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = do(r, http.MethodGet, "/health/reminders", "")
	var list struct {
		Reminders []health.Reminder `json:"reminders"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Reminders, 2)
	assert.Equal(t, "Dentist", list.Reminders[0].Title)

	rec = do(r, http.MethodDelete, "/health/reminders/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodDelete, "/health/reminders/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReminderValidation(t *testing.T) {
	r := newRouter()

	cases := map[string]string{
		"short title":  `{"title":"ab","type":"medication","time":"08:00"}`,
		"bad type":     `{"title":"Vitamins","type":"other","time":"08:00"}`,
		"bad time":     `{"title":"Vitamins","type":"medication","time":"25:00"}`,
		"missing time": `{"title":"Vitamins","type":"medication"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/health/reminders", body).Code)
		})
	}
}

func TestServicesFinder(t *testing.T) {
	r := newRouter()

	rec := do(r, http.MethodGet, "/health/services?type=Pharmacy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Type     health.FacilityKind `json:"type"`
		Services []health.Facility   `json:"services"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, health.KindPharmacy, body.Type)
	require.NotEmpty(t, body.Services)
	for _, f := range body.Services {
		assert.Equal(t, health.KindPharmacy, f.Kind)
	}

	rec = do(r, http.MethodGet, "/health/services?type=dentist", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"services":[]`)
}
