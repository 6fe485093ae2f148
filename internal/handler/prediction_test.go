package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-medicine-box/internal/model"
	"github.com/iliyamo/smart-medicine-box/internal/predictor"
	"github.com/iliyamo/smart-medicine-box/internal/registry"
	"github.com/iliyamo/smart-medicine-box/internal/service"
)

const morningBody = `{"time_period": "morning", "morning_time": 480, "afternoon_time": 780,
	"evening_time": 1200, "takenMorning": 1, "takenAfternoon": 0, "takenEvening": 1, "day_of_week": 2}`

func fakeRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	clf := predictor.Func(func(r model.FeatureRecord) (float64, error) { return r.TakenMorning, nil })
	reg := predictor.Func(func(r model.FeatureRecord) (float64, error) { return r.MorningTime + 15, nil })
	pairs := map[model.TimePeriod]registry.PredictorPair{}
	for _, p := range model.TimePeriods() {
		pairs[p] = registry.PredictorPair{Classifier: clf, Regressor: reg}
	}
	r, err := registry.New(pairs)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newEcho(reg *registry.Registry) *echo.Echo {
	h := NewPredictionHandler(service.New(reg, nil, nil), 1024)
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/routes", h.Routes)
	e.POST("/predict", h.Predict)
	return e
}

func serve(e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var payload map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	return rec, payload
}

func TestPredictSuccess(t *testing.T) {
	rec, payload := serve(newEcho(fakeRegistry(t)), http.MethodPost, "/predict", morningBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if payload["time_period"] != "morning" {
		t.Fatalf("unexpected time_period %v", payload["time_period"])
	}
	if take, ok := payload["will_take_medicine"].(bool); !ok || !take {
		t.Fatalf("expected will_take_medicine true, got %v", payload["will_take_medicine"])
	}
	if minutes, ok := payload["predicted_time_minutes"].(float64); !ok || minutes != 495 {
		t.Fatalf("expected 495 minutes, got %v", payload["predicted_time_minutes"])
	}
	formatted, _ := payload["predicted_time_formatted"].(string)
	if !regexp.MustCompile(`^\d{2}:\d{2}$`).MatchString(formatted) || formatted != "08:15" {
		t.Fatalf("unexpected formatted time %q", formatted)
	}
}

func TestPredictMissingDayOfWeek(t *testing.T) {
	body := strings.Replace(morningBody, `, "day_of_week": 2`, "", 1)
	rec, payload := serve(newEcho(fakeRegistry(t)), http.MethodPost, "/predict", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg, _ := payload["error"].(string); !strings.Contains(msg, "day_of_week") {
		t.Fatalf("expected error naming day_of_week, got %v", payload)
	}
}

func TestPredictUnknownTimePeriod(t *testing.T) {
	body := strings.Replace(morningBody, `"morning",`, `"midnight",`, 1)
	rec, payload := serve(newEcho(fakeRegistry(t)), http.MethodPost, "/predict", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg, _ := payload["error"].(string)
	for _, p := range []string{"morning", "afternoon", "night"} {
		if !strings.Contains(msg, p) {
			t.Fatalf("expected %q listed in %q", p, msg)
		}
	}
}

func TestPredictEmptyAndOversizedBody(t *testing.T) {
	e := newEcho(fakeRegistry(t))
	if rec, _ := serve(e, http.MethodPost, "/predict", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rec.Code)
	}
	big := `{"pad": "` + strings.Repeat("x", 2048) + `"}`
	if rec, _ := serve(e, http.MethodPost, "/predict", big); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", rec.Code)
	}
}

func TestPredictPredictorFailure(t *testing.T) {
	bad := predictor.NewDecisionTree([]predictor.TreeNode{{FeatureIdx: 42}})
	pairs := map[model.TimePeriod]registry.PredictorPair{}
	for _, p := range model.TimePeriods() {
		pairs[p] = registry.PredictorPair{Classifier: bad, Regressor: bad}
	}
	reg, err := registry.New(pairs)
	if err != nil {
		t.Fatal(err)
	}

	rec, payload := serve(newEcho(reg), http.MethodPost, "/predict", morningBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg, _ := payload["error"].(string); !strings.HasPrefix(msg, "Prediction error:") {
		t.Fatalf("unexpected error %v", payload)
	}
	if len(payload) != 1 {
		t.Fatalf("error body must only carry the error key: %v", payload)
	}
}

func TestEmptyRegistry(t *testing.T) {
	e := newEcho(registry.Empty())

	rec, payload := serve(e, http.MethodPost, "/predict", morningBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg, _ := payload["error"].(string); !strings.Contains(msg, "Models not loaded") {
		t.Fatalf("unexpected error %v", payload)
	}

	rec, payload = serve(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if payload["models_status"] != "failed_to_load" {
		t.Fatalf("expected failed_to_load, got %v", payload["models_status"])
	}
	if periods, _ := payload["available_time_periods"].([]interface{}); len(periods) != 0 {
		t.Fatalf("expected no periods, got %v", periods)
	}

	_, payload = serve(e, http.MethodGet, "/", "")
	if payload["models_loaded"] != false {
		t.Fatalf("expected models_loaded false, got %v", payload["models_loaded"])
	}
}

func TestHealthAndRootWithModels(t *testing.T) {
	e := newEcho(fakeRegistry(t))

	_, payload := serve(e, http.MethodGet, "/health", "")
	if payload["status"] != "healthy" || payload["models_status"] != "loaded" {
		t.Fatalf("unexpected health %v", payload)
	}
	periods, _ := payload["available_time_periods"].([]interface{})
	if len(periods) != 3 || periods[0] != "morning" || periods[2] != "night" {
		t.Fatalf("unexpected periods %v", periods)
	}

	_, payload = serve(e, http.MethodGet, "/", "")
	if payload["message"] != serviceName || payload["status"] != "running" || payload["models_loaded"] != true {
		t.Fatalf("unexpected root %v", payload)
	}
	endpoints, _ := payload["available_endpoints"].([]interface{})
	if len(endpoints) != 3 {
		t.Fatalf("unexpected endpoints %v", endpoints)
	}
}

func TestRouterErrorsUseErrorKey(t *testing.T) {
	e := newEcho(fakeRegistry(t))
	cases := []struct {
		method, path string
		code         int
	}{
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodGet, "/predict", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rec, payload := serve(e, tc.method, tc.path, "")
		if rec.Code != tc.code {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.code, rec.Code)
		}
		if _, ok := payload["error"].(string); !ok || len(payload) != 1 {
			t.Fatalf("%s %s: expected only an error key, got %v", tc.method, tc.path, payload)
		}
	}
}

func TestHTTPErrorHandlerPlainError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	HTTPErrorHandler(errors.New("boom"), c)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Internal Server Error"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
