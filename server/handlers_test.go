package server

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/glossd/fetch"
	"github.com/glossd/slotlab/common"
	"github.com/google/go-cmp/cmp"
)

var fixedTime = time.Date(2024, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func fixedClock() time.Time {
	return fixedTime
}

func serve(t *testing.T, c common.Config, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewMux(c, fixedClock).ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	res, err := fetch.Unmarshal[T](rec.Body.String())
	if err != nil {
		t.Fatalf("unmarshal %q: %s", rec.Body.String(), err)
	}
	return res
}

func TestHealth(t *testing.T) {
	rec := serve(t, common.Config{Port: 3000, SlotName: "staging"}, http.MethodGet, "/health")
	assert(t, rec.Code, http.StatusOK)

	got := decode[HealthResponse](t, rec)
	want := HealthResponse{Status: "healthy", Timestamp: "2024-03-14T09:26:53.589Z", Slot: "staging"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("health mismatch (-want +got):\n%s", diff)
	}
}

func TestHealth_DefaultSlot(t *testing.T) {
	rec := serve(t, common.DefaultConfig(), http.MethodGet, "/health")
	assert(t, rec.Code, http.StatusOK)
	assert(t, decode[HealthResponse](t, rec).Slot, "unknown")
}

func TestInfo(t *testing.T) {
	type testCase struct {
		Name   string
		Config common.Config
		Want   InfoResponse
	}
	var cases = []testCase{
		{
			Name:   "staging with new ui",
			Config: common.Config{Port: 3000, SlotName: "staging", FeatureToggle: true},
			Want:   InfoResponse{Slot: "staging", FeatureToggle: true, Version: "v2", Timestamp: "2024-03-14T09:26:53.589Z"},
		},
		{
			Name:   "defaults",
			Config: common.DefaultConfig(),
			Want:   InfoResponse{Slot: "unknown", FeatureToggle: false, Version: "v1", Timestamp: "2024-03-14T09:26:53.589Z"},
		},
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			rec := serve(t, c.Config, http.MethodGet, "/api/info")
			assert(t, rec.Code, http.StatusOK)
			if diff := cmp.Diff(c.Want, decode[InfoResponse](t, rec)); diff != "" {
				t.Errorf("info mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInfo_ToggleIsBoolean(t *testing.T) {
	rec := serve(t, common.Config{SlotName: "staging", FeatureToggle: true}, http.MethodGet, "/api/info")
	raw := decode[map[string]any](t, rec)
	toggle, ok := raw["featureToggle"].(bool)
	if !ok {
		t.Fatalf("expected a json boolean, got %T", raw["featureToggle"])
	}
	assert(t, toggle, true)
}

func TestIndex(t *testing.T) {
	rec := serve(t, common.Config{SlotName: "staging", FeatureToggle: true}, http.MethodGet, "/")
	assert(t, rec.Code, http.StatusOK)
	assert(t, rec.Header().Get("Content-Type"), "text/html; charset=utf-8")

	body := rec.Body.String()
	for _, s := range []string{"linear-gradient(135deg, #4CAF50 0%", "STAGING", "Version: v2", "NY UI AKTIVERT!", "2024-03-14T09:26:53.589Z"} {
		if !strings.Contains(body, s) {
			t.Errorf("page should contain %q", s)
		}
	}
	if strings.Contains(body, "#2196F3") {
		t.Errorf("page shouldn't contain the v1 colour")
	}
}

func TestIndex_Standard(t *testing.T) {
	rec := serve(t, common.DefaultConfig(), http.MethodGet, "/")
	assert(t, rec.Code, http.StatusOK)

	body := rec.Body.String()
	for _, s := range []string{"linear-gradient(135deg, #2196F3 0%", "UNKNOWN", "Version: v1", "Standard UI"} {
		if !strings.Contains(body, s) {
			t.Errorf("page should contain %q", s)
		}
	}
	if strings.Contains(body, "#4CAF50") || strings.Contains(body, "AKTIVERT") {
		t.Errorf("page shouldn't contain the v2 variant")
	}
}

func TestIndex_EscapesSlot(t *testing.T) {
	rec := serve(t, common.Config{SlotName: "<b>x</b>"}, http.MethodGet, "/")
	body := rec.Body.String()
	if strings.Contains(body, "<B>X</B>") {
		t.Fatal("slot name should be escaped")
	}
	if !strings.Contains(body, "&lt;B&gt;X&lt;/B&gt;") {
		t.Fatal("escaped slot name missing")
	}
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestIndex_LogsWriteError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	w := brokenWriter{httptest.NewRecorder()}
	NewMux(common.DefaultConfig(), fixedClock).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(buf.String(), "failed to write index page connection reset") {
		t.Fatalf("expected write error in the log, got %q", buf.String())
	}
}

func TestSetHandlerConfig(t *testing.T) {
	setHandlerConfig()
	rec := serve(t, common.DefaultConfig(), http.MethodGet, "/health")
	assert(t, rec.Code, http.StatusOK)
	assert(t, decode[HealthResponse](t, rec).Status, StatusHealthy)
}

func TestDefaultRouting(t *testing.T) {
	c := common.DefaultConfig()
	assert(t, serve(t, c, http.MethodGet, "/nope").Code, http.StatusNotFound)
	assert(t, serve(t, c, http.MethodGet, "/api/info/extra").Code, http.StatusNotFound)
	assert(t, serve(t, c, http.MethodPost, "/health").Code, http.StatusMethodNotAllowed)
	assert(t, serve(t, c, http.MethodDelete, "/api/info").Code, http.StatusMethodNotAllowed)
	assert(t, serve(t, c, http.MethodPut, "/").Code, http.StatusMethodNotAllowed)
}

func TestTimestampWithinWindow(t *testing.T) {
	before := time.Now()
	rec := httptest.NewRecorder()
	NewMux(common.DefaultConfig(), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	after := time.Now()

	ts, err := time.Parse(time.RFC3339, decode[HealthResponse](t, rec).Timestamp)
	assert(t, err, nil)
	if ts.Before(before.Truncate(time.Millisecond)) || ts.After(after) {
		t.Fatalf("timestamp %s outside of [%s, %s]", ts, before, after)
	}
}

func assert[T comparable](t *testing.T, got, want T) {
	t.Helper()

	if got != want {
		t.Fatalf("got %v, wanted %v", got, want)
	}
}
