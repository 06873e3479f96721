package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsEnabled(t *testing.T) {
	m := New(true)

	m.RecordAuthRequest()
	m.RecordAuthFailure(ReasonRevoked)
	m.RecordAuthFailure(ReasonRevoked)
	m.RecordRequest("GET", "/characters", "200", 0.001)
	m.TrackRevokedTokens(func() int { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"authgate_auth_requests_total 1",
		`authgate_auth_failures_total{reason="revoked"} 2`,
		`authgate_http_requests_total{method="GET",route="/characters",status="200"} 1`,
		"authgate_revoked_tokens 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := New(false)

	// No-op instance must not panic.
	m.RecordAuthRequest()
	m.RecordAuthFailure(ReasonInvalidToken)
	m.RecordRequest("POST", "/auth/login", "401", 0.002)
	m.TrackRevokedTokens(func() int { return 0 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("disabled handler status = %d, want 404", rec.Code)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	m.RecordAuthRequest()
	m.RecordAuthFailure(ReasonMissingToken)
	m.RecordRequest("GET", "/healthz", "200", 0)
	m.TrackRevokedTokens(func() int { return 0 })

	if m.Handler() == nil {
		t.Error("nil metrics Handler returned nil")
	}
}

func TestSeparateRegistries(t *testing.T) {
	a := New(true)
	b := New(true)

	a.RecordAuthRequest()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if strings.Contains(rec.Body.String(), "authgate_auth_requests_total 1") {
		t.Error("counter leaked across registries")
	}
}
