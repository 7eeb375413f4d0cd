package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"rijkslens/models"
)

func newTestProber(ttl time.Duration) *ImageProber {
	return NewImageProber(&http.Client{Timeout: 2 * time.Second}, zap.NewNop(), ttl)
}

func TestProbeOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := newTestProber(time.Hour).Probe(context.Background(), srv.URL)
	if !result.Reachable || result.Status != models.ProbeOK {
		t.Errorf("result = %+v, want reachable ok", result)
	}
	if result.HTTPStatus != http.StatusOK || result.ContentType != "image/jpeg" {
		t.Errorf("result = %+v", result)
	}
}

func TestProbeCopyright(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusUnavailableForLegalReasons} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "blocked", status)
		}))
		result := newTestProber(time.Hour).Probe(context.Background(), srv.URL)
		srv.Close()

		if result.Reachable || result.Status != models.ProbeCopyright {
			t.Errorf("status %d: result = %+v, want copyright", status, result)
		}
	}
}

func TestProbeBrokenOn404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	result := newTestProber(time.Hour).Probe(context.Background(), srv.URL)
	if result.Status != models.ProbeBroken || result.HTTPStatus != http.StatusNotFound {
		t.Errorf("result = %+v, want broken/404", result)
	}
}

func TestProbeNonImageContentTypeIsBroken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := newTestProber(time.Hour).Probe(context.Background(), srv.URL)
	if result.Status != models.ProbeBroken {
		t.Errorf("result = %+v, want broken for html", result)
	}
}

func TestProbeHeadRejectedRetriesWithGet(t *testing.T) {
	var sawGet atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet.Store(true)
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := newTestProber(time.Hour).Probe(context.Background(), srv.URL)
	if !sawGet.Load() {
		t.Error("405 on HEAD must trigger a GET retry")
	}
	if result.Status != models.ProbeOK {
		t.Errorf("result = %+v, want ok after GET retry", result)
	}
}

func TestProbeTransportErrorIsBrokenStatusZero(t *testing.T) {
	// Adresse ohne Listener: der Transportfehler wird als broken mit
	// HTTP-Status 0 klassifiziert.
	result := newTestProber(time.Hour).Probe(context.Background(), "http://127.0.0.1:1/image.jpg")
	if result.Status != models.ProbeBroken || result.HTTPStatus != 0 || result.Reachable {
		t.Errorf("result = %+v, want broken with status 0", result)
	}
}

func TestProbeCachesResults(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestProber(time.Hour)
	p.Probe(context.Background(), srv.URL)
	p.Probe(context.Background(), srv.URL)

	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1 (second probe from cache)", hits.Load())
	}
	if p.CacheSize() != 1 {
		t.Errorf("CacheSize = %d, want 1", p.CacheSize())
	}
}

func TestProbeSweepRemovesExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
	}))
	defer srv.Close()

	p := newTestProber(-time.Second) // sofort abgelaufen
	p.Probe(context.Background(), srv.URL)

	if removed := p.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d entries, want 1", removed)
	}
	if p.CacheSize() != 0 {
		t.Errorf("CacheSize = %d, want 0 after sweep", p.CacheSize())
	}
}
