package services

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"rijkslens/models"
)

// probeEntry ist ein Cache-Eintrag mit Ablaufzeit.
type probeEntry struct {
	result  models.ProbeResult
	expires time.Time
}

// ImageProber prüft, ob eine Bild-URL tatsächlich ein Bild liefert.
// Ergebnisse werden pro URL mit TTL gecacht, damit wiederholte Suchen
// dieselbe URL nicht erneut anfassen.
type ImageProber struct {
	client *http.Client
	logger *zap.Logger
	ttl    time.Duration

	mu    sync.RWMutex
	cache map[string]probeEntry
}

// NewImageProber erstellt einen Prober mit eigenem Cache.
func NewImageProber(client *http.Client, logger *zap.Logger, ttl time.Duration) *ImageProber {
	return &ImageProber{
		client: client,
		logger: logger,
		ttl:    ttl,
		cache:  make(map[string]probeEntry),
	}
}

// Probe prüft die URL, zuerst per HEAD, bei 405 oder fehlendem Content-Type
// noch einmal per GET. Transportfehler zählen als broken mit HTTP-Status 0.
func (p *ImageProber) Probe(ctx context.Context, url string) models.ProbeResult {
	if url == "" {
		return models.ProbeResult{Status: models.ProbeBroken}
	}

	p.mu.RLock()
	entry, ok := p.cache[url]
	p.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.result
	}

	result := p.probe(ctx, url)

	p.mu.Lock()
	p.cache[url] = probeEntry{result: result, expires: time.Now().Add(p.ttl)}
	p.mu.Unlock()

	return result
}

func (p *ImageProber) probe(ctx context.Context, url string) models.ProbeResult {
	status, contentType, err := p.request(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusMethodNotAllowed || contentType == "") {
		// Manche Bildserver beantworten HEAD nicht sauber.
		status, contentType, err = p.request(ctx, http.MethodGet, url)
	}
	if err != nil {
		p.logger.Debug("Bild-Probe fehlgeschlagen", zap.String("url", url), zap.Error(err))
		return models.ProbeResult{Status: models.ProbeBroken}
	}

	result := models.ProbeResult{HTTPStatus: status, ContentType: contentType}
	switch {
	case status == http.StatusOK && strings.HasPrefix(contentType, "image/"):
		result.Reachable = true
		result.Status = models.ProbeOK
	case status == http.StatusForbidden || status == http.StatusUnavailableForLegalReasons:
		result.Status = models.ProbeCopyright
	default:
		result.Status = models.ProbeBroken
	}
	return result
}

func (p *ImageProber) request(ctx context.Context, method, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	return resp.StatusCode, strings.TrimSpace(strings.SplitN(resp.Header.Get("Content-Type"), ";", 2)[0]), nil
}

// Sweep entfernt abgelaufene Cache-Einträge; läuft periodisch per Cron.
func (p *ImageProber) Sweep() int {
	now := time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := 0
	for url, entry := range p.cache {
		if now.After(entry.expires) {
			delete(p.cache, url)
			removed++
		}
	}
	return removed
}

// CacheSize gibt die aktuelle Anzahl gecachter Probe-Ergebnisse zurück.
func (p *ImageProber) CacheSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cache)
}
