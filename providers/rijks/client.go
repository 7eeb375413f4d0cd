package rijks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"rijkslens/config"
)

// ErrUpstreamUnavailable zeigt an, dass die Data Services über kein einziges
// Suchfeld erreichbar waren.
var ErrUpstreamUnavailable = errors.New("rijks data services unavailable")

// apiTransport setzt den API-User-Agent auf jede Anfrage.
type apiTransport struct {
	Transport http.RoundTripper
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "RijksLens/1.0")
	return t.Transport.RoundTrip(req)
}

// browserTransport gibt sich als Desktop-Browser aus; nur für das Scrapen
// öffentlicher Objektseiten (der HTML-Fallback).
type browserTransport struct {
	Transport http.RoundTripper
}

func (t *browserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	return t.Transport.RoundTrip(req)
}

// Client kapselt die drei Upstream-Fähigkeiten: Discovery (Search API),
// Record-Resolve (Linked Data Resolver) und plain GET für öffentliche Seiten.
type Client struct {
	Config *config.Config
	Logger *zap.Logger

	searchClient *http.Client
	detailClient *http.Client
	pageClient   *http.Client
}

// NewClient erstellt einen konfigurierten Rijksmuseum-Client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		Config: cfg,
		Logger: logger,
		searchClient: &http.Client{
			Timeout:   cfg.SearchTimeout(),
			Transport: &apiTransport{Transport: http.DefaultTransport},
		},
		detailClient: &http.Client{
			Timeout:   cfg.DetailTimeout(),
			Transport: &apiTransport{Transport: http.DefaultTransport},
		},
		pageClient: &http.Client{
			Timeout:   cfg.ScrapeTimeout(),
			Transport: &browserTransport{Transport: http.DefaultTransport},
		},
	}
}

// searchResponse ist die Antwort der Search API (ActivityStreams-Collection).
type searchResponse struct {
	OrderedItems []searchItem `json:"orderedItems"`
	Items        []searchItem `json:"items"`
}

type searchItem struct {
	ID string `json:"id"`
}

// SearchIDs fragt die Search API über ein einzelnes Feld ab und gibt die
// PID-URLs in Dokumentreihenfolge zurück (maximal limit Stück).
//
// Der Endpunkt akzeptiert keine Paginierungsparameter; limitiert wird lokal.
func (c *Client) SearchIDs(ctx context.Context, field, query string, limit int) ([]string, error) {
	searchURL := fmt.Sprintf("%s?%s=%s", c.Config.SearchBaseURL, url.QueryEscape(field), url.QueryEscape(query))
	log := c.Logger.With(zap.String("field", field), zap.String("query", query))
	log.Debug("Rufe Search API auf", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.searchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn("Search API hat nicht-200-Status zurückgegeben",
			zap.Int("status", resp.StatusCode), zap.String("body", string(body)))
		return nil, fmt.Errorf("search via %s failed: status %d", field, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("search via %s: decoding response: %w", field, err)
	}

	items := sr.OrderedItems
	if len(items) == 0 {
		items = sr.Items
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			continue
		}
		ids = append(ids, it.ID)
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	log.Debug("Search API abgeschlossen", zap.Int("ids", len(ids)))
	return ids, nil
}

// Representations generiert die Content-Negotiation-URLs für eine PID.
func Representations(pidURL string) (schemaJSON, linkedArtJSONLD string) {
	base := strings.SplitN(pidURL, "?", 2)[0]
	return base + "?_profile=schema&_mediatype=application/json",
		base + "?_profile=la&_mediatype=application/ld+json"
}

// FetchRecord dereferenziert eine PID über den Linked Data Resolver und gibt
// das rohe Linked-Art-JSON als generischen Baum zurück (UseNumber, damit
// Zahlen nicht in float64 verfälscht werden).
func (c *Client) FetchRecord(ctx context.Context, pidURL string) (map[string]any, error) {
	_, laURL := Representations(pidURL)
	c.Logger.Debug("Dereferenziere PID", zap.String("url", laURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, laURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.detailClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("resolver error for %s (%d): %s", laURL, resp.StatusCode, string(body))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("resolver returned non-JSON response for %s: %w", laURL, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("resolver returned non-object JSON for %s", laURL)
	}
	return obj, nil
}

// ResolveObjectNumber löst einen Inventarcode (z.B. SK-C-5) über die
// Suchfelder in eine PID auf. Felder, die der Endpunkt nicht kennt, werden
// übersprungen ("Unsupported query parameter").
func (c *Client) ResolveObjectNumber(ctx context.Context, objectNumber string) (string, error) {
	for _, field := range []string{"identifier", "objectNumber", "inventoryNumber", "description", "title"} {
		searchURL := fmt.Sprintf("%s?%s=%s", c.Config.SearchBaseURL, field, url.QueryEscape(objectNumber))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return "", err
		}
		resp, err := c.searchClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if strings.Contains(string(body), "Unsupported query parameter") {
				continue
			}
			return "", fmt.Errorf("search via %s failed: status %d", field, resp.StatusCode)
		}

		var sr searchResponse
		if err := json.Unmarshal(body, &sr); err != nil {
			continue
		}
		items := sr.OrderedItems
		if len(items) == 0 {
			items = sr.Items
		}
		if len(items) > 0 && strings.TrimSpace(items[0].ID) != "" {
			return items[0].ID, nil
		}
	}
	return "", fmt.Errorf("could not resolve object number %q to a PID", objectNumber)
}

// FetchPage holt eine öffentliche Objektseite als Text (für den
// HTML-Fallback). Netzwerkfehler werden zurückgegeben, nie gepanict;
// der Aufrufer degradiert auf Defaults.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.pageClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// 404-Seiten liefern trotzdem nutzbaren Text für die
	// Unavailability-Klassifikation, daher kein Status-Abbruch.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusNotFound && len(body) == 0 {
		return "", fmt.Errorf("page not found: %s", pageURL)
	}
	return string(body), nil
}

// ProbeClient liefert einen kurzen HTTP-Client für Bild-Probes.
func (c *Client) ProbeClient() *http.Client {
	return &http.Client{
		Timeout:   c.Config.ProbeTimeout(),
		Transport: &browserTransport{Transport: http.DefaultTransport},
	}
}
