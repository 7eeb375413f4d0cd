package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Rijksmuseum Data Services
	SearchBaseURL     string `envconfig:"RIJKS_SEARCH_BASE_URL" default:"https://data.rijksmuseum.nl/search/collection"`
	CollectionBaseURL string `envconfig:"RIJKS_COLLECTION_BASE_URL" default:"https://www.rijksmuseum.nl/en/collection"`
	// Suchfelder in Prioritätsreihenfolge; ein späteres Feld wird nur
	// abgefragt, wenn die früheren zu wenige Kandidaten liefern.
	SearchFields string `envconfig:"RIJKS_SEARCH_FIELDS" default:"creator,title,description"`

	SearchTimeoutSec int `envconfig:"SEARCH_TIMEOUT_SEC" default:"20"`
	DetailTimeoutSec int `envconfig:"DETAIL_TIMEOUT_SEC" default:"20"`
	ScrapeTimeoutSec int `envconfig:"SCRAPE_TIMEOUT_SEC" default:"10"`
	ProbeTimeoutSec  int `envconfig:"PROBE_TIMEOUT_SEC" default:"10"`

	MaxResultsPerSearch int `envconfig:"MAX_RESULTS_PER_SEARCH" default:"100"`
	ResolveWorkers      int `envconfig:"RESOLVE_WORKERS" default:"8"`
	ImageTargetWidth    int `envconfig:"IMAGE_TARGET_WIDTH" default:"800"`

	ProbeCacheTTLHours int `envconfig:"PROBE_CACHE_TTL_HOURS" default:"24"`
	// Frische-Fenster des lokalen Record-Caches (sqlite)
	RecordCacheTTLHours int `envconfig:"RECORD_CACHE_TTL_HOURS" default:"168"`

	// Lokale Persistenz (Favoriten, Notizen, Analytics, sqlite-Cache)
	DataDir string `envconfig:"DATA_DIR" default:"./data"`
	DBPath  string `envconfig:"DB_PATH" default:"./data/collection.db"`

	// Optionale YAML-Datei mit zusätzlichen Heuristik-Tokens (Rollen,
	// unknown/anonymous-Namen); die eingebauten Defaults bleiben immer aktiv.
	HeuristicsFile string `envconfig:"HEURISTICS_FILE"`

	// Statistik-Endpunkt: leer = offen (Dev-Modus)
	StatsPassword string `envconfig:"STATS_PASSWORD"`
	DevMode       bool   `envconfig:"DEV_MODE" default:"false"`

	// Cron für Cache-Sweeps (Probe-Cache, abgelaufene Records)
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * *"`
}

// SearchTimeout gibt den Timeout für Discovery-Abfragen zurück.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSec) * time.Second
}

// DetailTimeout gibt den Timeout für Record-Resolves zurück.
func (c *Config) DetailTimeout() time.Duration {
	return time.Duration(c.DetailTimeoutSec) * time.Second
}

// ScrapeTimeout gibt den Timeout für HTML-Fallback-Fetches zurück.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.ScrapeTimeoutSec) * time.Second
}

// ProbeTimeout gibt den Timeout für Bild-Probes zurück.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSec) * time.Second
}

// ProbeCacheTTL gibt die Lebensdauer eines Probe-Cache-Eintrags zurück.
func (c *Config) ProbeCacheTTL() time.Duration {
	return time.Duration(c.ProbeCacheTTLHours) * time.Hour
}

// RecordCacheTTL gibt das Frische-Fenster des Record-Caches zurück.
func (c *Config) RecordCacheTTL() time.Duration {
	return time.Duration(c.RecordCacheTTLHours) * time.Hour
}

// Fields gibt die konfigurierten Suchfelder als Slice zurück.
func (c *Config) Fields() []string {
	var out []string
	for _, f := range strings.Split(c.SearchFields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
