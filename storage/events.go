package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rijkslens/models"
)

// EventLog ist der lokale Analytics-Sink: ein JSONL-Append-Log unter
// data/analytics/events.jsonl. Schreibfehler werden geloggt, aber nie an
// den Request zurückgegeben; Analytics darf keine Funktion blockieren.
type EventLog struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewEventLog legt das Analytics-Verzeichnis an und gibt das Log zurück.
func NewEventLog(dataDir string, logger *zap.Logger) (*EventLog, error) {
	dir := filepath.Join(dataDir, "analytics")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating analytics dir: %w", err)
	}
	return &EventLog{
		path:   filepath.Join(dir, "events.jsonl"),
		logger: logger,
	}, nil
}

// Append hängt ein Ereignis an das Log an. ID und Zeitstempel werden hier
// vergeben, damit Clients nichts fälschen können.
func (l *EventLog) Append(event, page string, props map[string]any) models.Event {
	e := models.Event{
		ID:    uuid.NewString(),
		TS:    time.Now().UTC().Format(time.RFC3339),
		Event: event,
		Page:  page,
		Props: props,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("Analytics-Log nicht beschreibbar", zap.Error(err))
		return e
	}
	defer f.Close()

	line, err := json.Marshal(e)
	if err != nil {
		l.logger.Warn("Analytics-Event nicht serialisierbar", zap.Error(err))
		return e
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		l.logger.Warn("Analytics-Event nicht geschrieben", zap.Error(err))
	}
	return e
}

// ReadAll liest alle Ereignisse für die Statistik-Aggregation. Kaputte
// Zeilen werden übersprungen.
func (l *EventLog) ReadAll() ([]models.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Event{}, nil
		}
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	var events []models.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var e models.Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("reading event log: %w", err)
	}
	return events, nil
}
