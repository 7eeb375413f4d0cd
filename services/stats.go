package services

import (
	"sort"
	"strings"

	"rijkslens/models"
)

// RankedCount ist ein Eintrag einer Top-N-Liste.
type RankedCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Stats ist die aggregierte Sicht auf das lokale Analytics-Log.
type Stats struct {
	TotalEvents     int            `json:"total_events"`
	EventsByType    map[string]int `json:"events_by_type"`
	TopQueries      []RankedCount  `json:"top_queries"`
	TopObjects      []RankedCount  `json:"top_objects"`
	ExportsByFormat map[string]int `json:"exports_by_format"`
}

// topN sortiert eine Zählung absteigend (Gleichstand: alphabetisch) und
// schneidet auf n Einträge.
func topN(counts map[string]int, n int) []RankedCount {
	ranked := make([]RankedCount, 0, len(counts))
	for key, count := range counts {
		ranked = append(ranked, RankedCount{Key: key, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Key < ranked[j].Key
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func propString(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	s, _ := props[key].(string)
	return strings.TrimSpace(s)
}

// AggregateStats verdichtet das Ereignis-Log zu den Dashboard-Zahlen.
func AggregateStats(events []models.Event) Stats {
	stats := Stats{
		EventsByType:    map[string]int{},
		ExportsByFormat: map[string]int{},
	}
	queries := map[string]int{}
	objects := map[string]int{}

	for _, e := range events {
		stats.TotalEvents++
		stats.EventsByType[e.Event]++

		switch e.Event {
		case "search":
			if q := strings.ToLower(propString(e.Props, "query")); q != "" {
				queries[q]++
			}
		case "view_artwork":
			if code := propString(e.Props, "object_number"); code != "" {
				objects[code]++
			}
		case "export":
			if format := strings.ToLower(propString(e.Props, "format")); format != "" {
				stats.ExportsByFormat[format]++
			}
		}
	}

	stats.TopQueries = topN(queries, 10)
	stats.TopObjects = topN(objects, 10)
	return stats
}
