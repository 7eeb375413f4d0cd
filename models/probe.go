package models

// ProbeStatus klassifiziert das Ergebnis eines Bild-Erreichbarkeits-Checks.
type ProbeStatus string

const (
	ProbeOK        ProbeStatus = "ok"
	ProbeCopyright ProbeStatus = "copyright"
	ProbeBroken    ProbeStatus = "broken"
)

// ProbeResult ist das Ergebnis von probe_image für eine Bild-URL.
type ProbeResult struct {
	Reachable   bool        `json:"reachable"`
	Status      ProbeStatus `json:"status"`
	HTTPStatus  int         `json:"http_status"`
	ContentType string      `json:"content_type,omitempty"`
}
