package npm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// ViaKind tells which variant an AuditVia holds.
type ViaKind int

const (
	// ViaReference names another vulnerable package the advisory comes through.
	ViaReference ViaKind = iota + 1
	// ViaAdvisory carries the advisory itself.
	ViaAdvisory
)

// AuditAdvisory is the detailed form of a `via` entry.
type AuditAdvisory struct {
	Source     int    `json:"source"`
	Name       string `json:"name"`
	Dependency string `json:"dependency"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Severity   string `json:"severity"`
	Range      string `json:"range"`
}

// AuditVia is one `via` entry: either a package name or an advisory object.
type AuditVia struct {
	Kind      ViaKind
	Reference string
	Advisory  *AuditAdvisory
}

// UnmarshalJSON decodes the variant from the kind of the first JSON token.
func (v *AuditVia) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty via entry")
	}
	switch trimmed[0] {
	case '"':
		var reference string
		if err := json.Unmarshal(trimmed, &reference); err != nil {
			return err
		}
		*v = AuditVia{Kind: ViaReference, Reference: reference}
	case '{':
		var advisory AuditAdvisory
		if err := json.Unmarshal(trimmed, &advisory); err != nil {
			return err
		}
		*v = AuditVia{Kind: ViaAdvisory, Advisory: &advisory}
	default:
		return fmt.Errorf("unsupported via entry %s", trimmed)
	}
	return nil
}

// MarshalJSON writes the variant back in its wire form.
func (v AuditVia) MarshalJSON() ([]byte, error) {
	if v.Kind == ViaAdvisory && v.Advisory != nil {
		return json.Marshal(v.Advisory)
	}
	return json.Marshal(v.Reference)
}

// AuditEntry is the report for one vulnerable package.
type AuditEntry struct {
	Name     string     `json:"name"`
	Severity string     `json:"severity"`
	IsDirect bool       `json:"isDirect"`
	Via      []AuditVia `json:"via"`
	Range    string     `json:"range"`
}

// AuditReport is the output of `npm audit --json`.
type AuditReport struct {
	AuditReportVersion int                   `json:"auditReportVersion"`
	Vulnerabilities    map[string]AuditEntry `json:"vulnerabilities"`
}

// ParseAuditReport decodes an `npm audit --json` document.
func ParseAuditReport(data []byte) (*AuditReport, error) {
	var report AuditReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse npm audit report: %w", err)
	}
	return &report, nil
}

// VulnerabilitiesOf converts the report entry of name into vulnerabilities.
func (r *AuditReport) VulnerabilitiesOf(name string) []entities.Vulnerability {
	entry, ok := r.Vulnerabilities[name]
	if !ok {
		return nil
	}
	result := make([]entities.Vulnerability, 0, len(entry.Via))
	for _, via := range entry.Via {
		switch via.Kind {
		case ViaAdvisory:
			result = append(result, entities.Vulnerability{
				AdvisoryURL:      via.Advisory.URL,
				Severity:         via.Advisory.Severity,
				Title:            via.Advisory.Title,
				CVE:              advisoryID(via.Advisory.URL),
				AffectedVersions: via.Advisory.Range,
			})
		case ViaReference:
			result = append(result, entities.Vulnerability{
				Severity:         entry.Severity,
				Title:            "via " + via.Reference,
				AffectedVersions: entry.Range,
			})
		}
	}
	return result
}

// advisoryID returns the last path element of an advisory URL (e.g. GHSA-xxxx).
func advisoryID(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
