package session

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Exporter renders a session transcript in a particular format.
type Exporter interface {
	Export(w io.Writer, s *Session) error
	// Extension is the conventional file extension, without the dot.
	Extension() string
}

// NewExporter returns the exporter for a format name. Supported formats are
// json, transcript (alias txt), csv, and yaml.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return jsonExporter{}, nil
	case "transcript", "txt":
		return transcriptExporter{}, nil
	case "csv":
		return csvExporter{}, nil
	case "yaml", "yml":
		return yamlExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use json, transcript, csv, or yaml)", format)
	}
}

type jsonExporter struct{}

func (jsonExporter) Extension() string { return "json" }

func (jsonExporter) Export(w io.Writer, s *Session) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return nil
}

type transcriptExporter struct{}

func (transcriptExporter) Extension() string { return "txt" }

func (transcriptExporter) Export(w io.Writer, s *Session) error {
	if _, err := fmt.Fprintf(w, "Session %s (started %s)\n\n",
		s.ID, s.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	for _, m := range s.Messages {
		if _, err := fmt.Fprintf(w, "[%s] %s: %s\n",
			m.Timestamp.Format("2006-01-02 15:04:05"), m.Role, m.Content); err != nil {
			return err
		}
		if m.SQL != "" && m.SQL != m.Content {
			if _, err := fmt.Fprintf(w, "    sql: %s\n", m.SQL); err != nil {
				return err
			}
		}
		if m.Results != nil {
			if _, err := fmt.Fprintf(w, "    rows: %d\n", m.Results.RowCount); err != nil {
				return err
			}
		}
	}
	return nil
}

type csvExporter struct{}

func (csvExporter) Extension() string { return "csv" }

func (csvExporter) Export(w io.Writer, s *Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "role", "content", "sql"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, m := range s.Messages {
		record := []string{m.Timestamp.Format(time.RFC3339), m.Role, m.Content, m.SQL}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type yamlExporter struct{}

func (yamlExporter) Extension() string { return "yaml" }

func (yamlExporter) Export(w io.Writer, s *Session) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return nil
}
