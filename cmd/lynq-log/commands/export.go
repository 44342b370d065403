package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/lynq-instruments/lynq-go/pkg/log"
)

// exportRecord is the JSON shape of one exported event. Timestamps are
// RFC3339 and the op is its name, not the wire integer.
type exportRecord struct {
	Timestamp  string `json:"timestamp"`
	Op         string `json:"op"`
	Path       string `json:"path"`
	Kind       string `json:"kind,omitempty"`
	Value      string `json:"value,omitempty"`
	Count      int    `json:"count,omitempty"`
	DurationUS int64  `json:"duration_us,omitempty"`
	Buffered   bool   `json:"buffered,omitempty"`
	Error      string `json:"error,omitempty"`
}

func toRecord(event log.Event) exportRecord {
	return exportRecord{
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339Nano),
		Op:         event.Op.String(),
		Path:       event.Path,
		Kind:       event.Kind,
		Value:      event.Value,
		Count:      event.Count,
		DurationUS: event.Duration.Microseconds(),
		Buffered:   event.Buffered,
		Error:      event.Error,
	}
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "op", "path", "kind", "value", "count", "duration_us", "buffered", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.Op.String(),
			event.Path,
			event.Kind,
			event.Value,
			strconv.Itoa(event.Count),
			strconv.FormatInt(event.Duration.Microseconds(), 10),
			strconv.FormatBool(event.Buffered),
			event.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
