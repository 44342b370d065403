// Package commands implements the lynq-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lynq-instruments/lynq-go/pkg/log"
)

// ParseOpFlag parses an operation name from a command-line flag
// (case-insensitive).
func ParseOpFlag(s string) (log.Op, error) {
	ops := []log.Op{
		log.OpRead, log.OpReadDeep, log.OpWrite, log.OpWriteDeep,
		log.OpWriteVector, log.OpCommit, log.OpWait,
		log.OpSubscribe, log.OpUnsubscribe, log.OpListChildren,
	}
	want := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		if op.String() == want {
			return op, nil
		}
		names = append(names, strings.ToLower(op.String()))
	}
	return 0, fmt.Errorf("invalid op: %s (must be one of %s)", s, strings.Join(names, ", "))
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s %-13s %s\n", ts, event.Op.String(), event.Path)

	if event.Kind != "" {
		fmt.Fprintf(w, "  Kind: %s\n", event.Kind)
	}
	if event.Value != "" {
		fmt.Fprintf(w, "  Value: %s\n", event.Value)
	}
	if event.Count > 0 {
		fmt.Fprintf(w, "  Count: %d\n", event.Count)
	}
	if event.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(event.Duration))
	}
	if event.Buffered {
		fmt.Fprintln(w, "  Buffered: true")
	}
	if event.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", event.Error)
	}

	fmt.Fprintln(w)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}
