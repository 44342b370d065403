package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/lynq-instruments/lynq-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents  int
	EventsByOp   map[log.Op]int
	TimeByOp     map[log.Op]time.Duration
	EventsByPath map[string]int
	Buffered     int
	Errors       int
	TimeRange    struct {
		Start time.Time
		End   time.Time
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByOp:   make(map[log.Op]int),
		TimeByOp:     make(map[log.Op]time.Duration),
		EventsByPath: make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByOp[event.Op]++
		stats.TimeByOp[event.Op] += event.Duration
		stats.EventsByPath[event.Path]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Buffered {
			stats.Buffered++
		}
		if event.Error != "" {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Operation Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Operation:")
	ops := []log.Op{
		log.OpRead, log.OpReadDeep, log.OpWrite, log.OpWriteDeep,
		log.OpWriteVector, log.OpCommit, log.OpWait,
		log.OpSubscribe, log.OpUnsubscribe, log.OpListChildren,
	}
	for _, op := range ops {
		if count := stats.EventsByOp[op]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d (total %s)\n", op.String()+":", count,
				stats.TimeByOp[op].Round(time.Microsecond))
		}
	}
	fmt.Fprintln(w)

	// Busiest paths first.
	type pathCount struct {
		path  string
		count int
	}
	paths := make([]pathCount, 0, len(stats.EventsByPath))
	for p, c := range stats.EventsByPath {
		paths = append(paths, pathCount{p, c})
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].count != paths[j].count {
			return paths[i].count > paths[j].count
		}
		return paths[i].path < paths[j].path
	})
	if len(paths) > 10 {
		paths = paths[:10]
	}
	fmt.Fprintln(w, "Top Paths:")
	for _, pc := range paths {
		fmt.Fprintf(w, "  %-40s %d\n", pc.path, pc.count)
	}

	if stats.Buffered > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Buffered Writes: %d\n", stats.Buffered)
	}
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
