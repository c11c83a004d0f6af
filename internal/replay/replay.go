// Package replay renders a normalized session bundle to a terminal for
// after-the-fact inspection: the correlated console and network streams up to
// a playback position, the current entry per stream, and the scrub markers.
package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/vincentbai/sessionlens/internal/classify"
	"github.com/vincentbai/sessionlens/internal/models"
	"github.com/vincentbai/sessionlens/internal/normalize"
	"github.com/vincentbai/sessionlens/internal/render"
	"github.com/vincentbai/sessionlens/internal/timeline"
)

// Replayer formats session bundles for terminal display.
type Replayer struct {
	output  io.Writer
	verbose bool
	styled  bool
}

// New creates a Replayer. When styled is true, spans render through the ANSI
// flattener; otherwise plain text.
func New(output io.Writer, verbose, styled bool) *Replayer {
	return &Replayer{
		output:  output,
		verbose: verbose,
		styled:  styled,
	}
}

// ReplayFile loads a raw bundle from a JSON file and replays it.
func (r *Replayer) ReplayFile(path string, atMs int64, filter classify.Category) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read bundle file: %w", err)
	}
	return r.ReplayRaw(data, atMs, filter)
}

// ReplayRaw normalizes a raw bundle payload and replays it.
func (r *Replayer) ReplayRaw(payload []byte, atMs int64, filter classify.Category) error {
	var raw normalize.RawBundle
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("failed to parse bundle: %w", err)
	}
	return r.Replay(normalize.Normalize(raw), atMs, filter)
}

// Replay prints the timeline at playback position atMs. atMs < 0 means "the
// end of the session": every event is eligible.
func (r *Replayer) Replay(bundle *models.Bundle, atMs int64, filter classify.Category) error {
	if atMs < 0 {
		atMs = endOfSession(bundle)
	}

	start := time.UnixMilli(bundle.Session.StartTimeEpochMs).UTC()
	fmt.Fprintf(r.output, "SESSION %s\n", bundle.Session.SourceURL)
	fmt.Fprintf(r.output, "  started: %s\n", start.Format(time.RFC3339))
	if bundle.Session.DurationMs > 0 {
		fmt.Fprintf(r.output, "  duration: %dms\n", bundle.Session.DurationMs)
	}
	fmt.Fprintf(r.output, "  playhead: %dms\n\n", atMs)

	console := timeline.QueryConsole(bundle.Console, atMs, "all")
	network := timeline.QueryNetwork(bundle.Network, atMs, filter)

	for _, row := range mergeRows(console, network) {
		r.printRow(row)
	}

	fmt.Fprintf(r.output, "\n%s\n", timeline.Summary(
		len(network.VisibleList), len(bundle.Network), filter, len(bundle.Sockets)))
	markers := timeline.Markers(bundle.Console, bundle.Network)
	errorMarkers := 0
	for _, m := range markers {
		if m.Color == models.MarkerColorError {
			errorMarkers++
		}
	}
	fmt.Fprintf(r.output, "%d markers (%d errors)\n", len(markers), errorMarkers)
	return nil
}

// row is one merged display line: exactly one of the two event fields is set.
type row struct {
	relativeMs int64
	nearest    bool
	console    *models.ConsoleEvent
	network    *models.NetworkEvent
}

func mergeRows(console timeline.Result[models.ConsoleEvent], network timeline.Result[models.NetworkEvent]) []row {
	rows := make([]row, 0, len(console.VisibleList)+len(network.VisibleList))
	for _, v := range console.VisibleList {
		e := v.Event
		rows = append(rows, row{
			relativeMs: e.RelativeMs,
			nearest:    v.Index == console.NearestIndex,
			console:    &e,
		})
	}
	for _, v := range network.VisibleList {
		e := v.Event
		rows = append(rows, row{
			relativeMs: e.RelativeMs,
			nearest:    v.Index == network.NearestIndex,
			network:    &e,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].relativeMs < rows[j].relativeMs })
	return rows
}

func (r *Replayer) printRow(entry row) {
	cursor := " "
	if entry.nearest {
		cursor = "▶"
	}
	switch {
	case entry.console != nil:
		e := entry.console
		fmt.Fprintf(r.output, "%s %8dms │ %-5s │ %s\n", cursor, entry.relativeMs, levelTag(*e), e.Message)
		for _, arg := range e.Args {
			fmt.Fprintf(r.output, "             │       │   %s\n", r.span(render.Value(arg)))
		}
		if r.verbose && len(e.CallStack) > 0 {
			r.printIndented(render.Chain(models.FrameChain{CallFrames: e.CallStack}))
		}
	case entry.network != nil:
		e := entry.network
		fmt.Fprintf(r.output, "%s %8dms │ %-5s │ %s\n", cursor, entry.relativeMs, classify.Classify(*e), r.span(render.NetworkEntry(*e)))
		if r.verbose {
			r.printIndented(render.NetworkDetail(*e))
		}
	}
}

func (r *Replayer) printIndented(s render.Span) {
	text := r.span(s)
	for _, line := range splitLines(text) {
		fmt.Fprintf(r.output, "             │       │   %s\n", line)
	}
}

func (r *Replayer) span(s render.Span) string {
	if r.styled {
		return render.ANSI(s)
	}
	return render.Flatten(s)
}

func levelTag(e models.ConsoleEvent) string {
	switch e.Source {
	case models.SourceException:
		return "throw"
	case models.SourceBrowser:
		return "chrome"
	}
	if e.Level == "" {
		return "log"
	}
	return e.Level
}

func endOfSession(bundle *models.Bundle) int64 {
	end := bundle.Session.DurationMs
	if n := len(bundle.Console); n > 0 && bundle.Console[n-1].RelativeMs > end {
		end = bundle.Console[n-1].RelativeMs
	}
	if n := len(bundle.Network); n > 0 && bundle.Network[n-1].RelativeMs > end {
		end = bundle.Network[n-1].RelativeMs
	}
	return end
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
