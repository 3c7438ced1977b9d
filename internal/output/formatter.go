// Package output renders bench progress and summaries to the console.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/wesleyorama2/rollstat/internal/bench"
)

// Reporter writes bench progress and the final summary.
type Reporter struct {
	writer io.Writer
	scheme *ColorScheme
	quiet  bool
}

// ReporterConfig configures a Reporter.
type ReporterConfig struct {
	Writer     io.Writer
	NoColor    bool
	ForceColor bool
	Quiet      bool
}

// NewReporter builds a reporter. Colors are enabled when the writer is a
// terminal, unless forced on or off.
func NewReporter(cfg ReporterConfig) *Reporter {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	useColors := cfg.ForceColor
	if !useColors && !cfg.NoColor && os.Getenv("NO_COLOR") == "" {
		useColors = isTerminal(cfg.Writer)
	}

	scheme := DefaultColorScheme()
	if !useColors {
		scheme = NoColorScheme()
	}

	return &Reporter{
		writer: cfg.Writer,
		scheme: scheme,
		quiet:  cfg.Quiet,
	}
}

// PrintHeader announces the run before writers start.
func (r *Reporter) PrintHeader(name string, writers int, duration, window time.Duration, chunks int) {
	if r.quiet {
		return
	}

	line := strings.Repeat("━", 56)
	fmt.Fprintln(r.writer, r.scheme.Title.Sprint(line))
	fmt.Fprintln(r.writer, r.scheme.Title.Sprint(name))
	fmt.Fprintln(r.writer, r.scheme.Title.Sprint(line))
	fmt.Fprintf(r.writer, "%s %d writers for %s, window %s over %d chunks\n\n",
		r.scheme.Label.Sprint("Run:"),
		writers, formatDuration(duration), formatDuration(window), chunks)
}

// PrintPoint writes a one-line progress update for a snapshot.
func (r *Reporter) PrintPoint(p bench.Point) {
	if r.quiet {
		return
	}

	fmt.Fprintf(r.writer, "[%8s] count: %s | p50: %s | p99: %s | max: %s | hit ratio: %s\n",
		formatDuration(p.Elapsed),
		r.scheme.Value.Sprint(formatNumber(p.Latency.Count)),
		r.scheme.Value.Sprint(formatDurationShort(p.Latency.P50)),
		r.scheme.Value.Sprint(formatDurationShort(p.Latency.P99)),
		r.scheme.Value.Sprint(formatDurationShort(p.Latency.Max)),
		r.ratioString(p.HitRatio))
}

// PrintSummary writes the final report.
func (r *Reporter) PrintSummary(result *bench.Result) {
	if r.quiet {
		fmt.Fprintf(r.writer, "%d records, %.0f/s, hit ratio %s\n",
			result.TotalRecords, result.RecordsPerSec, r.ratioString(result.HitRatio))
		return
	}

	line := strings.Repeat("━", 56)
	fmt.Fprintln(r.writer, "")
	fmt.Fprintln(r.writer, r.scheme.Title.Sprint(line))
	fmt.Fprintf(r.writer, "%s %s %s\n",
		r.scheme.Title.Sprint(result.Name),
		r.scheme.Dim.Sprint("-"),
		r.scheme.Good.Sprint("Completed ✓"))
	fmt.Fprintln(r.writer, r.scheme.Title.Sprint(line))
	fmt.Fprintln(r.writer, "")

	fmt.Fprintf(r.writer, "%s       %s\n", r.scheme.Label.Sprint("Elapsed:"), formatDuration(result.Elapsed))
	fmt.Fprintf(r.writer, "%s       %s\n", r.scheme.Label.Sprint("Records:"), formatNumber(result.TotalRecords))
	fmt.Fprintf(r.writer, "%s    %s/s\n", r.scheme.Label.Sprint("Throughput:"), formatNumber(int64(result.RecordsPerSec)))
	fmt.Fprintf(r.writer, "%s     %s\n", r.scheme.Label.Sprint("Hit Ratio:"), r.ratioString(result.HitRatio))
	fmt.Fprintln(r.writer, "")

	fmt.Fprintln(r.writer, r.scheme.Label.Sprint("Rolling Window Latency:"))
	fmt.Fprintf(r.writer, "  Count:     %s\n", formatNumber(result.Latency.Count))
	fmt.Fprintf(r.writer, "  Min:       %s\n", formatDurationShort(result.Latency.Min))
	fmt.Fprintf(r.writer, "  Mean:      %s\n", formatDurationShort(result.Latency.Mean))
	fmt.Fprintf(r.writer, "  P50:       %s\n", formatDurationShort(result.Latency.P50))
	fmt.Fprintf(r.writer, "  P90:       %s\n", formatDurationShort(result.Latency.P90))
	fmt.Fprintf(r.writer, "  P95:       %s\n", formatDurationShort(result.Latency.P95))
	fmt.Fprintf(r.writer, "  P99:       %s\n", formatDurationShort(result.Latency.P99))
	fmt.Fprintf(r.writer, "  Max:       %s\n", formatDurationShort(result.Latency.Max))
}

// ratioString renders a hit ratio with health coloring. A NaN ratio
// means no requests were counted yet.
func (r *Reporter) ratioString(ratio float64) string {
	if ratio != ratio { // NaN
		return r.scheme.Dim.Sprint("n/a")
	}
	text := fmt.Sprintf("%.1f%%", ratio*100)
	switch {
	case ratio >= 0.9:
		return r.scheme.Good.Sprint(text)
	case ratio >= 0.5:
		return r.scheme.Warn.Sprint(text)
	default:
		return r.scheme.Bad.Sprint(text)
	}
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return checkIsTerminal(f)
	}
	return false
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatDurationShort formats a duration in a short format.
func formatDurationShort(d time.Duration) string {
	if d < time.Microsecond {
		return "0ms"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
