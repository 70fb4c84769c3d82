package detect

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"FlowScope/internal/engine/report"
	"FlowScope/internal/store"
)

var printer = message.NewPrinter(language.English)

// internalPrefix excludes the most common private destination range from the
// exfiltration scan. Deliberately naive: callers who need the full RFC1918
// coverage can narrow with the active filter instead.
const internalPrefix = "10."

// ExfilParams configures the exfiltration detector.
type ExfilParams struct {
	Host        string // required: the flow source under suspicion
	Window      int    // seconds
	ThresholdMB int64
}

// Exfil scans the host's outbound volume to external destinations with a
// sliding window and returns the verdict line for the first timestamp at
// which the windowed byte sum reaches the threshold. ok is false when the
// threshold is never reached.
func Exfil(snap store.Snapshot, p ExfilParams) (verdict string, ok bool) {
	type point struct {
		ts    float64
		bytes int64
	}
	var points []point
	for _, f := range snap.Records {
		if !snap.Filter.Match(f) {
			continue
		}
		if f.Src != p.Host || strings.HasPrefix(f.Dst, internalPrefix) {
			continue
		}
		points = append(points, point{ts: f.Timestamp, bytes: f.Bytes})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].ts < points[j].ts })

	threshold := p.ThresholdMB * 1024 * 1024

	// Monotonic sliding window: evict points older than ts-window from the
	// running sum before admitting the current point.
	var (
		sum  int64
		tail int
	)
	for i, pt := range points {
		for tail < i && points[tail].ts < pt.ts-float64(p.Window) {
			sum -= points[tail].bytes
			tail++
		}
		sum += pt.bytes
		if sum >= threshold {
			return printer.Sprintf("EXFIL suspected: %s bytes=%d (>= %d) in last %ds ending at %s",
				p.Host, sum, threshold, p.Window, report.FormatTime(pt.ts)), true
		}
	}
	return "", false
}
