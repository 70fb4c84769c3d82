// Package detect implements the security detectors that scan a store
// snapshot: SYN-scan fan-out, exfiltration volume and DNS rarity.
package detect

import (
	"fmt"
	"sort"
	"strings"

	"FlowScope/internal/engine/report"
	"FlowScope/internal/store"
)

// Markers looked for inside the free-form TCP flags token. A bare SYN
// carries the SYN marker without the ACK marker.
const (
	synMarker = "0x02"
	ackMarker = "0x10"
)

// SynScanParams configures the fan-out detector.
type SynScanParams struct {
	Window    int    // seconds
	Threshold int    // distinct destination:port targets
	Source    string // optional source restriction, "" means all sources
}

// SynScan reports sources whose bare-SYN fan-out reaches the threshold
// within the window. Each source is reported at most once, at its earliest
// qualifying timestamp. Results are sorted by source.
func SynScan(snap store.Snapshot, p SynScanParams) []string {
	// source -> whole-second timestamp -> distinct dst:dport targets
	bySource := make(map[string]map[int64]map[string]struct{})
	for _, f := range snap.Records {
		if !snap.Filter.Match(f) || !f.IsTCP() {
			continue
		}
		if p.Source != "" && p.Source != f.Src {
			continue
		}
		if !strings.Contains(f.TCPFlags, synMarker) || strings.Contains(f.TCPFlags, ackMarker) {
			continue
		}
		t := int64(f.Timestamp)
		perSecond, ok := bySource[f.Src]
		if !ok {
			perSecond = make(map[int64]map[string]struct{})
			bySource[f.Src] = perSecond
		}
		targets, ok := perSecond[t]
		if !ok {
			targets = make(map[string]struct{})
			perSecond[t] = targets
		}
		targets[fmt.Sprintf("%s:%d", f.Dst, f.DstPort)] = struct{}{}
	}

	sources := make([]string, 0, len(bySource))
	for src := range bySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var offenders []string
	for _, src := range sources {
		perSecond := bySource[src]
		times := make([]int64, 0, len(perSecond))
		for t := range perSecond {
			times = append(times, t)
		}
		sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

		for i, t := range times {
			// Union of targets across [t-window, t], inclusive.
			uniq := make(map[string]struct{})
			for j := i; j >= 0 && times[j] >= t-int64(p.Window); j-- {
				for target := range perSecond[times[j]] {
					uniq[target] = struct{}{}
				}
			}
			if len(uniq) >= p.Threshold {
				offenders = append(offenders, fmt.Sprintf("%s  fanout=%d  window=%ds  until=%s",
					src, len(uniq), p.Window, report.FormatTime(float64(t))))
				break
			}
		}
	}
	return offenders
}
