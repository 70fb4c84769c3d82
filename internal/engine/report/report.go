// Package report implements the read-only aggregations over the store:
// top talkers, traffic timeline, ad-hoc queries and graph edges.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"FlowScope/internal/filter"
	"FlowScope/internal/model"
	"FlowScope/internal/store"
)

// barWidth is the maximum timeline bar length; the tallest bucket renders
// this many marks.
const barWidth = 40

var printer = message.NewPrinter(language.English)

// TopTalkers groups filtered flows by source and accumulates either the byte
// sum (by == "bytes", the default) or a flow count (by == "flows"), returning
// the top rows sorted descending. A limit below 1 is raised to 1.
func TopTalkers(snap store.Snapshot, by string, limit int) []string {
	byFlows := strings.EqualFold(by, "flows")
	agg := make(map[string]int64)
	for _, f := range snap.Records {
		if !snap.Filter.Match(f) {
			continue
		}
		if byFlows {
			agg[f.Src]++
		} else {
			agg[f.Src] += f.Bytes
		}
	}

	type row struct {
		src   string
		total int64
	}
	rows := make([]row, 0, len(agg))
	for src, total := range agg {
		rows = append(rows, row{src, total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].src < rows[j].src
	})

	if limit < 1 {
		limit = 1
	}
	if limit > len(rows) {
		limit = len(rows)
	}

	unit := "bytes"
	if byFlows {
		unit = "flows"
	}
	out := make([]string, 0, limit)
	for _, r := range rows[:limit] {
		out = append(out, printer.Sprintf("%-16s  %12d %s", r.src, r.total, unit))
	}
	return out
}

// Timeline buckets filtered flows into fixed windows of period seconds and
// renders one line per bucket in ascending time order, with a bar scaled to
// the busiest bucket. metric selects the byte sum (default) or a flow count.
func Timeline(snap store.Snapshot, metric string, period int) []string {
	if period < 1 {
		period = 1
	}
	byFlows := strings.EqualFold(metric, "flows")

	buckets := make(map[int64]int64)
	for _, f := range snap.Records {
		if !snap.Filter.Match(f) {
			continue
		}
		bucket := int64(math.Floor(f.Timestamp/float64(period))) * int64(period)
		if byFlows {
			buckets[bucket]++
		} else {
			buckets[bucket] += f.Bytes
		}
	}

	keys := make([]int64, 0, len(buckets))
	var max int64 = 1
	for k, v := range buckets {
		keys = append(keys, k)
		if v > max {
			max = v
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		v := buckets[k]
		bars := int(float64(barWidth)*float64(v)/float64(max) + 0.5)
		if bars < 1 {
			bars = 1
		}
		out = append(out, printer.Sprintf("%s  %s  (%d)",
			FormatTime(float64(k)), strings.Repeat("#", bars), v))
	}
	return out
}

// Where compiles expr, ANDs it with the snapshot's active filter and returns
// every matching flow in record order. The list is unbounded; callers decide
// how much of it to print.
func Where(snap store.Snapshot, expr string) []*model.Flow {
	pred := filter.And(filter.Compile(expr), snap.Filter)
	var out []*model.Flow
	for _, f := range snap.Records {
		if pred.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// Edges returns the de-duplicated (source, destination, destPort, protocol)
// edges of a match list in first-seen order.
func Edges(flows []*model.Flow) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range flows {
		edge := fmt.Sprintf("%s -> %s [%d/p%d]", f.Src, f.Dst, f.DstPort, f.Protocol)
		if _, ok := seen[edge]; ok {
			continue
		}
		seen[edge] = struct{}{}
		out = append(out, edge)
	}
	return out
}

// FormatFlow renders one flow the way query output lists it. Numbers stay
// ungrouped here: ports and protocol are identifiers, and the per-flow byte
// and packet figures follow them.
func FormatFlow(f *model.Flow) string {
	return fmt.Sprintf("%s  %s:%d -> %s:%d  p=%d  bytes=%d  pkts=%d  flags=%s  q=%s",
		FormatTime(f.Timestamp), f.Src, f.SrcPort, f.Dst, f.DstPort,
		f.Protocol, f.Bytes, f.Packets, f.TCPFlags, f.DNSQName)
}

// FormatTime renders an epoch-seconds timestamp as local wall-clock time,
// keeping sub-second precision out of the display.
func FormatTime(sec float64) string {
	return time.UnixMilli(int64(sec * 1000)).Format("15:04:05")
}
