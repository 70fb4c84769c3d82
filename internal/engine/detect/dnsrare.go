package detect

import (
	"fmt"
	"sort"

	"FlowScope/internal/model"
	"FlowScope/internal/store"
)

// DNSRare counts DNS query names across the filtered flows and returns one
// line per rare domain, where rare means a total count of at most min. Lines
// carry the total and the NXDOMAIN share, sorted ascending by count and then
// by name.
func DNSRare(snap store.Snapshot, min int) []string {
	counts := make(map[string]int)
	nxs := make(map[string]int)
	for _, f := range snap.Records {
		if !snap.Filter.Match(f) || f.DNSQName == "" {
			continue
		}
		counts[f.DNSQName]++
		if f.DNSRCode == model.NXDomain {
			nxs[f.DNSQName]++
		}
	}

	type entry struct {
		name  string
		count int
	}
	var rare []entry
	for name, count := range counts {
		if count <= min {
			rare = append(rare, entry{name, count})
		}
	}
	sort.Slice(rare, func(i, j int) bool {
		if rare[i].count != rare[j].count {
			return rare[i].count < rare[j].count
		}
		return rare[i].name < rare[j].name
	})

	out := make([]string, 0, len(rare))
	for _, e := range rare {
		out = append(out, fmt.Sprintf("%-50s  count=%d  NX=%d", e.name, e.count, nxs[e.name]))
	}
	return out
}
