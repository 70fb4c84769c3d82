package detect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowScope/internal/filter"
	"FlowScope/internal/model"
	"FlowScope/internal/store"
)

func snap(flows ...*model.Flow) store.Snapshot {
	return store.Snapshot{Records: flows, Filter: filter.All}
}

// bareSYN builds one SYN-without-ACK probe flow.
func bareSYN(src string, ts float64, dst string, dport int) *model.Flow {
	return &model.Flow{
		Timestamp: ts,
		Src:       src,
		Dst:       dst,
		DstPort:   dport,
		Protocol:  model.ProtocolTCP,
		TCPFlags:  "0x02",
	}
}

// fanOut generates n probes from src to distinct destination:port pairs,
// spread one per second starting at base.
func fanOut(src string, base float64, n int) []*model.Flow {
	flows := make([]*model.Flow, 0, n)
	for i := 0; i < n; i++ {
		flows = append(flows, bareSYN(src, base+float64(i%100), fmt.Sprintf("10.1.%d.%d", i/250, i%250), 80))
	}
	return flows
}

func TestSynScanAtThreshold(t *testing.T) {
	offenders := SynScan(snap(fanOut("6.6.6.6", 1000, 150)...), SynScanParams{Window: 120, Threshold: 150})
	require.Len(t, offenders, 1)
	assert.Contains(t, offenders[0], "6.6.6.6")
	assert.Contains(t, offenders[0], "fanout=150")
	assert.Contains(t, offenders[0], "window=120s")
}

func TestSynScanBelowThreshold(t *testing.T) {
	offenders := SynScan(snap(fanOut("6.6.6.6", 1000, 149)...), SynScanParams{Window: 120, Threshold: 150})
	assert.Empty(t, offenders)
}

func TestSynScanWindowExcludesOldProbes(t *testing.T) {
	// 100 probes at t=0..99 and 50 more at t=500..549: no 120s window ever
	// holds 150 distinct targets.
	flows := append(fanOut("s", 0, 100), fanOut("s", 500, 50)...)
	// Distinct targets for the second burst.
	for i, f := range flows[100:] {
		f.Dst = fmt.Sprintf("172.16.0.%d", i)
	}
	offenders := SynScan(snap(flows...), SynScanParams{Window: 120, Threshold: 150})
	assert.Empty(t, offenders)

	// A window covering both bursts reports the union.
	offenders = SynScan(snap(flows...), SynScanParams{Window: 600, Threshold: 150})
	require.Len(t, offenders, 1)
	assert.Contains(t, offenders[0], "fanout=150")
}

func TestSynScanIgnoresAckedFlows(t *testing.T) {
	flows := fanOut("s", 0, 150)
	for _, f := range flows {
		f.TCPFlags = "0x02 0x10" // SYN+ACK marker present
	}
	offenders := SynScan(snap(flows...), SynScanParams{Window: 120, Threshold: 150})
	assert.Empty(t, offenders)
}

func TestSynScanIgnoresNonTCP(t *testing.T) {
	flows := fanOut("s", 0, 150)
	for _, f := range flows {
		f.Protocol = model.ProtocolUDP
	}
	offenders := SynScan(snap(flows...), SynScanParams{Window: 120, Threshold: 150})
	assert.Empty(t, offenders)
}

func TestSynScanSourceRestriction(t *testing.T) {
	flows := append(fanOut("scanner", 0, 150), fanOut("other", 0, 150)...)

	offenders := SynScan(snap(flows...), SynScanParams{Window: 120, Threshold: 150, Source: "scanner"})
	require.Len(t, offenders, 1)
	assert.Contains(t, offenders[0], "scanner")
}

func TestSynScanReportsEachSourceOnce(t *testing.T) {
	// Enough probes that several windows qualify; the source must still be
	// reported a single time.
	offenders := SynScan(snap(fanOut("s", 0, 400)...), SynScanParams{Window: 120, Threshold: 150})
	assert.Len(t, offenders, 1)
}

func TestSynScanDistinctTargetCounting(t *testing.T) {
	// The same destination:port probed repeatedly counts once.
	var flows []*model.Flow
	for i := 0; i < 200; i++ {
		flows = append(flows, bareSYN("s", float64(i%60), "10.0.0.1", 80))
	}
	offenders := SynScan(snap(flows...), SynScanParams{Window: 120, Threshold: 2})
	assert.Empty(t, offenders)
}
