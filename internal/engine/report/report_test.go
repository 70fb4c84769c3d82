package report

import (
	"strings"
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

func TestTopTalkersByBytes(t *testing.T) {
	s := snap(
		&model.Flow{Src: "small", Bytes: 10},
		&model.Flow{Src: "big", Bytes: 500},
		&model.Flow{Src: "big", Bytes: 500},
		&model.Flow{Src: "mid", Bytes: 300},
	)

	rows := TopTalkers(s, "bytes", 2)
	require.Len(t, rows, 2)
	assert.True(t, strings.HasPrefix(rows[0], "big"), "rows[0] = %q", rows[0])
	assert.Contains(t, rows[0], "1,000")
	assert.True(t, strings.HasPrefix(rows[1], "mid"), "rows[1] = %q", rows[1])
}

func TestTopTalkersByFlows(t *testing.T) {
	s := snap(
		&model.Flow{Src: "chatty", Bytes: 1},
		&model.Flow{Src: "chatty", Bytes: 1},
		&model.Flow{Src: "chatty", Bytes: 1},
		&model.Flow{Src: "loud", Bytes: 9999},
	)

	rows := TopTalkers(s, "flows", 1)
	require.Len(t, rows, 1)
	assert.True(t, strings.HasPrefix(rows[0], "chatty"))
	assert.Contains(t, rows[0], "flows")
}

func TestTopTalkersMinimumLimit(t *testing.T) {
	s := snap(&model.Flow{Src: "only", Bytes: 1})
	rows := TopTalkers(s, "bytes", -3)
	assert.Len(t, rows, 1, "limits below 1 are raised to 1")
}

func TestTopTalkersHonorsFilter(t *testing.T) {
	s := store.Snapshot{
		Records: []*model.Flow{
			{Src: "tcp-host", Bytes: 10, Protocol: model.ProtocolTCP},
			{Src: "udp-host", Bytes: 9999, Protocol: model.ProtocolUDP},
		},
		Filter: filter.Compile("proto = tcp"),
	}
	rows := TopTalkers(s, "bytes", 5)
	require.Len(t, rows, 1)
	assert.True(t, strings.HasPrefix(rows[0], "tcp-host"))
}

func TestTimelineBucketBoundaries(t *testing.T) {
	// 125 and 121 share bucket 120; 185 lands in bucket 180.
	s := snap(
		&model.Flow{Timestamp: 125, Bytes: 100},
		&model.Flow{Timestamp: 121, Bytes: 50},
		&model.Flow{Timestamp: 185, Bytes: 100},
	)

	lines := Timeline(s, "bytes", 60)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "(150)")
	assert.Contains(t, lines[1], "(100)")
}

func TestTimelineBarScaling(t *testing.T) {
	s := snap(
		&model.Flow{Timestamp: 0, Bytes: 150},
		&model.Flow{Timestamp: 60, Bytes: 100},
		&model.Flow{Timestamp: 120, Bytes: 1},
	)

	lines := Timeline(s, "bytes", 60)
	require.Len(t, lines, 3)
	assert.Equal(t, 40, strings.Count(lines[0], "#"), "tallest bucket fills the bar")
	assert.Equal(t, 27, strings.Count(lines[1], "#"))
	assert.Equal(t, 1, strings.Count(lines[2], "#"), "bars never drop below one mark")
}

func TestTimelineFloorsNegativeTimestamps(t *testing.T) {
	// floor(-5/60) is -1, so the first flow belongs to bucket -60, not 0.
	s := snap(
		&model.Flow{Timestamp: -5, Bytes: 10},
		&model.Flow{Timestamp: 5, Bytes: 20},
	)

	lines := Timeline(s, "bytes", 60)
	require.Len(t, lines, 2, "negative and positive timestamps bucket separately")
	assert.Contains(t, lines[0], "(10)")
	assert.Contains(t, lines[1], "(20)")
}

func TestWhereCombinesWithActiveFilter(t *testing.T) {
	s := store.Snapshot{
		Records: []*model.Flow{
			{Src: "a", DstPort: 80, Protocol: model.ProtocolTCP},
			{Src: "a", DstPort: 443, Protocol: model.ProtocolTCP},
			{Src: "a", DstPort: 80, Protocol: model.ProtocolUDP},
		},
		Filter: filter.Compile("proto = tcp"),
	}

	matches := Where(s, "dport = 80")
	require.Len(t, matches, 1)
	assert.True(t, matches[0].IsTCP())
}

func TestWhereEmptyExpressionKeepsFilterOnly(t *testing.T) {
	s := snap(&model.Flow{Src: "a"}, &model.Flow{Src: "b"})
	assert.Len(t, Where(s, ""), 2)
}

func TestEdgesDeduplicateInOrder(t *testing.T) {
	flows := []*model.Flow{
		{Src: "a", Dst: "b", DstPort: 80, Protocol: 6},
		{Src: "c", Dst: "d", DstPort: 53, Protocol: 17},
		{Src: "a", Dst: "b", DstPort: 80, Protocol: 6}, // duplicate
		{Src: "a", Dst: "b", DstPort: 443, Protocol: 6},
	}

	edges := Edges(flows)
	require.Len(t, edges, 3)
	assert.Equal(t, "a -> b [80/p6]", edges[0])
	assert.Equal(t, "c -> d [53/p17]", edges[1])
	assert.Equal(t, "a -> b [443/p6]", edges[2])
}

func TestEdgesAndFlowLinesKeepNumbersUngrouped(t *testing.T) {
	f := &model.Flow{
		Src: "1.1.1.1", Dst: "2.2.2.2", SrcPort: 51000, DstPort: 50443,
		Protocol: 6, Bytes: 1234567, Packets: 10000,
	}

	edges := Edges([]*model.Flow{f})
	require.Len(t, edges, 1)
	assert.Equal(t, "1.1.1.1 -> 2.2.2.2 [50443/p6]", edges[0],
		"ports are identifiers, never digit-grouped")

	line := FormatFlow(f)
	assert.Contains(t, line, "1.1.1.1:51000 -> 2.2.2.2:50443")
	assert.Contains(t, line, "bytes=1234567")
	assert.Contains(t, line, "pkts=10000")
	assert.NotContains(t, line, ",")
}
