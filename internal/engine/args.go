package engine

// Argument structs for the engine operations. The caller builds these
// deterministically; the engine never inspects the caller's own types or raw
// command text. A zero-valued optional field takes the configured default.

// QueryArgs selects flows matching an expression ANDed with the active
// filter.
type QueryArgs struct {
	Expr string
}

// TopTalkersArgs ranks sources by accumulated value.
type TopTalkersArgs struct {
	By    string // "bytes" (default) or "flows"
	Limit int
}

// TimelineArgs buckets traffic into fixed time windows.
type TimelineArgs struct {
	Metric string // "bytes" (default) or "flows"
	Period int    // seconds
}

// SynScanArgs configures the fan-out detector.
type SynScanArgs struct {
	Window    int
	Threshold int
	Source    string // optional source restriction
}

// ExfilArgs configures the exfiltration detector. Host is required.
type ExfilArgs struct {
	Host        string
	Window      int
	ThresholdMB int64
}

// DNSRareArgs configures the rarity detector.
type DNSRareArgs struct {
	Min int
}

// GraphArgs selects the flows whose edges are drawn.
type GraphArgs struct {
	Expr string
}

// ExportArgs names the file the last result set is written to.
type ExportArgs struct {
	Path string
}

// NoteArgs carries one free-text annotation.
type NoteArgs struct {
	Text string
}
