package model

// Protocol numbers with dedicated handling. Other values are legal but untyped.
const (
	ProtocolTCP = 6
	ProtocolUDP = 17
)

// NXDomain is the DNS response code meaning the queried name does not exist.
const NXDomain = "3"

// Flow is one summarized network conversation observation. A Flow is immutable
// once constructed; its identity is positional (insertion order == file order).
type Flow struct {
	// Timestamp is seconds since epoch. Sub-second precision is preserved for
	// display but truncated to whole seconds for bucketing.
	Timestamp float64

	// Src and Dst are opaque identifiers, compared by exact string equality.
	Src string
	Dst string

	SrcPort  int
	DstPort  int
	Protocol int

	Bytes   int64
	Packets int64

	// TCPFlags is a free-form token such as a hex bitmask. Empty means
	// not applicable or unknown.
	TCPFlags string

	// DNSQName is empty when the flow carries no DNS query.
	DNSQName string

	// DNSRCode holds only digits; empty means not applicable.
	DNSRCode string
}

// IsTCP reports whether the flow's protocol number is TCP.
func (f *Flow) IsTCP() bool { return f.Protocol == ProtocolTCP }

// IsUDP reports whether the flow's protocol number is UDP.
func (f *Flow) IsUDP() bool { return f.Protocol == ProtocolUDP }
