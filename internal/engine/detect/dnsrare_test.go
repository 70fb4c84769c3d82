package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowScope/internal/model"
)

func dnsLookup(name, rcode string) *model.Flow {
	return &model.Flow{Protocol: model.ProtocolUDP, DstPort: 53, DNSQName: name, DNSRCode: rcode}
}

func TestDNSRareThreshold(t *testing.T) {
	s := snap(
		dnsLookup("twice.example.com", "0"),
		dnsLookup("twice.example.com", "0"),
		dnsLookup("thrice.example.com", "0"),
		dnsLookup("thrice.example.com", "0"),
		dnsLookup("thrice.example.com", "0"),
	)

	rare := DNSRare(s, 2)
	require.Len(t, rare, 1, "a name seen twice is rare at min=2; three times is not")
	assert.Contains(t, rare[0], "twice.example.com")
	assert.Contains(t, rare[0], "count=2")
}

func TestDNSRareCountsNXDomain(t *testing.T) {
	s := snap(
		dnsLookup("gone.example.com", "3"),
		dnsLookup("gone.example.com", "0"),
		dnsLookup("fine.example.com", "0"),
	)

	rare := DNSRare(s, 2)
	require.Len(t, rare, 2)
	// Ascending by count: fine (1) before gone (2).
	assert.Contains(t, rare[0], "fine.example.com")
	assert.Contains(t, rare[0], "NX=0")
	assert.Contains(t, rare[1], "gone.example.com")
	assert.Contains(t, rare[1], "NX=1")
}

func TestDNSRareSkipsNonDNSFlows(t *testing.T) {
	s := snap(
		&model.Flow{Protocol: model.ProtocolTCP, DstPort: 443},
		dnsLookup("one.example.com", "0"),
	)

	rare := DNSRare(s, 2)
	require.Len(t, rare, 1)
	assert.Contains(t, rare[0], "one.example.com")
}

func TestDNSRareEmpty(t *testing.T) {
	s := snap(
		dnsLookup("common.example.com", "0"),
		dnsLookup("common.example.com", "0"),
		dnsLookup("common.example.com", "0"),
	)
	assert.Empty(t, DNSRare(s, 2))
}
