// Package export serializes a materialized result set: back to the flow
// table format on disk, or into a ClickHouse table when the optional sink is
// configured.
package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"FlowScope/internal/ingest"
	"FlowScope/internal/model"
)

// WriteFile writes flows to path in the ingestion column layout, one row per
// record, and returns the number of rows written. Literal commas in string
// fields are replaced with spaces so the output stays parseable by the same
// ingestion rules; this is lossy by design, not quote-escaped. Zero flows
// produce a file holding only the header.
func WriteFile(path string, flows []*model.Flow) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if _, err := w.WriteString(strings.Join(ingest.Header, ",") + "\n"); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	for _, f := range flows {
		row := fmt.Sprintf("%f,%s,%s,%d,%d,%d,%d,%d,%s,%s,%s\n",
			f.Timestamp, sanitize(f.Src), sanitize(f.Dst),
			f.SrcPort, f.DstPort, f.Protocol, f.Bytes, f.Packets,
			sanitize(f.TCPFlags), sanitize(f.DNSQName), sanitize(f.DNSRCode))
		if _, err := w.WriteString(row); err != nil {
			return 0, fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush export file: %w", err)
	}
	return len(flows), nil
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, ",", " ")
}
