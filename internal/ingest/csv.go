// Package ingest parses delimited flow tables into model.Flow records.
//
// Parsing is best-effort per field: a malformed field never aborts a row, it
// falls back to a documented default. Only a structural I/O failure aborts
// the load.
package ingest

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"FlowScope/internal/model"
)

// Column names of the flow table. Lookup is case-sensitive and exact.
const (
	ColTimestamp   = "timestamp"
	ColSource      = "source"
	ColDestination = "destination"
	ColSourcePort  = "sourcePort"
	ColDestPort    = "destPort"
	ColProtocol    = "protocol"
	ColByteCount   = "byteCount"
	ColPacketCount = "packetCount"
	ColTCPFlags    = "tcpFlags"
	ColDNSQName    = "dnsQueryName"
	ColDNSRCode    = "dnsResponseCode"
)

// Header is the canonical column order, shared with the export side.
var Header = []string{
	ColTimestamp, ColSource, ColDestination, ColSourcePort, ColDestPort,
	ColProtocol, ColByteCount, ColPacketCount, ColTCPFlags, ColDNSQName, ColDNSRCode,
}

// ReadFile loads a flow table from path. Blank lines are skipped, `#` outside
// quotes starts a trailing comment, and the first surviving line is the
// header mapping column names to indexes.
func ReadFile(path string) ([]*model.Flow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open flow table: %w", err)
	}
	defer file.Close()

	var (
		flows []*model.Flow
		index map[string]int
	)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := stripComment(scanner.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := splitLine(line)
		if index == nil {
			index = make(map[string]int, len(cols))
			for i, name := range cols {
				index[name] = i
			}
			continue
		}
		flows = append(flows, parseRow(cols, index))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flow table: %w", err)
	}

	return flows, nil
}

// parseRow builds one Flow from a data line. Missing or unparsable numeric
// fields fall back to defaults; missing string fields fall back to "".
func parseRow(cols []string, index map[string]int) *model.Flow {
	return &model.Flow{
		Timestamp: parseFloat(field(cols, index, ColTimestamp), 0),
		Src:       field(cols, index, ColSource),
		Dst:       field(cols, index, ColDestination),
		SrcPort:   parseInt(field(cols, index, ColSourcePort), 0),
		DstPort:   parseInt(field(cols, index, ColDestPort), 0),
		Protocol:  parseInt(field(cols, index, ColProtocol), 0),
		Bytes:     parseInt64(field(cols, index, ColByteCount), 0),
		Packets:   parseInt64(field(cols, index, ColPacketCount), 1),
		TCPFlags:  field(cols, index, ColTCPFlags),
		DNSQName:  field(cols, index, ColDNSQName),
		DNSRCode:  digitsOnly(field(cols, index, ColDNSRCode)),
	}
}

// field returns the named column of a row, or "" when the column is absent
// from the header or the row is short.
func field(cols []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(cols) {
		return ""
	}
	return cols[i]
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func parseInt64(s string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

// digitsOnly sanitizes a response-code field by dropping every non-digit.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripComment cuts the line at the first '#' that sits outside a quoted
// field.
func stripComment(line string) string {
	inQuote := false
	for i, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '#' && !inQuote:
			return line[:i]
		}
	}
	return line
}

// splitLine splits a line on commas, honoring double-quoted fields. Inside
// quotes commas are literal; quote characters toggle quoting and are not part
// of the field value. There is no escape sequence for embedded quotes.
func splitLine(line string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ',' && !inQuote:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	return out
}
