// Package shell is the thin interactive front of the engine: it tokenizes a
// command line, builds the typed argument struct and invokes the matching
// engine operation. All analysis semantics live in the engine.
package shell

import (
	"context"
	"strconv"
	"strings"

	"FlowScope/internal/engine"
)

// Shell dispatches command lines against one engine instance.
type Shell struct {
	eng *engine.Engine
	io  engine.IO
}

// New creates a shell writing through io.
func New(eng *engine.Engine, io engine.IO) *Shell {
	return &Shell{eng: eng, io: io}
}

// Execute runs one command line. It returns false when the session should
// end.
func (s *Shell) Execute(line string) bool {
	toks := tokenize(line)
	if len(toks) == 0 {
		return true
	}

	switch strings.ToLower(toks[0]) {
	case "quit", "exit":
		return false
	case "help":
		s.printHelp()
	case "pcap":
		// pcap load "flows.csv"
		if len(toks) >= 3 && strings.EqualFold(toks[1], "load") {
			s.eng.Load(toks[2], s.io)
		} else {
			s.io.Err(`usage: pcap load "flows.csv"`)
		}
	case "load":
		if len(toks) >= 2 {
			s.eng.Load(toks[1], s.io)
		} else {
			s.io.Err(`usage: load "flows.csv"`)
		}
	case "index":
		s.eng.BuildIndex(s.io)
	case "filter":
		s.eng.SetFilter(rest(line, 1), s.io)
	case "flows":
		// flows where <expr>
		if len(toks) >= 2 && strings.EqualFold(toks[1], "where") {
			s.eng.Query(engine.QueryArgs{Expr: stripQuotes(rest(line, 2))}, s.io)
		} else {
			s.io.Err(`usage: flows where <expr>`)
		}
	case "top":
		kv, _ := kvArgs(toks[1:])
		s.eng.TopTalkers(engine.TopTalkersArgs{
			By:    kv["by"],
			Limit: atoiOr(kv["limit"], 0),
		}, s.io)
	case "timeline":
		kv, pos := kvArgs(toks[1:])
		metric := ""
		if len(pos) > 0 {
			metric = pos[0]
		}
		s.eng.Timeline(engine.TimelineArgs{
			Metric: metric,
			Period: atoiOr(kv["per"], 0),
		}, s.io)
	case "detect":
		s.detect(toks)
	case "dns":
		// dns rare [min=2]
		kv, _ := kvArgs(toks[1:])
		s.eng.DNSRare(engine.DNSRareArgs{Min: atoiOr(kv["min"], 0)}, s.io)
	case "graph":
		s.eng.Graph(engine.GraphArgs{Expr: stripQuotes(rest(line, 1))}, s.io)
	case "export":
		path := ""
		if len(toks) >= 2 {
			path = toks[1]
		}
		s.eng.Export(engine.ExportArgs{Path: path}, s.io)
	case "note":
		s.eng.Note(engine.NoteArgs{Text: stripQuotes(rest(line, 1))}, s.io)
	case "http":
		s.eng.HTTPSuspicious(s.io)
	case "analyze":
		s.eng.Analyze(context.Background(), s.io)
	default:
		s.io.Err("unknown command: " + toks[0] + " (try 'help')")
	}
	return true
}

func (s *Shell) detect(toks []string) {
	if len(toks) < 2 {
		s.io.Err("usage: detect syn-scan|exfil ...")
		return
	}
	kv, pos := kvArgs(toks[2:])
	switch strings.ToLower(toks[1]) {
	case "syn-scan", "synscan":
		s.eng.DetectSynScan(engine.SynScanArgs{
			Window:    atoiOr(kv["window"], 0),
			Threshold: atoiOr(kv["thr"], 0),
			Source:    kv["src"],
		}, s.io)
	case "exfil":
		host := kv["host"]
		if host == "" && len(pos) > 0 {
			host = pos[0]
		}
		s.eng.DetectExfil(engine.ExfilArgs{
			Host:        host,
			Window:      atoiOr(kv["window"], 0),
			ThresholdMB: int64(atoiOr(kv["thrmb"], 0)),
		}, s.io)
	default:
		s.io.Err("unknown detector: " + toks[1])
	}
}

func (s *Shell) printHelp() {
	for _, line := range []string{
		`load "flows.csv"                 point at a flow table (alias: pcap load)`,
		"index                            build the in-memory index",
		"filter <expr>                    set the global filter (empty clears)",
		"flows where <expr>               list matching flows (feeds export)",
		"top [by=bytes|flows] [limit=N]   top talkers",
		"timeline [bytes|flows] [per=N]   bucketed traffic volume",
		"detect syn-scan [src=] [window=] [thr=]",
		"detect exfil <host> [window=] [thrMB=]",
		"dns rare [min=N]                 rarely seen DNS names",
		"graph <expr>                     unique edges (feeds export)",
		`export "file.csv"                write the last result set`,
		`note "text"                      append a session note`,
		"http suspicious                  HTTP heuristics (stub)",
		"analyze                          AI assessment of detector output",
		"quit                             leave the shell",
	} {
		s.io.Out(line)
	}
}

func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
