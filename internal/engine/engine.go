// Package engine exposes the flow-analysis operations to callers: the
// interactive shell, the HTTP API, and tests. Each operation runs to
// completion synchronously, writing result lines to the caller's IO sink.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"FlowScope/internal/alerter"
	"FlowScope/internal/config"
	"FlowScope/internal/engine/detect"
	"FlowScope/internal/engine/report"
	"FlowScope/internal/export"
	"FlowScope/internal/filter"
	"FlowScope/internal/ingest"
	"FlowScope/internal/model"
	"FlowScope/internal/store"
)

// queryPrintCap and edgePrintCap bound how much of an unbounded match list
// is echoed; the full list still lands in the store's last result set.
const (
	queryPrintCap = 20
	edgePrintCap  = 50
	rarePrintCap  = 50
)

var printer = message.NewPrinter(language.English)

// Engine owns the store and dispatches the analysis operations over it. It
// is single-writer: the surrounding caller invokes one operation at a time.
type Engine struct {
	store    *store.Store
	cfg      *config.Config
	alerts   *alerter.Alerter
	analyzer model.Analyzer
	mirror   *export.ClickHouseWriter
}

// New creates an engine with an empty store.
func New(cfg *config.Config) *Engine {
	return &Engine{store: store.New(), cfg: cfg}
}

// Store exposes the engine's state object, for callers that render it
// directly (status displays, tests).
func (e *Engine) Store() *store.Store { return e.store }

// AttachAlerter routes detection findings through a, in addition to the
// caller's sink. A nil alerter is allowed.
func (e *Engine) AttachAlerter(a *alerter.Alerter) { e.alerts = a }

// AttachAnalyzer enables the Analyze operation.
func (e *Engine) AttachAnalyzer(a model.Analyzer) { e.analyzer = a }

// AttachMirror makes Export also mirror rows into ClickHouse.
func (e *Engine) AttachMirror(w *export.ClickHouseWriter) { e.mirror = w }

// Load points the engine at a flow table. The file is only referenced here;
// BuildIndex reads it.
func (e *Engine) Load(path string, io IO) {
	if strings.TrimSpace(path) == "" {
		io.Err(`usage: load "flows.csv"`)
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, err := os.Stat(path); err != nil {
		io.Err("File not found: " + abs)
		return
	}
	e.store.SetPath(path)
	io.Out("Loaded file reference: " + abs)
}

// BuildIndex ingests the loaded flow table, replacing any previous record
// sequence and re-pointing the last result set at the full sequence. A
// structural read failure leaves the store cleared.
func (e *Engine) BuildIndex(io IO) {
	path := e.store.Path()
	if path == "" {
		io.Err(`No file loaded. Use: load "flows.csv"`)
		return
	}
	start := time.Now()
	e.store.ClearRecords()
	flows, err := ingest.ReadFile(path)
	if err != nil {
		io.Err("index build failed: " + err.Error())
		return
	}
	e.store.Replace(flows)
	e.store.SetResult(flows)
	io.Out(printer.Sprintf("Index built: %d flows in %.1fs",
		len(flows), time.Since(start).Seconds()))
}

// SetFilter installs a new active filter. An empty expression clears the
// filter with a warning rather than erroring.
func (e *Engine) SetFilter(expr string, io IO) {
	if strings.TrimSpace(expr) == "" {
		io.Out("Warning: clearing global filter.")
	}
	e.store.SetFilter(filter.Compile(expr))
	io.Out("Filter set: " + expr)
}

// Query evaluates an expression ANDed with the active filter, caches the
// full match list as the last result and echoes the head of it.
func (e *Engine) Query(args QueryArgs, io IO) {
	matches := report.Where(e.store.Snapshot(), args.Expr)
	e.store.SetResult(matches)
	for i, f := range matches {
		if i >= queryPrintCap {
			break
		}
		io.Out(report.FormatFlow(f))
	}
	if len(matches) > queryPrintCap {
		io.Out(printer.Sprintf("... (%d total)", len(matches)))
	}
}

// TopTalkers prints the highest-volume sources under the active filter.
func (e *Engine) TopTalkers(args TopTalkersArgs, io IO) {
	if args.By == "" {
		args.By = "bytes"
	}
	if args.Limit == 0 {
		args.Limit = e.cfg.Engine.TopLimit
	}
	for _, line := range report.TopTalkers(e.store.Snapshot(), args.By, args.Limit) {
		io.Out(line)
	}
}

// Timeline prints bucketed traffic volume with proportional bars.
func (e *Engine) Timeline(args TimelineArgs, io IO) {
	if args.Metric == "" {
		args.Metric = "bytes"
	}
	if args.Period == 0 {
		args.Period = e.cfg.Engine.TimelinePeriod
	}
	for _, line := range report.Timeline(e.store.Snapshot(), args.Metric, args.Period) {
		io.Out(line)
	}
}

// DetectSynScan runs the fan-out detector over a snapshot of the store.
func (e *Engine) DetectSynScan(args SynScanArgs, io IO) {
	if args.Window == 0 {
		args.Window = e.cfg.Engine.SynScan.Window
	}
	if args.Threshold == 0 {
		args.Threshold = e.cfg.Engine.SynScan.Threshold
	}
	offenders := detect.SynScan(e.store.Snapshot(), detect.SynScanParams{
		Window:    args.Window,
		Threshold: args.Threshold,
		Source:    args.Source,
	})
	if len(offenders) == 0 {
		io.Out(fmt.Sprintf("No SYN scan offenders (thr=%d).", args.Threshold))
		return
	}
	for _, line := range offenders {
		io.Out(line)
	}
	e.alerts.Dispatch("SYN scan offenders", offenders)
}

// DetectExfil runs the sliding-window exfiltration detector for one host.
func (e *Engine) DetectExfil(args ExfilArgs, io IO) {
	if strings.TrimSpace(args.Host) == "" {
		io.Err("usage: detect exfil <host> [window=600] [thrMB=50]")
		return
	}
	if args.Window == 0 {
		args.Window = e.cfg.Engine.Exfil.Window
	}
	if args.ThresholdMB == 0 {
		args.ThresholdMB = e.cfg.Engine.Exfil.ThresholdMB
	}
	verdict, ok := detect.Exfil(e.store.Snapshot(), detect.ExfilParams{
		Host:        args.Host,
		Window:      args.Window,
		ThresholdMB: args.ThresholdMB,
	})
	if !ok {
		io.Out(fmt.Sprintf("No exfil over threshold (%d MB).", args.ThresholdMB))
		return
	}
	io.Out(verdict)
	e.alerts.Dispatch("Exfiltration suspected", []string{verdict})
}

// DNSRare prints domains seen at most Min times under the active filter.
func (e *Engine) DNSRare(args DNSRareArgs, io IO) {
	if args.Min == 0 {
		args.Min = e.cfg.Engine.DNSRare.MinCount
	}
	rare := detect.DNSRare(e.store.Snapshot(), args.Min)
	if len(rare) == 0 {
		io.Out(fmt.Sprintf("No rare domains <= %d", args.Min))
		return
	}
	io.Out(fmt.Sprintf("Rare domains (<= %d):", args.Min))
	for i, line := range rare {
		if i >= rarePrintCap {
			break
		}
		io.Out(line)
	}
}

// Graph materializes the flows matching an expression as the last result and
// prints their de-duplicated edges.
func (e *Engine) Graph(args GraphArgs, io IO) {
	matches := report.Where(e.store.Snapshot(), args.Expr)
	e.store.SetResult(matches)
	edges := report.Edges(matches)
	for i, edge := range edges {
		if i >= edgePrintCap {
			break
		}
		io.Out(edge)
	}
	// The summary also follows a list of exactly edgePrintCap edges.
	if len(edges) >= edgePrintCap {
		io.Out(printer.Sprintf("... (%d total edges)", len(edges)))
	}
}

// Export writes the last result set back to the flow table format. When a
// ClickHouse mirror is attached the rows are also batch-inserted there; a
// mirror failure is reported but does not undo the file export.
func (e *Engine) Export(args ExportArgs, io IO) {
	if strings.TrimSpace(args.Path) == "" {
		io.Err(`usage: export "file.csv"`)
		return
	}
	rows, err := export.WriteFile(args.Path, e.store.LastResult())
	if err != nil {
		io.Err("export failed: " + err.Error())
		return
	}
	io.Out(printer.Sprintf("Exported %d rows -> %s", rows, args.Path))

	if e.mirror != nil {
		if err := e.mirror.Write(context.Background(), e.store.LastResult()); err != nil {
			io.Err("clickhouse mirror failed: " + err.Error())
		}
	}
}

// Note appends a free-text annotation to the session.
func (e *Engine) Note(args NoteArgs, io IO) {
	if strings.TrimSpace(args.Text) == "" {
		io.Err(`usage: note "text"`)
		return
	}
	e.store.AddNote(args.Text)
	io.Out("Noted: " + args.Text)
}

// HTTPSuspicious is a placeholder until the flow table carries HTTP
// metadata.
func (e *Engine) HTTPSuspicious(io IO) {
	io.Out("HTTP suspicious: stub. Add UA/URI/SNI columns to the flow table to enable richer rules.")
}

// Analyze runs all three detectors with their configured defaults and sends
// the combined findings to the attached analyzer.
func (e *Engine) Analyze(ctx context.Context, io IO) {
	if e.analyzer == nil {
		io.Err("analysis is not configured; set ai.api_key in the config file")
		return
	}

	var findings BufferIO
	e.DetectSynScan(SynScanArgs{}, &findings)
	e.DetectExfilAll(&findings)
	e.DNSRare(DNSRareArgs{}, &findings)

	result, err := e.analyzer.AnalyzeFindings(ctx, strings.Join(findings.Lines, "\n"))
	if err != nil {
		io.Err("analysis failed: " + err.Error())
		return
	}
	for _, line := range strings.Split(result, "\n") {
		io.Out(line)
	}
}

// DetectExfilAll runs the exfiltration detector once per distinct source in
// the filtered record set, so Analyze can scan without naming a host.
func (e *Engine) DetectExfilAll(io IO) {
	snap := e.store.Snapshot()
	seen := make(map[string]struct{})
	for _, f := range snap.Records {
		if !snap.Filter.Match(f) {
			continue
		}
		if _, ok := seen[f.Src]; ok {
			continue
		}
		seen[f.Src] = struct{}{}
		verdict, ok := detect.Exfil(snap, detect.ExfilParams{
			Host:        f.Src,
			Window:      e.cfg.Engine.Exfil.Window,
			ThresholdMB: e.cfg.Engine.Exfil.ThresholdMB,
		})
		if ok {
			io.Out(verdict)
		}
	}
}
