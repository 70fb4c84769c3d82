package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"FlowScope/internal/engine"
)

// apiHandler adapts HTTP requests to engine operations. The engine is a
// single-writer object, so the handler serializes operations with a mutex:
// one request at a time reaches the store, matching the shell's dispatch
// model.
type apiHandler struct {
	mu  sync.Mutex
	eng *engine.Engine
}

func newAPIHandler(eng *engine.Engine) *apiHandler {
	return &apiHandler{eng: eng}
}

// opResponse carries the operation's sink output back to the HTTP caller.
type opResponse struct {
	Lines  []string `json:"lines"`
	Errors []string `json:"errors,omitempty"`
}

// invoke decodes the request body into req, runs op under the handler lock
// and writes the captured sink output as JSON.
func (h *apiHandler) invoke(w http.ResponseWriter, r *http.Request, req any, op func(io engine.IO)) {
	if req != nil {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
			return
		}
	}

	var buf engine.BufferIO
	h.mu.Lock()
	op(&buf)
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	status := http.StatusOK
	if len(buf.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(opResponse{Lines: buf.Lines, Errors: buf.Errors})
}

func (h *apiHandler) load(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.Load(req.Path, io) })
}

func (h *apiHandler) buildIndex(w http.ResponseWriter, r *http.Request) {
	h.invoke(w, r, nil, func(io engine.IO) { h.eng.BuildIndex(io) })
}

func (h *apiHandler) setFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expr string `json:"expr"`
	}
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.SetFilter(req.Expr, io) })
}

func (h *apiHandler) query(w http.ResponseWriter, r *http.Request) {
	var req engine.QueryArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.Query(req, io) })
}

func (h *apiHandler) topTalkers(w http.ResponseWriter, r *http.Request) {
	var req engine.TopTalkersArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.TopTalkers(req, io) })
}

func (h *apiHandler) timeline(w http.ResponseWriter, r *http.Request) {
	var req engine.TimelineArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.Timeline(req, io) })
}

func (h *apiHandler) detectSynScan(w http.ResponseWriter, r *http.Request) {
	var req engine.SynScanArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.DetectSynScan(req, io) })
}

func (h *apiHandler) detectExfil(w http.ResponseWriter, r *http.Request) {
	var req engine.ExfilArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.DetectExfil(req, io) })
}

func (h *apiHandler) dnsRare(w http.ResponseWriter, r *http.Request) {
	var req engine.DNSRareArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.DNSRare(req, io) })
}

func (h *apiHandler) graph(w http.ResponseWriter, r *http.Request) {
	var req engine.GraphArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.Graph(req, io) })
}

func (h *apiHandler) export(w http.ResponseWriter, r *http.Request) {
	var req engine.ExportArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.Export(req, io) })
}

func (h *apiHandler) note(w http.ResponseWriter, r *http.Request) {
	var req engine.NoteArgs
	h.invoke(w, r, &req, func(io engine.IO) { h.eng.Note(req, io) })
}
