package handlers

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdash/internal/app"
	"github.com/shrimpsizemoose/quizdash/internal/export"
	"github.com/shrimpsizemoose/quizdash/internal/metrics"
	"github.com/shrimpsizemoose/quizdash/internal/table"
)

func (h *DashboardHandler) HandleSubmissions(w http.ResponseWriter, r *http.Request, sess app.Session) {
	snap, err := h.service.Cache.Get(r.Context())
	if err != nil {
		logger.Error.Printf("Failed to fetch submissions: %v", err)
		http.Error(w, "Failed to fetch submissions", http.StatusBadGateway)
		return
	}

	filtered := table.FilterByStudent(snap.Table, r.URL.Query().Get("q"))
	writeJSON(w, map[string]interface{}{
		"fetched_at": snap.FetchedAt.UTC().Format(time.RFC3339),
		"columns":    filtered.Columns,
		"rows":       filtered.Rows,
	})
}

func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request, sess app.Session) {
	snap, err := h.service.Cache.Get(r.Context())
	if err != nil {
		logger.Error.Printf("Failed to fetch submissions: %v", err)
		http.Error(w, "Failed to fetch submissions", http.StatusBadGateway)
		return
	}

	writeJSON(w, map[string]interface{}{
		"fetched_at": snap.FetchedAt.UTC().Format(time.RFC3339),
		"summary":    snap.Summary,
	})
}

func (h *DashboardHandler) HandleExport(w http.ResponseWriter, r *http.Request, sess app.Session) {
	snap, err := h.service.Cache.Get(r.Context())
	if err != nil {
		logger.Error.Printf("Failed to fetch submissions for export: %v", err)
		http.Error(w, "Failed to fetch submissions", http.StatusBadGateway)
		return
	}
	if snap.Table.Empty() {
		http.Error(w, "No submissions yet", http.StatusNotFound)
		return
	}

	filtered := table.FilterByStudent(snap.Table, r.URL.Query().Get("q"))
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, h.service.ExportView(filtered)); err != nil {
		logger.Error.Printf("Failed to write csv: %v", err)
		http.Error(w, "Failed to export", http.StatusInternalServerError)
		return
	}

	filename := export.Filename(h.service.Config.Export.Filename)
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	metrics.ExportsTotal.Inc()
	buf.WriteTo(w)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	buf.WriteTo(w)
}
