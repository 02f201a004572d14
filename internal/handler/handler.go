// Package handler wires the HTTP API: PDF upload and retrieval, quiz
// generation and grading, citation-grounded chat, video recommendations,
// and progress reporting.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursetutor/internal/llm"
	"coursetutor/internal/pdfextract"
	"coursetutor/internal/storage"
	"coursetutor/internal/store"
)

// Extractor is the slice of the PDF extraction service the handlers use.
type Extractor interface {
	Extract(path string) (*pdfextract.Result, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store     *store.Store
	files     *storage.Storage
	extractor Extractor
	llm       llm.Completer
}

// New creates a new Handler.
func New(s *store.Store, files *storage.Storage, extractor Extractor, completer llm.Completer) *Handler {
	return &Handler{store: s, files: files, extractor: extractor, llm: completer}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/pdf/upload", h.handleUploadPDF)
		r.Get("/pdf/list", h.handleListPDFs)
		r.Get("/pdf/{id}", h.handleGetPDF)
		r.Get("/pdf/{id}/text", h.handleGetPDFText)
		r.Delete("/pdf/{id}", h.handleDeletePDF)

		r.Post("/quiz/generate", h.handleGenerateQuiz)
		r.Post("/quiz/submit", h.handleSubmitQuiz)

		r.Post("/chat", h.handleChat)
		r.Get("/chat/history", h.handleChatHistory)
		r.Get("/chat/{id}", h.handleGetChat)
		r.Delete("/chat/{id}", h.handleDeleteChat)

		r.Post("/recommend/youtube", h.handleRecommendVideos)

		r.Get("/progress", h.handleProgress)
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":       "coursetutor",
		"status":        "running",
		"ai_configured": h.llm.Configured(),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"ai_configured": h.llm.Configured(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
