package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"coursetutor/internal/model"
	"coursetutor/internal/store"
)

// maxUploadSize caps uploaded PDFs at 50 MB.
const maxUploadSize = 50 << 20

func (h *Handler) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large (max 50MB)")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "only PDF files are supported")
		return
	}
	if header.Size > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large (max 50MB)")
		return
	}

	id := uuid.NewString()
	key := id + ".pdf"

	size, err := h.files.Save(key, file)
	if err != nil {
		slog.Error("save upload", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	path, err := h.files.Path(key)
	if err != nil {
		h.discardUpload(key)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	result, err := h.extractor.Extract(path)
	if err != nil {
		h.discardUpload(key)
		slog.Warn("extract upload", "filename", header.Filename, "error", err)
		writeError(w, http.StatusUnprocessableEntity,
			"could not extract text from PDF: the file might be corrupted, password-protected, or image-based")
		return
	}

	doc := model.Document{
		ID:           id,
		Filename:     header.Filename,
		StoragePath:  key,
		FileSize:     size,
		TotalPages:   result.TotalPages,
		PagesText:    result.Pages,
		IsImageBased: result.IsImageBased,
		UploadedAt:   time.Now().UTC(),
	}
	if err := h.store.InsertDocument(doc); err != nil {
		h.discardUpload(key)
		slog.Error("insert document", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save document")
		return
	}

	slog.Info("PDF uploaded",
		"id", id,
		"filename", doc.Filename,
		"pages", doc.TotalPages,
		"image_based", doc.IsImageBased,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"pdf_id":         doc.ID,
		"filename":       doc.Filename,
		"total_pages":    doc.TotalPages,
		"file_size":      doc.FileSize,
		"is_image_based": doc.IsImageBased,
	})
}

// discardUpload removes a stored file after a failed upload step.
func (h *Handler) discardUpload(key string) {
	if err := h.files.Remove(key); err != nil {
		slog.Warn("remove partial upload", "key", key, "error", err)
	}
}

func (h *Handler) handleListPDFs(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListDocuments()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []model.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"pdfs": docs})
}

func (h *Handler) handleGetPDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.lookupDocument(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	path, err := h.files.Path(doc.StoragePath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to locate file")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

func (h *Handler) handleGetPDFText(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.lookupDocument(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pdf_id":         doc.ID,
		"total_pages":    doc.TotalPages,
		"pages_text":     doc.PagesText,
		"is_image_based": doc.IsImageBased,
	})
}

func (h *Handler) handleDeletePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, ok := h.lookupDocument(w, id)
	if !ok {
		return
	}

	// Remove the record first; a file that is already gone must not block
	// the delete.
	if err := h.store.DeleteDocument(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	if err := h.files.Remove(doc.StoragePath); err != nil {
		slog.Warn("remove stored file", "id", id, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "document deleted"})
}

// lookupDocument fetches a document and writes the error response itself when
// the lookup fails.
func (h *Handler) lookupDocument(w http.ResponseWriter, id string) (model.Document, bool) {
	doc, err := h.store.GetDocument(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return model.Document{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return model.Document{}, false
	}
	return doc, true
}
