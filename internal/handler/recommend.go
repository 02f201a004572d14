package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"coursetutor/internal/llm"
	"coursetutor/internal/llm/prompts"
)

type recommendRequest struct {
	Topic string `json:"topic"`
	PDFID string `json:"pdf_id"`
}

func (h *Handler) handleRecommendVideos(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	// Coursebook context is an enhancement; a missing document just means
	// recommendations come from the topic alone.
	var context string
	if req.PDFID != "" {
		doc, err := h.store.GetDocument(req.PDFID)
		if err != nil {
			slog.Warn("recommendation document unavailable", "pdf_id", req.PDFID, "error", err)
		} else {
			context = documentContext(doc.PagesText, prompts.RecommendContextLimit)
		}
	}

	systemPrompt, userPrompt := prompts.Recommend(req.Topic, context)
	raw, err := h.llm.Complete(r.Context(), llm.Request{
		Kind:         llm.KindRecommend,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Topic:        req.Topic,
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "AI service unavailable")
		return
	}

	recs, err := llm.ParseRecommendations(raw)
	if err != nil {
		// Recommendation output that doesn't parse gets the canned set; this
		// endpoint never hard-fails on model output.
		slog.Warn("recommendation response unparseable, using canned set", "error", err)
		recs = llm.FallbackRecommendations(req.Topic)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic":           req.Topic,
		"recommendations": recs,
	})
}
