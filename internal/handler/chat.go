package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"coursetutor/internal/llm"
	"coursetutor/internal/llm/prompts"
	"coursetutor/internal/model"
	"coursetutor/internal/search"
	"coursetutor/internal/store"
)

// maxCitations caps how many source excerpts ground one chat answer.
const maxCitations = 3

type chatRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
	PDFID   string `json:"pdf_id"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	now := time.Now().UTC()

	var chat model.Chat
	isNew := req.ChatID == ""
	if isNew {
		chat = model.Chat{
			ID:         uuid.NewString(),
			DocumentID: req.PDFID,
			CreatedAt:  now,
		}
	} else {
		existing, err := h.store.GetChat(req.ChatID)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chat not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load chat")
			return
		}
		chat = existing
		if req.PDFID != "" {
			chat.DocumentID = req.PDFID
		}
	}

	// A missing or unreadable document downgrades the turn to an ungrounded
	// answer instead of failing it.
	var citations []model.Citation
	if chat.DocumentID != "" {
		doc, err := h.store.GetDocument(chat.DocumentID)
		if err != nil {
			slog.Warn("chat document unavailable, answering ungrounded",
				"chat_id", chat.ID, "pdf_id", chat.DocumentID, "error", err)
		} else {
			citations = search.FindCitations(req.Message, doc.PagesText, maxCitations)
		}
	}

	systemPrompt, userPrompt := prompts.Chat(req.Message, citations)
	answer, err := h.llm.Complete(r.Context(), llm.Request{
		Kind:         llm.KindChat,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "AI service unavailable")
		return
	}

	chat.Messages = append(chat.Messages,
		model.Message{Role: model.RoleUser, Content: req.Message, Timestamp: now},
		model.Message{Role: model.RoleAssistant, Content: answer, Citations: citations, Timestamp: now},
	)
	chat.LastMessage = req.Message
	chat.UpdatedAt = now

	if isNew {
		err = h.store.InsertChat(chat)
	} else {
		err = h.store.UpdateChat(chat)
	}
	if err != nil {
		slog.Error("save chat", "chat_id", chat.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save chat")
		return
	}

	if citations == nil {
		citations = []model.Citation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chat_id":   chat.ID,
		"message":   answer,
		"citations": citations,
	})
}

func (h *Handler) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	chats, err := h.store.ListChats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list chats")
		return
	}
	if chats == nil {
		chats = []model.ChatSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func (h *Handler) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.store.GetChat(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load chat")
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *Handler) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteChat(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete chat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "chat deleted"})
}
