package store

import (
	"errors"
	"testing"
	"time"

	"coursetutor/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestDocument(t *testing.T, s *Store, id, filename string, pages map[string]string) model.Document {
	t.Helper()
	doc := model.Document{
		ID:          id,
		Filename:    filename,
		StoragePath: id + ".pdf",
		FileSize:    1024,
		TotalPages:  len(pages),
		PagesText:   pages,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.InsertDocument(doc); err != nil {
		t.Fatalf("insertTestDocument: %v", err)
	}
	return doc
}

func TestDocumentCRUD(t *testing.T) {
	s := newTestStore(t)

	list, err := s.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	pages := map[string]string{"1": "Photosynthesis basics.", "2": "The Calvin cycle."}
	doc := insertTestDocument(t, s, "doc-1", "bio.pdf", pages)

	got, err := s.GetDocument("doc-1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Filename != doc.Filename {
		t.Errorf("Filename = %q, want %q", got.Filename, doc.Filename)
	}
	if got.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", got.TotalPages)
	}
	if got.PagesText["2"] != "The Calvin cycle." {
		t.Errorf("page 2 = %q", got.PagesText["2"])
	}

	// List must not carry page text.
	list, err = s.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 document, got %d", len(list))
	}
	if list[0].PagesText != nil {
		t.Error("list entries should not include page text")
	}

	if err := s.DeleteDocument("doc-1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := s.GetDocument("doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteDocument("doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDocumentListOrder(t *testing.T) {
	s := newTestStore(t)

	older := model.Document{ID: "old", Filename: "old.pdf", StoragePath: "old.pdf",
		UploadedAt: time.Now().UTC().Add(-time.Hour)}
	newer := model.Document{ID: "new", Filename: "new.pdf", StoragePath: "new.pdf",
		UploadedAt: time.Now().UTC()}
	if err := s.InsertDocument(older); err != nil {
		t.Fatalf("InsertDocument: %v", err)
	}
	if err := s.InsertDocument(newer); err != nil {
		t.Fatalf("InsertDocument: %v", err)
	}

	list, err := s.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestQuizRoundTrip(t *testing.T) {
	s := newTestStore(t)

	quiz := model.Quiz{
		ID:         "quiz-1",
		DocumentID: "doc-1",
		Questions: []model.QuizQuestion{
			{
				Question:      "What does a leaf absorb?",
				QuestionType:  model.TypeMCQ,
				Options:       []string{"Light", "Sound", "Heat", "Pressure"},
				CorrectAnswer: "Light",
				Explanation:   "Chlorophyll absorbs light energy.",
			},
			{
				Question:      "Name the gas plants release.",
				QuestionType:  model.TypeSAQ,
				CorrectAnswer: "Oxygen",
				Explanation:   "Photosynthesis releases oxygen.",
			},
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.InsertQuiz(quiz); err != nil {
		t.Fatalf("InsertQuiz: %v", err)
	}

	got, err := s.GetQuiz("quiz-1")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got.Questions))
	}
	if got.Questions[0].QuestionType != model.TypeMCQ {
		t.Errorf("question 0 type = %q, want MCQ", got.Questions[0].QuestionType)
	}
	if len(got.Questions[0].Options) != 4 {
		t.Errorf("question 0 options = %d, want 4", len(got.Questions[0].Options))
	}
	if got.Questions[1].Options != nil {
		t.Error("SAQ should have no options")
	}

	if _, err := s.GetQuiz("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttemptsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, score := range []float64{50, 75, 100} {
		attempt := model.QuizAttempt{
			ID:              "attempt-" + string(rune('a'+i)),
			QuizID:          "quiz-1",
			TotalQuestions:  4,
			CorrectAnswers:  i + 2,
			ScorePercentage: score,
			Results: []model.QuestionResult{
				{QuestionIndex: 0, Question: "q", UserAnswer: "a", CorrectAnswer: "a", IsCorrect: true},
			},
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.InsertAttempt(attempt); err != nil {
			t.Fatalf("InsertAttempt: %v", err)
		}
	}

	attempts, err := s.ListAttempts(0)
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(attempts))
	}
	if attempts[0].ScorePercentage != 100 {
		t.Errorf("newest attempt score = %v, want 100", attempts[0].ScorePercentage)
	}
	if len(attempts[0].Results) != 1 || !attempts[0].Results[0].IsCorrect {
		t.Errorf("results did not round-trip: %+v", attempts[0].Results)
	}

	limited, err := s.ListAttempts(2)
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 attempts with limit, got %d", len(limited))
	}
}

func TestChatLifecycle(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC()
	chat := model.Chat{
		ID:         "chat-1",
		DocumentID: "doc-1",
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "What is osmosis?", Timestamp: now},
			{
				Role:    model.RoleAssistant,
				Content: "Osmosis is the movement of water across a membrane.",
				Citations: []model.Citation{
					{Page: 3, Snippet: "water moves across the membrane", Relevance: 2},
				},
				Timestamp: now,
			},
		},
		LastMessage: "What is osmosis?",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.InsertChat(chat); err != nil {
		t.Fatalf("InsertChat: %v", err)
	}

	got, err := s.GetChat("chat-1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[1].Role != model.RoleAssistant {
		t.Errorf("message 1 role = %q, want assistant", got.Messages[1].Role)
	}
	if len(got.Messages[1].Citations) != 1 {
		t.Fatalf("citations did not round-trip: %+v", got.Messages[1].Citations)
	}

	// Append a turn and update.
	got.Messages = append(got.Messages,
		model.Message{Role: model.RoleUser, Content: "And diffusion?", Timestamp: now.Add(time.Minute)},
		model.Message{Role: model.RoleAssistant, Content: "Diffusion spreads particles.", Timestamp: now.Add(time.Minute)},
	)
	got.LastMessage = "And diffusion?"
	got.UpdatedAt = now.Add(time.Minute)
	if err := s.UpdateChat(got); err != nil {
		t.Fatalf("UpdateChat: %v", err)
	}

	updated, err := s.GetChat("chat-1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if len(updated.Messages) != 4 {
		t.Errorf("expected 4 messages after update, got %d", len(updated.Messages))
	}
	if updated.LastMessage != "And diffusion?" {
		t.Errorf("LastMessage = %q", updated.LastMessage)
	}

	list, err := s.ListChats()
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(list))
	}
	if list[0].MessageCount != 4 {
		t.Errorf("MessageCount = %d, want 4", list[0].MessageCount)
	}
	if list[0].LastMessage != "And diffusion?" {
		t.Errorf("summary LastMessage = %q", list[0].LastMessage)
	}

	if err := s.DeleteChat("chat-1"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	if _, err := s.GetChat("chat-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.UpdateChat(got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating deleted chat, got %v", err)
	}
}
