package model

import "time"

// Role represents a chat message role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// QuestionType classifies a quiz question.
type QuestionType string

const (
	// TypeMCQ is a multiple-choice question with four options.
	TypeMCQ QuestionType = "MCQ"
	// TypeSAQ is a short-answer question.
	TypeSAQ QuestionType = "SAQ"
	// TypeLAQ is a long-answer question.
	TypeLAQ QuestionType = "LAQ"
)

// ValidQuestionType reports whether t is one of the known question types.
func ValidQuestionType(t QuestionType) bool {
	return t == TypeMCQ || t == TypeSAQ || t == TypeLAQ
}

// Document is an uploaded coursebook PDF with its extracted text.
// It is immutable once extraction succeeds.
type Document struct {
	ID           string            `json:"pdf_id"`
	Filename     string            `json:"filename"`
	StoragePath  string            `json:"-"`
	FileSize     int64             `json:"file_size"`
	TotalPages   int               `json:"total_pages"`
	PagesText    map[string]string `json:"pages_text,omitempty"`
	IsImageBased bool              `json:"is_image_based"`
	UploadedAt   time.Time         `json:"uploaded_at"`
}

// Citation points at the part of a document that grounded an answer.
// Page is an int for numeric page keys and the raw string key otherwise.
type Citation struct {
	Page      any    `json:"page"`
	Snippet   string `json:"snippet"`
	Relevance int    `json:"relevance"`
}

// QuizQuestion is a single validated quiz question.
// Options is present for MCQ and nil for SAQ/LAQ.
type QuizQuestion struct {
	Question      string       `json:"question"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
}

// Quiz is an immutable set of generated questions.
type Quiz struct {
	ID         string         `json:"quiz_id"`
	DocumentID string         `json:"pdf_id,omitempty"`
	Questions  []QuizQuestion `json:"questions"`
	CreatedAt  time.Time      `json:"created_at"`
}

// QuestionResult is the graded outcome of a single question in an attempt.
type QuestionResult struct {
	QuestionIndex int    `json:"question_index"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// QuizAttempt records one quiz submission. Created once, never mutated.
type QuizAttempt struct {
	ID              string           `json:"id"`
	QuizID          string           `json:"quiz_id"`
	TotalQuestions  int              `json:"total_questions"`
	CorrectAnswers  int              `json:"correct_answers"`
	ScorePercentage float64          `json:"score_percentage"`
	Results         []QuestionResult `json:"results"`
	SubmittedAt     time.Time        `json:"submitted_at"`
}

// Message is one turn in a chat session. Citations are attached to
// assistant messages that were grounded in a document.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Chat is a conversation session, optionally tied to a document.
// Every chat turn appends a user/assistant message pair.
type Chat struct {
	ID          string    `json:"chat_id"`
	DocumentID  string    `json:"pdf_id,omitempty"`
	Messages    []Message `json:"messages"`
	LastMessage string    `json:"last_message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChatSummary is the compact per-session view used in chat history listings.
type ChatSummary struct {
	ID           string    `json:"chat_id"`
	DocumentID   string    `json:"pdf_id,omitempty"`
	LastMessage  string    `json:"last_message"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Recommendation is a suggested study video.
type Recommendation struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
	Reason  string `json:"reason"`
}

// AttemptSummary is the compact per-attempt view used in progress reports.
type AttemptSummary struct {
	Date      time.Time `json:"date"`
	Score     float64   `json:"score"`
	Questions int       `json:"questions"`
}

// Progress is derived on read from all quiz attempts; it is never stored.
// OverallScore is the global weighted average: total correct answers over
// total questions answered, across all attempts.
type Progress struct {
	TotalQuizzes           int              `json:"total_quizzes"`
	TotalQuestionsAnswered int              `json:"total_questions_answered"`
	OverallScore           float64          `json:"overall_score"`
	RecentAttempts         []AttemptSummary `json:"recent_attempts"`
	Strengths              []string         `json:"strengths"`
	Weaknesses             []string         `json:"weaknesses"`
}
