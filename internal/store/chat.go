package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"coursetutor/internal/model"
)

// InsertChat stores a new chat session with its initial messages.
func (s *Store) InsertChat(chat model.Chat) error {
	messages, err := json.Marshal(chat.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO chats (id, document_id, messages, last_message, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		chat.ID, chat.DocumentID, string(messages), chat.LastMessage, chat.CreatedAt, chat.UpdatedAt,
	)
	return err
}

// GetChat returns a chat with its full message history.
func (s *Store) GetChat(id string) (model.Chat, error) {
	var (
		chat     model.Chat
		messages string
	)
	err := s.db.QueryRow(
		`SELECT id, document_id, messages, last_message, created_at, updated_at
		 FROM chats WHERE id = ?`, id,
	).Scan(&chat.ID, &chat.DocumentID, &messages, &chat.LastMessage, &chat.CreatedAt, &chat.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Chat{}, ErrNotFound
	}
	if err != nil {
		return model.Chat{}, err
	}
	if err := json.Unmarshal([]byte(messages), &chat.Messages); err != nil {
		return model.Chat{}, fmt.Errorf("unmarshal messages: %w", err)
	}
	return chat, nil
}

// UpdateChat replaces a chat's message history. Concurrent updates are
// last-writer-wins.
func (s *Store) UpdateChat(chat model.Chat) error {
	messages, err := json.Marshal(chat.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE chats SET messages = ?, last_message = ?, updated_at = ? WHERE id = ?`,
		string(messages), chat.LastMessage, chat.UpdatedAt, chat.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListChats returns session summaries newest first, without message bodies.
func (s *Store) ListChats() ([]model.ChatSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, document_id, last_message, json_array_length(messages), updated_at
		 FROM chats ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []model.ChatSummary
	for rows.Next() {
		var chat model.ChatSummary
		if err := rows.Scan(&chat.ID, &chat.DocumentID, &chat.LastMessage,
			&chat.MessageCount, &chat.UpdatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// DeleteChat removes a chat session.
func (s *Store) DeleteChat(id string) error {
	res, err := s.db.Exec(`DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
