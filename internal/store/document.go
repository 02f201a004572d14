package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"coursetutor/internal/model"
)

// InsertDocument stores a document with its extracted page text.
func (s *Store) InsertDocument(doc model.Document) error {
	pages, err := json.Marshal(doc.PagesText)
	if err != nil {
		return fmt.Errorf("marshal pages: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO documents (id, filename, storage_path, file_size, total_pages, pages_text, is_image_based, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.StoragePath, doc.FileSize, doc.TotalPages,
		string(pages), doc.IsImageBased, doc.UploadedAt,
	)
	return err
}

// GetDocument returns a document by ID, including its page text.
func (s *Store) GetDocument(id string) (model.Document, error) {
	var (
		doc   model.Document
		pages string
	)
	err := s.db.QueryRow(
		`SELECT id, filename, storage_path, file_size, total_pages, pages_text, is_image_based, uploaded_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.StoragePath, &doc.FileSize, &doc.TotalPages,
		&pages, &doc.IsImageBased, &doc.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, ErrNotFound
	}
	if err != nil {
		return model.Document{}, err
	}
	if err := json.Unmarshal([]byte(pages), &doc.PagesText); err != nil {
		return model.Document{}, fmt.Errorf("unmarshal pages: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents newest first, metadata only (no page
// text, which can be large).
func (s *Store) ListDocuments() ([]model.Document, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, storage_path, file_size, total_pages, is_image_based, uploaded_at
		 FROM documents ORDER BY uploaded_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.StoragePath, &doc.FileSize,
			&doc.TotalPages, &doc.IsImageBased, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document record.
func (s *Store) DeleteDocument(id string) error {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
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
