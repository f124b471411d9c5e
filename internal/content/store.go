// Package content is the per-feature JSON document store and its mutation
// layer. Storage is schema-less: one opaque blob per feature, replaced
// wholesale on every write. Only the mutation layer knows the per-type
// shapes, and a concurrent writer to the same document wins last.
package content

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"circle-backend/internal/apperror"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the raw document for a feature, NotFound if absent.
func (s *Store) Get(featureID string) (json.RawMessage, error) {
	var raw []byte
	err := s.db.QueryRow("SELECT content FROM feature_content WHERE feature_id = ?", featureID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "Feature not found")
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// Set replaces the whole document. There is no field-level update primitive;
// every mutation is read-modify-write of the full blob.
func (s *Store) Set(featureID string, document any) error {
	raw, err := json.Marshal(document)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(
		"UPDATE feature_content SET content = ?, updated_at = ? WHERE feature_id = ?",
		string(raw), time.Now().Unix(), featureID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.New(apperror.NotFound, "Feature not found")
	}

	return nil
}

// CreateDefault inserts the catalog's initial document for the feature type.
func (s *Store) CreateDefault(featureID string, featureType string) error {
	return s.createDefaultWith(s.db, featureID, featureType)
}

// CreateDefaultTx is CreateDefault inside a caller-owned transaction, used by
// server creation so all 13 documents land atomically.
func (s *Store) CreateDefaultTx(tx *sql.Tx, featureID string, featureType string) error {
	return s.createDefaultWith(tx, featureID, featureType)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) createDefaultWith(e execer, featureID string, featureType string) error {
	raw, err := json.Marshal(InitialDocument(featureType))
	if err != nil {
		return err
	}

	_, err = e.Exec(
		"INSERT INTO feature_content (feature_id, content, updated_at) VALUES (?, ?, ?)",
		featureID, string(raw), time.Now().Unix(),
	)
	return err
}

// Replace overwrites the document with caller-supplied JSON, creating the row
// if it doesn't exist. This is the one write path that bypasses the catalog
// shapes entirely.
func (s *Store) Replace(featureID string, document json.RawMessage) error {
	if !json.Valid(document) {
		return apperror.New(apperror.InvalidArgument, "Invalid JSON data")
	}

	now := time.Now().Unix()

	result, err := s.db.Exec(
		"UPDATE feature_content SET content = ?, updated_at = ? WHERE feature_id = ?",
		string(document), now, featureID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		_, err = s.db.Exec(
			"INSERT INTO feature_content (feature_id, content, updated_at) VALUES (?, ?, ?)",
			featureID, string(document), now,
		)
	}

	return err
}

// load decodes the document into a typed shape for a mutation.
func (s *Store) load(featureID string, v any) error {
	raw, err := s.Get(featureID)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
