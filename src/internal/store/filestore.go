package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/model"
)

// FileStore keeps the whole document in one flat JSON file. Saves replace the
// file atomically via a temp file and rename, so a crashed write never leaves
// a half-written document behind.
type FileStore struct {
	path string
	log  *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, log: logger}
}

func (s *FileStore) Load(ctx context.Context) (model.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("Load: no document file yet", zap.String("path", s.path))
		return model.EmptyDocument(), nil
	}
	if err != nil {
		s.log.Error("Load: read failed", zap.String("path", s.path), zap.Error(err))
		return model.Document{}, fmt.Errorf("load document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Error("Load: decode failed", zap.String("path", s.path), zap.Error(err))
		return model.Document{}, fmt.Errorf("decode document: %w", err)
	}
	if doc.Users == nil {
		doc.Users = []model.User{}
	}
	if doc.Teams == nil {
		doc.Teams = []model.Team{}
	}
	if doc.Tickets == nil {
		doc.Tickets = []model.Ticket{}
	}
	return doc, nil
}

func (s *FileStore) Save(ctx context.Context, doc model.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		s.log.Error("Save: write failed", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("save document: %w", err)
	}
	s.log.Debug("Save: document persisted",
		zap.String("path", s.path),
		zap.Int("users", len(doc.Users)),
		zap.Int("teams", len(doc.Teams)),
		zap.Int("tickets", len(doc.Tickets)))
	return nil
}

// CredentialFile persists the signup records in their own JSON file, a plain
// array rather than a keyed document.
type CredentialFile struct {
	path string
	log  *zap.Logger
}

func NewCredentialFile(path string, logger *zap.Logger) *CredentialFile {
	return &CredentialFile{path: path, log: logger}
}

func (s *CredentialFile) Load(ctx context.Context) ([]model.Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("Load: no credential file yet", zap.String("path", s.path))
		return []model.Credential{}, nil
	}
	if err != nil {
		s.log.Error("Load: read failed", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	var creds []model.Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		s.log.Error("Load: decode failed", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if creds == nil {
		creds = []model.Credential{}
	}
	return creds, nil
}

func (s *CredentialFile) Save(ctx context.Context, creds []model.Credential) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		s.log.Error("Save: write failed", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("save credentials: %w", err)
	}
	s.log.Debug("Save: credentials persisted", zap.String("path", s.path), zap.Int("count", len(creds)))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
