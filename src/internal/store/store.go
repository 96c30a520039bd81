package store

import (
	"context"

	"github.com/teamdesk/helpdesk-service/src/internal/model"
)

// DocumentStore loads and saves the whole entity document. Each request
// performs one Load and, when it mutates, one Save; nothing is cached between
// requests.
type DocumentStore interface {
	Load(ctx context.Context) (model.Document, error)
	Save(ctx context.Context, doc model.Document) error
}

// CredentialStore persists the signup/login records, kept apart from the
// entity document.
type CredentialStore interface {
	Load(ctx context.Context) ([]model.Credential, error)
	Save(ctx context.Context, creds []model.Credential) error
}
