package store

import (
	"context"
	"sync"

	"github.com/teamdesk/helpdesk-service/src/internal/model"
)

// Memory is an in-memory DocumentStore for tests. LoadErr and SaveErr, when
// set, are returned instead of touching the document, to exercise the
// storage-failure paths.
type Memory struct {
	mu      sync.Mutex
	doc     model.Document
	seeded  bool
	LoadErr error
	SaveErr error
	Saves   int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Seed(doc model.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
	m.seeded = true
}

func (m *Memory) Load(ctx context.Context) (model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return model.Document{}, m.LoadErr
	}
	if !m.seeded {
		return model.EmptyDocument(), nil
	}
	return cloneDocument(m.doc), nil
}

func (m *Memory) Save(ctx context.Context, doc model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.doc = cloneDocument(doc)
	m.seeded = true
	m.Saves++
	return nil
}

// Snapshot returns the currently persisted document.
func (m *Memory) Snapshot() model.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneDocument(m.doc)
}

// cloneDocument copies the document so callers never share slices with the
// store, matching the isolation a real file round-trip gives.
func cloneDocument(doc model.Document) model.Document {
	out := model.Document{
		Users:   make([]model.User, len(doc.Users)),
		Teams:   make([]model.Team, len(doc.Teams)),
		Tickets: make([]model.Ticket, len(doc.Tickets)),
	}
	copy(out.Users, doc.Users)
	copy(out.Tickets, doc.Tickets)
	for i, t := range doc.Teams {
		members := make([]string, len(t.Members))
		copy(members, t.Members)
		t.Members = members
		out.Teams[i] = t
	}
	return out
}

// MemoryCredentials is the credential-store counterpart of Memory.
type MemoryCredentials struct {
	mu      sync.Mutex
	creds   []model.Credential
	LoadErr error
	SaveErr error
}

func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{}
}

func (m *MemoryCredentials) Seed(creds []model.Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = creds
}

func (m *MemoryCredentials) Load(ctx context.Context) ([]model.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.creds == nil {
		return []model.Credential{}, nil
	}
	out := make([]model.Credential, len(m.creds))
	copy(out, m.creds)
	return out, nil
}

func (m *MemoryCredentials) Save(ctx context.Context, creds []model.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.creds = creds
	return nil
}

// Snapshot returns the currently persisted credentials.
func (m *MemoryCredentials) Snapshot() []model.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Credential, len(m.creds))
	copy(out, m.creds)
	return out
}
