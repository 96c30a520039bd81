package service

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/api/apiErrors"
	"github.com/teamdesk/helpdesk-service/src/internal/rules"
	"github.com/teamdesk/helpdesk-service/src/internal/store"
)

// Services bundles the per-entity services. The three document-backed
// services share one RWMutex so every read-modify-write cycle against the
// document is serialized; the original flat-file design had a lost-update
// race here.
type Services struct {
	Users   *UserService
	Teams   *TeamService
	Tickets *TicketService
	Auth    *AuthService
}

func New(docs store.DocumentStore, creds store.CredentialStore, logger *zap.Logger) *Services {
	mu := &sync.RWMutex{}
	return &Services{
		Users:   &UserService{store: docs, mu: mu, log: logger},
		Teams:   &TeamService{store: docs, mu: mu, log: logger},
		Tickets: &TicketService{store: docs, mu: mu, log: logger},
		Auth:    &AuthService{store: creds, log: logger},
	}
}

func validationFailed(v rules.Violations) error {
	return apiErrors.APIError{Code: apiErrors.ValidationFailed, Message: v.Message()}
}

func conflict(v rules.Violations) error {
	return apiErrors.APIError{Code: apiErrors.Conflict, Message: v.Message()}
}

func notFound(msg string) error {
	return apiErrors.APIError{Code: apiErrors.NotFound, Message: msg}
}

func noData() error {
	return apiErrors.APIError{Code: apiErrors.NoData, Message: ""}
}

func storageFailure(err error) error {
	return apiErrors.APIError{Code: apiErrors.StorageFailure, Message: err.Error()}
}

// ruleError folds the two violation lists into one error: plain rule failures
// dominate and report everything, a purely-uniqueness failure is a conflict.
func ruleError(v, unique rules.Violations) error {
	if v.Empty() && unique.Empty() {
		return nil
	}
	all := append(append(rules.Violations{}, v...), unique...)
	if v.Empty() {
		return conflict(all)
	}
	return validationFailed(all)
}

func joined(names []string) string { return strings.Join(names, ", ") }
