package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/api/apiErrors"
	"github.com/teamdesk/helpdesk-service/src/internal/model"
	"github.com/teamdesk/helpdesk-service/src/internal/rules"
	"github.com/teamdesk/helpdesk-service/src/internal/store"
)

// AuthService is the signup/login check over the credential store. Passwords
// are stored and compared as plaintext; there is no session or token layer.
type AuthService struct {
	store store.CredentialStore
	mu    sync.Mutex
	log   *zap.Logger
}

func (s *AuthService) SignUp(ctx context.Context, emailID, password string) (model.Credential, error) {
	emailID = strings.ToLower(emailID)

	if strings.TrimSpace(emailID) == "" || !rules.EmailValid(emailID) {
		return model.Credential{}, apiErrors.APIError{
			Code:    apiErrors.ValidationFailed,
			Message: "Invalid or empty email. Please provide a valid email address.",
		}
	}
	if strings.TrimSpace(password) == "" || !rules.PasswordValid(password) {
		return model.Credential{}, apiErrors.APIError{
			Code:    apiErrors.ValidationFailed,
			Message: "Invalid or empty password. Password must be at least 8 characters long, contain one uppercase letter, one lowercase letter, one number, and one special character.",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.store.Load(ctx)
	if err != nil {
		return model.Credential{}, storageFailure(err)
	}
	for _, c := range creds {
		if c.EmailID == emailID {
			return model.Credential{}, apiErrors.APIError{
				Code:    apiErrors.Conflict,
				Message: "Email already exists. Please use a different email address.",
			}
		}
	}

	cred := model.Credential{
		UserID:   nextCredentialID(creds),
		EmailID:  emailID,
		Password: password,
	}
	creds = append(creds, cred)
	if err := s.store.Save(ctx, creds); err != nil {
		return model.Credential{}, storageFailure(err)
	}
	s.log.Info("credential created", zap.Int("userId", cred.UserID))
	return cred, nil
}

func (s *AuthService) Login(ctx context.Context, emailID, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.store.Load(ctx)
	if err != nil {
		return storageFailure(err)
	}
	for _, c := range creds {
		if c.EmailID == emailID {
			if c.Password != password {
				s.log.Info("login rejected: wrong password", zap.String("emailId", emailID))
				return apiErrors.APIError{Code: apiErrors.InvalidCredential, Message: "Invalid password."}
			}
			s.log.Info("login accepted", zap.String("emailId", emailID))
			return nil
		}
	}
	s.log.Info("login rejected: unknown email", zap.String("emailId", emailID))
	return apiErrors.APIError{Code: apiErrors.InvalidCredential, Message: "Invalid email."}
}

func nextCredentialID(creds []model.Credential) int {
	max := 0
	for _, c := range creds {
		if c.UserID > max {
			max = c.UserID
		}
	}
	return max + 1
}
