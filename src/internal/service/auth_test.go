package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/api/apiErrors"
	"github.com/teamdesk/helpdesk-service/src/internal/store"
)

func newAuthServices(creds store.CredentialStore) *Services {
	return New(store.NewMemory(), creds, zap.NewNop())
}

func TestSignUpCreatesCredential(t *testing.T) {
	creds := store.NewMemoryCredentials()
	svc := newAuthServices(creds)

	cred, err := svc.Auth.SignUp(context.Background(), "X@Y.com", "Abcdef1!")
	require.NoError(t, err)

	assert.Equal(t, 1, cred.UserID)
	assert.Equal(t, "x@y.com", cred.EmailID) // lower-cased on write

	stored := creds.Snapshot()
	require.Len(t, stored, 1)
	assert.Equal(t, cred, stored[0])
}

func TestSignUpAssignsSequentialIDs(t *testing.T) {
	svc := newAuthServices(store.NewMemoryCredentials())
	ctx := context.Background()

	first, err := svc.Auth.SignUp(ctx, "a@y.com", "Abcdef1!")
	require.NoError(t, err)
	second, err := svc.Auth.SignUp(ctx, "b@y.com", "Abcdef1!")
	require.NoError(t, err)

	assert.Equal(t, 1, first.UserID)
	assert.Equal(t, 2, second.UserID)
}

func TestSignUpInvalidEmail(t *testing.T) {
	svc := newAuthServices(store.NewMemoryCredentials())

	_, err := svc.Auth.SignUp(context.Background(), "not-an-email", "Abcdef1!")

	e := apiErr(t, err)
	assert.Equal(t, apiErrors.ValidationFailed, e.Code)
	assert.Equal(t, "Invalid or empty email. Please provide a valid email address.", e.Message)
}

func TestSignUpWeakPassword(t *testing.T) {
	svc := newAuthServices(store.NewMemoryCredentials())

	for _, pw := range []string{"", "short1!", "abcdefg1!", "ABCDEFG1!", "Abcdefgh!", "Abcdefg12"} {
		_, err := svc.Auth.SignUp(context.Background(), "x@y.com", pw)
		e := apiErr(t, err)
		assert.Equal(t, apiErrors.ValidationFailed, e.Code, pw)
	}
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	svc := newAuthServices(store.NewMemoryCredentials())
	ctx := context.Background()

	_, err := svc.Auth.SignUp(ctx, "x@y.com", "Abcdef1!")
	require.NoError(t, err)

	// signup lower-cases before the uniqueness check
	_, err = svc.Auth.SignUp(ctx, "X@Y.COM", "Abcdef1!")

	e := apiErr(t, err)
	assert.Equal(t, apiErrors.Conflict, e.Code)
	assert.Equal(t, "Email already exists. Please use a different email address.", e.Message)
}

func TestLoginScenarios(t *testing.T) {
	svc := newAuthServices(store.NewMemoryCredentials())
	ctx := context.Background()

	_, err := svc.Auth.SignUp(ctx, "x@y.com", "Abcdef1!")
	require.NoError(t, err)

	assert.NoError(t, svc.Auth.Login(ctx, "x@y.com", "Abcdef1!"))

	err = svc.Auth.Login(ctx, "x@y.com", "Wrong1!aa")
	e := apiErr(t, err)
	assert.Equal(t, apiErrors.InvalidCredential, e.Code)
	assert.Equal(t, "Invalid password.", e.Message)

	err = svc.Auth.Login(ctx, "nobody@y.com", "Abcdef1!")
	e = apiErr(t, err)
	assert.Equal(t, apiErrors.InvalidCredential, e.Code)
	assert.Equal(t, "Invalid email.", e.Message)
}

func TestLoginStorageFailure(t *testing.T) {
	creds := store.NewMemoryCredentials()
	creds.LoadErr = assert.AnError
	svc := newAuthServices(creds)

	err := svc.Auth.Login(context.Background(), "x@y.com", "Abcdef1!")
	assert.Equal(t, apiErrors.StorageFailure, apiErr(t, err).Code)
}
