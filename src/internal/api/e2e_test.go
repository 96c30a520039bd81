package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/service"
	"github.com/teamdesk/helpdesk-service/src/internal/store"
)

type EndToEndSuite struct {
	suite.Suite
	srv  *httptest.Server
	docs *store.Memory
}

func (s *EndToEndSuite) SetupTest() {
	s.docs = store.NewMemory()
	creds := store.NewMemoryCredentials()
	logger := zap.NewNop()

	svc := service.New(s.docs, creds, logger)
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware, LoggerMiddleware(logger), Recoverer(logger))
	RegisterRoutes(r, h)

	s.srv = httptest.NewServer(r)
}

func (s *EndToEndSuite) TearDownTest() {
	s.srv.Close()
}

func (s *EndToEndSuite) do(method, path string, body any) (int, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.srv.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func validUser() map[string]any {
	return map[string]any{
		"firstName":   "A",
		"lastName":    "B",
		"emailId":     "a@b.com",
		"phoneNumber": "1234567890",
		"employeeId":  "E1",
		"designation": "Dev",
		"teamId":      1,
	}
}

func (s *EndToEndSuite) TestUserLifecycle() {
	code, body := s.do(http.MethodPost, "/users", validUser())
	s.Equal(http.StatusCreated, code)
	s.Equal("userApi", body["From"])
	s.Equal("POST", body["Method"])
	s.Equal("Data Created", body["Status"])
	s.Equal(float64(http.StatusCreated), body["StatusCode"])
	created := body["Received Data"].(map[string]any)
	s.Equal(float64(1), created["userId"])

	// duplicate email is rejected regardless of other fields
	dup := validUser()
	dup["firstName"] = "C"
	dup["phoneNumber"] = "0987654321"
	dup["employeeId"] = "E2"
	code, body = s.do(http.MethodPost, "/users", dup)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Data Not Created", body["Status"])
	s.Equal("Email already exists.", body["Message"])

	code, body = s.do(http.MethodGet, "/users", nil)
	s.Equal(http.StatusOK, code)
	s.Equal("Data Received", body["Status"])
	s.Len(body["Received Data"].([]any), 1)

	code, body = s.do(http.MethodDelete, "/users/1", nil)
	s.Equal(http.StatusOK, code)
	s.Equal("Data Deleted", body["Status"])
	s.Equal(float64(1), body["Deleted UserId"])

	code, body = s.do(http.MethodGet, "/users", nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("No Data Present", body["Status"])
}

func (s *EndToEndSuite) TestUserFullAndPartialUpdate() {
	code, _ := s.do(http.MethodPost, "/users", validUser())
	s.Equal(http.StatusCreated, code)

	// full update requires every field
	partial := map[string]any{"firstName": "Z"}
	code, body := s.do(http.MethodPut, "/users/1", partial)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Data Not Updated", body["Status"])

	// partial update touches just the supplied field
	code, body = s.do(http.MethodPatch, "/users/1", partial)
	s.Equal(http.StatusOK, code)
	s.Equal("Data Updated", body["Status"])
	updated := body["Updated Data"].(map[string]any)
	s.Equal("Z", updated["firstName"])
	s.Equal("B", updated["lastName"])
	s.Equal("a@b.com", updated["emailId"])

	full := validUser()
	full["designation"] = "Lead"
	code, body = s.do(http.MethodPut, "/users/1", full)
	s.Equal(http.StatusOK, code)
	s.Equal("Lead", body["Updated Data"].(map[string]any)["designation"])
}

func (s *EndToEndSuite) TestInvalidIdentifier() {
	code, body := s.do(http.MethodPut, "/users/abc", validUser())
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Enter a valid userId", body["Message"])

	code, body = s.do(http.MethodDelete, "/teams/xyz", nil)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Enter a valid teamId", body["Message"])
}

func (s *EndToEndSuite) TestUpdateMissingRecordIsNotFound() {
	code, body := s.do(http.MethodPatch, "/tickets/9", map[string]any{"status": "closed"})
	s.Equal(http.StatusNotFound, code)
	s.Equal("Data Not Found", body["Status"])

	// 404 envelopes carry no Message key
	s.NotContains(body, "Message")

	code, body = s.do(http.MethodDelete, "/users/9", nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Data Not Found", body["Status"])
	s.NotContains(body, "Message")
}

func (s *EndToEndSuite) TestTeamMemberPooling() {
	code, _ := s.do(http.MethodPost, "/teams", map[string]any{
		"teamName": "backend",
		"members":  []string{"Alice", "Bob"},
	})
	s.Equal(http.StatusCreated, code)

	code, body := s.do(http.MethodPost, "/teams", map[string]any{
		"teamName": "frontend",
		"members":  []string{"alice"},
	})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Members already exist in another team: alice", body["Message"])

	// a team keeps its own members on update without a conflict
	code, body = s.do(http.MethodPut, "/teams/1", map[string]any{
		"teamName": "backend",
		"members":  []string{"Alice", "Bob", "Carol"},
	})
	s.Equal(http.StatusOK, code)
	s.Equal("Data Updated", body["Status"])
}

func (s *EndToEndSuite) TestSignUpAndLogin() {
	code, body := s.do(http.MethodPost, "/signUp", map[string]any{
		"emailId":  "x@y.com",
		"password": "Abcdef1!",
	})
	s.Equal(http.StatusCreated, code)
	s.Equal("signUpApi", body["From"])
	s.Equal("Data Created", body["Status"])
	createdUser := body["Created User"].(map[string]any)
	s.Equal(float64(1), createdUser["userId"])
	s.Equal("x@y.com", createdUser["emailId"])
	s.NotContains(createdUser, "password")

	code, body = s.do(http.MethodPost, "/login", map[string]any{
		"emailId":  "x@y.com",
		"password": "Abcdef1!",
	})
	s.Equal(http.StatusOK, code)
	s.Equal("Login Successful", body["Status"])

	code, body = s.do(http.MethodPost, "/login", map[string]any{
		"emailId":  "x@y.com",
		"password": "Wrong1!aa",
	})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Login Failed", body["Status"])
	s.Equal("Invalid password.", body["Message"])

	code, body = s.do(http.MethodPost, "/login", map[string]any{
		"emailId":  "nobody@y.com",
		"password": "Abcdef1!",
	})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Invalid email.", body["Message"])
}

func (s *EndToEndSuite) TestMalformedBody() {
	req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/users", bytes.NewBufferString("{not json"))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.srv.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *EndToEndSuite) TestHealth() {
	code, body := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, code)
	s.Equal("ok", body["status"])
}

func TestEndToEndSuite(t *testing.T) {
	suite.Run(t, new(EndToEndSuite))
}
