package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/teamdesk/helpdesk-service/src/internal/api/apiErrors"
	"github.com/teamdesk/helpdesk-service/src/internal/rules"
	"github.com/teamdesk/helpdesk-service/src/internal/service"
)

type Handler struct {
	svc *service.Services
	log *zap.Logger
}

func NewHandler(svc *service.Services, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, log: logger}
}

// resource binds one entity service to its wire identity: the "From" name in
// the response envelope, the id path parameter, and the delete payload key.
type resource struct {
	from       string
	idParam    string
	deletedKey string
	create     func(context.Context, rules.Payload) (any, error)
	list       func(context.Context) (any, error)
	updateFull func(context.Context, int, rules.Payload) (any, error)
	updatePart func(context.Context, int, rules.Payload) (any, error)
	remove     func(context.Context, int) (int, error)
}

func RegisterRoutes(r *chi.Mux, h *Handler) {
	h.mount(r, "/users", resource{
		from:       "userApi",
		idParam:    "userId",
		deletedKey: "Deleted UserId",
		create: func(ctx context.Context, p rules.Payload) (any, error) {
			u, err := h.svc.Users.Create(ctx, p)
			return u, err
		},
		list: func(ctx context.Context) (any, error) {
			users, err := h.svc.Users.List(ctx)
			return users, err
		},
		updateFull: func(ctx context.Context, id int, p rules.Payload) (any, error) {
			u, err := h.svc.Users.UpdateFull(ctx, id, p)
			return u, err
		},
		updatePart: func(ctx context.Context, id int, p rules.Payload) (any, error) {
			u, err := h.svc.Users.UpdatePartial(ctx, id, p)
			return u, err
		},
		remove: h.svc.Users.Delete,
	})

	h.mount(r, "/teams", resource{
		from:       "teamApi",
		idParam:    "teamId",
		deletedKey: "Deleted TeamId",
		create: func(ctx context.Context, p rules.Payload) (any, error) {
			t, err := h.svc.Teams.Create(ctx, p)
			return t, err
		},
		list: func(ctx context.Context) (any, error) {
			teams, err := h.svc.Teams.List(ctx)
			return teams, err
		},
		updateFull: func(ctx context.Context, id int, p rules.Payload) (any, error) {
			t, err := h.svc.Teams.UpdateFull(ctx, id, p)
			return t, err
		},
		updatePart: func(ctx context.Context, id int, p rules.Payload) (any, error) {
			t, err := h.svc.Teams.UpdatePartial(ctx, id, p)
			return t, err
		},
		remove: h.svc.Teams.Delete,
	})

	h.mount(r, "/tickets", resource{
		from:       "ticketApi",
		idParam:    "ticketId",
		deletedKey: "Deleted TicketId",
		create: func(ctx context.Context, p rules.Payload) (any, error) {
			t, err := h.svc.Tickets.Create(ctx, p)
			return t, err
		},
		list: func(ctx context.Context) (any, error) {
			tickets, err := h.svc.Tickets.List(ctx)
			return tickets, err
		},
		updateFull: func(ctx context.Context, id int, p rules.Payload) (any, error) {
			t, err := h.svc.Tickets.UpdateFull(ctx, id, p)
			return t, err
		},
		updatePart: func(ctx context.Context, id int, p rules.Payload) (any, error) {
			t, err := h.svc.Tickets.UpdatePartial(ctx, id, p)
			return t, err
		},
		remove: h.svc.Tickets.Delete,
	})

	r.Post("/signUp", withTimeout(h.signUp))
	r.Post("/login", withTimeout(h.login))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
}

func (h *Handler) mount(r chi.Router, path string, res resource) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", withTimeout(h.listHandler(res)))
		r.Post("/", withTimeout(h.createHandler(res)))
		r.Put("/{"+res.idParam+"}", withTimeout(h.updateFullHandler(res)))
		r.Patch("/{"+res.idParam+"}", withTimeout(h.updatePartialHandler(res)))
		r.Delete("/{"+res.idParam+"}", withTimeout(h.deleteHandler(res)))
	})
}

func withTimeout(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

func (h *Handler) createHandler(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := decodePayload(w, r, res.from, http.MethodPost, "Data Not Created")
		if !ok {
			return
		}
		created, err := res.create(r.Context(), p)
		if err != nil {
			h.writeSvcError(w, res.from, http.MethodPost, "Data Not Created", err)
			return
		}
		writeEnvelope(w, res.from, http.MethodPost, http.StatusCreated, "Data Created", map[string]any{
			"Received Data": created,
		})
	}
}

func (h *Handler) listHandler(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := res.list(r.Context())
		if err != nil {
			h.writeSvcError(w, res.from, http.MethodGet, "Data Not Received", err)
			return
		}
		writeEnvelope(w, res.from, http.MethodGet, http.StatusOK, "Data Received", map[string]any{
			"Received Data": records,
		})
	}
}

func (h *Handler) updateFullHandler(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, res, http.MethodPut, "Data Not Updated")
		if !ok {
			return
		}
		p, ok := decodePayload(w, r, res.from, http.MethodPut, "Data Not Updated")
		if !ok {
			return
		}
		updated, err := res.updateFull(r.Context(), id, p)
		if err != nil {
			h.writeSvcError(w, res.from, http.MethodPut, "Data Not Updated", err)
			return
		}
		writeEnvelope(w, res.from, http.MethodPut, http.StatusOK, "Data Updated", map[string]any{
			"Updated Data": updated,
		})
	}
}

func (h *Handler) updatePartialHandler(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, res, http.MethodPatch, "Data Not Updated")
		if !ok {
			return
		}
		p, ok := decodePayload(w, r, res.from, http.MethodPatch, "Data Not Updated")
		if !ok {
			return
		}
		updated, err := res.updatePart(r.Context(), id, p)
		if err != nil {
			h.writeSvcError(w, res.from, http.MethodPatch, "Data Not Updated", err)
			return
		}
		writeEnvelope(w, res.from, http.MethodPatch, http.StatusOK, "Data Updated", map[string]any{
			"Updated Data": updated,
		})
	}
}

func (h *Handler) deleteHandler(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, res, http.MethodDelete, "Data Not Deleted")
		if !ok {
			return
		}
		deleted, err := res.remove(r.Context(), id)
		if err != nil {
			h.writeSvcError(w, res.from, http.MethodDelete, "Data Not Deleted", err)
			return
		}
		writeEnvelope(w, res.from, http.MethodDelete, http.StatusOK, "Data Deleted", map[string]any{
			res.deletedKey: deleted,
		})
	}
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmailID  string `json:"emailId"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, "signUpApi", http.MethodPost, http.StatusBadRequest, "Data Not Created", map[string]any{
			"Message": "Invalid request body.",
		})
		return
	}
	cred, err := h.svc.Auth.SignUp(r.Context(), req.EmailID, req.Password)
	if err != nil {
		h.writeSvcError(w, "signUpApi", http.MethodPost, "Data Not Created", err)
		return
	}
	writeEnvelope(w, "signUpApi", http.MethodPost, http.StatusCreated, "Data Created", map[string]any{
		"Message":      "User created successfully.",
		"Created User": map[string]any{"userId": cred.UserID, "emailId": cred.EmailID},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmailID  string `json:"emailId"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, "loginApi", http.MethodPost, http.StatusBadRequest, "Login Failed", map[string]any{
			"Message": "Invalid request body.",
		})
		return
	}
	if err := h.svc.Auth.Login(r.Context(), req.EmailID, req.Password); err != nil {
		h.writeSvcError(w, "loginApi", http.MethodPost, "Login Failed", err)
		return
	}
	writeEnvelope(w, "loginApi", http.MethodPost, http.StatusOK, "Login Successful", map[string]any{
		"Message": "Login successfully.",
	})
}

func decodePayload(w http.ResponseWriter, r *http.Request, from, method, failStatus string) (rules.Payload, bool) {
	var p rules.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeEnvelope(w, from, method, http.StatusBadRequest, failStatus, map[string]any{
			"Message": "Invalid request body.",
		})
		return nil, false
	}
	if p == nil {
		p = rules.Payload{}
	}
	return p, true
}

func parseID(w http.ResponseWriter, r *http.Request, res resource, method, failStatus string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, res.idParam))
	if err != nil {
		writeEnvelope(w, res.from, method, http.StatusBadRequest, failStatus, map[string]any{
			"Message": "Enter a valid " + res.idParam,
		})
		return 0, false
	}
	return id, true
}

// writeSvcError translates a service error into the response envelope.
// failStatus is the per-method failure status string ("Data Not Created" and
// so on); not-found and empty-collection outcomes carry their own.
func (h *Handler) writeSvcError(w http.ResponseWriter, from, method, failStatus string, err error) {
	var e apiErrors.APIError
	if !errors.As(err, &e) {
		h.log.Error("unclassified service error", zap.String("from", from), zap.Error(err))
		writeEnvelope(w, from, method, http.StatusInternalServerError, failStatus, map[string]any{
			"Message": err.Error(),
		})
		return
	}
	switch e.Code {
	case apiErrors.ValidationFailed, apiErrors.Conflict, apiErrors.InvalidID, apiErrors.InvalidCredential:
		writeEnvelope(w, from, method, http.StatusBadRequest, failStatus, map[string]any{
			"Message": e.Message,
		})
	case apiErrors.NotFound:
		writeEnvelope(w, from, method, http.StatusNotFound, "Data Not Found", nil)
	case apiErrors.NoData:
		writeEnvelope(w, from, method, http.StatusNotFound, "No Data Present", nil)
	default:
		h.log.Error("storage or internal error", zap.String("from", from), zap.Error(err))
		writeEnvelope(w, from, method, http.StatusInternalServerError, failStatus, map[string]any{
			"Message": e.Message,
		})
	}
}

func writeEnvelope(w http.ResponseWriter, from, method string, code int, status string, extra map[string]any) {
	body := map[string]any{
		"From":       from,
		"Method":     method,
		"Status":     status,
		"StatusCode": code,
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
