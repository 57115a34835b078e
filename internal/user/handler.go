package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-tasks-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

const CollectionPath = "/api/usuarios"

// Authenticator issues tokens for valid credentials.
type Authenticator interface {
	Login(ctx context.Context, cred auth.Credential) (auth.Token, error)
}

// Handler exposes HTTP endpoints for user operations.
type Handler struct {
	svc    *UserService
	authn  Authenticator
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, authn Authenticator, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, authn: authn, logger: logger}
}

// Model is the hypermedia representation of a user. The password hash is never exposed.
type Model struct {
	ID       int64         `json:"id"`
	Username string        `json:"username"`
	Roles    string        `json:"roles"`
	Links    hateoas.Links `json:"_links"`
}

func toModel(r *http.Request, u *entity.User) Model {
	return Model{ID: u.ID, Username: u.Username, Roles: u.Roles, Links: hateoas.EntityLinks(r, CollectionPath, u.ID)}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := hateoas.PageableFromRequest(r, userrepo.SortColumns)
	users, total, err := h.svc.List(r.Context(), r.URL.Query().Get("busca"), p)
	if err != nil {
		h.fail(w, "list users", err)
		return
	}
	models := make([]Model, 0, len(users))
	for _, u := range users {
		models = append(models, toModel(r, u))
	}
	utilities.WriteJSON(w, http.StatusOK, hateoas.NewPagedModel(r, "user", models, p, total))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get user", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, toModel(r, u))
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	u, err := h.svc.SignupUser(r.Context(), in)
	if err != nil {
		h.fail(w, "signup", err)
		return
	}
	h.logger.Infow("user registered", "user_id", u.ID)
	m := toModel(r, u)
	w.Header().Set("Location", m.Links["self"].Href)
	utilities.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debugw("invalid update payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	u, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update user", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, toModel(r, u))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cred auth.Credential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	tok, err := h.authn.Login(r.Context(), cred)
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			utilities.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.fail(w, "login", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, tok)
}

// fail maps service errors to status codes.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if fields, ok := utilities.ValidationFields(err); ok {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.RestError{Cod: http.StatusBadRequest, Message: "invalid fields", Fields: fields})
		return
	}
	switch {
	case errors.Is(err, ErrUserNotFound):
		utilities.WriteError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ErrUsernameTaken):
		utilities.WriteError(w, http.StatusConflict, "username already taken")
	default:
		h.logger.Errorw(op+" failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, op+" failed")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
