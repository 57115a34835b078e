package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/task/entity"
	taskrepo "github.com/ovaphlow/pitchfork/service-tasks-go/internal/task/repo"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

const CollectionPath = "/api/tasks"

// Handler exposes HTTP endpoints for tasks. Every route expects an
// authenticated principal in the request context.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type Model struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	DueDate     entity.Date   `json:"dueDate"`
	Links       hateoas.Links `json:"_links"`
}

func toModel(r *http.Request, t *entity.Task) Model {
	return Model{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     t.DueDate,
		Links:       hateoas.EntityLinks(r, CollectionPath, t.ID),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := hateoas.PageableFromRequest(r, taskrepo.SortColumns)
	tasks, total, err := h.svc.List(r.Context(), r.URL.Query().Get("busca"), p)
	if err != nil {
		h.fail(w, "list tasks", err)
		return
	}
	models := make([]Model, 0, len(tasks))
	for _, t := range tasks {
		models = append(models, toModel(r, t))
	}
	utilities.WriteJSON(w, http.StatusOK, hateoas.NewPagedModel(r, "task", models, p, total))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get task", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, toModel(r, t))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debugw("invalid task payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	t, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create task", err)
		return
	}
	if p := auth.FromContext(r.Context()); p != nil {
		h.logger.Infow("task created", "task_id", t.ID, "user_id", p.ID)
	}
	m := toModel(r, t)
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
		h.logger.Debugw("invalid task payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	t, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update task", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, toModel(r, t))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if fields, ok := utilities.ValidationFields(err); ok {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.RestError{Cod: http.StatusBadRequest, Message: "invalid fields", Fields: fields})
		return
	}
	if errors.Is(err, ErrNotFound) {
		utilities.WriteError(w, http.StatusNotFound, "task not found")
		return
	}
	h.logger.Errorw(op+" failed", "err", err)
	utilities.WriteError(w, http.StatusInternalServerError, op+" failed")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
