package task

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/task/entity"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

var ErrNotFound = errors.New("task not found")

// Repository is the persistence the service needs; *repo.Repo satisfies it.
type Repository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id int64) (*entity.Task, error)
	List(ctx context.Context, search string, p hateoas.Pageable) ([]*entity.Task, int64, error)
	Update(ctx context.Context, t *entity.Task) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type IDGenerator interface {
	NextID() int64
}

// Input is the body of the create and update endpoints.
type Input struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	DueDate     entity.Date `json:"dueDate"`
}

// normalize trims what is stored trimmed, so validation sees the stored value.
func (in Input) normalize() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.TrimSpace(in.Status)
	return in
}

// Validate checks the normalized input.
func (in Input) Validate() error {
	in = in.normalize()
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, utilities.NotBlank, validation.Length(3, 50)),
		validation.Field(&in.Description, validation.Length(0, 255)),
		validation.Field(&in.Status, validation.Required, utilities.NotBlank),
		// the zero date is stored as NULL, which Required treats as empty
		validation.Field(&in.DueDate, validation.Required),
	)
}

func (in Input) apply(t *entity.Task) {
	in = in.normalize()
	t.Title = in.Title
	t.Description = in.Description
	t.Status = in.Status
	t.DueDate = in.DueDate
}

// Service holds the task use cases.
type Service struct {
	repo Repository
	ids  IDGenerator
}

func NewService(r Repository, ids IDGenerator) *Service {
	return &Service{repo: r, ids: ids}
}

func (s *Service) Create(ctx context.Context, in Input) (*entity.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := &entity.Task{ID: s.ids.NextID()}
	in.apply(t)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns a page of tasks whose title contains search.
func (s *Service) List(ctx context.Context, search string, p hateoas.Pageable) ([]*entity.Task, int64, error) {
	return s.repo.List(ctx, search, p)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*entity.Task, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.apply(existing)
	rows, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
