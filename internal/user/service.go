package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-tasks-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Repository is the persistence the service needs; *repo.UserRepo satisfies it.
type Repository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context, search string, p hateoas.Pageable) ([]*entity.User, int64, error)
	Update(ctx context.Context, u *entity.User) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type IDGenerator interface {
	NextID() int64
}

// Input is the body of the registration and update endpoints.
type Input struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Roles    string `json:"roles"`
}

// hasRole rejects role strings that name no capability, such as ",".
var hasRole = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s != "" && len(auth.ParseRoles(s)) == 0 {
		return errors.New("must name at least one role")
	}
	return nil
})

// normalize trims what is stored trimmed, so validation sees the stored value.
func (in Input) normalize() Input {
	in.Username = strings.TrimSpace(in.Username)
	in.Roles = strings.TrimSpace(in.Roles)
	return in
}

// Validate checks the normalized input.
func (in Input) Validate() error {
	in = in.normalize()
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, utilities.NotBlank, validation.Length(3, 50)),
		// bcrypt ignores everything past 72 bytes
		validation.Field(&in.Password, validation.Required, utilities.NotBlank, validation.Length(8, 72)),
		validation.Field(&in.Roles, validation.Required, utilities.NotBlank, hasRole),
	)
}

// UserService owns the user lifecycle and serves as the credential store for auth.
type UserService struct {
	repo   Repository
	hasher auth.PasswordHasher
	ids    IDGenerator
}

func NewUserService(r Repository, hasher auth.PasswordHasher, ids IDGenerator) *UserService {
	if hasher == nil {
		hasher = auth.BcryptHasher{Cost: 12}
	}
	return &UserService{repo: r, hasher: hasher, ids: ids}
}

// SignupUser validates in, hashes the password and stores a new user.
func (s *UserService) SignupUser(ctx context.Context, in Input) (*entity.User, error) {
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		ID:           s.ids.NextID(),
		Username:     in.Username,
		PasswordHash: hash,
		Roles:        in.Roles,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, search string, p hateoas.Pageable) ([]*entity.User, int64, error) {
	return s.repo.List(ctx, search, p)
}

// Update replaces the user's username, password and roles.
func (s *UserService) Update(ctx context.Context, id int64, in Input) (*entity.User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	existing.Username = in.Username
	existing.PasswordHash = hash
	existing.Roles = in.Roles
	rows, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, userrepo.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	if rows == 0 {
		// deleted between the read and the write
		return nil, ErrUserNotFound
	}
	return existing, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindByUsername implements auth.CredentialStore.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*auth.Identity, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, err
	}
	return &auth.Identity{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Roles:        auth.ParseRoles(u.Roles),
	}, nil
}
