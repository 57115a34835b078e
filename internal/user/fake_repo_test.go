package user

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-tasks-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[int64]*entity.User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{users: map[int64]*entity.User{}} }

func (f *fakeRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return userrepo.ErrDuplicate
		}
	}
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) List(_ context.Context, search string, p hateoas.Pageable) ([]*entity.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*entity.User
	for _, u := range f.users {
		if strings.Contains(u.Username, search) {
			cp := *u
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	start := min(p.Offset(), len(matched))
	end := min(start+p.Size, len(matched))
	return matched[start:end], total, nil
}

func (f *fakeRepo) Update(_ context.Context, u *entity.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return 0, nil
	}
	for id, existing := range f.users {
		if id != u.ID && existing.Username == u.Username {
			return 0, userrepo.ErrDuplicate
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return 1, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return 0, nil
	}
	delete(f.users, id)
	return 1, nil
}

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) NextID() int64 { return s.n.Add(1) }
