package task

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/task/entity"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
)

type fakeRepo struct {
	mu    sync.Mutex
	tasks map[int64]*entity.Task
	err   error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{tasks: map[int64]*entity.Task{}} }

func (f *fakeRepo) Create(_ context.Context, t *entity.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*entity.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, search string, p hateoas.Pageable) ([]*entity.Task, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []*entity.Task
	for _, t := range f.tasks {
		if strings.Contains(t.Title, search) {
			cp := *t
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	start := min(p.Offset(), len(matched))
	end := min(start+p.Size, len(matched))
	return matched[start:end], total, nil
}

func (f *fakeRepo) Update(_ context.Context, t *entity.Task) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[t.ID]; !ok {
		return 0, nil
	}
	cp := *t
	f.tasks[t.ID] = &cp
	return 1, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return 0, nil
	}
	delete(f.tasks, id)
	return 1, nil
}

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) NextID() int64 { return s.n.Add(1) }
