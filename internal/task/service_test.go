package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/task/entity"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

var due = entity.NewDate(2025, time.March, 10)

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, &seqIDs{}), repo
}

func TestInputValidate(t *testing.T) {
	valid := Input{Title: "Write report", Status: "PENDING", DueDate: due}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(*Input)
		field string
	}{
		{"short title", func(in *Input) { in.Title = "ab" }, "title"},
		{"long title", func(in *Input) { in.Title = strings.Repeat("x", 51) }, "title"},
		{"blank title", func(in *Input) { in.Title = "    " }, "title"},
		{"long description", func(in *Input) { in.Description = strings.Repeat("d", 256) }, "description"},
		{"missing status", func(in *Input) { in.Status = "" }, "status"},
		{"padded short title", func(in *Input) { in.Title = "  ab  " }, "title"},
		{"blank status", func(in *Input) { in.Status = "   " }, "status"},
		{"missing due date", func(in *Input) { in.DueDate = entity.Date{} }, "dueDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			fields, ok := utilities.ValidationFields(in.Validate())
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
		})
	}

	padded := valid
	padded.Title = "  " + strings.Repeat("x", 50) + "  "
	assert.NoError(t, padded.Validate())
}

func TestService_CreateValidatesTrimmedTitle(t *testing.T) {
	svc, repo := newTestService()
	_, err := svc.Create(context.Background(), Input{Title: "  ab  ", Status: "PENDING", DueDate: due})
	fields, ok := utilities.ValidationFields(err)
	require.True(t, ok)
	assert.Contains(t, fields, "title")
	assert.Empty(t, repo.tasks)
}

func TestService_Lifecycle(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Title: " Write report ", Status: "PENDING", DueDate: due})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Write report", created.Title)
	assert.Contains(t, repo.tasks, int64(1))

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, due, got.DueDate)

	updated, err := svc.Update(ctx, 1, Input{Title: "Write report", Description: "Q1", Status: "DONE", DueDate: due})
	require.NoError(t, err)
	assert.Equal(t, "DONE", updated.Status)
	assert.Equal(t, "DONE", repo.tasks[1].Status)

	require.NoError(t, svc.Delete(ctx, 1))
	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1), ErrNotFound)
	_, err = svc.Update(ctx, 1, Input{Title: "Write report", Status: "DONE", DueDate: due})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateRejectsInvalidInput(t *testing.T) {
	svc, repo := newTestService()
	_, err := svc.Create(context.Background(), Input{Title: "ok?", Status: "PENDING"})
	_, ok := utilities.ValidationFields(err)
	assert.True(t, ok)
	assert.Empty(t, repo.tasks)
}

func TestService_ListFiltersByTitle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, title := range []string{"Write report", "Review report", "Buy milk"} {
		_, err := svc.Create(ctx, Input{Title: title, Status: "PENDING", DueDate: due})
		require.NoError(t, err)
	}
	tasks, total, err := svc.List(ctx, "report", hateoas.Pageable{Size: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, tasks, 2)
}
