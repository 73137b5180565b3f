package task_test

import (
	"math"
	"testing"
	"time"
	"todoTracker/internal/models/task"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTask_Equal проверяет, что id не участвует в сравнении
func TestTask_Equal(t *testing.T) {
	now := time.Now()
	due := now.Add(48 * time.Hour)

	task1 := &task.Task{ID: uuid.NewString(), Name: "Task", CreatedAt: now, Status: task.StatusPlanning}
	task2 := &task.Task{ID: uuid.NewString(), Name: "Task", CreatedAt: now, Status: task.StatusPlanning}
	empty := &task.Task{}

	assert.True(t, task1.Equal(task2))
	assert.True(t, task2.Equal(task1))
	assert.False(t, task1.Equal(empty))
	assert.False(t, task2.Equal(empty))
	assert.False(t, task1.Equal(nil))
	assert.True(t, (*task.Task)(nil).Equal(nil))

	tests := []struct {
		name   string
		mutate func(*task.Task)
	}{
		{name: "different name", mutate: func(x *task.Task) { x.Name = "Other" }},
		{name: "different createdAt", mutate: func(x *task.Task) { x.CreatedAt = now.Add(time.Second) }},
		{name: "dueDate set", mutate: func(x *task.Task) { x.DueDate = &due }},
		{name: "different status", mutate: func(x *task.Task) { x.Status = task.StatusDoing }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := task1.Clone()
			other.ID = uuid.NewString()
			tt.mutate(other)
			assert.False(t, task1.Equal(other))
		})
	}
}

func TestTask_EqualDueDatesByInstant(t *testing.T) {
	due := time.Date(2019, 10, 1, 9, 30, 0, 0, time.UTC)
	dueInOtherZone := due.In(time.FixedZone("UTC+3", 3*60*60))

	a := &task.Task{Name: "Task", CreatedAt: due, DueDate: &due, Status: task.StatusDoing}
	b := &task.Task{Name: "Task", CreatedAt: due, DueDate: &dueInOtherZone, Status: task.StatusDoing}

	assert.True(t, a.Equal(b))
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    task.Task
		wantErr error
	}{
		{name: "valid", task: task.Task{Name: "Task", Status: task.StatusCompleted}},
		{name: "empty name", task: task.Task{Name: "", Status: task.StatusPlanning}, wantErr: task.ErrEmptyName},
		{name: "blank name", task: task.Task{Name: "   ", Status: task.StatusPlanning}, wantErr: task.ErrEmptyName},
		{name: "unknown status", task: task.Task{Name: "Task", Status: "DONE"}, wantErr: task.ErrInvalidStatus},
		{name: "missing status", task: task.Task{Name: "Task"}, wantErr: task.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, value := range []string{"PLANNING", "DOING", "COMPLETED"} {
		status, err := task.ParseStatus(value)
		require.NoError(t, err)
		assert.Equal(t, value, string(status))
	}

	_, err := task.ParseStatus("planning")
	assert.ErrorIs(t, err, task.ErrInvalidStatus)
}

func TestTask_CloneAndApply(t *testing.T) {
	createdAt := time.Now()
	due := createdAt.Add(time.Hour)
	original := &task.Task{ID: "id-1", Name: "Task", CreatedAt: createdAt, DueDate: &due, Status: task.StatusPlanning}

	clone := original.Clone()
	newDue := due.Add(time.Hour)
	clone.Apply(
		task.WithName("Another task"),
		task.WithDueDate(&newDue),
		task.WithStatus(task.StatusCompleted),
	)

	assert.Equal(t, "Task", original.Name)
	assert.True(t, original.DueDate.Equal(due))
	assert.Equal(t, task.StatusPlanning, original.Status)

	assert.Equal(t, "id-1", clone.ID)
	assert.True(t, clone.CreatedAt.Equal(createdAt))
	assert.Equal(t, "Another task", clone.Name)
	assert.True(t, clone.DueDate.Equal(newDue))
	assert.Equal(t, task.StatusCompleted, clone.Status)

	clone.Apply(task.WithDueDate(nil))
	assert.Nil(t, clone.DueDate)
	assert.Contains(t, clone.String(), "dueDate=<nil>")
}

func TestPage_Metadata(t *testing.T) {
	tests := []struct {
		name    string
		page    task.Page
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{name: "empty", page: task.Page{Number: 0, Size: 20, TotalElements: 0}, pages: 0},
		{name: "single page", page: task.Page{Number: 0, Size: 20, TotalElements: 2}, pages: 1},
		{name: "first of three", page: task.Page{Number: 0, Size: 2, TotalElements: 5}, pages: 3, hasNext: true},
		{name: "middle", page: task.Page{Number: 1, Size: 2, TotalElements: 5}, pages: 3, hasNext: true, hasPrev: true},
		{name: "last", page: task.Page{Number: 2, Size: 2, TotalElements: 5}, pages: 3, hasPrev: true},
		{name: "max page number", page: task.Page{Number: math.MaxInt, Size: 2, TotalElements: 5}, pages: 3, hasPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pages, tt.page.TotalPages())
			assert.Equal(t, tt.hasNext, tt.page.HasNext())
			assert.Equal(t, tt.hasPrev, tt.page.HasPrevious())
		})
	}
}

func TestPageRequest_Validate(t *testing.T) {
	assert.NoError(t, task.PageRequest{Page: 0, Size: 1}.Validate())
	assert.Error(t, task.PageRequest{Page: -1, Size: 1}.Validate())
	assert.Error(t, task.PageRequest{Page: 0, Size: 0}.Validate())
	assert.Error(t, task.PageRequest{Page: 0, Size: 5, Sort: []task.SortOrder{{Property: "title"}}}.Validate())
	assert.Equal(t, 10, task.PageRequest{Page: 2, Size: 5}.Offset())
}

func TestPageRequest_OffsetOverflow(t *testing.T) {
	tests := []struct {
		name string
		req  task.PageRequest
		want int
	}{
		{name: "first page", req: task.PageRequest{Page: 0, Size: 20}, want: 0},
		{name: "regular", req: task.PageRequest{Page: 3, Size: 20}, want: 60},
		{name: "max page", req: task.PageRequest{Page: math.MaxInt, Size: 2}, want: math.MaxInt},
		{name: "product wraps to zero", req: task.PageRequest{Page: 1 << 62, Size: 4}, want: math.MaxInt},
		{name: "largest exact", req: task.PageRequest{Page: math.MaxInt / 100, Size: 100}, want: math.MaxInt / 100 * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Offset())
		})
	}
}
