package postgres

import (
	"testing"
	"todoTracker/internal/models/task"

	"github.com/stretchr/testify/assert"
)

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name   string
		orders []task.SortOrder
		want   string
	}{
		{name: "default", orders: nil, want: "created_at ASC, id ASC"},
		{
			name:   "name desc",
			orders: []task.SortOrder{{Property: task.PropertyName, Direction: task.DirectionDesc}},
			want:   "name DESC, id ASC",
		},
		{
			name: "several keys",
			orders: []task.SortOrder{
				{Property: task.PropertyStatus, Direction: task.DirectionAsc},
				{Property: task.PropertyDueDate, Direction: task.DirectionDesc},
			},
			want: "status ASC, due_date DESC, id ASC",
		},
		{
			name:   "unknown property is skipped",
			orders: []task.SortOrder{{Property: "name; DROP TABLE tasks", Direction: task.DirectionAsc}},
			want:   "id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.orders))
		})
	}
}
