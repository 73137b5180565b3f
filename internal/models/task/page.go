package task

import (
	"fmt"
	"math"
	"strings"
)

type Direction string

const DirectionAsc Direction = "ASC"
const DirectionDesc Direction = "DESC"

// поля задачи, по которым разрешена сортировка (имена как в JSON)
const (
	PropertyID        = "id"
	PropertyName      = "name"
	PropertyCreatedAt = "createdAt"
	PropertyDueDate   = "dueDate"
	PropertyStatus    = "status"
)

func IsSortable(property string) bool {
	switch property {
	case PropertyID, PropertyName, PropertyCreatedAt, PropertyDueDate, PropertyStatus:
		return true
	}
	return false
}

func ParseDirection(value string) (Direction, error) {
	switch strings.ToUpper(value) {
	case string(DirectionAsc):
		return DirectionAsc, nil
	case string(DirectionDesc):
		return DirectionDesc, nil
	}
	return "", fmt.Errorf("неизвестное направление сортировки: %q", value)
}

type SortOrder struct {
	Property  string
	Direction Direction
}

func (o SortOrder) Descending() bool {
	return o.Direction == DirectionDesc
}

// PageRequest - запрос страницы, номер страницы начинается с нуля
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset - смещение первой записи страницы. При переполнении возвращается math.MaxInt:
// такая страница заведомо за последней и будет пустой.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return fmt.Errorf("номер страницы не может быть отрицательным: %d", p.Page)
	}
	if p.Size <= 0 {
		return fmt.Errorf("размер страницы должен быть положительным: %d", p.Size)
	}
	for _, order := range p.Sort {
		if !IsSortable(order.Property) {
			return fmt.Errorf("сортировка по полю %q не поддерживается", order.Property)
		}
	}
	return nil
}

type Page struct {
	Content       []*Task
	Number        int
	Size          int
	TotalElements int64
}

func (p *Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages()-1
}

func (p *Page) HasPrevious() bool {
	return p.Number > 0
}
