package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/models/task"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Paging struct {
	DefaultSize int
	MaxSize     int
}

func (p Paging) normalize() Paging {
	if p.MaxSize <= 0 {
		p.MaxSize = MaxPageSize
	}
	if p.DefaultSize <= 0 {
		p.DefaultSize = DefaultPageSize
	}
	if p.DefaultSize > p.MaxSize {
		p.DefaultSize = p.MaxSize
	}
	return p
}

// parsePageRequest читает page, size и sort. Размер больше максимального урезается до максимума.
func parsePageRequest(query url.Values, paging Paging) (task.PageRequest, error) {
	req := task.PageRequest{Page: 0, Size: paging.DefaultSize}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("page должен быть числом: %q", raw)
		}
		if page < 0 {
			return req, fmt.Errorf("page не может быть отрицательным: %d", page)
		}
		req.Page = page
	}

	if raw := query.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("size должен быть числом: %q", raw)
		}
		if size <= 0 {
			return req, fmt.Errorf("size должен быть положительным: %d", size)
		}
		req.Size = min(size, paging.MaxSize)
	}

	for _, raw := range query["sort"] {
		orders, err := parseSort(raw)
		if err != nil {
			return req, err
		}
		req.Sort = append(req.Sort, orders...)
	}

	return req, nil
}

// parseSort разбирает "prop[,prop...][,asc|desc]"
func parseSort(raw string) ([]task.SortOrder, error) {
	tokens := make([]string, 0)
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	direction := task.DirectionAsc
	if parsed, err := task.ParseDirection(tokens[len(tokens)-1]); err == nil {
		direction = parsed
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("в сортировке %q не указано поле", raw)
	}

	orders := make([]task.SortOrder, 0, len(tokens))
	for _, property := range tokens {
		if !task.IsSortable(property) {
			return nil, fmt.Errorf("сортировка по полю %q не поддерживается", property)
		}
		orders = append(orders, task.SortOrder{Property: property, Direction: direction})
	}
	return orders, nil
}

func encodeSort(orders []task.SortOrder) []string {
	values := make([]string, 0, len(orders))
	for _, order := range orders {
		values = append(values, order.Property+","+strings.ToLower(string(order.Direction)))
	}
	return values
}

// pageLinks строит ссылки HAL: self всегда, first/last если есть хотя бы одна страница,
// prev/next только когда они существуют
func pageLinks(r *http.Request, req task.PageRequest, page *task.Page) map[string]dto.Link {
	link := func(number int) dto.Link {
		query := url.Values{}
		query.Set("page", strconv.Itoa(number))
		query.Set("size", strconv.Itoa(req.Size))
		if len(req.Sort) > 0 {
			query["sort"] = encodeSort(req.Sort)
		}

		target := url.URL{
			Scheme:   requestScheme(r),
			Host:     r.Host,
			Path:     r.URL.Path,
			RawQuery: query.Encode(),
		}
		return dto.Link{Href: target.String()}
	}

	links := map[string]dto.Link{
		"self": link(req.Page),
	}

	totalPages := page.TotalPages()
	if totalPages > 0 {
		links["first"] = link(0)
		links["last"] = link(totalPages - 1)
	}
	if page.HasPrevious() {
		links["prev"] = link(min(req.Page-1, max(totalPages-1, 0)))
	}
	if page.HasNext() {
		links["next"] = link(req.Page + 1)
	}
	return links
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
