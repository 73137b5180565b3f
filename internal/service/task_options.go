package service

import "time"

// Option настраивает сервис при создании
type Option func(*TaskService)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator подменяет генератор идентификаторов задач
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) {
		if newID != nil {
			s.newID = newID
		}
	}
}
