package repository

import "errors"

// ErrNotFound - задачи с таким id нет в хранилище.
// Любая другая ошибка хранилища считается сбоем бэкенда.
var ErrNotFound = errors.New("задача не найдена")
