package models

import "errors"

var (
	// ErrNotFound is the "absent" branch: no row, no record. Not a failure by itself.
	ErrNotFound = errors.New("не найдено")
	// ErrAlreadyExists marks a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("уже существует")

	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrEmailNotConfirmed  = errors.New("email не подтвержден")
	ErrEmailTaken         = errors.New("пользователь с таким email уже существует")
	ErrInvalidToken       = errors.New("недействительный токен")
	ErrInvalidEnum        = errors.New("недопустимое значение")
	ErrForbidden          = errors.New("доступ запрещен")
)
