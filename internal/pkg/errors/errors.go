package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторная регистрация).
	ErrConflict = errors.New("resource state conflict")
)

// Ошибки предметной области викторины
var (
	// ErrUserExists возвращается при попытке зарегистрировать занятый username/email.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
	// Одна и та же ошибка для "нет такого пользователя" и "неверный пароль".
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMalformedQuestion возвращается при записи вопроса без вариантов
	// или с правильным ответом, отсутствующим среди вариантов.
	ErrMalformedQuestion = errors.New("malformed question")
)
