// Package models содержит доменные структуры каталога AI-инструментов:
// пользователя, инструмент с оценками и отзывами, а также события активности.
// Структуры используются в бизнес‑логике, хранилищах и при сериализации в JSON.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    `json:"id"`           // Уникальный идентификатор пользователя
	Username     string    `json:"username"`     // Имя пользователя (уникальное)
	PasswordHash string    `json:"-"`            // Хэш пароля, наружу не отдаётся
	IsSubscribed bool      `json:"isSubscribed"` // Признак оплаченной подписки
	CreatedAt    time.Time `json:"createdAt"`
}

// MinPasswordLength — минимальная длина пароля при регистрации.
const MinPasswordLength = 6

// DummyUser используется для приёма логина и пароля из JSON-запроса.
type DummyUser struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse — ответ на успешную регистрацию или вход.
type TokenResponse struct {
	Token string `json:"token"`
}
