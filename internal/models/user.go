// Package models содержит доменную модель пользователя-арендатора,
// включающую данные учётной записи, хэш пароля и дату окончания пробного периода.
// Структура используется в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя-арендатора.
type User struct {
	UID          string     // Уникальный идентификатор арендатора
	Email        string     // Электронная почта
	Username     string     // Имя пользователя (уникальное)
	PasswordHash string     // Хэш пароля пользователя
	Role         string     // Роль пользователя, admin или user
	TrialEndDate *time.Time // Дата истечения пробного периода
}
