// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rade-studio/printing-cost-app/internal/lib/jwt"
	"github.com/rade-studio/printing-cost-app/internal/lib/password"
	"github.com/rade-studio/printing-cost-app/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// RecordCacheClearer сбрасывает кэш записи подписки арендатора.
// Вход в систему — событие, меняющее состояние вне гейта, поэтому
// следующая валидация обязана сходить в биллинг заново.
type RecordCacheClearer interface {
	Clear(tenantUID string)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	records  RecordCacheClearer
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, records RecordCacheClearer) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		records:  records,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	trialEndDate := time.Now().UTC().AddDate(0, 1, 0)
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
		TrialEndDate: &trialEndDate,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя, сбрасывает кэш записи подписки
// и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	if s.records != nil {
		s.records.Clear(user.UID)
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.TenantUID,
	}
	return user, true, nil
}
