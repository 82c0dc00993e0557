// Package auth содержит логику выдачи и проверки JWT токенов.
// Пароли сервис не хранит: личность подтверждает внешний провайдер на
// клиенте, сервер только подписывает claims зарегистрированного пользователя.
package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/magabrotheeeer/primescope-news/internal/lib/jwt"
	"github.com/magabrotheeeer/primescope-news/internal/models"
)

// ErrUserNotFound возвращается при попытке выдать токен незарегистрированному пользователю.
var ErrUserNotFound = errors.New("user not found")

// UserRepository описывает контракт для чтения пользователей.
type UserRepository interface {
	// GetUserByEmail возвращает пользователя по почте или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за выдачу и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// IssueToken выдаёт подписанный токен для пользователя с данной почтой.
// Роль берётся из справочника на момент выдачи.
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
}

// ValidateToken проверяет JWT и возвращает claims, если токен корректен.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
