// Package user содержит бизнес-логику справочника пользователей:
// регистрацию, роли и окно премиум-подписки.
package user

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

// ErrNotFound возвращается, когда пользователь отсутствует в хранилище.
var ErrNotFound = errors.New("user not found")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	// При конфликте по почте возвращает sql.ErrNoRows.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по почте.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByUID возвращает пользователя по UID.
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// PromoteToAdmin назначает роль admin, возвращает число изменённых строк.
	PromoteToAdmin(ctx context.Context, uid string) (int, error)
	// UpdateProfile обновляет профиль, возвращает число изменённых строк.
	UpdateProfile(ctx context.Context, uid string, profile models.DummyProfile) (int, error)
	// ActivatePremium включает премиум, возвращает число изменённых строк.
	ActivatePremium(ctx context.Context, email string, takenAt, expiration time.Time, periodDays int) (int, error)
}

// UserService реализует операции справочника пользователей.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Create сохраняет пользователя при первом входе. Операция идемпотентна:
// если почта уже занята, возвращается UID существующей записи и exists=true,
// ошибкой это не считается.
func (s *UserService) Create(ctx context.Context, req models.DummyUser) (string, bool, error) {
	user := models.User{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     models.RoleUser,
	}
	uid, err := s.repo.CreateUser(ctx, user)
	if err == nil {
		s.log.Info("created new user", slog.String("uid", uid))
		return uid, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return "", false, err
	}
	return existing.UID, true, nil
}

// GetByEmail возвращает пользователя по почте.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// GetByUID возвращает пользователя по UID.
func (s *UserService) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	u, err := s.repo.GetUserByUID(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// List возвращает всех пользователей.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// PromoteToAdmin назначает пользователю роль admin. Повторный вызов
// для администратора проходит без ошибки.
func (s *UserService) PromoteToAdmin(ctx context.Context, uid string) error {
	count, err := s.repo.PromoteToAdmin(ctx, uid)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("promoted user to admin", slog.String("uid", uid))
	return nil
}

// IsAdmin сообщает, имеет ли пользователь с данной почтой роль admin.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u.Role == models.RoleAdmin, nil
}

// UpdateProfile обновляет имя и аватар пользователя.
func (s *UserService) UpdateProfile(ctx context.Context, uid string, req models.DummyProfile) error {
	count, err := s.repo.UpdateProfile(ctx, uid, req)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivatePremium включает премиум-подписку: срок действия считается как
// момент активации плюс periodDays суток. Возвращает дату истечения.
func (s *UserService) ActivatePremium(ctx context.Context, email string, periodDays int) (time.Time, error) {
	takenAt := time.Now().UTC()
	expiration := takenAt.Add(time.Duration(periodDays) * 24 * time.Hour)

	count, err := s.repo.ActivatePremium(ctx, email, takenAt, expiration, periodDays)
	if err != nil {
		return time.Time{}, err
	}
	if count == 0 {
		return time.Time{}, ErrNotFound
	}
	s.log.Info("activated premium",
		slog.String("email", email),
		slog.Int("period_days", periodDays),
		slog.Time("expiration", expiration))
	return expiration, nil
}
