package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Уникальность почты обеспечивается индексом: при конфликте вставка
// не выполняется и возвращается sql.ErrNoRows, чтобы вызывающий код
// мог отдать уже существующую запись.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, name, photo_url, role)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (email) DO NOTHING
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PhotoURL, user.Role).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var premiumTaken, premiumExpiration sql.NullTime
	var periodDays sql.NullInt64
	if err := row.Scan(&u.UID, &u.Email, &u.Name, &u.PhotoURL, &u.Role,
		&u.IsPremium, &premiumTaken, &premiumExpiration, &periodDays, &u.CreatedAt); err != nil {
		return nil, err
	}
	if premiumTaken.Valid {
		u.PremiumTaken = &premiumTaken.Time
	}
	if premiumExpiration.Valid {
		u.PremiumExpiration = &premiumExpiration.Time
	}
	if periodDays.Valid {
		days := int(periodDays.Int64)
		u.PremiumPeriodDays = &days
	}
	return u, nil
}

const userColumns = `uid, email, name, photo_url, role, is_premium,
			  premium_taken, premium_expiration, premium_period_days, created_at`

// GetUserByEmail возвращает пользователя по его почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUID возвращает пользователя по его UID.
func (s *Storage) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// PromoteToAdmin устанавливает пользователю роль admin и возвращает
// количество изменённых строк. Повторный вызов безопасен.
func (s *Storage) PromoteToAdmin(ctx context.Context, uid string) (int, error) {
	const op = "storage.PromoteToAdmin"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET role = $1
			  WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, models.RoleAdmin, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateProfile обновляет имя и аватар пользователя, пустые поля не затирают
// сохранённые значения. Возвращает количество изменённых строк.
func (s *Storage) UpdateProfile(ctx context.Context, uid string, profile models.DummyProfile) (int, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = COALESCE(NULLIF($1, ''), name),
			      photo_url = COALESCE(NULLIF($2, ''), photo_url)
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, profile.Name, profile.PhotoURL, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ActivatePremium включает премиум-подписку пользователю по почте
// и возвращает количество изменённых строк.
func (s *Storage) ActivatePremium(ctx context.Context, email string,
	takenAt, expiration time.Time, periodDays int) (int, error) {
	const op = "storage.ActivatePremium"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_premium = TRUE,
			      premium_taken = $1,
			      premium_expiration = $2,
			      premium_period_days = $3
			  WHERE email = $4`
	result, err := s.DB.ExecContext(ctx, query, takenAt, expiration, periodDays, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ResetExpiredPremium одним запросом сбрасывает премиум всем пользователям,
// у которых срок подписки истёк к моменту now, и возвращает их почты.
func (s *Storage) ResetExpiredPremium(ctx context.Context, now time.Time) ([]string, error) {
	const op = "storage.ResetExpiredPremium"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_premium = FALSE,
			      premium_taken = NULL,
			      premium_expiration = NULL,
			      premium_period_days = NULL
			  WHERE is_premium = TRUE AND premium_expiration < $1
			  RETURNING email`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var emails []string
	for rows.Next() {
		var email string
		if err = rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		emails = append(emails, email)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}
