package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/auth/uc"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var userColumns = []string{"id", "email", "name", "password_hash", "active", "created_at"}

var otpColumns = []string{"id", "email", "user_id", "code", "otp_type", "expires_at", "used", "created_at"}

// Repository implements the auth repository interface using PostgreSQL.
type Repository struct {
	db DBInterface
}

// DBInterface defines the minimal interface needed by the repository.
type DBInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewRepository creates a new auth repository.
func NewRepository(db DBInterface) uc.Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query, args, err := squirrel.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.Name, user.PasswordHash, user.Active, user.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email (case-insensitive).
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query, args, err := squirrel.Select(userColumns...).
		From("users").
		Where("lower(email) = lower(?)", email).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var user model.User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id core.ID) (*model.User, error) {
	query, args, err := squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var user model.User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

// UpdateUser updates user fields.
func (r *Repository) UpdateUser(ctx context.Context, user *model.User) error {
	query, args, err := squirrel.Update("users").
		Set("email", user.Email).
		Set("name", user.Name).
		Set("password_hash", user.PasswordHash).
		Set("active", user.Active).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uc.ErrUserNotFound
	}
	return nil
}

// CreateOTP stores a new verification code.
func (r *Repository) CreateOTP(ctx context.Context, otp *model.OTP) error {
	query, args, err := squirrel.Insert("otps").
		Columns(otpColumns...).
		Values(otp.ID, otp.Email, otp.UserID, otp.Code, otp.Type, otp.ExpiresAt, otp.Used, otp.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting OTP: %w", err)
	}
	return nil
}

// InvalidateOTPs marks all unused codes for (email, type) as used.
func (r *Repository) InvalidateOTPs(ctx context.Context, email string, otpType model.OTPType) error {
	query, args, err := squirrel.Update("otps").
		Set("used", true).
		Where("lower(email) = lower(?)", email).
		Where(squirrel.Eq{"otp_type": otpType, "used": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("invalidating OTPs: %w", err)
	}
	return nil
}

// GetActiveOTP returns the most recent unused code matching (email, code, type).
func (r *Repository) GetActiveOTP(
	ctx context.Context,
	email, code string,
	otpType model.OTPType,
) (*model.OTP, error) {
	query, args, err := squirrel.Select(otpColumns...).
		From("otps").
		Where("lower(email) = lower(?)", email).
		Where(squirrel.Eq{"code": code, "otp_type": otpType, "used": false}).
		OrderBy("created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var otp model.OTP
	if err := pgxscan.Get(ctx, r.db, &otp, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrOTPNotFound
		}
		return nil, fmt.Errorf("scanning OTP: %w", err)
	}
	return &otp, nil
}

// MarkOTPUsed consumes a code by ID.
func (r *Repository) MarkOTPUsed(ctx context.Context, id core.ID) error {
	query, args, err := squirrel.Update("otps").
		Set("used", true).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("marking OTP used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uc.ErrOTPNotFound
	}
	return nil
}
