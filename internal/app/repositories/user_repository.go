package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/db"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/dberrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

const usersEmailConstraint = "users_email_key"

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]*models.User, error)

	// Authentication
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	MarkVerified(ctx context.Context, userID int64) (bool, error)

	// Analytics
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

// UserRepository handles user database operations
type UserRepository struct {
	db db.Querier
}

var _ IUserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository
func NewUserRepository(q db.Querier) *UserRepository {
	return &UserRepository{db: q}
}

// enrolled courses are aggregated so a single row carries the whole user
const enrolledCoursesColumn = `COALESCE((SELECT json_agg(json_build_object('courseId', uc.course_id) ORDER BY uc.created_at)
		FROM user_courses uc WHERE uc.user_id = u.id), '[]'::json)`

func selectUsers() squirrel.SelectBuilder {
	return psql.Select(
		"u.id", "u.name", "u.email", "COALESCE(u.password, '')", "u.avatar", "u.role",
		"u.is_verified", enrolledCoursesColumn, "u.created_at", "u.updated_at",
	).From("users u")
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Avatar, &user.Role,
		&user.IsVerified, &user.Courses, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	query, args, err := selectUsers().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error fetching user")
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

// Create inserts a user and fills in ID and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	avatar, err := jsonNullable(user.Avatar)
	if err != nil {
		return err
	}

	var password any
	if user.Password != "" {
		password = user.Password
	}

	query, args, err := psql.Insert("users").
		Columns("name", "email", "password", "avatar", "role", "is_verified").
		Values(user.Name, user.Email, password, avatar, string(user.Role), user.IsVerified).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, usersEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	if user.Courses == nil {
		user.Courses = []models.EnrolledCourse{}
	}
	return nil
}

// GetByID retrieves a user with the enrolled course list
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.email": email})
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// Update writes name, email, avatar and role
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	avatar, err := jsonNullable(user.Avatar)
	if err != nil {
		return err
	}

	query, args, err := psql.Update("users").
		Set("name", user.Name).
		Set("email", user.Email).
		Set("avatar", avatar).
		Set("role", string(user.Role)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&user.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.ErrUserNotFound
		case dberrors.IsDuplicateConstraintError(err, usersEmailConstraint):
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error updating user")
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// MarkVerified flips is_verified from false to true.
// It reports false when the user was already verified, so the transition happens once.
func (r *UserRepository) MarkVerified(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1 AND is_verified = FALSE`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to verify user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete deletes a user; enrollments go with it
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListAll returns every user, newest first
func (r *UserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	query, args, err := selectUsers().OrderBy("u.created_at DESC", "u.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CountCreatedBetween counts users registered in [start, end)
func (r *UserRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return countCreatedBetween(ctx, r.db, "users", start, end)
}
