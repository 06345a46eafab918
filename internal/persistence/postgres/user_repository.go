package postgres

import (
	"context"

	"github.com/example/courtbooking/internal/persistence"
)

// UserRepository implements persistence.UserRepository on PostgreSQL.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a user repository over the shared pool.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new account. A duplicate email surfaces as
// persistence.ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	query := `
		INSERT INTO users (email, name, lastname, phone, role, points, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.Lastname,
		user.Phone,
		user.Role,
		user.Points,
		user.PasswordHash,
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetUserByEmail retrieves an account by its email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	query := `
		SELECT email, name, lastname, phone, role, points, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	var user persistence.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.Email,
		&user.Name,
		&user.Lastname,
		&user.Phone,
		&user.Role,
		&user.Points,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}
	return user, nil
}
