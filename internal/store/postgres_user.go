package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hance08/keabank/internal/model"
)

func (s *PostgresStore) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, email, is_system, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Email, user.IsSystem, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user '%s': %w", user.Email, mapPostgresErr(err))
	}
	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := s.db.QueryRow(ctx, `
		SELECT id::text, email, is_system, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.IsSystem, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query user %s: %w", id, mapPostgresErr(err))
	}
	return user, nil
}

func (s *PostgresStore) UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND NOT is_system)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", mapPostgresErr(err))
	}
	return exists, nil
}

func (s *PostgresStore) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, email, is_system, created_at
		FROM users
		WHERE NOT is_system
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", mapPostgresErr(err))
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.IsSystem, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
