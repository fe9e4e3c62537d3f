package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hance08/keabank/internal/model"
)

func (s *SQLiteStore) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, is_system, created_at)
		VALUES (?, ?, ?, ?)
	`, user.ID, user.Email, user.IsSystem, toUnixMicro(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert user '%s': %w", user.Email, mapSQLiteErr(err))
	}
	return nil
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, is_system, created_at
		FROM users
		WHERE id = ?
	`, id)

	user, err := scanSQLiteUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query user %s: %w", id, err)
	}
	return user, nil
}

func (s *SQLiteStore) UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	row := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ? AND is_system = 0)", id)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStore) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, is_system, created_at
		FROM users
		WHERE is_system = 0
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanSQLiteUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	var createdAt int64
	if err := row.Scan(&user.ID, &user.Email, &user.IsSystem, &createdAt); err != nil {
		return nil, err
	}
	user.CreatedAt = fromUnixMicro(createdAt)
	return user, nil
}
