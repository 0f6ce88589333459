package sqlite

import (
	"context"
	"database/sql"

	"github.com/agalitsyn/dailyflow/internal/model"
)

type UserStorage struct {
	db *sql.DB
}

func NewUserStorage(db *sql.DB) *UserStorage {
	return &UserStorage{db: db}
}

func (s *UserStorage) CreateUser(ctx context.Context, user *model.User) error {
	const query = `INSERT INTO users (tg_user_id, nickname, is_active) VALUES (?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, user.TgUserID, user.Nickname, user.IsActive)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = int(id)
	return nil
}

func (s *UserStorage) FetchUserByTgID(ctx context.Context, tgUserID int64) (*model.User, error) {
	const query = `SELECT id, tg_user_id, nickname, is_active FROM users WHERE tg_user_id = ?`
	return s.fetchUser(ctx, query, tgUserID)
}

func (s *UserStorage) FetchUserByID(ctx context.Context, userID int) (*model.User, error) {
	const query = `SELECT id, tg_user_id, nickname, is_active FROM users WHERE id = ?`
	return s.fetchUser(ctx, query, userID)
}

func (s *UserStorage) fetchUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.TgUserID,
		&user.Nickname,
		&user.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStorage) UpdateUser(ctx context.Context, user *model.User) error {
	const query = `UPDATE users SET nickname = ?, is_active = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, user.Nickname, user.IsActive, user.ID)
	if err != nil {
		return err
	}
	return expectAffected(result, model.ErrUserNotFound)
}

func expectAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
