package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agalitsyn/dailyflow/internal/model"
)

type CategoryStorage struct {
	db *sql.DB
}

func NewCategoryStorage(db *sql.DB) *CategoryStorage {
	return &CategoryStorage{db: db}
}

func (s *CategoryStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	const q = `INSERT INTO categories (id, title, emoji) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, category.ID, category.Title, category.Emoji)
	if err != nil {
		return fmt.Errorf("could not create category: %w", err)
	}
	return nil
}

func (s *CategoryStorage) FetchCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	const q = `SELECT id, title, emoji FROM categories WHERE id = ?`
	var category model.Category
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&category.ID,
		&category.Title,
		&category.Emoji,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStorage) FetchCategories(ctx context.Context) ([]model.Category, error) {
	const q = `SELECT id, title, emoji FROM categories ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("could not fetch categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Title, &category.Emoji); err != nil {
			return nil, fmt.Errorf("could not scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate categories: %w", err)
	}
	return categories, nil
}
