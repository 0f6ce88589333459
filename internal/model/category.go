package model

import (
	"context"
	"errors"
)

const DefaultCategoryID = "other"

type Category struct {
	ID    string
	Title string
	Emoji string
}

var (
	ErrCategoryNotFound = errors.New("category not found")
)

type CategoryRepository interface {
	FetchCategories(ctx context.Context) ([]Category, error)
	FetchCategoryByID(ctx context.Context, id string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
}
