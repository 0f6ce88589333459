package model

import (
	"context"
	"errors"
)

type User struct {
	ID       int
	TgUserID int64
	Nickname string
	IsActive bool
}

func NewUser(tgUserID int64) *User {
	return &User{
		TgUserID: tgUserID,
		IsActive: true,
	}
}

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	FetchUserByTgID(ctx context.Context, tgUserID int64) (*User, error)
	FetchUserByID(ctx context.Context, userID int) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
}
