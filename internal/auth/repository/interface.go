package repository

import (
	"context"

	"github.com/google/uuid"
)

// User is an account row.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    string
	UpdatedAt    string
}

// CreateUserParams carries the fields needed to register an account.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
}

// Repository defines user persistence operations.
type Repository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}
