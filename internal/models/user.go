package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id" db:"id" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	Username       string    `json:"username" db:"username" example:"admin"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	IsActive       bool      `json:"is_active" db:"is_active" example:"true"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
