package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Роли пользователей API
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LoginInput - входные данные аутентификации
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (i *LoginInput) Validate() error {
	if strings.TrimSpace(i.Username) == "" {
		return NewValidationError("O nome do usuário não pode ser vazio.")
	}
	if strings.TrimSpace(i.Password) == "" {
		return NewValidationError("A senha não pode ser vazia.")
	}
	return nil
}

// LoginResponse - ответ аутентификации с JWT токеном
type LoginResponse struct {
	Token string `json:"token"`
}
