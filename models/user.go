package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleJudge  UserRole = "judge"
	RoleScreen UserRole = "screen"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleJudge, RoleScreen:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Nickname     string    `json:"nickname"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
