package models

import "time"

type Participant struct {
	ID           int       `json:"id" db:"id"`
	Nickname     string    `json:"nickname" db:"nickname"`
	PhoenixPower bool      `json:"phoenix_power" db:"phoenix_power"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
