package models

import "time"

// DefaultEventName используется, если имя события не задано.
const DefaultEventName = "Hip-Hop"

// Event - единственный турнир в системе.
type Event struct {
	ID                      int       `json:"id" db:"id"`
	Name                    string    `json:"name" db:"name"`
	CurrentStage            Stage     `json:"current_stage" db:"current_stage"`
	CompletedBattlesInStage int       `json:"completed_battles_in_stage" db:"completed_battles_in_stage"`
	WinnerID                *int      `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`

	Winner  *Participant `json:"winner,omitempty" db:"-"`
	Battles []Battle     `json:"battles" db:"-"`
}
