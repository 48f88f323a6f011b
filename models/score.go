package models

import "time"

// Score - оценка одного судьи одному участнику в одном баттле.
type Score struct {
	ID            int       `json:"id" db:"id"`
	BattleID      int       `json:"battle_id" db:"battle_id"`
	ParticipantID int       `json:"participant_id" db:"participant_id"`
	JudgeID       int       `json:"judge_id" db:"judge_id"`
	JudgeNickname string    `json:"judge_nickname" db:"judge_nickname"`
	Filing        int       `json:"filing" db:"filing"`
	Technique     int       `json:"technique" db:"technique"`
	Musicality    int       `json:"musicality" db:"musicality"`
	Originality   int       `json:"originality" db:"originality"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func (s Score) Total() int {
	return s.Filing + s.Technique + s.Musicality + s.Originality
}
