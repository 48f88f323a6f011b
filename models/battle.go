package models

import "time"

// DefaultBattleTimer - стартовое время на выход участника, секунды.
const DefaultBattleTimer = 60

type Battle struct {
	ID           int   `json:"id" db:"id"`
	EventID      int   `json:"event_id" db:"event_id"`
	Stage        Stage `json:"stage" db:"stage"`
	Position     int   `json:"position" db:"position"`
	NextBattleID *int  `json:"next_battle_id,omitempty" db:"next_battle_id"`

	Participant1ID         *int      `json:"participant_1_id,omitempty" db:"participant_1_id"`
	Participant2ID         *int      `json:"participant_2_id,omitempty" db:"participant_2_id"`
	Participant1Timer      int       `json:"participant_1_timer" db:"participant_1_timer"`
	Participant2Timer      int       `json:"participant_2_timer" db:"participant_2_timer"`
	Participant1TotalScore int       `json:"participant_1_total_score" db:"participant_1_total_score"`
	Participant2TotalScore int       `json:"participant_2_total_score" db:"participant_2_total_score"`
	WinnerID               *int      `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`

	// Заполняются сервисом, в таблице battles не хранятся
	Participant1       *Participant `json:"participant_1,omitempty" db:"-"`
	Participant2       *Participant `json:"participant_2,omitempty" db:"-"`
	Winner             *Participant `json:"winner,omitempty" db:"-"`
	Participant1Scores []Score      `json:"participant_1_scores" db:"-"`
	Participant2Scores []Score      `json:"participant_2_scores" db:"-"`
}

// Side возвращает номер слота (1 или 2), который занимает участник, либо 0.
func (b *Battle) Side(participantID int) int {
	switch {
	case b.Participant1ID != nil && *b.Participant1ID == participantID:
		return 1
	case b.Participant2ID != nil && *b.Participant2ID == participantID:
		return 2
	}
	return 0
}

func (b *Battle) HasParticipant(participantID int) bool {
	return b.Side(participantID) != 0
}

func (b *Battle) BothSlotsFilled() bool {
	return b.Participant1ID != nil && b.Participant2ID != nil
}

func (b *Battle) IsFinal() bool {
	return b.NextBattleID == nil
}

// ScoresFor отдает оценки стороны side (1 или 2).
func (b *Battle) ScoresFor(side int) []Score {
	if side == 1 {
		return b.Participant1Scores
	}
	if side == 2 {
		return b.Participant2Scores
	}
	return nil
}

// AddScore кладет оценку на сторону участника и увеличивает сумму этой стороны.
func (b *Battle) AddScore(s Score) {
	switch b.Side(s.ParticipantID) {
	case 1:
		b.Participant1Scores = append(b.Participant1Scores, s)
		b.Participant1TotalScore += s.Total()
	case 2:
		b.Participant2Scores = append(b.Participant2Scores, s)
		b.Participant2TotalScore += s.Total()
	}
}

// JudgedBy - ставил ли судья оценку участнику стороны side.
func (b *Battle) JudgedBy(side, judgeID int) bool {
	for _, s := range b.ScoresFor(side) {
		if s.JudgeID == judgeID {
			return true
		}
	}
	return false
}

// FullyJudged - обе стороны получили ровно judgeCount оценок.
func (b *Battle) FullyJudged(judgeCount int) bool {
	if judgeCount <= 0 {
		return false
	}
	return len(b.Participant1Scores) == judgeCount && len(b.Participant2Scores) == judgeCount
}

// RecalculateTotals пересчитывает суммы по сохраненным оценкам.
func (b *Battle) RecalculateTotals() {
	b.Participant1TotalScore = 0
	for _, s := range b.Participant1Scores {
		b.Participant1TotalScore += s.Total()
	}
	b.Participant2TotalScore = 0
	for _, s := range b.Participant2Scores {
		b.Participant2TotalScore += s.Total()
	}
}

// Leader возвращает участника с большей суммой. При равенстве ok == false.
func (b *Battle) Leader() (participantID int, ok bool) {
	if !b.BothSlotsFilled() || b.Participant1TotalScore == b.Participant2TotalScore {
		return 0, false
	}
	if b.Participant1TotalScore > b.Participant2TotalScore {
		return *b.Participant1ID, true
	}
	return *b.Participant2ID, true
}

// PlaceParticipant кладет участника в первый свободный слот.
// Возвращает false, если участник уже в баттле или свободных слотов нет.
func (b *Battle) PlaceParticipant(participantID int) bool {
	if b.HasParticipant(participantID) {
		return false
	}
	id := participantID
	switch {
	case b.Participant1ID == nil:
		b.Participant1ID = &id
	case b.Participant2ID == nil:
		b.Participant2ID = &id
	default:
		return false
	}
	return true
}

// RemoveParticipant освобождает слот, в котором сидит участник.
func (b *Battle) RemoveParticipant(participantID int) bool {
	switch b.Side(participantID) {
	case 1:
		b.Participant1ID = nil
		b.Participant1 = nil
	case 2:
		b.Participant2ID = nil
		b.Participant2 = nil
	default:
		return false
	}
	return true
}
