package models

import "fmt"

// Stage - уровень сетки. Порядок значений важен: round_of_16 < quarterfinal < semifinal < final.
type Stage string

const (
	StageRoundOf16    Stage = "round_of_16"
	StageQuarterfinal Stage = "quarterfinal"
	StageSemifinal    Stage = "semifinal"
	StageFinal        Stage = "final"
)

var stageOrder = []Stage{StageRoundOf16, StageQuarterfinal, StageSemifinal, StageFinal}

// Stages возвращает все стадии от первой к финалу.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ParseStage проверяет строку из запроса/БД.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown stage %q", s)
	}
	return st, nil
}

func (s Stage) index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) IsValid() bool {
	return s.index() >= 0
}

// Depth - расстояние до финала (финал = 0).
func (s Stage) Depth() int {
	i := s.index()
	if i < 0 {
		return -1
	}
	return len(stageOrder) - 1 - i
}

// BattleCount - число баттлов на стадии, выводится из глубины дерева: 8/4/2/1.
func (s Stage) BattleCount() int {
	d := s.Depth()
	if d < 0 {
		return 0
	}
	return 1 << d
}

// Next возвращает следующую стадию. Для финала ok == false.
func (s Stage) Next() (Stage, bool) {
	i := s.index()
	if i < 0 || i == len(stageOrder)-1 {
		return "", false
	}
	return stageOrder[i+1], true
}

// Before сообщает, идет ли s раньше other.
func (s Stage) Before(other Stage) bool {
	return s.index() < other.index()
}

// CompletionThreshold - сколько баттлов должно быть завершено суммарно
// (включая все предыдущие стадии), чтобы эта стадия считалась пройденной.
// Для round_of_16 это 8, для quarterfinal 12, для semifinal 14.
func (s Stage) CompletionThreshold() int {
	i := s.index()
	if i < 0 {
		return 0
	}
	total := 0
	for _, st := range stageOrder[:i+1] {
		total += st.BattleCount()
	}
	return total
}
