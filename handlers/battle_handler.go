package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/battle-system/middleware"
	"github.com/Dosada05/battle-system/services"
)

type BattleHandler struct {
	bracketService services.BracketService
	battleService  services.BattleService
}

func NewBattleHandler(bs services.BracketService, bts services.BattleService) *BattleHandler {
	return &BattleHandler{
		bracketService: bs,
		battleService:  bts,
	}
}

type setWinnerRequest struct {
	ParticipantID int `json:"participant_id"`
}

// GetBattle godoc
// @Summary Баттл по ID
// @Tags battles
// @Produce json
// @Param battleID path int true "Battle ID"
// @Success 200 {object} map[string]interface{} "Баттл с участниками и оценками"
// @Failure 404 {object} map[string]string "Не найден"
// @Router /battles/{battleID} [get]
func (h *BattleHandler) GetBattle(w http.ResponseWriter, r *http.Request) {
	battleID, err := getIDFromURL(r, "battleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	battle, err := h.bracketService.GetBattle(r.Context(), battleID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"battle": battle}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Vote godoc
// @Summary Оценить участника баттла
// @Tags battles
// @Description Судья ставит четыре оценки одной стороне. Когда все судьи оценили обе стороны, определяется победитель.
// @Accept json
// @Produce json
// @Param battleID path int true "Battle ID"
// @Param participantID path int true "Participant ID"
// @Param body body services.Ratings true "Оценки"
// @Success 201 {object} map[string]interface{} "Баттл после голоса"
// @Failure 400 {object} map[string]string "Отрицательная оценка"
// @Failure 404 {object} map[string]string "Баттл или судья не найден"
// @Failure 409 {object} map[string]string "Повторный голос / баттл завершен"
// @Failure 422 {object} map[string]string "Участник не в этом баттле"
// @Security BearerAuth
// @Router /battles/{battleID}/participants/{participantID}/votes [post]
func (h *BattleHandler) Vote(w http.ResponseWriter, r *http.Request) {
	battleID, err := getIDFromURL(r, "battleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	judgeID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var ratings services.Ratings
	if err := readJSON(w, r, &ratings); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	battle, err := h.battleService.Vote(r.Context(), services.VoteInput{
		BattleID:      battleID,
		ParticipantID: participantID,
		JudgeID:       judgeID,
		Ratings:       ratings,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"battle": battle}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetWinner godoc
// @Summary Назначить победителя вручную
// @Tags battles
// @Accept json
// @Produce json
// @Param battleID path int true "Battle ID"
// @Param body body setWinnerRequest true "ID участника"
// @Success 200 {object} map[string]interface{} "Баттл с победителем"
// @Failure 404 {object} map[string]string "Баттл или участник не найден"
// @Failure 409 {object} map[string]string "Победитель уже определен"
// @Failure 422 {object} map[string]string "Участник не в этом баттле"
// @Security BearerAuth
// @Router /battles/{battleID}/winner [post]
func (h *BattleHandler) SetWinner(w http.ResponseWriter, r *http.Request) {
	battleID, err := getIDFromURL(r, "battleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setWinnerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ParticipantID <= 0 {
		badRequestResponse(w, r, errors.New("participant_id is required"))
		return
	}

	battle, err := h.battleService.SetWinner(r.Context(), battleID, input.ParticipantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"battle": battle}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reset godoc
// @Summary Сбросить баттл
// @Tags battles
// @Description Стирает оценки и победителя, выставляет таймеры и убирает участника из следующего баттла.
// @Accept json
// @Produce json
// @Param battleID path int true "Battle ID"
// @Param body body services.ResetInput true "Таймеры в секундах"
// @Success 200 {object} map[string]interface{} "Баттл после сброса"
// @Failure 400 {object} map[string]string "Отрицательный таймер"
// @Failure 404 {object} map[string]string "Не найден"
// @Failure 409 {object} map[string]string "Следующий баттл уже завершен"
// @Failure 422 {object} map[string]string "В баттле нет двух участников"
// @Security BearerAuth
// @Router /battles/{battleID}/reset [post]
func (h *BattleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	battleID, err := getIDFromURL(r, "battleID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ResetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	battle, err := h.battleService.Reset(r.Context(), battleID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"battle": battle}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
