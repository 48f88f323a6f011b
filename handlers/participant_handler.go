package handlers

import (
	"net/http"

	"github.com/Dosada05/battle-system/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(ps services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: ps}
}

// ListParticipants godoc
// @Summary Участники турнира
// @Tags participants
// @Produce json
// @Success 200 {object} map[string]interface{} "Список участников"
// @Router /participants [get]
func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participantService.ListParticipants(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetParticipant godoc
// @Summary Участник по ID
// @Tags participants
// @Produce json
// @Param participantID path int true "Participant ID"
// @Success 200 {object} map[string]interface{} "Участник"
// @Failure 404 {object} map[string]string "Не найден"
// @Router /participants/{participantID} [get]
func (h *ParticipantHandler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.GetParticipant(r.Context(), participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ActivatePhoenix godoc
// @Summary Активировать силу феникса
// @Tags participants
// @Description Одноразовая способность участника.
// @Produce json
// @Param participantID path int true "Participant ID"
// @Success 200 {object} map[string]interface{} "Участник"
// @Failure 404 {object} map[string]string "Не найден"
// @Failure 409 {object} map[string]string "Уже использована"
// @Security BearerAuth
// @Router /participants/{participantID}/phoenix [post]
func (h *ParticipantHandler) ActivatePhoenix(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.ActivatePhoenix(r.Context(), participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
