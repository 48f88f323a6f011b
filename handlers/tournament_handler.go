package handlers

import (
	"net/http"

	"github.com/Dosada05/battle-system/services"
)

type TournamentHandler struct {
	bracketService services.BracketService
}

func NewTournamentHandler(bs services.BracketService) *TournamentHandler {
	return &TournamentHandler{bracketService: bs}
}

// CreateTournament godoc
// @Summary Создать турнир
// @Tags tournament
// @Description Строит сетку на 16 участников, пары 1/8 финала распределяются случайно.
// @Accept json
// @Produce json
// @Param body body services.CreateTournamentInput true "Название и 16 ников"
// @Success 201 {object} map[string]interface{} "Турнир с сеткой"
// @Failure 400 {object} map[string]string "Неверный список участников"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 409 {object} map[string]string "Турнир уже существует"
// @Security BearerAuth
// @Router /tournament [post]
func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.bracketService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTournament godoc
// @Summary Текущий турнир
// @Tags tournament
// @Produce json
// @Success 200 {object} map[string]interface{} "Турнир со всеми баттлами и оценками"
// @Failure 404 {object} map[string]string "Турнир не создан"
// @Router /tournament [get]
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	event, err := h.bracketService.GetTournament(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTournament godoc
// @Summary Удалить турнир
// @Tags tournament
// @Description Удаляет событие, баттлы, оценки и участников. Если настроено хранилище, сетка сначала архивируется.
// @Produce json
// @Success 200 {object} map[string]bool "deleted"
// @Failure 403 {object} map[string]string "Нет прав"
// @Security BearerAuth
// @Router /tournament [delete]
func (h *TournamentHandler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.bracketService.DeleteTournament(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted": deleted}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
