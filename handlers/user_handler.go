package handlers

import (
	"net/http"

	"github.com/Dosada05/battle-system/middleware"
	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/services"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{
		userService: us,
	}
}

// CreateJudge godoc
// @Summary Создать судью
// @Tags users
// @Accept json
// @Produce json
// @Param body body services.CreateUserInput true "Данные пользователя"
// @Success 201 {object} map[string]interface{} "Созданный пользователь"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 409 {object} map[string]string "Ник занят"
// @Security BearerAuth
// @Router /users/judge [post]
func (h *UserHandler) CreateJudge(w http.ResponseWriter, r *http.Request) {
	h.createWithRole(w, r, models.RoleJudge)
}

// CreateAdmin godoc
// @Summary Создать администратора
// @Tags users
// @Accept json
// @Produce json
// @Param body body services.CreateUserInput true "Данные пользователя"
// @Success 201 {object} map[string]interface{} "Созданный пользователь"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 409 {object} map[string]string "Ник занят"
// @Security BearerAuth
// @Router /users/admin [post]
func (h *UserHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	h.createWithRole(w, r, models.RoleAdmin)
}

// CreateScreen godoc
// @Summary Создать учетную запись экрана
// @Tags users
// @Accept json
// @Produce json
// @Param body body services.CreateUserInput true "Данные пользователя"
// @Success 201 {object} map[string]interface{} "Созданный пользователь"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 409 {object} map[string]string "Ник занят"
// @Security BearerAuth
// @Router /users/screen [post]
func (h *UserHandler) CreateScreen(w http.ResponseWriter, r *http.Request) {
	h.createWithRole(w, r, models.RoleScreen)
}

func (h *UserHandler) createWithRole(w http.ResponseWriter, r *http.Request, role models.UserRole) {
	var input services.CreateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), input, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMe godoc
// @Summary Текущий пользователь
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{} "Пользователь"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	h.writeUser(w, r, currentUserID)
}

// GetUserByID godoc
// @Summary Пользователь по ID
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} map[string]interface{} "Пользователь"
// @Failure 404 {object} map[string]string "Не найден"
// @Security BearerAuth
// @Router /users/{userID} [get]
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.writeUser(w, r, userID)
}

func (h *UserHandler) writeUser(w http.ResponseWriter, r *http.Request, userID int) {
	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByRole godoc
// @Summary Пользователи с ролью
// @Tags users
// @Produce json
// @Param role path string true "admin | judge | screen"
// @Success 200 {object} map[string]interface{} "Список пользователей"
// @Failure 400 {object} map[string]string "Неизвестная роль"
// @Security BearerAuth
// @Router /users/role/{role} [get]
func (h *UserHandler) ListByRole(w http.ResponseWriter, r *http.Request) {
	role := models.UserRole(chi.URLParam(r, "role"))

	users, err := h.userService.ListByRole(r.Context(), role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteUser godoc
// @Summary Удалить пользователя
// @Tags users
// @Description Удалить самого себя нельзя.
// @Param userID path int true "User ID"
// @Success 204 "Удален"
// @Failure 403 {object} map[string]string "Попытка удалить себя"
// @Failure 404 {object} map[string]string "Не найден"
// @Security BearerAuth
// @Router /users/{userID} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), currentUserID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
