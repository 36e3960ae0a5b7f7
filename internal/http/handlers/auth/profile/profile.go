// Package profile реализует просмотр и изменение профиля текущего пользователя.
//
// Пользователь определяется по ID из JWT. Почта в токене после ее смены
// устаревает, поэтому PUT возвращает новый токен.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/travel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/travel-booking/internal/http/request"
	"github.com/magabrotheeeer/travel-booking/internal/http/response"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
)

// Service описывает операции с профилем.
type Service interface {
	GetUserByID(ctx context.Context, id int64) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id int64, name, newEmail string, password *string) (*models.UserProfile, error)
	IssueToken(p models.UserProfile) (string, error)
}

// Handler обрабатывает GET и PUT /profile.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, validate *validator.Validate) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// Get godoc
// @Summary Профиль текущего пользователя
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.UserProfile} "Профиль"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Пользователь не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /profile [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile.Get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	p, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(p))
}

// Update godoc
// @Summary Изменить профиль
// @Description Меняет имя, почту и, если передан, пароль. Возвращает новый JWT.
// @Tags Profile
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyProfileUpdate true "Новые данные профиля"
// @Success 200 {object} map[string]any "Профиль обновлен"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 409 {object} response.Response "Почта уже занята"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /profile [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile.Update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	var req models.DummyProfileUpdate
	if !request.DecodeJSON(w, r, &req) {
		log.Info("failed to decode request body")
		return
	}
	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), userID, req.Name, req.Email, req.Password)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	token, err := h.service.IssueToken(*p)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("profile updated", slog.Int64("user_id", p.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"user":  p,
	}))
}
