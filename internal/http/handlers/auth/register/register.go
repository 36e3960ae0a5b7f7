// Package register реализует HTTP-обработчик регистрации пользователя.
//
// При успешной регистрации сразу возвращается JWT, как после входа.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/travel-booking/internal/http/request"
	"github.com/magabrotheeeer/travel-booking/internal/http/response"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
)

// Service описывает регистрацию в сервисе учетных записей.
type Service interface {
	SignUp(ctx context.Context, name, email, password string) (string, *models.UserProfile, error)
}

// Handler обрабатывает POST /signup.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler. validate должен знать правило email_addr.
func New(log *slog.Logger, service Service, validate *validator.Validate) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя и сразу возвращает JWT. Занятая почта считается неудачной попыткой.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummySignUp true "Данные пользователя"
// @Success 201 {object} map[string]any "Пользователь создан"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 409 {object} response.Response "Почта уже занята"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 429 {object} response.Response "Слишком много попыток"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySignUp
	if !request.DecodeJSON(w, r, &req) {
		log.Info("failed to decode request body")
		return
	}
	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	token, profile, err := h.service.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Info("registration failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("user registered", slog.Int64("user_id", profile.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"user":  profile,
	}))
}
