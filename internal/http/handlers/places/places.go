// Package places реализует HTTP-обработчики каталога направлений.
//
// Просмотр и поиск открыты всем, изменения доступны только администратору
// (проверяется middleware на уровне маршрутов).
package places

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

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, term string) ([]models.Place, error)
	Get(ctx context.Context, id int64) (*models.Place, error)
	Create(ctx context.Context, req models.DummyPlace) (int64, error)
	Update(ctx context.Context, id int64, req models.DummyPlace) error
	Remove(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы /places.
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

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Список направлений
// @Description Поиск без учета регистра по подстроке названия или места.
// @Tags Places
// @Produce  json
// @Param search query string false "Строка поиска"
// @Success 200 {object} response.Response{data=[]models.Place}
// @Failure 500 {object} response.Response
// @Router /places [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.places.List")

	term := r.URL.Query().Get("search")
	places, err := h.service.List(r.Context(), term)
	if err != nil {
		log.Error("failed to list places", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Debug("places listed", slog.String("search", term), slog.Int("count", len(places)))
	render.JSON(w, r, response.OKWithData(places))
}

// Get godoc
// @Summary Направление по id
// @Tags Places
// @Produce  json
// @Param id path int true "ID направления"
// @Success 200 {object} response.Response{data=models.Place}
// @Failure 400 {object} response.Response "Некорректный id"
// @Failure 404 {object} response.Response "Не найдено"
// @Router /places/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.places.Get")

	id, err := request.ID(r, "id")
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		request.WriteID(w, r)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Info("failed to get place", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(p))
}

// Create godoc
// @Summary Добавить направление
// @Tags Places
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPlace true "Направление"
// @Success 201 {object} map[string]any
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response "Только для администратора"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /places [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.places.Create")

	var req models.DummyPlace
	if !request.DecodeJSON(w, r, &req) {
		log.Info("failed to decode request body")
		return
	}
	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create place", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("place created", slog.Int64("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}

// Update godoc
// @Summary Изменить направление
// @Tags Places
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID направления"
// @Param request body models.DummyPlace true "Направление"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Только для администратора"
// @Failure 404 {object} response.Response "Не найдено"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /places/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.places.Update")

	id, err := request.ID(r, "id")
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		request.WriteID(w, r)
		return
	}
	var req models.DummyPlace
	if !request.DecodeJSON(w, r, &req) {
		log.Info("failed to decode request body")
		return
	}
	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		log.Error("failed to update place", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("place updated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(req.ToPlace(id)))
}

// Remove godoc
// @Summary Удалить направление
// @Tags Places
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID направления"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Только для администратора"
// @Failure 404 {object} response.Response "Не найдено"
// @Router /places/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.places.Remove")

	id, err := request.ID(r, "id")
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		request.WriteID(w, r)
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		log.Error("failed to remove place", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("place removed", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
