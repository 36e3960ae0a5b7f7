// Package hotels реализует HTTP-обработчики справочника отелей и поиска
// свободных номеров.
package hotels

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/travel-booking/internal/http/request"
	"github.com/magabrotheeeer/travel-booking/internal/http/response"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
)

// Service описывает интерфейс бизнес-логики отелей.
type Service interface {
	List(ctx context.Context, term string) ([]models.Hotel, error)
	Get(ctx context.Context, id int64) (*models.Hotel, error)
	Create(ctx context.Context, req models.DummyHotel) (int64, error)
	Update(ctx context.Context, id int64, req models.DummyHotel) error
	Remove(ctx context.Context, id int64) error
}

// AvailabilityService ищет отели со свободными номерами.
type AvailabilityService interface {
	FindAvailable(ctx context.Context, checkIn, checkOut string, rooms int) ([]models.Hotel, error)
}

// Handler обрабатывает запросы /hotels.
type Handler struct {
	log          *slog.Logger
	service      Service
	availability AvailabilityService
	validate     *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, availability AvailabilityService, validate *validator.Validate) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		availability: availability,
		validate:     validate,
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Список отелей
// @Tags Hotels
// @Produce  json
// @Param search query string false "Строка поиска"
// @Success 200 {object} response.Response{data=[]models.Hotel}
// @Failure 500 {object} response.Response
// @Router /hotels [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hotels.List")

	hotels, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		log.Error("failed to list hotels", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(hotels))
}

// Available godoc
// @Summary Свободные отели
// @Description Отели, где на даты остается не меньше rooms номеров. Без rooms ищется один номер.
// @Tags Hotels
// @Produce  json
// @Param check_in query string true "Дата заезда YYYY-MM-DD"
// @Param check_out query string true "Дата выезда YYYY-MM-DD"
// @Param rooms query int false "Число номеров"
// @Success 200 {object} response.Response{data=[]models.Hotel}
// @Failure 422 {object} response.Response "Некорректные даты или число номеров"
// @Router /hotels/available [get]
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hotels.Available")

	q := r.URL.Query()
	rooms := 1
	if raw := q.Get("rooms"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Info("failed to parse rooms", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("rooms must be an integer"))
			return
		}
		rooms = n
	}

	hotels, err := h.availability.FindAvailable(r.Context(), q.Get("check_in"), q.Get("check_out"), rooms)
	if err != nil {
		log.Info("failed to find available hotels", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(hotels))
}

// Get godoc
// @Summary Отель по id
// @Tags Hotels
// @Produce  json
// @Param id path int true "ID отеля"
// @Success 200 {object} response.Response{data=models.Hotel}
// @Failure 404 {object} response.Response "Не найдено"
// @Router /hotels/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hotels.Get")

	id, err := request.ID(r, "id")
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		request.WriteID(w, r)
		return
	}
	hotel, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Info("failed to get hotel", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(hotel))
}

// Create godoc
// @Summary Добавить отель
// @Tags Hotels
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyHotel true "Отель"
// @Success 201 {object} map[string]any
// @Failure 403 {object} response.Response "Только для администратора"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /hotels [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hotels.Create")

	var req models.DummyHotel
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
		log.Error("failed to create hotel", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("hotel created", slog.Int64("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}

// Update godoc
// @Summary Изменить отель
// @Tags Hotels
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID отеля"
// @Param request body models.DummyHotel true "Отель"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Только для администратора"
// @Failure 404 {object} response.Response "Не найдено"
// @Router /hotels/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hotels.Update")

	id, err := request.ID(r, "id")
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		request.WriteID(w, r)
		return
	}
	var req models.DummyHotel
	if !request.DecodeJSON(w, r, &req) {
		log.Info("failed to decode request body")
		return
	}
	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		log.Error("failed to update hotel", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("hotel updated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(req.ToHotel(id)))
}

// Remove godoc
// @Summary Удалить отель
// @Description Отель с бронированиями удалить нельзя.
// @Tags Hotels
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID отеля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Не найдено"
// @Failure 409 {object} response.Response "Есть бронирования"
// @Router /hotels/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hotels.Remove")

	id, err := request.ID(r, "id")
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		request.WriteID(w, r)
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		log.Error("failed to remove hotel", slog.Int64("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("hotel removed", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
