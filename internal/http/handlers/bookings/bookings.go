// Package bookings реализует HTTP-обработчики бронирования отелей.
package bookings

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

// Service описывает интерфейс бизнес-логики бронирований.
type Service interface {
	Create(ctx context.Context, userID int64, req models.DummyBooking) (*models.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Booking, error)
}

// Handler обрабатывает запросы /bookings.
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

// bookingView — бронь в ответе API, даты в формате YYYY-MM-DD.
type bookingView struct {
	ID         int64   `json:"id"`
	HotelID    int64   `json:"hotel_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Nights     int     `json:"nights"`
	Rooms      int     `json:"rooms"`
	TotalPrice float64 `json:"total_price"`
}

func view(b models.Booking) bookingView {
	return bookingView{
		ID:         b.ID,
		HotelID:    b.HotelID,
		CheckIn:    b.CheckIn.Format(models.DateLayout),
		CheckOut:   b.CheckOut.Format(models.DateLayout),
		Nights:     b.Nights(),
		Rooms:      b.Rooms,
		TotalPrice: b.TotalPrice,
	}
}

// Create godoc
// @Summary Забронировать отель
// @Description Стоимость считается сервером: цена за ночь * ночи * номера.
// @Tags Bookings
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyBooking true "Бронирование"
// @Success 201 {object} map[string]any
// @Failure 404 {object} response.Response "Отель не найден"
// @Failure 409 {object} response.Response "Нет свободных номеров"
// @Failure 422 {object} response.Response "Некорректные даты"
// @Router /bookings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookings.Create"
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

	var req models.DummyBooking
	if !request.DecodeJSON(w, r, &req) {
		log.Info("failed to decode request body")
		return
	}
	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	b, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Info("failed to book hotel", slog.Int64("hotel_id", req.HotelID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("hotel booked", slog.Int64("booking_id", b.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(view(*b)))
}

// List godoc
// @Summary Мои бронирования
// @Tags Bookings
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.Response
// @Router /bookings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookings.List"
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

	bookings, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, view(b))
	}
	render.JSON(w, r, response.OKWithData(views))
}
