// Package cart реализует HTTP-обработчики корзины текущего пользователя.
package cart

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
	cartsvc "github.com/magabrotheeeer/travel-booking/internal/services/cart"
)

// Service описывает интерфейс бизнес-логики корзины.
type Service interface {
	Add(ctx context.Context, userID int64, req models.DummyCartItem) error
	Remove(ctx context.Context, userID, placeID int64) error
	List(ctx context.Context, userID int64) ([]models.CartEntry, error)
}

// Handler обрабатывает запросы /cart.
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

// user достает идентификатор пользователя или пишет 401.
func (h *Handler) user(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, bool) {
	id, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
	}
	return id, ok
}

// List godoc
// @Summary Содержимое корзины
// @Description Позиции корзины и итоговая стоимость cost * people * days.
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.Response
// @Router /cart [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.List"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	userID, ok := h.user(w, r, log)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list cart", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": items,
		"total": cartsvc.Total(items),
	}))
}

// Add godoc
// @Summary Добавить в корзину
// @Description Без people и days подставляется 1.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCartItem true "Позиция"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response "Направление не найдено"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /cart [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.Add"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	userID, ok := h.user(w, r, log)
	if !ok {
		return
	}

	var req models.DummyCartItem
	if !request.DecodeJSON(w, r, &req) {
		log.Info("failed to decode request body")
		return
	}
	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	if err := h.service.Add(r.Context(), userID, req); err != nil {
		log.Info("failed to add to cart", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("added to cart", slog.Int64("place_id", req.PlaceID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{"place_id": req.PlaceID}))
}

// Remove godoc
// @Summary Убрать из корзины
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Param placeID path int true "ID направления"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Нет в корзине"
// @Router /cart/{placeID} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.Remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	userID, ok := h.user(w, r, log)
	if !ok {
		return
	}

	placeID, err := request.ID(r, "placeID")
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		request.WriteID(w, r)
		return
	}
	if err := h.service.Remove(r.Context(), userID, placeID); err != nil {
		log.Info("failed to remove from cart", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("removed from cart", slog.Int64("place_id", placeID))
	render.JSON(w, r, response.OKWithData(map[string]any{"place_id": placeID}))
}
