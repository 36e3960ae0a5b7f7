// Package cart содержит бизнес-логику корзины пользователя.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/travel-booking/internal/models"
)

// ErrInvalidQuantity число людей или дней меньше единицы.
var ErrInvalidQuantity = errors.New("people and days must be at least 1")

// Repository определяет методы хранилища, нужные корзине.
type Repository interface {
	GetPlace(ctx context.Context, id int64) (*models.Place, error)
	AddCartItem(ctx context.Context, item models.CartItem) error
	RemoveCartItem(ctx context.Context, userID, placeID int64) error
	ListCartItems(ctx context.Context, userID int64) ([]models.CartEntry, error)
}

// Service управляет корзиной.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Add кладет направление в корзину или заменяет количество людей и дней,
// если оно уже там есть. Нулевые people и days считаются единицей.
func (s *Service) Add(ctx context.Context, userID int64, req models.DummyCartItem) error {
	const op = "cart.Add"
	if req.People == 0 {
		req.People = 1
	}
	if req.Days == 0 {
		req.Days = 1
	}
	if req.People < 1 || req.Days < 1 {
		return ErrInvalidQuantity
	}

	if _, err := s.repo.GetPlace(ctx, req.PlaceID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	item := models.CartItem{UserID: userID, PlaceID: req.PlaceID, People: req.People, Days: req.Days}
	if err := s.repo.AddCartItem(ctx, item); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("cart item saved", slog.Int64("user_id", userID), slog.Int64("place_id", req.PlaceID))
	return nil
}

// Remove убирает направление из корзины.
func (s *Service) Remove(ctx context.Context, userID, placeID int64) error {
	if err := s.repo.RemoveCartItem(ctx, userID, placeID); err != nil {
		return fmt.Errorf("cart.Remove: %w", err)
	}
	return nil
}

// List возвращает содержимое корзины вместе с данными направлений.
func (s *Service) List(ctx context.Context, userID int64) ([]models.CartEntry, error) {
	items, err := s.repo.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart.List: %w", err)
	}
	return items, nil
}

// Total возвращает стоимость корзины: сумма cost × people × days.
func Total(items []models.CartEntry) float64 {
	var total float64
	for _, it := range items {
		total += it.Place.Cost * float64(it.People) * float64(it.Days)
	}
	return total
}
