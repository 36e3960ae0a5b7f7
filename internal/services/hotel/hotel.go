// Package hotel содержит бизнес-логику справочника отелей.
package hotel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
)

// ErrInvalidInput пустое название или место, отрицательная цена или число номеров.
var ErrInvalidInput = errors.New("invalid hotel: name and location are required, price and rooms must be non-negative")

// HotelRepository определяет методы для работы с отелями в хранилище.
type HotelRepository interface {
	ListHotels(ctx context.Context, term string) ([]models.Hotel, error)
	GetHotel(ctx context.Context, id int64) (*models.Hotel, error)
	AddHotel(ctx context.Context, h models.Hotel) (int64, error)
	UpdateHotel(ctx context.Context, h models.Hotel) error
	RemoveHotel(ctx context.Context, id int64) error
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует работу с отелями, карточки отелей кешируются.
type Service struct {
	repo  HotelRepository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создает новый экземпляр Service. cache может быть nil.
func NewService(repo HotelRepository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, log: log}
}

// CacheKey возвращает ключ кеша карточки отеля id.
func CacheKey(id int64) string {
	return fmt.Sprintf("hotel:%d", id)
}

// List возвращает отели, в названии или месте которых встречается term.
func (s *Service) List(ctx context.Context, term string) ([]models.Hotel, error) {
	return s.repo.ListHotels(ctx, strings.TrimSpace(term))
}

// Get возвращает отель по ID, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, id int64) (*models.Hotel, error) {
	key := CacheKey(id)
	if s.cache != nil {
		var cached models.Hotel
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, h, s.ttl); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
		}
	}
	return h, nil
}

// Create добавляет отель и возвращает его ID.
func (s *Service) Create(ctx context.Context, req models.DummyHotel) (int64, error) {
	h := normalize(req.ToHotel(0))
	if err := validate(h); err != nil {
		return 0, err
	}
	id, err := s.repo.AddHotel(ctx, h)
	if err != nil {
		return 0, err
	}
	s.log.Info("hotel created", slog.Int64("id", id))
	return id, nil
}

// Update заменяет поля отеля id и сбрасывает кеш.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyHotel) error {
	h := normalize(req.ToHotel(id))
	if err := validate(h); err != nil {
		return err
	}
	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("hotel updated", slog.Int64("id", id))
	return nil
}

// Remove удаляет отель без бронирований и сбрасывает кеш.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.repo.RemoveHotel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("hotel removed", slog.Int64("id", id))
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	key := CacheKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func normalize(h models.Hotel) models.Hotel {
	h.Name = strings.TrimSpace(h.Name)
	h.Location = strings.TrimSpace(h.Location)
	h.Place = strings.TrimSpace(h.Place)
	return h
}

func validate(h models.Hotel) error {
	if h.Name == "" || h.Location == "" || h.PricePerNight < 0 || h.AvailableRooms < 0 {
		return ErrInvalidInput
	}
	return nil
}
