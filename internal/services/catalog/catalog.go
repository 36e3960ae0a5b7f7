// Package catalog содержит бизнес-логику каталога направлений с кешированием карточек.
package catalog

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

// ErrInvalidInput пустое название или место, либо отрицательная стоимость.
var ErrInvalidInput = errors.New("invalid place: name and location are required, cost must be non-negative")

// PlaceRepository определяет методы для работы с направлениями в хранилище.
type PlaceRepository interface {
	ListPlaces(ctx context.Context, term string) ([]models.Place, error)
	GetPlace(ctx context.Context, id int64) (*models.Place, error)
	AddPlace(ctx context.Context, p models.Place) (int64, error)
	UpdatePlace(ctx context.Context, p models.Place) error
	RemovePlace(ctx context.Context, id int64) error
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Service реализует работу с каталогом, включая кеширование.
type Service struct {
	repo  PlaceRepository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создает новый экземпляр Service. cache может быть nil.
func NewService(repo PlaceRepository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("place:%d", id)
}

// List возвращает направления, в названии или месте которых встречается term.
func (s *Service) List(ctx context.Context, term string) ([]models.Place, error) {
	return s.repo.ListPlaces(ctx, strings.TrimSpace(term))
}

// Get возвращает направление по ID, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, id int64) (*models.Place, error) {
	key := cacheKey(id)
	if s.cache != nil {
		var cached models.Place
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	p, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, p, s.ttl); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
		}
	}
	return p, nil
}

// Create добавляет направление и возвращает его ID.
func (s *Service) Create(ctx context.Context, req models.DummyPlace) (int64, error) {
	p := normalize(req.ToPlace(0))
	if err := validate(p); err != nil {
		return 0, err
	}
	id, err := s.repo.AddPlace(ctx, p)
	if err != nil {
		return 0, err
	}
	s.log.Info("place created", slog.Int64("id", id))
	return id, nil
}

// Update заменяет поля направления id и сбрасывает кеш.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyPlace) error {
	p := normalize(req.ToPlace(id))
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.UpdatePlace(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("place updated", slog.Int64("id", id))
	return nil
}

// Remove удаляет направление и сбрасывает кеш.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.repo.RemovePlace(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("place removed", slog.Int64("id", id))
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	key := cacheKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func normalize(p models.Place) models.Place {
	p.Name = strings.TrimSpace(p.Name)
	p.Location = strings.TrimSpace(p.Location)
	p.Description = strings.TrimSpace(p.Description)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	return p
}

func validate(p models.Place) error {
	if p.Name == "" || p.Location == "" || p.Cost < 0 {
		return ErrInvalidInput
	}
	return nil
}
