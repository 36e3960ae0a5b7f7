// Package travelbooking собирает HTTP API бронирования путешествий.
package travelbooking

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/magabrotheeeer/travel-booking/internal/http/docs"

	"github.com/magabrotheeeer/travel-booking/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/travel-booking/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/travel-booking/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/travel-booking/internal/http/handlers/bookings"
	"github.com/magabrotheeeer/travel-booking/internal/http/handlers/cart"
	"github.com/magabrotheeeer/travel-booking/internal/http/handlers/health"
	"github.com/magabrotheeeer/travel-booking/internal/http/handlers/hotels"
	"github.com/magabrotheeeer/travel-booking/internal/http/handlers/places"
	"github.com/magabrotheeeer/travel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/travel-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/travel-booking/internal/lib/metrics"
	authservice "github.com/magabrotheeeer/travel-booking/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/travel-booking/internal/services/booking"
	cartservice "github.com/magabrotheeeer/travel-booking/internal/services/cart"
	catalogservice "github.com/magabrotheeeer/travel-booking/internal/services/catalog"
	hotelservice "github.com/magabrotheeeer/travel-booking/internal/services/hotel"
)

// Deps содержит зависимости маршрутов.
type Deps struct {
	Logger         *slog.Logger
	Validate       *validator.Validate
	JWTMaker       jwt.Maker
	Metrics        *metrics.Metrics
	RequestLimiter *rate.Limiter
	RequestTimeout time.Duration
	DB             health.Pinger

	Auth    *authservice.Service
	Catalog *catalogservice.Service
	Hotels  *hotelservice.Service
	Cart    *cartservice.Service
	Booking *bookingservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		d.Metrics.Middleware,
	)

	placesHandler := places.New(logger, d.Catalog, d.Validate)
	hotelsHandler := hotels.New(logger, d.Hotels, d.Booking, d.Validate)
	profileHandler := profile.New(logger, d.Auth, d.Validate)
	cartHandler := cart.New(logger, d.Cart, d.Validate)
	bookingsHandler := bookings.New(logger, d.Booking, d.Validate)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Timeout(d.RequestTimeout),
			middlewarectx.RateLimitMiddleware(logger, d.RequestLimiter),
		)

		// Открытые конечные точки
		r.Post("/signup", register.New(logger, d.Auth, d.Validate).ServeHTTP)
		r.Post("/signin", login.New(logger, d.Auth, d.Validate).ServeHTTP)
		r.Get("/places", placesHandler.List)
		r.Get("/places/{id}", placesHandler.Get)
		r.Get("/hotels", hotelsHandler.List)
		r.Get("/hotels/available", hotelsHandler.Available)
		r.Get("/hotels/{id}", hotelsHandler.Get)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.JWTMaker, logger))

			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)
			r.Get("/cart", cartHandler.List)
			r.Post("/cart", cartHandler.Add)
			r.Delete("/cart/{placeID}", cartHandler.Remove)
			r.Post("/bookings", bookingsHandler.Create)
			r.Get("/bookings", bookingsHandler.List)

			// Управление каталогом
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnly(logger))
				r.Post("/places", placesHandler.Create)
				r.Put("/places/{id}", placesHandler.Update)
				r.Delete("/places/{id}", placesHandler.Remove)
				r.Post("/hotels", hotelsHandler.Create)
				r.Put("/hotels/{id}", hotelsHandler.Update)
				r.Delete("/hotels/{id}", hotelsHandler.Remove)
			})
		})
	})

	r.Handle("/metrics", d.Metrics.Handler())
	r.Method(http.MethodGet, "/health", health.New(logger, d.DB))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
