// Package auth содержит бизнес-логику учетных записей: регистрацию, вход
// с ограничением неудачных попыток, выпуск JWT и изменение профиля.
//
// Почта нормализуется (обрезка пробелов и нижний регистр) на входе в сервис,
// поэтому хранилище и ограничитель всегда видят один и тот же ключ.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/travel-booking/internal/lib/email"
	"github.com/magabrotheeeer/travel-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/travel-booking/internal/lib/metrics"
	"github.com/magabrotheeeer/travel-booking/internal/lib/password"
	"github.com/magabrotheeeer/travel-booking/internal/lib/ratelimit"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

var (
	// ErrInvalidCredentials неверная почта или пароль. Намеренно не различает случаи.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRateLimited слишком много неудачных попыток за окно.
	ErrRateLimited = errors.New("too many failed attempts, try again later")
	// ErrInvalidEmail почта не соответствует допустимому формату.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidInput пустое имя или пароль.
	ErrInvalidInput = errors.New("name and password are required")
	// ErrPasswordTooLong пароль длиннее password.MaxBytes байт.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, currentEmail, name, newEmail string, passwordHash *string) error
	UpdateUserByID(ctx context.Context, id int64, name, newEmail string, passwordHash *string) error
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}

// Service отвечает за регистрацию, вход и профиль пользователя.
type Service struct {
	log      *slog.Logger
	users    UserRepository
	limiter  ratelimit.Limiter
	jwtMaker jwt.Maker
	metrics  *metrics.Metrics
	admins   map[string]struct{}
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewService создает сервис. Почты из adminEmails получают роль admin при регистрации.
func NewService(log *slog.Logger, users UserRepository, limiter ratelimit.Limiter, jwtMaker jwt.Maker,
	m *metrics.Metrics, adminEmails []string) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, a := range adminEmails {
		if a = email.Normalize(a); a != "" {
			admins[a] = struct{}{}
		}
	}
	return &Service{
		log:      log,
		users:    users,
		limiter:  limiter,
		jwtMaker: jwtMaker,
		metrics:  m,
		admins:   admins,
		now:      time.Now,
	}
}

// Authenticate проверяет пару почта/пароль и возвращает ID пользователя.
func (s *Service) Authenticate(ctx context.Context, addr, pw string) (int64, error) {
	u, err := s.authenticate(ctx, email.Normalize(addr), pw)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// CreateUser регистрирует пользователя и возвращает его ID.
func (s *Service) CreateUser(ctx context.Context, name, addr, pw string) (int64, error) {
	const op = "auth.CreateUser"
	addr = email.Normalize(addr)
	name = strings.TrimSpace(name)
	if name == "" || pw == "" {
		return 0, ErrInvalidInput
	}
	if !email.Valid(addr) {
		return 0, ErrInvalidEmail
	}
	if len(pw) > password.MaxBytes {
		return 0, ErrPasswordTooLong
	}

	hash, err := password.GetHash(pw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	role := models.RoleUser
	if _, ok := s.admins[addr]; ok {
		role = models.RoleAdmin
	}

	id, err := s.users.CreateUser(ctx, models.User{Name: name, Email: addr, PasswordHash: hash, Role: role})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.Int64("user_id", id), slog.String("role", role))
	return id, nil
}

// UpdateUser меняет имя и почту пользователя currentEmail. Пароль меняется,
// только если password не nil и не пуст.
func (s *Service) UpdateUser(ctx context.Context, currentEmail, name, newEmail string, pw *string) error {
	const op = "auth.UpdateUser"
	name, newEmail, hash, err := prepareUpdate(name, newEmail, pw)
	if err != nil {
		return err
	}
	if err := s.users.UpdateUser(ctx, email.Normalize(currentEmail), name, newEmail, hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user profile updated", slog.Bool("password_changed", hash != nil))
	return nil
}

// UpdateProfile меняет профиль пользователя id и возвращает его новое состояние.
// Пользователь ищется по ID, а не по почте: почта меняется и может перейти
// к другому аккаунту, пока старый токен еще действителен.
func (s *Service) UpdateProfile(ctx context.Context, id int64, name, newEmail string, pw *string) (*models.UserProfile, error) {
	const op = "auth.UpdateProfile"
	name, newEmail, hash, err := prepareUpdate(name, newEmail, pw)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateUserByID(ctx, id, name, newEmail, hash); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user profile updated", slog.Int64("user_id", id), slog.Bool("password_changed", hash != nil))
	return s.GetUserByID(ctx, id)
}

func prepareUpdate(name, newEmail string, pw *string) (string, string, *string, error) {
	newEmail = email.Normalize(newEmail)
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", nil, ErrInvalidInput
	}
	if !email.Valid(newEmail) {
		return "", "", nil, ErrInvalidEmail
	}
	if pw == nil || *pw == "" {
		return name, newEmail, nil, nil
	}
	if len(*pw) > password.MaxBytes {
		return "", "", nil, ErrPasswordTooLong
	}
	h, err := password.GetHash(*pw)
	if err != nil {
		return "", "", nil, fmt.Errorf("auth.prepareUpdate: %w", err)
	}
	return name, newEmail, &h, nil
}

// GetUser возвращает профиль пользователя по почте.
func (s *Service) GetUser(ctx context.Context, addr string) (*models.UserProfile, error) {
	const op = "auth.GetUser"
	u, err := s.users.GetUserByEmail(ctx, email.Normalize(addr))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p := u.Profile()
	return &p, nil
}

// GetUserByID возвращает профиль пользователя по ID.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*models.UserProfile, error) {
	const op = "auth.GetUserByID"
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p := u.Profile()
	return &p, nil
}

// SignIn выполняет вход с учетом ограничителя: заблокированная почта сразу
// получает ErrRateLimited без проверки пароля, неудача записывается в ограничитель.
func (s *Service) SignIn(ctx context.Context, addr, pw string) (string, *models.UserProfile, error) {
	const op = "auth.SignIn"
	addr = email.Normalize(addr)
	now := s.now()

	if err := s.checkLimit(ctx, addr, now); err != nil {
		return "", nil, err
	}

	u, err := s.authenticate(ctx, addr, pw)
	if errors.Is(err, ErrInvalidCredentials) {
		s.recordFailure(ctx, addr, now)
		s.metrics.AuthAttempt(metrics.AuthFailure)
		return "", nil, err
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	p := u.Profile()
	token, err := s.IssueToken(p)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.AuthAttempt(metrics.AuthSuccess)
	return token, &p, nil
}

// SignUp регистрирует пользователя и сразу выдает токен. Попытка
// зарегистрировать занятую почту считается неудачной попыткой для этой почты.
func (s *Service) SignUp(ctx context.Context, name, addr, pw string) (string, *models.UserProfile, error) {
	const op = "auth.SignUp"
	addr = email.Normalize(addr)
	now := s.now()

	if err := s.checkLimit(ctx, addr, now); err != nil {
		return "", nil, err
	}

	id, err := s.CreateUser(ctx, name, addr, pw)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		s.recordFailure(ctx, addr, now)
		return "", nil, err
	}
	if err != nil {
		return "", nil, err
	}

	p := models.UserProfile{ID: id, Name: strings.TrimSpace(name), Email: addr, Role: models.RoleUser}
	if _, ok := s.admins[addr]; ok {
		p.Role = models.RoleAdmin
	}
	token, err := s.IssueToken(p)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, &p, nil
}

// IssueToken выпускает JWT для профиля p.
func (s *Service) IssueToken(p models.UserProfile) (string, error) {
	return s.jwtMaker.GenerateToken(p.ID, p.Email, p.Role)
}

func (s *Service) authenticate(ctx context.Context, addr, pw string) (*models.User, error) {
	const op = "auth.Authenticate"
	u, err := s.users.GetUserByEmail(ctx, addr)
	if errors.Is(err, storage.ErrNotFound) {
		// Сравнение с фиктивным хэшем выравнивает время ответа
		// для существующих и несуществующих почт.
		_ = password.CompareHash(s.dummy(), pw)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(u.PasswordHash, pw); err != nil {
		if errors.Is(err, password.ErrMalformedHash) {
			s.log.Warn("stored password hash is malformed", slog.Int64("user_id", u.ID))
			return nil, ErrInvalidCredentials
		}
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if password.NeedsRehash(u.PasswordHash) {
		s.upgradeHash(ctx, u.ID, pw)
	}
	return u, nil
}

// upgradeHash переводит унаследованный хэш на bcrypt. Ошибка не мешает входу.
func (s *Service) upgradeHash(ctx context.Context, id int64, pw string) {
	hash, err := password.GetHash(pw)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, id, hash)
	}
	if err != nil {
		s.log.Warn("failed to upgrade legacy password hash", slog.Int64("user_id", id), sl.Err(err))
		return
	}
	s.log.Info("legacy password hash upgraded", slog.Int64("user_id", id))
}

func (s *Service) checkLimit(ctx context.Context, addr string, now time.Time) error {
	limited, err := s.limiter.IsLimited(ctx, addr, now)
	if err != nil {
		return fmt.Errorf("auth.checkLimit: %w", err)
	}
	if limited {
		s.metrics.AuthAttempt(metrics.AuthRateLimited)
		return ErrRateLimited
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, addr string, now time.Time) {
	if err := s.limiter.RecordFailure(ctx, addr, now); err != nil {
		s.log.Warn("failed to record failed attempt", sl.Err(err))
	}
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := password.GetHash("not-a-real-password")
		if err != nil {
			s.log.Error("failed to prepare dummy hash", sl.Err(err))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
