package models

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64  // Уникальный идентификатор пользователя
	Name         string // Отображаемое имя
	Email        string // Электронная почта, уникальна, хранится в нижнем регистре
	PasswordHash string // Хэш пароля (bcrypt или унаследованный pbkdf2/scrypt)
	Role         string // Роль пользователя, admin или user
}

// Profile возвращает публичное представление пользователя без хэша пароля.
func (u User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserProfile — данные пользователя, которые можно отдавать клиенту.
type UserProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DummySignUp запрос регистрации.
type DummySignUp struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email_addr"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// DummySignIn запрос входа.
type DummySignIn struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DummyProfileUpdate запрос изменения профиля. Пустой Password оставляет пароль прежним.
type DummyProfileUpdate struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email_addr"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}
