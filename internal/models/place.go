// Package models содержит доменные структуры сервиса бронирования путешествий
// (направления, пользователи, корзина, отели, бронирования), а также
// Dummy-структуры для приема JSON-запросов до валидации и конвертации.
package models

// Place представляет туристическое направление каталога.
type Place struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"` // Стоимость на человека в день
	ImageURL    string  `json:"image_url"`
}

// DummyPlace используется для приема направления из JSON-запроса администратора.
type DummyPlace struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Location    string  `json:"location" validate:"required,max=255"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

// ToPlace конвертирует запрос в Place с идентификатором id.
func (d DummyPlace) ToPlace(id int64) Place {
	return Place{
		ID:          id,
		Name:        d.Name,
		Location:    d.Location,
		Description: d.Description,
		Cost:        d.Cost,
		ImageURL:    d.ImageURL,
	}
}
