package models

// Hotel представляет отель, доступный для бронирования.
type Hotel struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	Place          string  `json:"place"` // Название направления, к которому относится отель
	PricePerNight  float64 `json:"price_per_night"`
	AvailableRooms int     `json:"available_rooms"` // Общее число номеров
}

// DummyHotel используется для приема отеля из JSON-запроса администратора.
type DummyHotel struct {
	Name           string  `json:"name" validate:"required,max=255"`
	Location       string  `json:"location" validate:"required,max=255"`
	Place          string  `json:"place" validate:"max=255"`
	PricePerNight  float64 `json:"price_per_night" validate:"gte=0"`
	AvailableRooms int     `json:"available_rooms" validate:"gte=0"`
}

// ToHotel конвертирует запрос в Hotel с идентификатором id.
func (d DummyHotel) ToHotel(id int64) Hotel {
	return Hotel{
		ID:             id,
		Name:           d.Name,
		Location:       d.Location,
		Place:          d.Place,
		PricePerNight:  d.PricePerNight,
		AvailableRooms: d.AvailableRooms,
	}
}
