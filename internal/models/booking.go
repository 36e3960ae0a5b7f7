package models

import "time"

// DateLayout — формат дат заезда и выезда в запросах и ответах.
const DateLayout = "2006-01-02"

// Booking представляет бронирование номеров в отеле.
// Интервал полуоткрытый: [CheckIn, CheckOut).
type Booking struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	HotelID    int64     `json:"hotel_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Rooms      int       `json:"rooms"`
	TotalPrice float64   `json:"total_price"`
}

// Nights возвращает число ночей бронирования.
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// DummyBooking запрос бронирования. Даты приходят строками YYYY-MM-DD.
type DummyBooking struct {
	HotelID  int64  `json:"hotel_id" validate:"required,gt=0"`
	CheckIn  string `json:"check_in" validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
	Rooms    int    `json:"rooms" validate:"required,gt=0"`
}

// BookingNotification — событие о подтвержденном бронировании для рассылки письма.
type BookingNotification struct {
	BookingID  int64   `json:"booking_id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	HotelName  string  `json:"hotel_name"`
	Location   string  `json:"location"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Rooms      int     `json:"rooms"`
	TotalPrice float64 `json:"total_price"`
}
