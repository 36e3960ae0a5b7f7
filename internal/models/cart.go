package models

// CartItem — строка корзины: направление, число людей и дней.
type CartItem struct {
	UserID  int64
	PlaceID int64
	People  int
	Days    int
}

// CartEntry — строка корзины вместе с данными направления.
type CartEntry struct {
	Place  Place `json:"place"`
	People int   `json:"people"`
	Days   int   `json:"days"`
}

// DummyCartItem запрос добавления в корзину. Нулевые People и Days
// заменяются на 1.
type DummyCartItem struct {
	PlaceID int64 `json:"place_id" validate:"required,gt=0"`
	People  int   `json:"people" validate:"gte=0"`
	Days    int   `json:"days" validate:"gte=0"`
}
