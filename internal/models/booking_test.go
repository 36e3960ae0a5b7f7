package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Nights(t *testing.T) {
	in := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		out  time.Time
		want int
	}{
		{name: "one night", out: in.AddDate(0, 0, 1), want: 1},
		{name: "across month", out: in.AddDate(0, 0, 5), want: 5},
		{name: "same day", out: in, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Booking{CheckIn: in, CheckOut: tt.out}.Nights())
		})
	}
}

func TestUser_ProfileOmitsHash(t *testing.T) {
	u := User{ID: 3, Name: "Vinay", Email: "vinay@trip.com", PasswordHash: "$2a$10$x", Role: RoleUser}
	assert.Equal(t, UserProfile{ID: 3, Name: "Vinay", Email: "vinay@trip.com", Role: RoleUser}, u.Profile())
}
