// Package request содержит разбор входных данных HTTP-запросов.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/travel-booking/internal/http/response"
)

// maxBodySize ограничивает тело JSON-запроса.
const maxBodySize = 1 << 20

// ErrInvalidID идентификатор в пути не является положительным целым.
var ErrInvalidID = errors.New("invalid id in url")

// DecodeJSON читает тело запроса в dst. При ошибке пишет 400 и возвращает false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	return true
}

// ID возвращает положительный целый параметр пути name.
func ID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// WriteID пишет 400 для неверного идентификатора.
func WriteID(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(ErrInvalidID.Error()))
}
