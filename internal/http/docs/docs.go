// Package docs регистрирует описание API для swagger UI на /docs/.
//
// Шаблон повторяет аннотации @Router в обработчиках internal/http/handlers
// и должен обновляться вместе с ними.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/signin": {
            "post": {
                "summary": "Вход пользователя",
                "description": "Проверяет почту и пароль. После 5 неудач за 300 секунд вход блокируется.",
                "tags": [
                    "Auth"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Учетные данные",
                        "schema": {
                            "$ref": "#/definitions/models.DummySignIn"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Успешный вход"
                    },
                    "400": {
                        "description": "Некорректный JSON"
                    },
                    "401": {
                        "description": "Неверные учетные данные"
                    },
                    "422": {
                        "description": "Ошибка валидации"
                    },
                    "429": {
                        "description": "Слишком много попыток"
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера"
                    }
                }
            }
        },
        "/profile": {
            "get": {
                "summary": "Профиль текущего пользователя",
                "tags": [
                    "Profile"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Профиль"
                    },
                    "401": {
                        "description": "Пользователь не авторизован"
                    },
                    "404": {
                        "description": "Пользователь не найден"
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера"
                    }
                }
            },
            "put": {
                "summary": "Изменить профиль",
                "description": "Меняет имя, почту и, если передан, пароль. Возвращает новый JWT.",
                "tags": [
                    "Profile"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Новые данные профиля",
                        "schema": {
                            "$ref": "#/definitions/models.DummyProfileUpdate"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Профиль обновлен"
                    },
                    "400": {
                        "description": "Некорректный JSON"
                    },
                    "401": {
                        "description": "Пользователь не авторизован"
                    },
                    "409": {
                        "description": "Почта уже занята"
                    },
                    "422": {
                        "description": "Ошибка валидации"
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера"
                    }
                }
            }
        },
        "/signup": {
            "post": {
                "summary": "Регистрация пользователя",
                "description": "Создает пользователя и сразу возвращает JWT. Занятая почта считается неудачной попыткой.",
                "tags": [
                    "Auth"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Данные пользователя",
                        "schema": {
                            "$ref": "#/definitions/models.DummySignUp"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Пользователь создан"
                    },
                    "400": {
                        "description": "Некорректный JSON"
                    },
                    "409": {
                        "description": "Почта уже занята"
                    },
                    "422": {
                        "description": "Ошибка валидации"
                    },
                    "429": {
                        "description": "Слишком много попыток"
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера"
                    }
                }
            }
        },
        "/bookings": {
            "post": {
                "summary": "Забронировать отель",
                "description": "Стоимость считается сервером: цена за ночь * ночи * номера.",
                "tags": [
                    "Bookings"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Бронирование",
                        "schema": {
                            "$ref": "#/definitions/models.DummyBooking"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Отель не найден"
                    },
                    "409": {
                        "description": "Нет свободных номеров"
                    },
                    "422": {
                        "description": "Некорректные даты"
                    }
                }
            },
            "get": {
                "summary": "Мои бронирования",
                "tags": [
                    "Bookings"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            }
        },
        "/cart": {
            "get": {
                "summary": "Содержимое корзины",
                "description": "Позиции корзины и итоговая стоимость cost * people * days.",
                "tags": [
                    "Cart"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "summary": "Добавить в корзину",
                "description": "Без people и days подставляется 1.",
                "tags": [
                    "Cart"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Позиция",
                        "schema": {
                            "$ref": "#/definitions/models.DummyCartItem"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Направление не найдено"
                    },
                    "422": {
                        "description": "Ошибка валидации"
                    }
                }
            }
        },
        "/cart/{placeID}": {
            "delete": {
                "summary": "Убрать из корзины",
                "tags": [
                    "Cart"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "placeID",
                        "in": "path",
                        "required": true,
                        "description": "ID направления",
                        "type": "integer"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Нет в корзине"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "summary": "Проверка готовности",
                "tags": [
                    "Service"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "База недоступна"
                    }
                }
            }
        },
        "/hotels": {
            "get": {
                "summary": "Список отелей",
                "tags": [
                    "Hotels"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Строка поиска",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "500": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "summary": "Добавить отель",
                "tags": [
                    "Hotels"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Отель",
                        "schema": {
                            "$ref": "#/definitions/models.DummyHotel"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "403": {
                        "description": "Только для администратора"
                    },
                    "422": {
                        "description": "Ошибка валидации"
                    }
                }
            }
        },
        "/hotels/available": {
            "get": {
                "summary": "Свободные отели",
                "description": "Отели, где на даты остается не меньше rooms номеров. Без rooms ищется один номер.",
                "tags": [
                    "Hotels"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "check_in",
                        "in": "query",
                        "required": true,
                        "description": "Дата заезда YYYY-MM-DD",
                        "type": "string"
                    },
                    {
                        "name": "check_out",
                        "in": "query",
                        "required": true,
                        "description": "Дата выезда YYYY-MM-DD",
                        "type": "string"
                    },
                    {
                        "name": "rooms",
                        "in": "query",
                        "required": false,
                        "description": "Число номеров",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "422": {
                        "description": "Некорректные даты или число номеров"
                    }
                }
            }
        },
        "/hotels/{id}": {
            "get": {
                "summary": "Отель по id",
                "tags": [
                    "Hotels"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "ID отеля",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Не найдено"
                    }
                }
            },
            "put": {
                "summary": "Изменить отель",
                "tags": [
                    "Hotels"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "ID отеля",
                        "type": "integer"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Отель",
                        "schema": {
                            "$ref": "#/definitions/models.DummyHotel"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "403": {
                        "description": "Только для администратора"
                    },
                    "404": {
                        "description": "Не найдено"
                    }
                }
            },
            "delete": {
                "summary": "Удалить отель",
                "description": "Отель с бронированиями удалить нельзя.",
                "tags": [
                    "Hotels"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "ID отеля",
                        "type": "integer"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Не найдено"
                    },
                    "409": {
                        "description": "Есть бронирования"
                    }
                }
            }
        },
        "/places": {
            "get": {
                "summary": "Список направлений",
                "description": "Поиск без учета регистра по подстроке названия или места.",
                "tags": [
                    "Places"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Строка поиска",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "500": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "summary": "Добавить направление",
                "tags": [
                    "Places"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Направление",
                        "schema": {
                            "$ref": "#/definitions/models.DummyPlace"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Error"
                    },
                    "403": {
                        "description": "Только для администратора"
                    },
                    "422": {
                        "description": "Ошибка валидации"
                    }
                }
            }
        },
        "/places/{id}": {
            "get": {
                "summary": "Направление по id",
                "tags": [
                    "Places"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "ID направления",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Некорректный id"
                    },
                    "404": {
                        "description": "Не найдено"
                    }
                }
            },
            "put": {
                "summary": "Изменить направление",
                "tags": [
                    "Places"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "ID направления",
                        "type": "integer"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Направление",
                        "schema": {
                            "$ref": "#/definitions/models.DummyPlace"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "403": {
                        "description": "Только для администратора"
                    },
                    "404": {
                        "description": "Не найдено"
                    },
                    "422": {
                        "description": "Ошибка валидации"
                    }
                }
            },
            "delete": {
                "summary": "Удалить направление",
                "tags": [
                    "Places"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "ID направления",
                        "type": "integer"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "403": {
                        "description": "Только для администратора"
                    },
                    "404": {
                        "description": "Не найдено"
                    }
                }
            }
        }
    },
    "definitions": {
        "models.DummyBooking": {
            "type": "object",
            "properties": {
                "hotel_id": {
                    "type": "integer"
                },
                "check_in": {
                    "type": "string"
                },
                "check_out": {
                    "type": "string"
                },
                "rooms": {
                    "type": "integer"
                }
            },
            "required": [
                "hotel_id",
                "check_in",
                "check_out",
                "rooms"
            ]
        },
        "models.DummyCartItem": {
            "type": "object",
            "properties": {
                "place_id": {
                    "type": "integer"
                },
                "people": {
                    "type": "integer"
                },
                "days": {
                    "type": "integer"
                }
            },
            "required": [
                "place_id"
            ]
        },
        "models.DummyHotel": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "place": {
                    "type": "string"
                },
                "price_per_night": {
                    "type": "number"
                },
                "available_rooms": {
                    "type": "integer"
                }
            },
            "required": [
                "name",
                "location"
            ]
        },
        "models.DummyPlace": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "cost": {
                    "type": "number"
                },
                "image_url": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "location"
            ]
        },
        "models.DummyProfileUpdate": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "email"
            ]
        },
        "models.DummySignIn": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "models.DummySignUp": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "email",
                "password"
            ]
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo общие сведения об API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Travel Booking API",
	Description:      "API бронирования путешествий: направления, отели, корзина и бронирования.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(swag.Name, SwaggerInfo)
}
