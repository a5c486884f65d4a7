package http

import "github.com/labstack/echo/v4"

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func Message(c echo.Context, status int, message string) error {
	return c.JSON(status, MessageResponse{Message: message})
}

func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

// FieldErrors writes a field-keyed validation error body, e.g.
// {"password": ["..."], "password_check": ["..."]}.
func FieldErrors(c echo.Context, status int, fields map[string][]string) error {
	return c.JSON(status, fields)
}
