package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/http/middleware"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/authz"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/usecase"
	res "github.com/kaylkveip512/Viktorov-bookstore/pkg/http"
)

type AuthHandler struct {
	service usecase.Service
	engine  *authz.Engine
}

func NewAuthHandler(service usecase.Service, engine *authz.Engine) *AuthHandler {
	return &AuthHandler{service: service, engine: engine}
}

type registerRequest struct {
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	PasswordCheck string `json:"password_check"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	req := new(registerRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	input := usecase.RegisterInput{
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      req.Password,
		PasswordCheck: req.PasswordCheck,
	}
	user, err := h.service.Register(c.Request().Context(), input, requestMeta(c))
	if err != nil {
		if fields, ok := usecase.AsFieldErrors(err); ok {
			return res.FieldErrors(c, http.StatusBadRequest, fields)
		}
		return res.Error(c, http.StatusInternalServerError, "Registration failed")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return res.Error(c, http.StatusBadRequest, "Please provide both username and password")
	}
	user, tokens, err := h.service.Login(c.Request().Context(), req.Username, req.Password, requestMeta(c))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			return res.Error(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return res.Error(c, http.StatusInternalServerError, "Login failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"user":    user,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	req := new(logoutRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	user := authmw.CurrentUser(c)
	if err := h.service.Logout(c.Request().Context(), user, req.Refresh, requestMeta(c)); err != nil {
		if errors.Is(err, usecase.ErrTokenInvalid) {
			return res.Error(c, http.StatusBadRequest, "Invalid token")
		}
		return res.Error(c, http.StatusBadRequest, "Logout failed")
	}
	return res.Message(c, http.StatusOK, "Successfully logged out")
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	req := new(refreshRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	if req.Refresh == "" {
		return res.Error(c, http.StatusBadRequest, "Refresh token is required")
	}
	access, err := h.service.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTokenRevoked):
			return res.Error(c, http.StatusUnauthorized, "Refresh token revoked")
		case errors.Is(err, usecase.ErrTokenExpired):
			return res.Error(c, http.StatusUnauthorized, "Refresh token expired")
		case errors.Is(err, usecase.ErrTokenInvalid):
			return res.Error(c, http.StatusUnauthorized, "Invalid refresh token")
		case errors.Is(err, usecase.ErrNotFound):
			return res.Error(c, http.StatusNotFound, "User not found")
		}
		return res.Error(c, http.StatusInternalServerError, "Refresh failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"access": access})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	return c.JSON(http.StatusOK, authmw.CurrentUser(c))
}

func (h *AuthHandler) CheckAuth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"isAuthenticated": true,
		"user":            authmw.CurrentUser(c),
	})
}

func (h *AuthHandler) GetUser(c echo.Context) error {
	target, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return res.Error(c, http.StatusNotFound, "User not found")
		}
		return res.Error(c, http.StatusInternalServerError, "Lookup failed")
	}
	if !h.engine.Permits(authmw.ActorFrom(c), authz.IsAuthenticated(), authz.IsOwnerOrAdmin(target)) {
		return res.Error(c, http.StatusForbidden, "Permission denied")
	}
	return c.JSON(http.StatusOK, target)
}

func (h *AuthHandler) UpdateUser(c echo.Context) error {
	target, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return res.Error(c, http.StatusNotFound, "User not found")
		}
		return res.Error(c, http.StatusInternalServerError, "Lookup failed")
	}
	if !h.engine.Permits(authmw.ActorFrom(c), authz.IsAuthenticated(), authz.IsOwnerOrAdmin(target)) {
		return res.Error(c, http.StatusForbidden, "Permission denied")
	}

	req := new(updateUserRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	input := usecase.UpdateUserInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	updated, err := h.service.UpdateUser(c.Request().Context(), authmw.CurrentUser(c), target, input, requestMeta(c))
	if err != nil {
		if fields, ok := usecase.AsFieldErrors(err); ok {
			return res.FieldErrors(c, http.StatusBadRequest, fields)
		}
		return res.Error(c, http.StatusInternalServerError, "Update failed")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AuthHandler) AdminDashboard(c echo.Context) error {
	if !h.engine.Permits(authmw.ActorFrom(c), authz.IsAdmin()) {
		return res.Error(c, http.StatusForbidden, "Permission denied")
	}
	dashboard, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return res.Error(c, http.StatusInternalServerError, "Dashboard unavailable")
	}
	return c.JSON(http.StatusOK, dashboard)
}

func requestMeta(c echo.Context) usecase.RequestMeta {
	return usecase.RequestMeta{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
