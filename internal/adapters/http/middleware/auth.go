package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/postgres"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/authz"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/domain"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/tokenverify"
	res "github.com/kaylkveip512/Viktorov-bookstore/pkg/http"
)

const userContextKey = "auth_user"

// AuthMiddleware verifies the bearer access token and loads the subject user
// so downstream authorization can rely on current role flags rather than
// claims minted at login time.
type AuthMiddleware struct {
	parser tokenverify.Parser
	users  repo.UserRepository
}

func NewAuthMiddleware(parser tokenverify.Parser, users repo.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{parser: parser, users: users}
}

func (m *AuthMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return res.Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
		}

		result, err := tokenverify.Verify(m.parser, parts[1], time.Now)
		if err != nil {
			if errors.Is(err, tokenverify.ErrTokenExpired) {
				return res.Error(c, http.StatusUnauthorized, "Access token expired.")
			}
			return res.Error(c, http.StatusUnauthorized, "Invalid access token.")
		}

		user, err := m.users.FindByID(c.Request().Context(), result.UserID)
		if err != nil || !user.IsActive {
			return res.Error(c, http.StatusUnauthorized, "Invalid access token.")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the authenticated user set by the middleware, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

// ActorFrom adapts the authenticated user into an authorization actor.
func ActorFrom(c echo.Context) *authz.Actor {
	user := CurrentUser(c)
	if user == nil {
		return nil
	}
	return &authz.Actor{ID: user.ID, Username: user.Username, IsStaff: user.IsStaff}
}
