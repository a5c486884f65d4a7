package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/http/api/v1/handlers"
)

type Router struct {
	auth    *handlers.AuthHandler
	catalog *handlers.CatalogHandler
	authMW  echo.MiddlewareFunc
}

func NewRouter(auth *handlers.AuthHandler, catalog *handlers.CatalogHandler, authMW echo.MiddlewareFunc) *Router {
	return &Router{auth: auth, catalog: catalog, authMW: authMW}
}

func (r *Router) Register(g *echo.Group) {
	g.POST("/register", r.auth.Register)
	g.POST("/login", r.auth.Login)
	g.POST("/refresh", r.auth.Refresh)

	protected := g.Group("", r.authMW)
	protected.POST("/logout", r.auth.Logout)
	protected.GET("/profile", r.auth.Profile)
	protected.GET("/check-auth", r.auth.CheckAuth)
	protected.GET("/users/:id", r.auth.GetUser)
	protected.PUT("/users/:id", r.auth.UpdateUser)
	protected.GET("/admin/dashboard", r.auth.AdminDashboard)

	protected.GET("/author", r.catalog.ListAuthors)
	protected.POST("/author", r.catalog.CreateAuthor)
	protected.GET("/publisher", r.catalog.ListPublishers)
	protected.POST("/publisher", r.catalog.CreatePublisher)
	protected.GET("/genre", r.catalog.ListGenres)
	protected.POST("/genre", r.catalog.CreateGenre)
	protected.GET("/book", r.catalog.ListBooks)
	protected.POST("/book", r.catalog.CreateBook)
}
