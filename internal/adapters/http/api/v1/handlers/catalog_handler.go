package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/http/middleware"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/authz"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/usecase"
	res "github.com/kaylkveip512/Viktorov-bookstore/pkg/http"
)

type CatalogHandler struct {
	service usecase.CatalogService
	engine  *authz.Engine
}

func NewCatalogHandler(service usecase.CatalogService, engine *authz.Engine) *CatalogHandler {
	return &CatalogHandler{service: service, engine: engine}
}

type nameRequest struct {
	Name string `json:"name"`
}

type bookRequest struct {
	Name      string  `json:"name"`
	Author    string  `json:"author"`
	Publisher *string `json:"publisher"`
	Price     float64 `json:"price"`
	Genre     string  `json:"genre"`
}

func (h *CatalogHandler) ListAuthors(c echo.Context) error {
	authors, err := h.service.ListAuthors(c.Request().Context())
	if err != nil {
		return res.Error(c, http.StatusInternalServerError, "Listing failed")
	}
	return c.JSON(http.StatusOK, authors)
}

// CreateAuthor is staff-only; publishers and genres deliberately are not.
func (h *CatalogHandler) CreateAuthor(c echo.Context) error {
	if !h.engine.Permits(authmw.ActorFrom(c), authz.IsAdmin()) {
		return res.Error(c, http.StatusForbidden, "Only administrators can create authors")
	}
	req := new(nameRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	author, err := h.service.CreateAuthor(c.Request().Context(), req.Name)
	if err != nil {
		if fields, ok := usecase.AsFieldErrors(err); ok {
			return res.FieldErrors(c, http.StatusBadRequest, fields)
		}
		return res.Error(c, http.StatusInternalServerError, "Creation failed")
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *CatalogHandler) ListPublishers(c echo.Context) error {
	publishers, err := h.service.ListPublishers(c.Request().Context())
	if err != nil {
		return res.Error(c, http.StatusInternalServerError, "Listing failed")
	}
	return c.JSON(http.StatusOK, publishers)
}

func (h *CatalogHandler) CreatePublisher(c echo.Context) error {
	req := new(nameRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	publisher, err := h.service.CreatePublisher(c.Request().Context(), req.Name)
	if err != nil {
		if fields, ok := usecase.AsFieldErrors(err); ok {
			return res.FieldErrors(c, http.StatusBadRequest, fields)
		}
		return res.Error(c, http.StatusInternalServerError, "Creation failed")
	}
	return c.JSON(http.StatusCreated, publisher)
}

func (h *CatalogHandler) ListGenres(c echo.Context) error {
	genres, err := h.service.ListGenres(c.Request().Context())
	if err != nil {
		return res.Error(c, http.StatusInternalServerError, "Listing failed")
	}
	return c.JSON(http.StatusOK, genres)
}

func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	req := new(nameRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	genre, err := h.service.CreateGenre(c.Request().Context(), req.Name)
	if err != nil {
		if fields, ok := usecase.AsFieldErrors(err); ok {
			return res.FieldErrors(c, http.StatusBadRequest, fields)
		}
		return res.Error(c, http.StatusInternalServerError, "Creation failed")
	}
	return c.JSON(http.StatusCreated, genre)
}

func (h *CatalogHandler) ListBooks(c echo.Context) error {
	books, err := h.service.ListBooks(c.Request().Context())
	if err != nil {
		return res.Error(c, http.StatusInternalServerError, "Listing failed")
	}
	return c.JSON(http.StatusOK, books)
}

func (h *CatalogHandler) CreateBook(c echo.Context) error {
	if !h.engine.Permits(authmw.ActorFrom(c), authz.IsAdmin()) {
		return res.Error(c, http.StatusForbidden, "Only administrators can create books")
	}
	req := new(bookRequest)
	if err := c.Bind(req); err != nil {
		return res.Error(c, http.StatusBadRequest, "Invalid payload")
	}
	book, err := h.service.CreateBook(c.Request().Context(), usecase.BookInput{
		Name:        req.Name,
		AuthorID:    req.Author,
		PublisherID: req.Publisher,
		Price:       req.Price,
		Genre:       req.Genre,
	})
	if err != nil {
		if fields, ok := usecase.AsFieldErrors(err); ok {
			return res.FieldErrors(c, http.StatusBadRequest, fields)
		}
		return res.Error(c, http.StatusInternalServerError, "Creation failed")
	}
	return c.JSON(http.StatusCreated, book)
}
