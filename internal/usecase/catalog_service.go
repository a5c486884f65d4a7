package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/postgres"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/domain"
	pkglog "github.com/kaylkveip512/Viktorov-bookstore/pkg/log"
)

const maxBookPrice = 9999.99

type BookInput struct {
	Name        string
	AuthorID    string
	PublisherID *string
	Price       float64
	Genre       string
}

type CatalogService interface {
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	CreateAuthor(ctx context.Context, name string) (*domain.Author, error)
	ListPublishers(ctx context.Context) ([]domain.Publisher, error)
	CreatePublisher(ctx context.Context, name string) (*domain.Publisher, error)
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	CreateGenre(ctx context.Context, name string) (*domain.Genre, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	CreateBook(ctx context.Context, input BookInput) (*domain.Book, error)
}

type catalogService struct {
	logger     pkglog.Logger
	authors    repo.AuthorRepository
	publishers repo.PublisherRepository
	genres     repo.GenreRepository
	books      repo.BookRepository
}

func NewCatalogService(logger pkglog.Logger, authors repo.AuthorRepository, publishers repo.PublisherRepository, genres repo.GenreRepository, books repo.BookRepository) CatalogService {
	return &catalogService{logger: logger, authors: authors, publishers: publishers, genres: genres, books: books}
}

func (s *catalogService) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	return s.authors.List(ctx)
}

func (s *catalogService) CreateAuthor(ctx context.Context, name string) (*domain.Author, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	author := &domain.Author{Name: strings.TrimSpace(name)}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, err
	}
	s.logger.Info().Str("author_id", author.ID).Msg("author created")
	return author, nil
}

func (s *catalogService) ListPublishers(ctx context.Context) ([]domain.Publisher, error) {
	return s.publishers.List(ctx)
}

func (s *catalogService) CreatePublisher(ctx context.Context, name string) (*domain.Publisher, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	publisher := &domain.Publisher{Name: strings.TrimSpace(name)}
	if err := s.publishers.Create(ctx, publisher); err != nil {
		return nil, err
	}
	s.logger.Info().Str("publisher_id", publisher.ID).Msg("publisher created")
	return publisher, nil
}

func (s *catalogService) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.genres.List(ctx)
}

func (s *catalogService) CreateGenre(ctx context.Context, name string) (*domain.Genre, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	genre := &domain.Genre{Name: strings.TrimSpace(name)}
	if err := s.genres.Create(ctx, genre); err != nil {
		return nil, err
	}
	s.logger.Info().Str("genre_id", genre.ID).Msg("genre created")
	return genre, nil
}

func (s *catalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}

func (s *catalogService) CreateBook(ctx context.Context, input BookInput) (*domain.Book, error) {
	fields := FieldErrors{}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		fields.Add("name", "This field is required.")
	case utf8.RuneCountInString(name) > 50:
		fields.Add("name", "Ensure this field has no more than 50 characters.")
	}
	if input.Price < 0 || input.Price > maxBookPrice {
		fields.Add("price", "Price must be between 0 and 9999.99.")
	}
	if utf8.RuneCountInString(input.Genre) > 50 {
		fields.Add("genre", "Ensure this field has no more than 50 characters.")
	}

	if input.AuthorID == "" {
		fields.Add("author", "This field is required.")
	} else if _, err := s.authors.FindByID(ctx, input.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields.Add("author", "Author does not exist.")
		} else {
			return nil, err
		}
	}
	if input.PublisherID != nil && *input.PublisherID != "" {
		if _, err := s.publishers.FindByID(ctx, *input.PublisherID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fields.Add("publisher", "Publisher does not exist.")
			} else {
				return nil, err
			}
		}
	}
	if !fields.Empty() {
		return nil, fields
	}

	book := &domain.Book{
		Name:     name,
		AuthorID: input.AuthorID,
		Price:    input.Price,
		Genre:    strings.TrimSpace(input.Genre),
	}
	if input.PublisherID != nil && *input.PublisherID != "" {
		book.PublisherID = input.PublisherID
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	s.logger.Info().Str("book_id", book.ID).Msg("book created")
	return book, nil
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	fields := FieldErrors{}
	switch {
	case trimmed == "":
		fields.Add("name", "This field is required.")
	case utf8.RuneCountInString(trimmed) > 50:
		fields.Add("name", "Ensure this field has no more than 50 characters.")
	}
	if !fields.Empty() {
		return fields
	}
	return nil
}
