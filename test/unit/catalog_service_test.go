package unit

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/kaylkveip512/Viktorov-bookstore/internal/domain"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/usecase"
	pkglog "github.com/kaylkveip512/Viktorov-bookstore/pkg/log"
)

type mockAuthorRepo struct {
	authors map[string]*domain.Author
	next    int
}

func newMockAuthorRepo() *mockAuthorRepo {
	return &mockAuthorRepo{authors: map[string]*domain.Author{}}
}

func (r *mockAuthorRepo) Create(_ context.Context, author *domain.Author) error {
	r.next++
	author.ID = fmt.Sprintf("author-%d", r.next)
	r.authors[author.ID] = author
	return nil
}

func (r *mockAuthorRepo) FindByID(_ context.Context, id string) (*domain.Author, error) {
	if a, ok := r.authors[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockAuthorRepo) List(_ context.Context) ([]domain.Author, error) {
	var out []domain.Author
	for _, a := range r.authors {
		out = append(out, *a)
	}
	return out, nil
}

type mockPublisherRepo struct {
	publishers map[string]*domain.Publisher
	next       int
}

func newMockPublisherRepo() *mockPublisherRepo {
	return &mockPublisherRepo{publishers: map[string]*domain.Publisher{}}
}

func (r *mockPublisherRepo) Create(_ context.Context, publisher *domain.Publisher) error {
	r.next++
	publisher.ID = fmt.Sprintf("publisher-%d", r.next)
	r.publishers[publisher.ID] = publisher
	return nil
}

func (r *mockPublisherRepo) FindByID(_ context.Context, id string) (*domain.Publisher, error) {
	if p, ok := r.publishers[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockPublisherRepo) List(_ context.Context) ([]domain.Publisher, error) {
	var out []domain.Publisher
	for _, p := range r.publishers {
		out = append(out, *p)
	}
	return out, nil
}

type mockGenreRepo struct {
	genres []domain.Genre
}

func (r *mockGenreRepo) Create(_ context.Context, genre *domain.Genre) error {
	genre.ID = fmt.Sprintf("genre-%d", len(r.genres)+1)
	r.genres = append(r.genres, *genre)
	return nil
}

func (r *mockGenreRepo) List(_ context.Context) ([]domain.Genre, error) {
	return r.genres, nil
}

type mockBookRepo struct {
	books []domain.Book
}

func (r *mockBookRepo) Create(_ context.Context, book *domain.Book) error {
	book.ID = fmt.Sprintf("book-%d", len(r.books)+1)
	r.books = append(r.books, *book)
	return nil
}

func (r *mockBookRepo) List(_ context.Context) ([]domain.Book, error) {
	return r.books, nil
}

type catalogDeps struct {
	authors    *mockAuthorRepo
	publishers *mockPublisherRepo
	genres     *mockGenreRepo
	books      *mockBookRepo
}

func newCatalogService(t *testing.T) (usecase.CatalogService, *catalogDeps) {
	t.Helper()
	deps := &catalogDeps{
		authors:    newMockAuthorRepo(),
		publishers: newMockPublisherRepo(),
		genres:     &mockGenreRepo{},
		books:      &mockBookRepo{},
	}
	svc := usecase.NewCatalogService(pkglog.New("test"), deps.authors, deps.publishers, deps.genres, deps.books)
	return svc, deps
}

func TestCreateAuthorValidatesName(t *testing.T) {
	svc, deps := newCatalogService(t)

	_, err := svc.CreateAuthor(context.Background(), "   ")
	fields, ok := usecase.AsFieldErrors(err)
	if !ok || len(fields["name"]) == 0 {
		t.Fatalf("expected name error, got %v", err)
	}

	_, err = svc.CreateAuthor(context.Background(), strings.Repeat("x", 51))
	if fields, ok = usecase.AsFieldErrors(err); !ok || len(fields["name"]) == 0 {
		t.Fatalf("expected length error, got %v", err)
	}

	author, err := svc.CreateAuthor(context.Background(), "  Leo Tolstoy  ")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	if author.Name != "Leo Tolstoy" {
		t.Fatalf("name not trimmed: %q", author.Name)
	}
	if len(deps.authors.authors) != 1 {
		t.Fatalf("expected 1 stored author, got %d", len(deps.authors.authors))
	}
}

func TestCreatePublisherAndGenre(t *testing.T) {
	svc, _ := newCatalogService(t)

	publisher, err := svc.CreatePublisher(context.Background(), "Penguin")
	if err != nil || publisher.ID == "" {
		t.Fatalf("create publisher: %v %+v", err, publisher)
	}
	genre, err := svc.CreateGenre(context.Background(), "Fiction")
	if err != nil || genre.ID == "" {
		t.Fatalf("create genre: %v %+v", err, genre)
	}

	if _, err := svc.CreateGenre(context.Background(), ""); err == nil {
		t.Fatal("empty genre name must be rejected")
	}
}

func TestCreateBookRequiresExistingAuthor(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.CreateBook(context.Background(), usecase.BookInput{Name: "War and Peace", AuthorID: "ghost"})
	fields, ok := usecase.AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	if len(fields["author"]) == 0 || fields["author"][0] != "Author does not exist." {
		t.Fatalf("expected author existence error, got %v", fields)
	}

	_, err = svc.CreateBook(context.Background(), usecase.BookInput{Name: "War and Peace"})
	if fields, ok = usecase.AsFieldErrors(err); !ok || len(fields["author"]) == 0 {
		t.Fatalf("expected required author error, got %v", err)
	}
}

func TestCreateBookPublisherOptional(t *testing.T) {
	svc, deps := newCatalogService(t)
	author, err := svc.CreateAuthor(context.Background(), "Leo Tolstoy")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	book, err := svc.CreateBook(context.Background(), usecase.BookInput{
		Name:     "War and Peace",
		AuthorID: author.ID,
		Price:    19.99,
		Genre:    "Classic",
	})
	if err != nil {
		t.Fatalf("create book without publisher: %v", err)
	}
	if book.PublisherID != nil {
		t.Fatalf("publisher must stay unset, got %v", *book.PublisherID)
	}

	ghost := "missing"
	_, err = svc.CreateBook(context.Background(), usecase.BookInput{Name: "Anna Karenina", AuthorID: author.ID, PublisherID: &ghost})
	fields, ok := usecase.AsFieldErrors(err)
	if !ok || len(fields["publisher"]) == 0 {
		t.Fatalf("expected publisher existence error, got %v", err)
	}

	publisher, err := svc.CreatePublisher(context.Background(), "Penguin")
	if err != nil {
		t.Fatalf("create publisher: %v", err)
	}
	book, err = svc.CreateBook(context.Background(), usecase.BookInput{Name: "Anna Karenina", AuthorID: author.ID, PublisherID: &publisher.ID})
	if err != nil {
		t.Fatalf("create book with publisher: %v", err)
	}
	if book.PublisherID == nil || *book.PublisherID != publisher.ID {
		t.Fatalf("publisher not linked: %+v", book)
	}
	if len(deps.books.books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(deps.books.books))
	}
}

func TestCreateBookPriceBounds(t *testing.T) {
	svc, _ := newCatalogService(t)
	author, err := svc.CreateAuthor(context.Background(), "Leo Tolstoy")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	for _, price := range []float64{-0.01, 10000} {
		_, err := svc.CreateBook(context.Background(), usecase.BookInput{Name: "Book", AuthorID: author.ID, Price: price})
		if fields, ok := usecase.AsFieldErrors(err); !ok || len(fields["price"]) == 0 {
			t.Fatalf("price %v: expected price error, got %v", price, err)
		}
	}
	if _, err := svc.CreateBook(context.Background(), usecase.BookInput{Name: "Book", AuthorID: author.ID, Price: 9999.99}); err != nil {
		t.Fatalf("max price must be accepted: %v", err)
	}
}
