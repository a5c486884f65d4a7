package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kaylkveip512/Viktorov-bookstore/internal/domain"
)

type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) error
	FindByID(ctx context.Context, id string) (*domain.Author, error)
	List(ctx context.Context) ([]domain.Author, error)
}

type PublisherRepository interface {
	Create(ctx context.Context, publisher *domain.Publisher) error
	FindByID(ctx context.Context, id string) (*domain.Publisher, error)
	List(ctx context.Context) ([]domain.Publisher, error)
}

type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) error
	List(ctx context.Context) ([]domain.Genre, error)
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	List(ctx context.Context) ([]domain.Book, error)
}

type authorRepo struct{ db *gorm.DB }

type publisherRepo struct{ db *gorm.DB }

type genreRepo struct{ db *gorm.DB }

type bookRepo struct{ db *gorm.DB }

func NewAuthorRepository(db *gorm.DB) AuthorRepository { return &authorRepo{db: db} }

func NewPublisherRepository(db *gorm.DB) PublisherRepository { return &publisherRepo{db: db} }

func NewGenreRepository(db *gorm.DB) GenreRepository { return &genreRepo{db: db} }

func NewBookRepository(db *gorm.DB) BookRepository { return &bookRepo{db: db} }

func (r *authorRepo) Create(ctx context.Context, author *domain.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

func (r *authorRepo) FindByID(ctx context.Context, id string) (*domain.Author, error) {
	var author domain.Author
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepo) List(ctx context.Context) ([]domain.Author, error) {
	var authors []domain.Author
	if err := r.db.WithContext(ctx).Order("created_at").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *publisherRepo) Create(ctx context.Context, publisher *domain.Publisher) error {
	return r.db.WithContext(ctx).Create(publisher).Error
}

func (r *publisherRepo) FindByID(ctx context.Context, id string) (*domain.Publisher, error) {
	var publisher domain.Publisher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&publisher).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

func (r *publisherRepo) List(ctx context.Context) ([]domain.Publisher, error) {
	var publishers []domain.Publisher
	if err := r.db.WithContext(ctx).Order("created_at").Find(&publishers).Error; err != nil {
		return nil, err
	}
	return publishers, nil
}

func (r *genreRepo) Create(ctx context.Context, genre *domain.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

func (r *genreRepo) List(ctx context.Context) ([]domain.Genre, error) {
	var genres []domain.Genre
	if err := r.db.WithContext(ctx).Order("created_at").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *bookRepo) Create(ctx context.Context, book *domain.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepo) List(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := r.db.WithContext(ctx).Preload("Author").Preload("Publisher").Order("created_at").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}
