package domain

import "time"

type Author struct {
	ID        string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Author) TableName() string { return "bookstore_author" }

type Publisher struct {
	ID        string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Publisher) TableName() string { return "bookstore_publisher" }

type Genre struct {
	ID        string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Genre) TableName() string { return "bookstore_genre" }

type Book struct {
	ID          string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"size:50;not null" json:"name"`
	AuthorID    string    `gorm:"type:uuid;not null" json:"author_id"`
	PublisherID *string   `gorm:"type:uuid" json:"publisher_id"`
	Price       float64   `gorm:"type:numeric(6,2);not null" json:"price"`
	Genre       string    `gorm:"size:50" json:"genre"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Author    *Author    `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"-"`
	Publisher *Publisher `gorm:"foreignKey:PublisherID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Book) TableName() string { return "bookstore_book" }
