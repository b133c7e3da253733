package models

import "time"

// Book is a catalogue entry. Rating and ReviewCount are derived from the reviews table
// and are only written by ReviewRepository inside the review transaction.
type Book struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string     `json:"title" gorm:"size:200;not null"`
	Author        string     `json:"author" gorm:"size:100;not null"`
	Genre         string     `json:"genre" gorm:"size:50;not null;index"`
	Description   string     `json:"description" gorm:"type:text"`
	CoverURL      string     `json:"cover_url" gorm:"size:500"`
	Publisher     string     `json:"publisher" gorm:"size:100"`
	PublishDate   *time.Time `json:"publish_date,omitempty" gorm:"type:date"`
	Pages         int        `json:"pages" gorm:"not null;default:0"`
	ISBN          *string    `json:"isbn,omitempty" gorm:"size:20;uniqueIndex"`
	ReadingCount  int64      `json:"reading_count" gorm:"not null;default:0"`
	Rating        float64    `json:"rating" gorm:"not null;default:0;check:rating >= 0 AND rating <= 5"`
	ReviewCount   int64      `json:"review_count" gorm:"not null;default:0;check:review_count >= 0"`
	Heat          int64      `json:"heat" gorm:"not null;default:0;index;check:heat >= 0"`
	IsPremiumOnly bool       `json:"is_premium_only" gorm:"not null;default:false;index"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// association
	Categories []Category `json:"categories,omitempty" gorm:"many2many:book_categories;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}
