package models

import "time"

// Review is the single rating-bearing comment a user leaves on a book.
// Likes and Dislikes are reaction counters and never feed the book aggregate.
type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_user_book,priority:1"`
	BookID    int64     `json:"book_id" gorm:"not null;uniqueIndex:idx_review_user_book,priority:2;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Content   string    `json:"content" gorm:"type:text"`
	Likes     int       `json:"likes" gorm:"not null;default:0"`
	Dislikes  int       `json:"dislikes" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
