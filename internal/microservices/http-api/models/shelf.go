package models

import "time"

// ShelfEntry is a book saved to a user's personal shelf, unique per (user, book).
type ShelfEntry struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_shelf_user_book,priority:1" json:"user_id"`
	BookID  int64     `gorm:"not null;uniqueIndex:idx_shelf_user_book,priority:2;index" json:"book_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"book,omitempty"`
}

func (ShelfEntry) TableName() string {
	return "shelf_entries"
}
