package models

import "time"

// ReadingProgress is the percentage of a book a user has read, unique per (user, book).
type ReadingProgress struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_book,priority:1" json:"user_id"`
	BookID    int64     `gorm:"not null;uniqueIndex:idx_progress_user_book,priority:2;index" json:"book_id"`
	Progress  int       `gorm:"not null;default:0;check:progress >= 0 AND progress <= 100" json:"progress"`
	Version   int64     `gorm:"not null;default:1" json:"version"` // bumped on every write
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"book,omitempty"`
}

// TableName overrides the table name used by ReadingProgress to `reading_progress`
func (ReadingProgress) TableName() string {
	return "reading_progress"
}
