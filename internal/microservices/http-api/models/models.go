package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&MembershipProfile{},
		&RefreshToken{},
		&Category{},
		&Book{},
		&ShelfEntry{},
		&ReadingProgress{},
		&Review{},
	}
}
