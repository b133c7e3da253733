package service

import (
	"context"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"
)

type RecommendationService interface {
	Recommend(ctx context.Context, viewer Viewer) ([]models.Book, error)
}

type recommendationService struct {
	shelves repository.ShelfRepository
	reviews repository.ReviewRepository
	books   repository.BookRepository
}

func NewRecommendationService(
	shelves repository.ShelfRepository,
	reviews repository.ReviewRepository,
	books repository.BookRepository,
) RecommendationService {
	return &recommendationService{shelves: shelves, reviews: reviews, books: books}
}

// Recommend picks at most PopularLimit books:
//   - empty shelf: the popularity list
//   - shelf with reviewed books: best rated books in the reviewed genres, minus the shelf
//   - shelf without reviewed books: the popularity list
func (s *recommendationService) Recommend(ctx context.Context, viewer Viewer) ([]models.Book, error) {
	if viewer.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	shelved, err := s.shelves.BookIDs(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if len(shelved) == 0 {
		return s.books.TopByHeat(ctx, PopularLimit)
	}

	genres, err := s.reviews.GenresReviewedAmong(ctx, viewer.UserID, shelved)
	if err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		return s.books.TopByHeat(ctx, PopularLimit)
	}

	return s.books.TopRatedInGenres(ctx, genres, shelved, PopularLimit)
}
