package handler

import (
	"context"
	"time"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/service"

	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	args := m.Called(username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.TokenPair, *models.User, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*service.TokenPair), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

// MockShelfService mocks the ShelfService interface
type MockShelfService struct {
	mock.Mock
}

func (m *MockShelfService) Add(ctx context.Context, viewer service.Viewer, bookID int64, now time.Time) (bool, error) {
	args := m.Called(viewer, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShelfService) Remove(ctx context.Context, viewer service.Viewer, bookID int64) (bool, error) {
	args := m.Called(viewer, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShelfService) List(ctx context.Context, viewer service.Viewer, now time.Time) (*service.ShelfView, error) {
	args := m.Called(viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShelfView), args.Error(1)
}

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Submit(ctx context.Context, viewer service.Viewer, bookID int64, rating int, content string, now time.Time) (*service.ReviewOutcome, error) {
	args := m.Called(viewer, bookID, rating, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewOutcome), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, viewer service.Viewer, bookID int64) (*models.Book, error) {
	args := m.Called(viewer, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockReviewService) ListForBook(ctx context.Context, viewer service.Viewer, bookID int64, now time.Time) ([]models.Review, error) {
	args := m.Called(viewer, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) ListForUser(ctx context.Context, viewer service.Viewer) ([]models.Review, error) {
	args := m.Called(viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) Like(ctx context.Context, viewer service.Viewer, reviewID int64) (int, error) {
	args := m.Called(viewer, reviewID)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewService) Dislike(ctx context.Context, viewer service.Viewer, reviewID int64) (int, error) {
	args := m.Called(viewer, reviewID)
	return args.Int(0), args.Error(1)
}

// MockCatalogService mocks the CatalogService interface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListBooks(ctx context.Context, viewer service.Viewer, q service.BookQuery, now time.Time) ([]models.Book, error) {
	args := m.Called(viewer, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockCatalogService) GetBook(ctx context.Context, viewer service.Viewer, id int64, now time.Time) (*models.Book, error) {
	args := m.Called(viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) Popular(ctx context.Context) ([]models.Book, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCatalogService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) BookForEdit(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) CreateBook(ctx context.Context, book *models.Book, categoryIDs []int64) error {
	args := m.Called(book, categoryIDs)
	return args.Error(0)
}

func (m *MockCatalogService) UpdateBook(ctx context.Context, book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockCatalogService) DeleteBook(ctx context.Context, id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, c *models.Category) error {
	args := m.Called(c)
	return args.Error(0)
}

// MockRecommendationService mocks the RecommendationService interface
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) Recommend(ctx context.Context, viewer service.Viewer) ([]models.Book, error) {
	args := m.Called(viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

// MockProgressService mocks the ProgressService interface
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) Upsert(ctx context.Context, viewer service.Viewer, bookID int64, progress int, now time.Time) (*models.ReadingProgress, bool, error) {
	args := m.Called(viewer, bookID, progress)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.ReadingProgress), args.Bool(1), args.Error(2)
}

func (m *MockProgressService) Get(ctx context.Context, viewer service.Viewer, bookID int64) (*models.ReadingProgress, error) {
	args := m.Called(viewer, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingProgress), args.Error(1)
}

func (m *MockProgressService) List(ctx context.Context, viewer service.Viewer) ([]models.ReadingProgress, error) {
	args := m.Called(viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReadingProgress), args.Error(1)
}
