package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"bookhub/internal/microservices/http-api/models"
	"bookhub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindByUserID(ctx context.Context, userID string) (*models.MembershipProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipProfile), args.Error(1)
}

func (m *MockMembershipRepository) SetMembership(ctx context.Context, userID string, isPremium bool, expiry *time.Time) (*models.MembershipProfile, error) {
	args := m.Called(ctx, userID, isPremium, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipProfile), args.Error(1)
}

func (m *MockMembershipRepository) UpdateProfile(ctx context.Context, userID string, changes repository.ProfileChanges) (*models.MembershipProfile, error) {
	args := m.Called(ctx, userID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipProfile), args.Error(1)
}

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Find(ctx context.Context, filter repository.BookFilter) ([]models.Book, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) TopByHeat(ctx context.Context, limit int) ([]models.Book, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) TopRatedInGenres(ctx context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Book, error) {
	args := m.Called(ctx, genres, excludeIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, book *models.Book, categoryIDs []int64) error {
	args := m.Called(ctx, book, categoryIDs)
	return args.Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Submit(ctx context.Context, review *models.Review) (*models.Book, bool, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Book), args.Bool(1), args.Error(2)
}

func (m *MockReviewRepository) Delete(ctx context.Context, userID string, bookID int64) (*models.Book, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockReviewRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) GenresReviewedAmong(ctx context.Context, userID string, bookIDs []int64) ([]string, error) {
	args := m.Called(ctx, userID, bookIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReviewRepository) IncrementReaction(ctx context.Context, reviewID int64, reaction repository.Reaction) (int, error) {
	args := m.Called(ctx, reviewID, reaction)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewRepository) UserSummary(ctx context.Context, userID string) (int64, float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(float64), args.Error(2)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Upsert(ctx context.Context, p *models.ReadingProgress, now time.Time) (bool, error) {
	args := m.Called(ctx, p, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) Get(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingProgress), args.Error(1)
}

func (m *MockProgressRepository) ListByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReadingProgress), args.Error(1)
}

func (m *MockProgressRepository) CountByUser(ctx context.Context, userID string, minProgress int) (int64, error) {
	args := m.Called(ctx, userID, minProgress)
	return args.Get(0).(int64), args.Error(1)
}

type MockProgressCache struct {
	mock.Mock
}

func (m *MockProgressCache) Get(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingProgress), args.Error(1)
}

func (m *MockProgressCache) Put(ctx context.Context, p *models.ReadingProgress) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProgressCache) Delete(ctx context.Context, userID string, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockProgressCache) EvictBook(ctx context.Context, bookID int64) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

// MockShelfRepository mocks the ShelfRepository interface
type MockShelfRepository struct {
	mock.Mock
}

func (m *MockShelfRepository) Add(ctx context.Context, userID string, bookID int64, rules repository.ShelfRules) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShelfRepository) Remove(ctx context.Context, userID string, bookID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShelfRepository) List(ctx context.Context, userID string) ([]models.ShelfEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ShelfEntry), args.Error(1)
}

func (m *MockShelfRepository) BookIDs(ctx context.Context, userID string) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockShelfRepository) Count(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeShelfRepository is an in-memory ShelfRepository that applies the rules the same way the
// gorm implementation does: visibility first, then the existing entry, then admission, then insert.
type fakeShelfRepository struct {
	mu       sync.Mutex
	books    map[int64]*models.Book
	profiles map[string]*models.MembershipProfile
	entries  map[string][]int64
	deleted  map[string]bool
}

func newFakeShelfRepository(bookIDs ...int64) *fakeShelfRepository {
	f := &fakeShelfRepository{
		books:    make(map[int64]*models.Book),
		profiles: make(map[string]*models.MembershipProfile),
		entries:  make(map[string][]int64),
		deleted:  make(map[string]bool),
	}
	for _, id := range bookIDs {
		f.books[id] = &models.Book{ID: id}
	}
	return f
}

func (f *fakeShelfRepository) Add(_ context.Context, userID string, bookID int64, rules repository.ShelfRules) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[bookID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if f.deleted[userID] {
		return false, repository.ErrUserNotFound
	}
	profile := f.profiles[userID]
	if rules.Visible != nil && !rules.Visible(book, profile) {
		return false, gorm.ErrRecordNotFound
	}
	for _, id := range f.entries[userID] {
		if id == bookID {
			return false, nil
		}
	}
	if err := rules.Admit(profile, int64(len(f.entries[userID]))); err != nil {
		return false, err
	}
	f.entries[userID] = append(f.entries[userID], bookID)
	return true, nil
}

func (f *fakeShelfRepository) Remove(_ context.Context, userID string, bookID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := f.entries[userID]
	for i, id := range ids {
		if id == bookID {
			f.entries[userID] = append(ids[:i:i], ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeShelfRepository) List(_ context.Context, userID string) ([]models.ShelfEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.ShelfEntry, 0, len(f.entries[userID]))
	for i, id := range f.entries[userID] {
		out = append(out, models.ShelfEntry{ID: int64(i + 1), UserID: userID, BookID: id})
	}
	return out, nil
}

func (f *fakeShelfRepository) BookIDs(_ context.Context, userID string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.entries[userID]...), nil
}

func (f *fakeShelfRepository) Count(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.entries[userID])), nil
}

// FindByUserID lets the fake double as the MembershipRepository of the shelf service.
func (f *fakeShelfRepository) FindByUserID(_ context.Context, userID string) (*models.MembershipProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userID], nil
}

func (f *fakeShelfRepository) SetMembership(_ context.Context, userID string, isPremium bool, expiry *time.Time) (*models.MembershipProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &models.MembershipProfile{UserID: userID, IsPremium: isPremium, PremiumExpiry: expiry}
	f.profiles[userID] = p
	return p, nil
}

func (f *fakeShelfRepository) UpdateProfile(context.Context, string, repository.ProfileChanges) (*models.MembershipProfile, error) {
	return nil, gorm.ErrRecordNotFound
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dateOf(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
