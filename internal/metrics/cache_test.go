package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/franra18/ReViews/internal/cache"
	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/mocks"
)

type fakeCountStore struct {
	users, reviews       int64
	usersErr, reviewsErr error
	userCalls            int
	reviewCalls          int
}

func (f *fakeCountStore) CountUsers(context.Context) (int64, error) {
	f.userCalls++
	return f.users, f.usersErr
}

func (f *fakeCountStore) CountReviews(context.Context) (int64, error) {
	f.reviewCalls++
	return f.reviews, f.reviewsErr
}

func TestCacheWrapper_GetUsersCount_CacheHit(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	store := &fakeCountStore{users: 7}
	wrapper := NewCacheWrapper(store, memCache)

	_ = memCache.Set(ctx, "count:users", 42, time.Minute)

	count, err := wrapper.GetUsersCount(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 42 {
		t.Errorf("Expected count 42, got %d", count)
	}
	if store.userCalls != 0 {
		t.Errorf("Expected no database query on cache hit, got %d", store.userCalls)
	}
}

func TestCacheWrapper_GetReviewsCount_CacheMiss(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	store := &fakeCountStore{reviews: 100}
	wrapper := NewCacheWrapper(store, memCache)

	for range 3 {
		count, err := wrapper.GetReviewsCount(ctx, time.Minute)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if count != 100 {
			t.Errorf("Expected count 100, got %d", count)
		}
	}
	if store.reviewCalls != 1 {
		t.Errorf("Expected one database query, got %d", store.reviewCalls)
	}
}

func TestCacheWrapper_Refresh(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)
	store := &fakeCountStore{users: 3, reviews: 9}
	wrapper := NewCacheWrapper(store, cache.NewMemoryCache[int64]())

	recorder.EXPECT().SetUsersCount(3)
	recorder.EXPECT().SetReviewsCount(9)

	if err := wrapper.Refresh(ctx, recorder, time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestCacheWrapper_Refresh_DBError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)
	store := &fakeCountStore{usersErr: errors.New("db down"), reviews: 2}
	wrapper := NewCacheWrapper(store, cache.NewMemoryCache[int64]())

	recorder.EXPECT().RecordDatabaseQueryError("count_users")
	recorder.EXPECT().SetReviewsCount(2)

	err := wrapper.Refresh(ctx, recorder, time.Minute)
	if err == nil || !strings.Contains(err.Error(), "count_users: db down") {
		t.Errorf("Expected count_users error, got %v", err)
	}
}

func TestCacheWrapper_UsesGetWithFetch(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache[int64](ctrl)
	store := &fakeCountStore{users: 5}

	mockCache.EXPECT().
		GetWithFetch(gomock.Any(), "count:users", time.Minute, gomock.Any()).
		DoAndReturn(func(
			ctx context.Context,
			key string,
			_ time.Duration,
			fn core.FetchFunc[int64],
		) (int64, error) {
			return fn(ctx, key)
		})

	count, err := NewCacheWrapper(store, mockCache).GetUsersCount(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 5 {
		t.Errorf("Expected count 5, got %d", count)
	}
}
