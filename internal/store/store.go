package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// maxUsernameSuffix bounds the numbered candidates tried before falling
// back to a random suffix.
const maxUsernameSuffix = 50

type Store struct {
	db *gorm.DB
}

// New opens the database and migrates the schema.
// ctx bounds the connection check and migration.
func New(ctx context.Context, driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows a single writer; one connection also keeps
		// :memory: databases alive across queries.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Review{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// User operations

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

// GetUserByEmail looks the user up case-insensitively
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&user).
		Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

// CreateUser inserts a new user, reporting which unique field collided.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Email != nil {
		email := NormalizeEmail(*user.Email)
		user.Email = &email
	}

	err := s.db.WithContext(ctx).Create(user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if _, lookupErr := s.GetUserByUsername(ctx, user.Username); lookupErr == nil {
		return ErrUsernameConflict
	}
	return ErrEmailConflict
}

// UpsertExternalUser returns the user that owns email, creating it when
// absent. The insert is ON CONFLICT (email) DO NOTHING followed by a read
// by email, so concurrent first logins for one email converge on one row.
// Existing users are returned unchanged.
//
// When username belongs to another account the next free candidate is
// used: name2, name3, ... name50, then name-<random hex>.
func (s *Store) UpsertExternalUser(
	ctx context.Context,
	email, username, provider, fullName string,
) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	candidates := usernameCandidates(username)
	for i := 0; ; i++ {
		existing, err := s.GetUserByEmail(ctx, email)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to query user by email: %w", err)
		}

		candidate, err := candidates(i)
		if err != nil {
			return nil, err
		}
		taken, err := s.usernameTaken(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		user := &models.User{
			ID:       uuid.New().String(),
			Username: candidate,
			Email:    &email,
			Provider: provider,
			FullName: fullName,
		}
		err = s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoNothing: true,
			}).
			Create(user).
			Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race on the username; try the next candidate.
			log.Printf("[Store] Username %q taken concurrently, retrying", candidate)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create external user: %w", err)
		}

		return s.GetUserByEmail(ctx, email)
	}
}

func (s *Store) usernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// usernameCandidates returns a generator for the i-th username to try.
func usernameCandidates(base string) func(i int) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "user"
	}
	return func(i int) (string, error) {
		switch {
		case i == 0:
			return base, nil
		case i < maxUsernameSuffix:
			return base + strconv.Itoa(i+1), nil
		case i < maxUsernameSuffix+5:
			suffix, err := util.CryptoRandomString(8)
			if err != nil {
				return "", err
			}
			return base + "-" + suffix, nil
		default:
			return "", ErrUsernameConflict
		}
	}
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Review operations

func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.Images == nil {
		review.Images = models.StringArray{}
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (s *Store) GetReview(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &review, nil
}

// ListReviews returns every review, newest first
func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListReviewsPaginated returns one page of reviews, newest first
func (s *Store) ListReviewsPaginated(
	ctx context.Context,
	params PaginationParams,
) ([]models.Review, PaginationResult, error) {
	scoped := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Review{})
		if params.Search != "" {
			pattern := "%" + strings.ToLower(params.Search) + "%"
			query = query.Where(
				"LOWER(establishment_name) LIKE ? OR LOWER(postal_address) LIKE ?",
				pattern, pattern,
			)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	reviews := []models.Review{}
	if err := scoped().
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&reviews).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	return reviews, CalculatePagination(total, params.Page, params.PageSize), nil
}

// CountUsers returns the number of accounts
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountReviews returns the number of stored reviews
func (s *Store) CountReviews(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error
	return count, err
}

// Health checks the database connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DB returns the underlying gorm handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
