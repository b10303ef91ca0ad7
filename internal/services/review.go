package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/store"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

const maxReviewImages = 10

// reviewStore is the persistence surface of ReviewService
type reviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id string) (*models.Review, error)
	ListReviews(ctx context.Context) ([]models.Review, error)
	ListReviewsPaginated(
		ctx context.Context,
		params store.PaginationParams,
	) ([]models.Review, store.PaginationResult, error)
}

// CoordinatesInput is a position in a review payload
type CoordinatesInput struct {
	Lon *float64 `json:"lon"`
	Lat *float64 `json:"lat"`
}

// Validate checks WGS84 ranges
func (c CoordinatesInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Lon, validation.NotNil, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&c.Lat, validation.NotNil, validation.Min(-90.0), validation.Max(90.0)),
	)
}

// CreateReviewRequest is the payload of POST /reviews
type CreateReviewRequest struct {
	EstablishmentName string            `json:"nombre_establecimiento"`
	PostalAddress     string            `json:"direccion_postal"`
	Coordinates       *CoordinatesInput `json:"coordenadas"`
	Rating            *int              `json:"valoracion"`
	Images            []string          `json:"imagenes"`
}

// Validate checks the review payload
func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EstablishmentName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.PostalAddress, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Coordinates, validation.NotNil),
		validation.Field(&r.Rating, validation.NotNil, validation.Min(0), validation.Max(5)),
		validation.Field(&r.Images,
			validation.Length(0, maxReviewImages),
			validation.By(validImageURLs),
		),
	)
}

func validImageURLs(value interface{}) error {
	images, _ := value.([]string)
	for _, image := range images {
		if err := validation.Validate(image, validation.Required, is.URL); err != nil {
			return fmt.Errorf("invalid image URL %q: %v", image, err)
		}
	}
	return nil
}

type ReviewService struct {
	store   reviewStore
	metrics core.Recorder
}

func NewReviewService(s reviewStore, m core.Recorder) *ReviewService {
	return &ReviewService{store: s, metrics: m}
}

// Create stores a review authored by the authenticated account. Author
// email and name come from the token claims, falling back to the stored
// user; issue and expiry times are those of the token.
func (s *ReviewService) Create(
	ctx context.Context,
	author *models.AuthenticatedContext,
	req CreateReviewRequest,
) (*models.Review, error) {
	if author == nil || author.User == nil {
		return nil, ErrUnauthorized
	}
	req.EstablishmentName = strings.TrimSpace(req.EstablishmentName)
	req.PostalAddress = strings.TrimSpace(req.PostalAddress)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	images := models.StringArray{}
	images = append(images, req.Images...)

	review := &models.Review{
		EstablishmentName: req.EstablishmentName,
		PostalAddress:     req.PostalAddress,
		Coordinates: models.Coordinates{
			Longitude: *req.Coordinates.Lon,
			Latitude:  *req.Coordinates.Lat,
		},
		Rating:         *req.Rating,
		AuthorID:       author.User.ID,
		AuthorEmail:    author.ClaimString(ClaimEmail, author.User.EmailAddress()),
		AuthorName:     author.ClaimString(ClaimName, author.User.Username),
		TokenIssuedAt:  author.IssuedAt,
		TokenExpiresAt: author.ExpiresAt,
		Images:         images,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	log.Printf("[Review] Created review=%s by user=%s", review.ID, author.Username())
	s.metrics.RecordReviewCreated()
	return review, nil
}

// Get returns a review by id
func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidReviewID
	}
	review, err := s.store.GetReview(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// List returns every review, newest first
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.store.ListReviews(ctx)
}

// ListPage returns one page of reviews, newest first
func (s *ReviewService) ListPage(
	ctx context.Context,
	params store.PaginationParams,
) ([]models.Review, store.PaginationResult, error) {
	return s.store.ListReviewsPaginated(ctx, params)
}
