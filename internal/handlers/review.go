package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/franra18/ReViews/internal/middleware"
	"github.com/franra18/ReViews/internal/services"
	"github.com/franra18/ReViews/internal/store"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(rs *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: rs}
}

// List handles GET /reviews. Without page parameters every review is
// returned; with ?page= the response is one page and the total is sent
// in X-Total-Count.
func (h *ReviewHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("page") == "" && c.Query("page_size") == "" && c.Query("q") == "" {
		reviews, err := h.reviewService.List(ctx)
		if err != nil {
			h.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(store.DefaultPageSize)))
	reviews, meta, err := h.reviewService.ListPage(
		ctx,
		store.NewPaginationParams(page, pageSize, c.Query("q")),
	)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(meta.Total, 10))
	c.JSON(http.StatusOK, reviews)
}

// Get handles GET /reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.reviewService.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, review)
	case errors.Is(err, services.ErrInvalidReviewID):
		respondDetail(c, http.StatusBadRequest, "ID de reseña inválido")
	case errors.Is(err, services.ErrReviewNotFound):
		respondDetail(c, http.StatusNotFound, "Reseña no encontrada")
	default:
		h.internalError(c, err)
	}
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, review)
	case errors.Is(err, services.ErrUnauthorized):
		respondDetail(c, http.StatusUnauthorized, middleware.CredentialsErrorDetail)
	default:
		if respondValidation(c, err) {
			return
		}
		h.internalError(c, err)
	}
}

func (h *ReviewHandler) internalError(c *gin.Context, err error) {
	log.Printf("[Review] Request failed: %v", err)
	respondDetail(c, http.StatusInternalServerError, "Error interno del servidor")
}
