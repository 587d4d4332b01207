package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usthb-datascience/tic-projects/backend/internal/middleware"
	"github.com/usthb-datascience/tic-projects/backend/internal/services"
	"github.com/usthb-datascience/tic-projects/backend/pkg/response"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{reviewService: services.NewReviewService(db)}
}

// Submit records or overwrites the caller's rating of a project.
// POST /projects/:id/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Rating must be between 1 and 5")
		return
	}

	created, err := h.reviewService.Upsert(id, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Review added successfully"})
		return
	}
	response.OK(c, gin.H{"message": "Review updated successfully"})
}

// List returns a project's reviews with reviewer identity.
// GET /projects/:id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByProject(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"reviews": reviews})
}

// GetMine returns the caller's review of a project, null when absent.
// GET /projects/:id/my-review
func (h *ReviewHandler) GetMine(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.GetMine(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"review": review})
}
