package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/usthb-datascience/tic-projects/backend/internal/middleware"
	"github.com/usthb-datascience/tic-projects/backend/internal/services"
	"github.com/usthb-datascience/tic-projects/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{projectService: services.NewProjectService(db)}
}

// List returns all projects with aggregates.
// GET /projects?section=&group=
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	projects, err := h.projectService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"projects": projects})
}

// GetByID returns a single project with aggregates.
// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"project": project})
}

// Create submits a new project. A repeated identical submission within the
// debounce window answers with the earlier project.
// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Title and description are required")
		return
	}

	result, err := h.projectService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Project created successfully"
	if result.AlreadySubmitted {
		message = "Project already submitted"
	}
	response.Created(c, gin.H{"message": message, "project": result.Project})
}

// Update edits the caller's own project.
// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Update(id, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Project updated successfully", "project": project})
}

// Delete removes the caller's own project and its reviews.
// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Project deleted successfully"})
}

func projectID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return 0, false
	}
	return uint(id), true
}
