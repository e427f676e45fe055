package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/app/services"
	"github.com/kerem/schoolhub/internal/middleware"
)

// AssignmentController handles teacher assignment endpoints
type AssignmentController struct {
	assignmentService *services.AssignmentService
	logger            zerolog.Logger
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService *services.AssignmentService, logger zerolog.Logger) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService, logger: logger}
}

// Create links a teacher to a class and subject
// @Summary Create a teacher assignment (admin)
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAssignmentRequest true "Assignment information"
// @Success 201 {object} dto.APIResponse{data=dto.AssignmentResponse}
// @Failure 404 {object} dto.ErrorResponse "Teacher, class or subject not found"
// @Failure 409 {object} dto.ErrorResponse "Assignment already exists"
// @Router /assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	assignment, err := c.assignmentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).
			Int64("teacherId", req.TeacherID).
			Int64("classId", req.ClassID).
			Int64("subjectId", req.SubjectID).
			Msg("Assignment creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewAssignmentResponse(assignment)})
}

// GetByID retrieves one assignment
// @Summary Get an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse}
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id} [get]
func (c *AssignmentController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignment, err := c.assignmentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewAssignmentResponse(assignment)})
}

// List retrieves assignments with optional teacher, class and subject filters
// @Summary List assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param teacherId query int false "Filter by teacher"
// @Param classId query int false "Filter by class"
// @Param subjectId query int false "Filter by subject"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentListResponse}
// @Router /assignments [get]
func (c *AssignmentController) List(ctx *gin.Context) {
	var filter dto.AssignmentFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	assignments, err := c.assignmentService.List(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.AssignmentListResponse{Assignments: make([]dto.AssignmentResponse, 0, len(assignments))}
	for _, assignment := range assignments {
		resp.Assignments = append(resp.Assignments, dto.NewAssignmentResponse(assignment))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Delete removes an assignment
// @Summary Delete an assignment (admin)
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.assignmentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Assignment deleted successfully."},
	})
}
