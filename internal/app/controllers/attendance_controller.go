package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/app/services"
	"github.com/kerem/schoolhub/internal/middleware"
	"github.com/kerem/schoolhub/internal/pkg/helpers"
)

// AttendanceController handles attendance endpoints
type AttendanceController struct {
	attendanceService *services.AttendanceService
	logger            zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService, logger: logger}
}

// Record marks attendance for a single student
// @Summary Record attendance for one student
// @Description A second mark for the same student and date is rejected as a conflict; use the bulk endpoint to overwrite.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecordAttendanceRequest true "Attendance mark"
// @Success 201 {object} dto.APIResponse{data=dto.AttendanceResponse}
// @Failure 409 {object} dto.ErrorResponse "Attendance already recorded"
// @Router /attendance [post]
func (c *AttendanceController) Record(ctx *gin.Context) {
	var req dto.RecordAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	record, err := c.attendanceService.RecordOne(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).
			Int64("studentId", req.StudentID).
			Str("date", req.Date).
			Msg("Attendance recording failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewAttendanceResponse(record)})
}

// RecordBulk marks attendance for a whole class on one date
// @Summary Record attendance for a class
// @Description Existing marks for a (student, date) pair are overwritten, so re-submitting a corrected sheet is safe.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkAttendanceRequest true "Attendance sheet"
// @Success 200 {object} dto.APIResponse{data=dto.BulkAttendanceResponse}
// @Failure 404 {object} dto.ErrorResponse "Class or student not found"
// @Router /attendance/bulk [post]
func (c *AttendanceController) RecordBulk(ctx *gin.Context) {
	var req dto.BulkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.attendanceService.RecordBulk(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).
			Int64("classId", req.ClassID).
			Str("date", req.Date).
			Msg("Bulk attendance recording failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result})
}

// Query retrieves attendance records matching the filters, newest first
// @Summary Query attendance records
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param classId query int false "Filter by class"
// @Param dateFrom query string false "Range start (YYYY-MM-DD)"
// @Param dateTo query string false "Range end (YYYY-MM-DD)"
// @Param status query string false "Filter by status"
// @Param page query int false "Page (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceListResponse}
// @Router /attendance [get]
func (c *AttendanceController) Query(ctx *gin.Context) {
	var filter dto.AttendanceFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	filter.Page, filter.Size = helpers.NormalizePagination(filter.Page, filter.Size)

	records, total, err := c.attendanceService.Query(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.AttendanceListResponse{
		Records:  make([]dto.AttendanceResponse, 0, len(records)),
		PageInfo: dto.NewPageInfo(filter.Page, filter.Size, total),
	}
	for _, record := range records {
		resp.Records = append(resp.Records, dto.NewAttendanceResponse(record))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Summary aggregates one student's attendance counts
// @Summary Get a student's attendance summary
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param dateFrom query string false "Range start (YYYY-MM-DD)"
// @Param dateTo query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceSummaryResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /attendance/summary/{studentId} [get]
func (c *AttendanceController) Summary(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	summary, err := c.attendanceService.Summary(
		ctx.Request.Context(), studentID, ctx.Query("dateFrom"), ctx.Query("dateTo"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: summary})
}

// Update rewrites the status and remarks of an existing record
// @Summary Update an attendance record
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance record ID"
// @Param request body dto.UpdateAttendanceRequest true "New status and remarks"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceResponse}
// @Failure 404 {object} dto.ErrorResponse "Attendance record not found"
// @Router /attendance/{id} [put]
func (c *AttendanceController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	record, err := c.attendanceService.Update(ctx.Request.Context(), id, req.Status, req.Remarks)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewAttendanceResponse(record)})
}

// Delete removes an attendance record
// @Summary Delete an attendance record (admin)
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance record ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Attendance record not found"
// @Router /attendance/{id} [delete]
func (c *AttendanceController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.attendanceService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Attendance record deleted successfully."},
	})
}
