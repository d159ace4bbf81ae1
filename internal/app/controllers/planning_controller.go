package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/app/models/dto"
	"github.com/secchub/secchub-backend/internal/app/services"
	"github.com/secchub/secchub-backend/internal/middleware"
)

// PlanningController handles class and schedule planning endpoints.
type PlanningController struct {
	planningService    *services.PlanningService
	duplicationService *services.DuplicationService
}

// NewPlanningController creates a new PlanningController
func NewPlanningController(planningService *services.PlanningService, duplicationService *services.DuplicationService) *PlanningController {
	return &PlanningController{
		planningService:    planningService,
		duplicationService: duplicationService,
	}
}

// CreateClass plans a new class, optionally with its initial schedules.
func (c *PlanningController) CreateClass(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	var req dto.ClassCreateRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	class, err := c.planningService.CreateClass(ctx, principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(class))
}

// GetClass retrieves one class with its schedules.
func (c *PlanningController) GetClass(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	class, err := c.planningService.GetClass(ctx, principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(class))
}

// ListClasses retrieves classes, optionally filtered by semester or course.
func (c *PlanningController) ListClasses(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	var filter models.ClassFilter
	if value := ctx.Query("semesterId"); value != "" {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			badQueryParam(ctx, "semesterId")
			return
		}
		filter.SemesterID = &id
	}
	if value := ctx.Query("courseId"); value != "" {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			badQueryParam(ctx, "courseId")
			return
		}
		filter.CourseID = &id
	}

	classes, err := c.planningService.ListClasses(ctx, principal, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(classes))
}

// UpdateClass applies a partial update to a class.
func (c *PlanningController) UpdateClass(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ClassUpdateRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	class, err := c.planningService.UpdateClass(ctx, principal, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(class))
}

// DeleteClass removes a class and all its schedules.
func (c *PlanningController) DeleteClass(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.planningService.DeleteClass(ctx, principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, nil)
}

// AddSchedule attaches a weekly slot to a class.
func (c *PlanningController) AddSchedule(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	classID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ClassScheduleRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	schedule, err := c.planningService.AddSchedule(ctx, principal, classID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(schedule))
}

// ListClassSchedules retrieves the weekly slots of a class.
func (c *PlanningController) ListClassSchedules(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	classID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	schedules, err := c.planningService.ListSchedulesForClass(ctx, principal, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(schedules))
}

// UpdateSchedule applies a partial update to a weekly slot.
func (c *PlanningController) UpdateSchedule(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	scheduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ClassScheduleUpdateRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	schedule, err := c.planningService.UpdateSchedule(ctx, principal, scheduleID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(schedule))
}

// DeleteSchedule removes one weekly slot.
func (c *PlanningController) DeleteSchedule(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	scheduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.planningService.DeleteSchedule(ctx, principal, scheduleID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, nil)
}

// ListSchedules retrieves slots by classroom, day or accessibility flag.
// At least one filter is required.
func (c *PlanningController) ListSchedules(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	var (
		schedules []*models.ClassSchedule
		err       error
	)

	switch {
	case ctx.Query("classroomId") != "":
		classroomID, parseErr := strconv.ParseInt(ctx.Query("classroomId"), 10, 64)
		if parseErr != nil {
			badQueryParam(ctx, "classroomId")
			return
		}
		var day *string
		if value := ctx.Query("day"); value != "" {
			day = &value
		}
		schedules, err = c.planningService.ListSchedulesByClassroom(ctx, principal, classroomID, day)
	case ctx.Query("day") != "":
		schedules, err = c.planningService.ListSchedulesByDay(ctx, principal, ctx.Query("day"))
	case ctx.Query("disability") != "":
		disability, parseErr := strconv.ParseBool(ctx.Query("disability"))
		if parseErr != nil {
			badQueryParam(ctx, "disability")
			return
		}
		schedules, err = c.planningService.ListSchedulesByDisability(ctx, principal, disability)
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "At least one of classroomId, day or disability is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(schedules))
}

// ListClassroomConflicts reports double-booked classrooms in the current
// semester.
func (c *PlanningController) ListClassroomConflicts(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	conflicts, err := c.planningService.ListClassroomConflicts(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDataResponse(conflicts))
}

// DuplicateSemester copies a whole semester's planning into an empty
// target semester.
func (c *PlanningController) DuplicateSemester(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	var req dto.DuplicateSemesterRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	created, err := c.duplicationService.DuplicateSemesterPlanning(ctx, principal, req.SourceSemesterID, req.TargetSemesterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(created))
}

// ApplyPlanningToCurrent copies a semester's planning into the current
// semester.
func (c *PlanningController) ApplyPlanningToCurrent(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	var req dto.ApplyPlanningRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	created, err := c.duplicationService.ApplySemesterPlanningToCurrent(ctx, principal, req.SourceSemesterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(created))
}

// DuplicateClasses copies the named classes into the current semester.
func (c *PlanningController) DuplicateClasses(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	var req dto.DuplicateClassesRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	created, err := c.duplicationService.DuplicateClasses(ctx, principal, req.ClassIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewDataResponse(created))
}

func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func badQueryParam(ctx *gin.Context, name string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

func unauthenticated(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
