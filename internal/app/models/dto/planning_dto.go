package dto

import (
	"github.com/secchub/secchub-backend/internal/app/models"
)

// ClassCreateRequest carries the fields needed to plan a new class.
// SemesterID may be omitted; the current semester is used then.
type ClassCreateRequest struct {
	CourseID    int64                  `json:"courseId" binding:"required" example:"12"`
	SemesterID  *int64                 `json:"semesterId,omitempty" example:"3"`
	Capacity    int                    `json:"capacity" binding:"required" example:"30"`
	StartDate   *string                `json:"startDate,omitempty" example:"2026-01-19"`
	EndDate     *string                `json:"endDate,omitempty" example:"2026-05-22"`
	Observation *string                `json:"observation,omitempty"`
	StatusID    *int64                 `json:"statusId,omitempty" example:"1"`
	Schedules   []ClassScheduleRequest `json:"schedules,omitempty"`
}

// ClassUpdateRequest carries a partial update. Absent fields keep their
// previous values; this is a merge, not a replace.
type ClassUpdateRequest struct {
	CourseID    *int64  `json:"courseId,omitempty"`
	SemesterID  *int64  `json:"semesterId,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	StartDate   *string `json:"startDate,omitempty" example:"2026-01-19"`
	EndDate     *string `json:"endDate,omitempty" example:"2026-05-22"`
	Observation *string `json:"observation,omitempty"`
	StatusID    *int64  `json:"statusId,omitempty"`
}

// ClassScheduleRequest carries the fields of a weekly meeting slot.
type ClassScheduleRequest struct {
	ClassroomID int64  `json:"classroomId" binding:"required" example:"7"`
	Day         string `json:"day" binding:"required" example:"Monday"`
	StartTime   string `json:"startTime" binding:"required" example:"08:00"`
	EndTime     string `json:"endTime" binding:"required" example:"10:00"`
	ModalityID  int64  `json:"modalityId" binding:"required" example:"1"`
	Disability  bool   `json:"disability"`
}

// ClassScheduleUpdateRequest carries a partial schedule update with the
// same merge semantics as ClassUpdateRequest.
type ClassScheduleUpdateRequest struct {
	ClassroomID *int64  `json:"classroomId,omitempty"`
	Day         *string `json:"day,omitempty" example:"Tuesday"`
	StartTime   *string `json:"startTime,omitempty" example:"08:00"`
	EndTime     *string `json:"endTime,omitempty" example:"10:00"`
	ModalityID  *int64  `json:"modalityId,omitempty"`
	Disability  *bool   `json:"disability,omitempty"`
}

// ClassroomConflictResponse reports one cluster of mutually overlapping
// slots in a single classroom and day. The reported time range spans the
// whole cluster: earliest start to latest end.
type ClassroomConflictResponse struct {
	ClassroomID         int64   `json:"classroomId"`
	Day                 string  `json:"day" example:"Monday"`
	ConflictingClassIDs []int64 `json:"conflictingClassIds"`
	ConflictStartTime   string  `json:"conflictStartTime" example:"08:00"`
	ConflictEndTime     string  `json:"conflictEndTime" example:"11:00"`
}

// NewClassroomConflictResponse builds the report for a non-empty cluster
// of overlapping schedules sharing one classroom and day.
func NewClassroomConflictResponse(cluster []*models.ClassSchedule) *ClassroomConflictResponse {
	conflict := &ClassroomConflictResponse{
		ClassroomID:       cluster[0].ClassroomID,
		Day:               cluster[0].Day,
		ConflictStartTime: cluster[0].StartTime,
		ConflictEndTime:   cluster[0].EndTime,
	}

	seen := make(map[int64]bool)
	for _, schedule := range cluster {
		if !seen[schedule.ClassID] {
			seen[schedule.ClassID] = true
			conflict.ConflictingClassIDs = append(conflict.ConflictingClassIDs, schedule.ClassID)
		}
		if schedule.StartTime < conflict.ConflictStartTime {
			conflict.ConflictStartTime = schedule.StartTime
		}
		if schedule.EndTime > conflict.ConflictEndTime {
			conflict.ConflictEndTime = schedule.EndTime
		}
	}
	return conflict
}

// DuplicateSemesterRequest names the source and target semesters for
// whole-plan duplication.
type DuplicateSemesterRequest struct {
	SourceSemesterID int64 `json:"sourceSemesterId" binding:"required" example:"2"`
	TargetSemesterID int64 `json:"targetSemesterId" binding:"required" example:"3"`
}

// ApplyPlanningRequest names the source semester whose planning is copied
// into the current semester.
type ApplyPlanningRequest struct {
	SourceSemesterID int64 `json:"sourceSemesterId" binding:"required" example:"2"`
}

// DuplicateClassesRequest names individual classes to copy into the
// current semester.
type DuplicateClassesRequest struct {
	ClassIDs []int64 `json:"classIds" binding:"required,min=1"`
}
