package services

import (
	"context"

	"github.com/secchub/secchub-backend/internal/app/models"
)

// ConflictDetector decides whether a candidate schedule slot would
// double-book a classroom. It is the early, user-friendly rejection; the
// storage layer's exclusion constraint remains the authoritative guard
// against check-then-act races. The detector carries no authorization
// logic; callers enforce scope before invoking it.
type ConflictDetector struct {
	schedules ScheduleStore
}

// NewConflictDetector creates a new ConflictDetector
func NewConflictDetector(schedules ScheduleStore) *ConflictDetector {
	return &ConflictDetector{
		schedules: schedules,
	}
}

// HasConflict reports whether the half-open range [startTime, endTime)
// overlaps any persisted slot in the same classroom on the same day,
// skipping the slot identified by excludeScheduleID (zero excludes
// nothing). Touching endpoints are not a conflict: a slot ending at 10:00
// does not collide with one starting at 10:00. Times are zero-padded
// "HH:MM" strings, so plain string comparison is temporal comparison.
func (d *ConflictDetector) HasConflict(ctx context.Context, classroomID int64, day, startTime, endTime string, excludeScheduleID int64) (bool, error) {
	existing, err := d.schedules.FindByClassroomAndDay(ctx, classroomID, day)
	if err != nil {
		return false, err
	}

	for _, other := range existing {
		if other.ID == excludeScheduleID {
			continue
		}
		if startTime < other.EndTime && other.StartTime < endTime {
			return true, nil
		}
	}
	return false, nil
}

// OverlapClusters groups schedules into clusters where every member
// overlaps every other member on the same classroom and day. Clusters
// are seeded from every overlapping pair not yet covered by an earlier
// cluster and extended with each schedule overlapping all current
// members, so a chain like 08:00-10:00, 09:00-12:00, 11:00-12:00 yields
// both {first, second} and {second, third} instead of losing the tail
// pair; a schedule may appear in more than one cluster. Schedules with
// no overlap at all come back as singleton clusters; callers interested
// in conflicts keep clusters of two or more.
func OverlapClusters(schedules []*models.ClassSchedule) [][]*models.ClassSchedule {
	var clusters [][]*models.ClassSchedule
	covered := make(map[[2]int64]bool)
	clustered := make(map[int64]bool)

	for i, first := range schedules {
		for j := i + 1; j < len(schedules); j++ {
			second := schedules[j]
			if !first.Overlaps(second) || covered[pairKey(first.ID, second.ID)] {
				continue
			}

			cluster := []*models.ClassSchedule{first, second}
			for k, candidate := range schedules {
				if k == i || k == j {
					continue
				}
				overlapsAll := true
				for _, member := range cluster {
					if !candidate.Overlaps(member) {
						overlapsAll = false
						break
					}
				}
				if overlapsAll {
					cluster = append(cluster, candidate)
				}
			}

			for _, a := range cluster {
				clustered[a.ID] = true
				for _, b := range cluster {
					if a.ID != b.ID {
						covered[pairKey(a.ID, b.ID)] = true
					}
				}
			}
			clusters = append(clusters, cluster)
		}
	}

	for _, schedule := range schedules {
		if !clustered[schedule.ID] {
			clusters = append(clusters, []*models.ClassSchedule{schedule})
		}
	}

	return clusters
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}
