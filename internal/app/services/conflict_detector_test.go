package services

import (
	"context"
	"testing"

	"github.com/secchub/secchub-backend/internal/app/models"
)

func TestHasConflict(t *testing.T) {
	store := newMemStore()
	store.addSchedule(models.ClassSchedule{ID: 1, ClassID: 1, ClassroomID: 7, Day: "Monday", StartTime: "08:00", EndTime: "10:00"})
	store.addSchedule(models.ClassSchedule{ID: 2, ClassID: 2, ClassroomID: 7, Day: "Monday", StartTime: "12:00", EndTime: "14:00"})
	store.addSchedule(models.ClassSchedule{ID: 3, ClassID: 3, ClassroomID: 8, Day: "Monday", StartTime: "08:00", EndTime: "10:00"})

	detector := NewConflictDetector(scheduleStore{store})

	tests := []struct {
		name        string
		classroomID int64
		day         string
		start, end  string
		exclude     int64
		want        bool
	}{
		{"overlapping range", 7, "Monday", "09:00", "11:00", 0, true},
		{"contained range", 7, "Monday", "08:30", "09:30", 0, true},
		{"containing range", 7, "Monday", "07:00", "11:00", 0, true},
		{"touching end is free", 7, "Monday", "10:00", "12:00", 0, false},
		{"touching start is free", 7, "Monday", "06:00", "08:00", 0, false},
		{"other classroom", 9, "Monday", "08:00", "10:00", 0, false},
		{"other day", 7, "Tuesday", "08:00", "10:00", 0, false},
		{"excluded slot does not conflict with itself", 7, "Monday", "08:00", "10:00", 1, false},
		{"exclusion is per slot, not per class", 7, "Monday", "12:30", "13:30", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detector.HasConflict(context.Background(), tt.classroomID, tt.day, tt.start, tt.end, tt.exclude)
			if err != nil {
				t.Fatalf("HasConflict returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("HasConflict(%s %s-%s exclude %d) = %v, want %v", tt.day, tt.start, tt.end, tt.exclude, got, tt.want)
			}
		})
	}
}

func TestOverlapClusters(t *testing.T) {
	schedules := []*models.ClassSchedule{
		{ID: 1, ClassID: 1, ClassroomID: 7, Day: "Monday", StartTime: "08:00", EndTime: "10:00"},
		{ID: 2, ClassID: 2, ClassroomID: 7, Day: "Monday", StartTime: "09:00", EndTime: "11:00"},
		// Overlaps slot 2 but not slot 1, so it forms a second cluster
		// with slot 2 instead of joining {1, 2}.
		{ID: 3, ClassID: 3, ClassroomID: 7, Day: "Monday", StartTime: "10:00", EndTime: "12:00"},
		{ID: 4, ClassID: 4, ClassroomID: 8, Day: "Monday", StartTime: "08:00", EndTime: "10:00"},
		{ID: 5, ClassID: 5, ClassroomID: 7, Day: "Tuesday", StartTime: "08:00", EndTime: "10:00"},
	}

	clusters := OverlapClusters(schedules)

	if len(clusters) != 4 {
		t.Fatalf("expected 4 clusters, got %d", len(clusters))
	}
	if ids := clusterIDs(clusters[0]); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("first cluster should hold slots 1 and 2, got %v", ids)
	}
	if ids := clusterIDs(clusters[1]); len(ids) != 2 || ids[0] != 2 || ids[1] != 3 {
		t.Errorf("second cluster should hold slots 2 and 3, got %v", ids)
	}
	for _, cluster := range clusters[2:] {
		if len(cluster) != 1 {
			t.Errorf("expected singleton cluster, got %d members", len(cluster))
		}
	}
}

// A chain where each slot overlaps only its neighbor must report every
// overlapping pair in some cluster; the middle slot belongs to both.
func TestOverlapClustersChain(t *testing.T) {
	schedules := []*models.ClassSchedule{
		{ID: 1, ClassID: 1, ClassroomID: 7, Day: "Monday", StartTime: "08:00", EndTime: "10:00"},
		{ID: 2, ClassID: 2, ClassroomID: 7, Day: "Monday", StartTime: "09:00", EndTime: "12:00"},
		{ID: 3, ClassID: 3, ClassroomID: 7, Day: "Monday", StartTime: "11:00", EndTime: "12:00"},
	}

	clusters := OverlapClusters(schedules)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %v", len(clusters), clusters)
	}
	if !inSameCluster(clusters, 1, 2) {
		t.Error("slots 1 and 2 overlap but share no cluster")
	}
	if !inSameCluster(clusters, 2, 3) {
		t.Error("slots 2 and 3 overlap but share no cluster")
	}
	if inSameCluster(clusters, 1, 3) {
		t.Error("slots 1 and 3 do not overlap yet share a cluster")
	}
}

func clusterIDs(cluster []*models.ClassSchedule) []int64 {
	ids := make([]int64, len(cluster))
	for i, schedule := range cluster {
		ids[i] = schedule.ID
	}
	return ids
}

func inSameCluster(clusters [][]*models.ClassSchedule, a, b int64) bool {
	for _, cluster := range clusters {
		foundA, foundB := false, false
		for _, schedule := range cluster {
			if schedule.ID == a {
				foundA = true
			}
			if schedule.ID == b {
				foundB = true
			}
		}
		if foundA && foundB {
			return true
		}
	}
	return false
}

func TestOverlapClustersEmpty(t *testing.T) {
	if clusters := OverlapClusters(nil); len(clusters) != 0 {
		t.Errorf("expected no clusters for empty input, got %d", len(clusters))
	}
}
