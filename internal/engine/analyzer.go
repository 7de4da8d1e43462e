package engine

import (
	"slices"

	"github.com/samber/lo"

	"campusched/internal/domain"
)

type ClashDimension string

const (
	ClashBatch   ClashDimension = "batch"
	ClashFaculty ClashDimension = "faculty"
	ClashRoom    ClashDimension = "room"
)

// Clash is two or more non-cancelled entries sharing one resource at one
// timeslot.
type Clash struct {
	Dimension  ClashDimension
	TimeslotID uint
	ResourceID uint
	Entries    []domain.TimetableEntry
}

type RoomUsage struct {
	RoomID      uint
	SlotsUsed   int
	Utilization float64
}

type FacultyLoad struct {
	FacultyID  uint
	Entries    int
	MaxPerWeek int
	Overloaded bool
}

type Utilization struct {
	// RoomOccupancy is distinct (room, timeslot) pairs in use over
	// room count x timeslot count.
	RoomOccupancy float64
	Rooms         []RoomUsage
	Faculty       []FacultyLoad
}

// Report combines both read-side analyses for one timetable.
type Report struct {
	Clashes     []Clash
	Utilization Utilization
}

// DetectClashes scans entries without assuming any invariant holds: a
// timetable edited by hand clashes just as detectably as a generated one.
// Cancelled entries no longer occupy resources and are skipped. The result
// is ordered by dimension (batch, faculty, room), then timeslot, then
// resource id, so repeated runs over unchanged entries agree exactly.
func DetectClashes(entries []domain.TimetableEntry) []Clash {
	active := lo.Filter(entries, func(e domain.TimetableEntry, _ int) bool { return e.Active() })

	dimensions := []struct {
		name ClashDimension
		key  func(domain.TimetableEntry) uint
	}{
		{ClashBatch, func(e domain.TimetableEntry) uint { return e.BatchID }},
		{ClashFaculty, func(e domain.TimetableEntry) uint { return e.FacultyID }},
		{ClashRoom, func(e domain.TimetableEntry) uint { return e.RoomID }},
	}

	clashes := []Clash{}
	for _, dimension := range dimensions {
		groups := lo.GroupBy(active, func(e domain.TimetableEntry) [2]uint {
			return [2]uint{e.TimeslotID, dimension.key(e)}
		})

		keys := lo.Keys(groups)
		slices.SortFunc(keys, func(a, b [2]uint) int {
			if a[0] != b[0] {
				return int(a[0]) - int(b[0])
			}
			return int(a[1]) - int(b[1])
		})

		for _, key := range keys {
			group := groups[key]
			if len(group) < 2 {
				continue
			}
			slices.SortFunc(group, func(a, b domain.TimetableEntry) int { return int(a.ID) - int(b.ID) })
			clashes = append(clashes, Clash{
				Dimension:  dimension.name,
				TimeslotID: key[0],
				ResourceID: key[1],
				Entries:    group,
			})
		}
	}
	return clashes
}

// MeasureUtilization computes occupancy and load statistics over the
// non-cancelled entries of one timetable.
func MeasureUtilization(
	entries []domain.TimetableEntry,
	rooms []domain.Room,
	faculties []domain.Faculty,
	slotCount int,
) Utilization {
	active := lo.Filter(entries, func(e domain.TimetableEntry, _ int) bool { return e.Active() })

	used := make(map[[2]uint]bool)
	slotsPerRoom := make(map[uint]map[uint]bool)
	loadPerFaculty := make(map[uint]int)

	for _, entry := range active {
		used[[2]uint{entry.RoomID, entry.TimeslotID}] = true
		if slotsPerRoom[entry.RoomID] == nil {
			slotsPerRoom[entry.RoomID] = make(map[uint]bool)
		}
		slotsPerRoom[entry.RoomID][entry.TimeslotID] = true
		loadPerFaculty[entry.FacultyID]++
	}

	utilization := Utilization{}
	if total := len(rooms) * slotCount; total > 0 {
		utilization.RoomOccupancy = float64(len(used)) / float64(total)
	}

	for _, room := range rooms {
		usage := RoomUsage{RoomID: room.ID, SlotsUsed: len(slotsPerRoom[room.ID])}
		if slotCount > 0 {
			usage.Utilization = float64(usage.SlotsUsed) / float64(slotCount)
		}
		utilization.Rooms = append(utilization.Rooms, usage)
	}

	for _, faculty := range faculties {
		load := FacultyLoad{
			FacultyID:  faculty.ID,
			Entries:    loadPerFaculty[faculty.ID],
			MaxPerWeek: faculty.MaxLoadPerWeek,
		}
		// A ceiling of 0 means no ceiling was set; never flag those.
		load.Overloaded = faculty.MaxLoadPerWeek > 0 && load.Entries > faculty.MaxLoadPerWeek
		utilization.Faculty = append(utilization.Faculty, load)
	}

	return utilization
}
