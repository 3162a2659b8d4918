package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kampusku_backend/internals/features/academics/timetable/model"
	"kampusku_backend/internals/helpers/dbtime"
)

type fakeEntryStore struct {
	entries []model.TimetableEntryModel
}

func (f *fakeEntryStore) EntriesForSectionOnDay(_ context.Context, batchID, sectionID uuid.UUID, day time.Weekday) ([]model.TimetableEntryModel, error) {
	out := []model.TimetableEntryModel{}
	for _, e := range f.entries {
		if e.TimetableEntryBatchID == batchID && e.TimetableEntrySectionID == sectionID && e.TimetableEntryDayOfWeek == int(day) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out, nil
}

func (f *fakeEntryStore) EntriesOnDay(_ context.Context, day time.Weekday) ([]model.TimetableEntryModel, error) {
	out := []model.TimetableEntryModel{}
	for _, e := range f.entries {
		if e.TimetableEntryDayOfWeek == int(day) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out, nil
}

func (f *fakeEntryStore) AssignmentExists(_ context.Context, teacherID, courseID, sectionID uuid.UUID) (bool, error) {
	for _, e := range f.entries {
		if e.TimetableEntryTeacherID == teacherID && e.TimetableEntryCourseID == courseID && e.TimetableEntrySectionID == sectionID {
			return true, nil
		}
	}
	return false, nil
}

func sortByStart(entries []model.TimetableEntryModel) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].TimetableEntryStartTime.BeforeTod(entries[j-1].TimetableEntryStartTime); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func mustTod(t *testing.T, s string) dbtime.Tod {
	t.Helper()
	tod, err := dbtime.Parse(s)
	require.NoError(t, err)
	return tod
}

func entry(t *testing.T, batchID, sectionID, courseID uuid.UUID, day time.Weekday, start, end string) model.TimetableEntryModel {
	t.Helper()
	return model.TimetableEntryModel{
		TimetableEntryID:        uuid.New(),
		TimetableEntryCourseID:  courseID,
		TimetableEntryTeacherID: uuid.New(),
		TimetableEntryBatchID:   batchID,
		TimetableEntrySectionID: sectionID,
		TimetableEntryDayOfWeek: int(day),
		TimetableEntryStartTime: mustTod(t, start),
		TimetableEntryEndTime:   mustTod(t, end),
	}
}

// 2025-01-06 adalah Senin (UTC).
func monday(hour, min int) time.Time {
	return time.Date(2025, 1, 6, hour, min, 0, 0, time.UTC)
}

func TestFindCurrentClass(t *testing.T) {
	batchID := uuid.New()
	sectionID := uuid.New()
	courseA := uuid.New()
	courseB := uuid.New()

	store := &fakeEntryStore{entries: []model.TimetableEntryModel{
		entry(t, batchID, sectionID, courseA, time.Monday, "09:00", "10:30"),
		entry(t, batchID, sectionID, courseB, time.Monday, "11:00", "12:00"),
	}}
	r := NewResolver(store)

	tests := []struct {
		name string
		now  time.Time
		want *uuid.UUID
	}{
		{"dalam slot pertama", monday(9, 30), &courseA},
		{"di antara dua slot", monday(10, 45), nil},
		{"dalam slot kedua", monday(11, 0), &courseB},
		{"batas akhir inklusif", monday(10, 30), &courseA},
		{"batas awal inklusif", monday(9, 0), &courseA},
		{"sebelum kelas pertama", monday(8, 59), nil},
		{"setelah kelas terakhir", monday(12, 1), nil},
		{"hari lain", time.Date(2025, 1, 7, 9, 30, 0, 0, time.UTC), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindCurrentClass(context.Background(), batchID, sectionID, tt.now)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, got.TimetableEntryCourseID)
			}
		})
	}
}

func TestFindCurrentClassOverlapDeterministic(t *testing.T) {
	batchID := uuid.New()
	sectionID := uuid.New()
	early := uuid.New()
	late := uuid.New()

	// Dua slot overlap (start berbeda): yang start lebih awal menang.
	store := &fakeEntryStore{entries: []model.TimetableEntryModel{
		entry(t, batchID, sectionID, late, time.Monday, "09:30", "11:00"),
		entry(t, batchID, sectionID, early, time.Monday, "09:00", "10:30"),
	}}
	r := NewResolver(store)

	got, err := r.FindCurrentClass(context.Background(), batchID, sectionID, monday(9, 45))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, early, got.TimetableEntryCourseID)
}

func TestFindCurrentClassScopedToSection(t *testing.T) {
	batchID := uuid.New()
	sectionID := uuid.New()
	otherSection := uuid.New()
	courseA := uuid.New()

	store := &fakeEntryStore{entries: []model.TimetableEntryModel{
		entry(t, batchID, otherSection, courseA, time.Monday, "09:00", "10:30"),
	}}
	r := NewResolver(store)

	got, err := r.FindCurrentClass(context.Background(), batchID, sectionID, monday(9, 30))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOngoingEntries(t *testing.T) {
	b1, s1 := uuid.New(), uuid.New()
	b2, s2 := uuid.New(), uuid.New()

	store := &fakeEntryStore{entries: []model.TimetableEntryModel{
		entry(t, b1, s1, uuid.New(), time.Monday, "09:00", "10:30"),
		entry(t, b2, s2, uuid.New(), time.Monday, "09:15", "10:00"),
		entry(t, b1, s1, uuid.New(), time.Monday, "11:00", "12:00"),
		entry(t, b1, s1, uuid.New(), time.Tuesday, "09:00", "10:30"),
	}}
	r := NewResolver(store)

	ongoing, err := r.OngoingEntries(context.Background(), monday(9, 30))
	require.NoError(t, err)
	assert.Len(t, ongoing, 2)

	// jam tanpa kelas sama sekali
	ongoing, err = r.OngoingEntries(context.Background(), monday(13, 0))
	require.NoError(t, err)
	assert.Empty(t, ongoing)
}

func TestTeacherAssigned(t *testing.T) {
	batchID, sectionID, courseID := uuid.New(), uuid.New(), uuid.New()
	e := entry(t, batchID, sectionID, courseID, time.Monday, "09:00", "10:30")
	store := &fakeEntryStore{entries: []model.TimetableEntryModel{e}}
	r := NewResolver(store)

	ok, err := r.TeacherAssigned(context.Background(), e.TimetableEntryTeacherID, courseID, sectionID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.TeacherAssigned(context.Background(), uuid.New(), courseID, sectionID)
	require.NoError(t, err)
	assert.False(t, ok)
}
