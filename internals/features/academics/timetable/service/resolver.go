// file: internals/features/academics/timetable/service/resolver.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kampusku_backend/internals/features/academics/timetable/model"
	"kampusku_backend/internals/helpers/dbtime"
)

// EntryStore: akses baca jadwal. Implementasi produksi pakai GORM (store.go);
// test pakai fake in-memory.
type EntryStore interface {
	// Entries untuk satu batch+section pada hari tertentu, urut start_time ASC.
	EntriesForSectionOnDay(ctx context.Context, batchID, sectionID uuid.UUID, day time.Weekday) ([]model.TimetableEntryModel, error)
	// Semua entries pada hari tertentu (system-wide, untuk sweep), urut start_time ASC.
	EntriesOnDay(ctx context.Context, day time.Weekday) ([]model.TimetableEntryModel, error)
	// Apakah teacher punya slot (course, section) di jadwal.
	AssignmentExists(ctx context.Context, teacherID, courseID, sectionID uuid.UUID) (bool, error)
}

// Resolver menentukan "kelas yang sedang berjalan" dari jadwal mingguan.
// Seluruh evaluasi waktu di UTC.
type Resolver struct {
	Store EntryStore
	Clock dbtime.Clock
}

func NewResolver(store EntryStore) *Resolver {
	return &Resolver{Store: store, Clock: dbtime.SystemClock}
}

// FindCurrentClass: entry yang sedang in-session untuk batch+section pada instant now.
// Kalau ada slot yang overlap (start berbeda, rentang beririsan), yang dipakai
// adalah entry dengan start_time paling awal: deterministik. Nil kalau tidak
// ada kelas berjalan.
func (r *Resolver) FindCurrentClass(ctx context.Context, batchID, sectionID uuid.UUID, now time.Time) (*model.TimetableEntryModel, error) {
	now = now.UTC()
	entries, err := r.Store.EntriesForSectionOnDay(ctx, batchID, sectionID, now.Weekday())
	if err != nil {
		return nil, err
	}
	tod := dbtime.From(now)
	for i := range entries {
		if inSession(&entries[i], tod) {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// OngoingEntries: semua entry yang sedang in-session pada instant now (system-wide).
func (r *Resolver) OngoingEntries(ctx context.Context, now time.Time) ([]model.TimetableEntryModel, error) {
	now = now.UTC()
	entries, err := r.Store.EntriesOnDay(ctx, now.Weekday())
	if err != nil {
		return nil, err
	}
	tod := dbtime.From(now)
	out := make([]model.TimetableEntryModel, 0, len(entries))
	for i := range entries {
		if inSession(&entries[i], tod) {
			out = append(out, entries[i])
		}
	}
	return out, nil
}

// TeacherAssigned: dipakai write path ledger untuk otorisasi teacher.
func (r *Resolver) TeacherAssigned(ctx context.Context, teacherID, courseID, sectionID uuid.UUID) (bool, error) {
	return r.Store.AssignmentExists(ctx, teacherID, courseID, sectionID)
}

// inSession: start <= tod <= end (batas inklusif di kedua sisi).
func inSession(e *model.TimetableEntryModel, tod dbtime.Tod) bool {
	return !tod.BeforeTod(e.TimetableEntryStartTime) && !tod.AfterTod(e.TimetableEntryEndTime)
}
