package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"kampusku_backend/internals/constants"
	ttModel "kampusku_backend/internals/features/academics/timetable/model"
	"kampusku_backend/internals/features/attendance/records/model"
	"kampusku_backend/internals/helpers/dbtime"
)

/* =========================
   Fakes
========================= */

type memStore struct {
	mu   sync.Mutex
	recs map[string]*model.AttendanceRecordModel
}

func newMemStore() *memStore {
	return &memStore{recs: map[string]*model.AttendanceRecordModel{}}
}

func key(studentID, courseID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s", studentID, courseID, date.Format("2006-01-02"))
}

func (s *memStore) Get(_ context.Context, studentID, courseID uuid.UUID, date time.Time) (*model.AttendanceRecordModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[key(studentID, courseID, date)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) Insert(_ context.Context, rec *model.AttendanceRecordModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(rec.AttendanceRecordStudentID, rec.AttendanceRecordCourseID, rec.AttendanceRecordDate)
	if _, ok := s.recs[k]; ok {
		return ErrDuplicate
	}
	if rec.AttendanceRecordID == uuid.Nil {
		rec.AttendanceRecordID = uuid.New()
	}
	cp := *rec
	s.recs[k] = &cp
	return nil
}

func (s *memStore) UpdateMarking(_ context.Context, rec *model.AttendanceRecordModel, expectedVersion int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.recs {
		if cur.AttendanceRecordID != rec.AttendanceRecordID {
			continue
		}
		if cur.AttendanceRecordIsLocked || cur.AttendanceRecordVersion != expectedVersion {
			return 0, nil
		}
		cur.AttendanceRecordStatus = rec.AttendanceRecordStatus
		cur.AttendanceRecordSource = rec.AttendanceRecordSource
		cur.AttendanceRecordMarkedBy = rec.AttendanceRecordMarkedBy
		cur.AttendanceRecordMarkedAt = rec.AttendanceRecordMarkedAt
		cur.AttendanceRecordVersion = rec.AttendanceRecordVersion
		cur.AttendanceRecordRemarks = rec.AttendanceRecordRemarks
		return 1, nil
	}
	return 0, nil
}

func (s *memStore) UpdateRemarks(_ context.Context, recordID uuid.UUID, remarks datatypes.JSON) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.recs {
		if cur.AttendanceRecordID == recordID {
			cur.AttendanceRecordRemarks = remarks
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) LockBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, cur := range s.recs {
		if !cur.AttendanceRecordIsLocked && cur.AttendanceRecordDate.Before(cutoff) {
			cur.AttendanceRecordIsLocked = true
			n++
		}
	}
	return n, nil
}

// raceStore mensimulasikan insert bersamaan: Get pertama bilang "belum ada",
// padahal penulis lain keburu insert: Insert kena unique violation.
type raceStore struct {
	*memStore
	hidden bool
	hideK  string
}

func (s *raceStore) Get(ctx context.Context, studentID, courseID uuid.UUID, date time.Time) (*model.AttendanceRecordModel, error) {
	if s.hidden && key(studentID, courseID, date) == s.hideK {
		s.hidden = false
		return nil, nil
	}
	return s.memStore.Get(ctx, studentID, courseID, date)
}

type fakeDirectory struct {
	byID     map[uuid.UUID]*StudentRef
	byUser   map[uuid.UUID]*StudentRef
	enrolled map[string]bool
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		byID:     map[uuid.UUID]*StudentRef{},
		byUser:   map[uuid.UUID]*StudentRef{},
		enrolled: map[string]bool{},
	}
}

func (d *fakeDirectory) addStudent(st StudentRef, courses ...uuid.UUID) {
	d.byID[st.StudentID] = &st
	d.byUser[st.UserID] = &st
	for _, c := range courses {
		d.enrolled[st.StudentID.String()+"|"+c.String()] = true
	}
}

func (d *fakeDirectory) StudentByID(_ context.Context, id uuid.UUID) (*StudentRef, error) {
	if st, ok := d.byID[id]; ok {
		return st, nil
	}
	return nil, ErrNotFound
}

func (d *fakeDirectory) StudentByUserID(_ context.Context, id uuid.UUID) (*StudentRef, error) {
	if st, ok := d.byUser[id]; ok {
		return st, nil
	}
	return nil, ErrNotFound
}

func (d *fakeDirectory) Enrolled(_ context.Context, studentID, courseID uuid.UUID) (bool, error) {
	return d.enrolled[studentID.String()+"|"+courseID.String()], nil
}

type fakeSchedule struct {
	assigned map[string]bool
	current  *ttModel.TimetableEntryModel
}

func (s *fakeSchedule) TeacherAssigned(_ context.Context, teacherID, courseID, sectionID uuid.UUID) (bool, error) {
	return s.assigned[teacherID.String()+"|"+courseID.String()+"|"+sectionID.String()], nil
}

func (s *fakeSchedule) FindCurrentClass(_ context.Context, batchID, sectionID uuid.UUID, _ time.Time) (*ttModel.TimetableEntryModel, error) {
	if s.current != nil && s.current.TimetableEntryBatchID == batchID && s.current.TimetableEntrySectionID == sectionID {
		return s.current, nil
	}
	return nil, nil
}

/* =========================
   Fixture
========================= */

type fixture struct {
	ledger   *Ledger
	store    *memStore
	dir      *fakeDirectory
	schedule *fakeSchedule
	student  StudentRef
	courseID uuid.UUID
	teacher  uuid.UUID
}

// baseNow: 2025-03-10 (Senin) 09:30 UTC
var baseNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := StudentRef{
		StudentID: uuid.New(),
		UserID:    uuid.New(),
		BatchID:   uuid.New(),
		SectionID: uuid.New(),
	}
	courseID := uuid.New()
	teacher := uuid.New()

	dir := newFakeDirectory()
	dir.addStudent(st, courseID)

	schedule := &fakeSchedule{assigned: map[string]bool{
		teacher.String() + "|" + courseID.String() + "|" + st.SectionID.String(): true,
	}}

	store := newMemStore()
	ledger := NewLedger(store, dir, schedule, 2)
	ledger.Clock = dbtime.FixedClock(baseNow)

	return &fixture{
		ledger:   ledger,
		store:    store,
		dir:      dir,
		schedule: schedule,
		student:  st,
		courseID: courseID,
		teacher:  teacher,
	}
}

func (f *fixture) markInput(date time.Time, status model.AttendanceStatus) MarkInput {
	return MarkInput{
		StudentID: f.student.StudentID,
		CourseID:  f.courseID,
		Date:      date,
		Status:    status,
		Source:    model.SourceManual,
		MarkedBy:  &f.teacher,
	}
}

/* =========================
   Edit window
========================= */

func TestCanEdit(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"hari ini", baseNow, true},
		{"kemarin", baseNow.AddDate(0, 0, -1), true},
		{"tepat di batas window", baseNow.AddDate(0, 0, -2), true},
		{"satu hari lewat window", baseNow.AddDate(0, 0, -3), false},
		{"jauh di masa lalu", baseNow.AddDate(0, -1, 0), false},
		{"besok", baseNow.AddDate(0, 0, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ledger.CanEdit(tt.date))
		})
	}
}

// canEdit monotonic: sekali false untuk tanggal D, tetap false saat "today" maju.
func TestCanEditMonotonic(t *testing.T) {
	f := newFixture(t)
	d := baseNow.AddDate(0, 0, -3)

	require.False(t, f.ledger.CanEdit(d))
	for days := 1; days <= 30; days++ {
		f.ledger.Clock = dbtime.FixedClock(baseNow.AddDate(0, 0, days))
		assert.False(t, f.ledger.CanEdit(d), "hari +%d", days)
	}
}

/* =========================
   UpsertManual
========================= */

func TestUpsertManualCreate(t *testing.T) {
	f := newFixture(t)

	res, err := f.ledger.UpsertManual(context.Background(), f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.Equal(t, model.StatusPresent, res.Record.AttendanceRecordStatus)
	assert.False(t, res.Record.AttendanceRecordIsLocked)
	assert.Equal(t, 1, res.Record.AttendanceRecordVersion)
	assert.Equal(t, dbtime.DateOnly(baseNow), res.Record.AttendanceRecordDate)
}

func TestUpsertManualIdempotent(t *testing.T) {
	f := newFixture(t)
	in := f.markInput(baseNow, model.StatusLate)

	first, err := f.ledger.UpsertManual(context.Background(), in)
	require.NoError(t, err)

	second, err := f.ledger.UpsertManual(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, second.Outcome)
	assert.Equal(t, first.Record.AttendanceRecordStatus, second.Record.AttendanceRecordStatus)
	assert.Equal(t, first.Record.AttendanceRecordMarkedBy, second.Record.AttendanceRecordMarkedBy)
	assert.Equal(t, first.Record.AttendanceRecordSource, second.Record.AttendanceRecordSource)
}

func TestUpsertManualOverwrite(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.UpsertManual(context.Background(), f.markInput(baseNow, model.StatusAbsent))
	require.NoError(t, err)

	res, err := f.ledger.UpsertManual(context.Background(), f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, model.StatusPresent, res.Record.AttendanceRecordStatus)
	assert.Equal(t, 2, res.Record.AttendanceRecordVersion)
}

func TestUpsertManualBornLocked(t *testing.T) {
	f := newFixture(t)
	old := baseNow.AddDate(0, 0, -10)

	res, err := f.ledger.UpsertManual(context.Background(), f.markInput(old, model.StatusPresent))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.True(t, res.Record.AttendanceRecordIsLocked, "backfill lewat window harus lahir terkunci")

	_, err = f.ledger.UpsertManual(context.Background(), f.markInput(old, model.StatusAbsent))
	assert.ErrorIs(t, err, ErrLocked)
}

func TestUpsertManualLockedAfterSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)

	// maju 5 hari: record keluar dari edit window
	f.ledger.Clock = dbtime.FixedClock(baseNow.AddDate(0, 0, 5))

	locked, err := f.ledger.LockOld(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), locked)

	// idempoten
	locked, err = f.ledger.LockOld(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), locked)

	_, err = f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusAbsent))
	assert.ErrorIs(t, err, ErrLocked)
}

// Record basi ditolak dari evaluasi CanEdit langsung, tanpa menunggu sweep.
func TestUpsertManualStaleRejectedBeforeSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)

	f.ledger.Clock = dbtime.FixedClock(baseNow.AddDate(0, 0, 5))

	_, err = f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusAbsent))
	assert.ErrorIs(t, err, ErrLocked)

	// is_locked di DB masih false; rasa terkunci datang dari window
	cur, err := f.store.Get(ctx, f.student.StudentID, f.courseID, dbtime.DateOnly(baseNow))
	require.NoError(t, err)
	assert.False(t, cur.AttendanceRecordIsLocked)
	assert.Equal(t, model.StatusPresent, cur.AttendanceRecordStatus)
}

func TestLockOldLeavesWindowAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)
	_, err = f.ledger.UpsertManual(ctx, f.markInput(baseNow.AddDate(0, 0, -1), model.StatusLate))
	require.NoError(t, err)

	locked, err := f.ledger.LockOld(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), locked, "record di dalam window tidak boleh ikut terkunci")
}

func TestUpsertManualVersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)

	in := f.markInput(baseNow, model.StatusAbsent)
	stale := 99
	in.ExpectedVersion = &stale
	_, err = f.ledger.UpsertManual(ctx, in)
	assert.ErrorIs(t, err, ErrVersionConflict)

	good := 1
	in.ExpectedVersion = &good
	res, err := f.ledger.UpsertManual(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
}

func TestUpsertManualDuplicateRaceRetriedAsUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// seed record lalu sembunyikan dari Get pertama: insert akan kena
	// unique violation dan harus di-retry sebagai update, bukan error.
	_, err := f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusAbsent))
	require.NoError(t, err)

	rs := &raceStore{
		memStore: f.store,
		hidden:   true,
		hideK:    key(f.student.StudentID, f.courseID, dbtime.DateOnly(baseNow)),
	}
	f.ledger.Store = rs

	res, err := f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, model.StatusPresent, res.Record.AttendanceRecordStatus)
}

func TestUpsertManualRefChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.markInput(baseNow, model.StatusPresent)
	in.StudentID = uuid.New() // tidak dikenal
	_, err := f.ledger.UpsertManual(ctx, in)
	assert.ErrorIs(t, err, ErrNotFound)

	in = f.markInput(baseNow, model.StatusPresent)
	in.CourseID = uuid.New() // tidak di-enroll
	_, err = f.ledger.UpsertManual(ctx, in)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	in = f.markInput(baseNow, "bolos")
	_, err = f.ledger.UpsertManual(ctx, in)
	assert.Error(t, err)
}

/* =========================
   CreateIfAbsent (sweep path)
========================= */

func TestCreateIfAbsentCreates(t *testing.T) {
	f := newFixture(t)

	in := f.markInput(baseNow, model.StatusAbsent)
	in.Source = model.SourceAuto
	in.MarkedBy = nil // system

	res, err := f.ledger.CreateIfAbsent(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.Nil(t, res.Record.AttendanceRecordMarkedBy)
	assert.Equal(t, model.SourceAuto, res.Record.AttendanceRecordSource)
}

// Sweep tidak boleh menurunkan Present hasil self-service kembali ke Absent.
func TestCreateIfAbsentNeverDowngrades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)

	in := f.markInput(baseNow, model.StatusAbsent)
	in.Source = model.SourceAuto
	in.MarkedBy = nil

	res, err := f.ledger.CreateIfAbsent(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Equal(t, model.StatusPresent, res.Record.AttendanceRecordStatus)
}

func TestCreateIfAbsentSkipsLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old := baseNow.AddDate(0, 0, -10)
	_, err := f.ledger.UpsertManual(ctx, f.markInput(old, model.StatusPresent))
	require.NoError(t, err)

	in := f.markInput(old, model.StatusAbsent)
	in.Source = model.SourceAuto
	res, err := f.ledger.CreateIfAbsent(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Outcome, "record terkunci tetap skip, bukan error")
}

/* =========================
   Remarks
========================= */

func TestAppendRemarkOnLockedRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old := baseNow.AddDate(0, 0, -10)
	res, err := f.ledger.UpsertManual(ctx, f.markInput(old, model.StatusPresent))
	require.NoError(t, err)
	require.True(t, res.Record.AttendanceRecordIsLocked)

	rec, err := f.ledger.AppendRemark(ctx, f.student.StudentID, f.courseID, old, &f.teacher, "susulan dokter")
	require.NoError(t, err)
	assert.Contains(t, string(rec.AttendanceRecordRemarks), "susulan dokter")

	// status tidak berubah
	cur, err := f.ledger.Store.Get(ctx, f.student.StudentID, f.courseID, dbtime.DateOnly(old))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPresent, cur.AttendanceRecordStatus)
}

func TestAppendRemarkMissingRecord(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.AppendRemark(context.Background(), f.student.StudentID, f.courseID, baseNow, &f.teacher, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

/* =========================
   MarkAsActor (authorization)
========================= */

func TestMarkAsActorTeacher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.ledger.MarkAsActor(ctx, Actor{UserID: f.teacher, Role: constants.RoleTeacher},
		f.markInput(baseNow, model.StatusPresent))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	require.NotNil(t, res.Record.AttendanceRecordMarkedBy)
	assert.Equal(t, f.teacher, *res.Record.AttendanceRecordMarkedBy)

	// teacher lain tanpa slot (course, section) ini → ditolak
	_, err = f.ledger.MarkAsActor(ctx, Actor{UserID: uuid.New(), Role: constants.RoleTeacher},
		f.markInput(baseNow, model.StatusPresent))
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestMarkAsActorStudentSelfMark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// tidak ada kelas berjalan → tolak
	_, err := f.ledger.MarkAsActor(ctx, Actor{UserID: f.student.UserID, Role: constants.RoleStudent},
		f.markInput(baseNow, model.StatusPresent))
	assert.ErrorIs(t, err, ErrNoOngoingClass)

	// ada kelas course ybs berjalan → self-mark Present, source auto
	f.schedule.current = &ttModel.TimetableEntryModel{
		TimetableEntryID:        uuid.New(),
		TimetableEntryCourseID:  f.courseID,
		TimetableEntryBatchID:   f.student.BatchID,
		TimetableEntrySectionID: f.student.SectionID,
	}
	in := f.markInput(baseNow, model.StatusAbsent) // status input diabaikan untuk student
	res, err := f.ledger.MarkAsActor(ctx, Actor{UserID: f.student.UserID, Role: constants.RoleStudent}, in)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPresent, res.Record.AttendanceRecordStatus)
	assert.Equal(t, model.SourceAuto, res.Record.AttendanceRecordSource)

	// kelas berjalan tapi course lain → tolak
	in.CourseID = uuid.New()
	_, err = f.ledger.MarkAsActor(ctx, Actor{UserID: f.student.UserID, Role: constants.RoleStudent}, in)
	assert.ErrorIs(t, err, ErrNoOngoingClass)
}

func TestMarkAsActorStudentCannotMarkOthers(t *testing.T) {
	f := newFixture(t)

	other := StudentRef{StudentID: uuid.New(), UserID: uuid.New(), BatchID: f.student.BatchID, SectionID: f.student.SectionID}
	f.dir.addStudent(other, f.courseID)

	in := f.markInput(baseNow, model.StatusPresent)
	in.StudentID = other.StudentID
	_, err := f.ledger.MarkAsActor(context.Background(), Actor{UserID: f.student.UserID, Role: constants.RoleStudent}, in)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMarkAsActorUnknownRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.MarkAsActor(context.Background(), Actor{UserID: uuid.New(), Role: "janitor"},
		f.markInput(baseNow, model.StatusPresent))
	assert.ErrorIs(t, err, ErrForbidden)
}

/* =========================
   Concurrency
========================= */

// Banyak penulis bersamaan pada key yang sama: tetap satu record.
func TestConcurrentUpsertSingleRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.ledger.UpsertManual(ctx, f.markInput(baseNow, model.StatusPresent))
		}()
	}
	wg.Wait()

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	assert.Len(t, f.store.recs, 1)
}
