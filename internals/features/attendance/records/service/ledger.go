// file: internals/features/attendance/records/service/ledger.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kampusku_backend/internals/constants"
	ttModel "kampusku_backend/internals/features/academics/timetable/model"
	"kampusku_backend/internals/features/attendance/records/model"
	"kampusku_backend/internals/helpers/dbtime"
)

/* =========================
   Dependencies
========================= */

// Store: akses tulis/baca attendance_records. Implementasi produksi GORM
// (store.go); test pakai fake in-memory.
type Store interface {
	// Get: nil, nil kalau record belum ada.
	Get(ctx context.Context, studentID, courseID uuid.UUID, date time.Time) (*model.AttendanceRecordModel, error)
	// Insert: ErrDuplicate kalau unique (student,course,date) dilanggar (race).
	Insert(ctx context.Context, rec *model.AttendanceRecordModel) error
	// UpdateMarking: update field marking dengan guard version + not-locked;
	// return rows affected (0 = kalah race / terkunci).
	UpdateMarking(ctx context.Context, rec *model.AttendanceRecordModel, expectedVersion int) (int64, error)
	// UpdateRemarks: update kolom remarks saja (boleh pada record terkunci).
	UpdateRemarks(ctx context.Context, recordID uuid.UUID, remarks datatypes.JSON) error
	// LockBefore: kunci semua record unlocked dengan date < cutoff; idempoten.
	LockBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// StudentRef: potongan data student yang dibutuhkan ledger.
type StudentRef struct {
	StudentID uuid.UUID
	UserID    uuid.UUID
	BatchID   uuid.UUID
	SectionID uuid.UUID
}

// Directory: data referensi read-only (students, enrollments).
type Directory interface {
	StudentByID(ctx context.Context, studentID uuid.UUID) (*StudentRef, error)     // ErrNotFound
	StudentByUserID(ctx context.Context, userID uuid.UUID) (*StudentRef, error)    // ErrNotFound
	Enrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

// Schedule: dipenuhi oleh timetable resolver.
type Schedule interface {
	TeacherAssigned(ctx context.Context, teacherID, courseID, sectionID uuid.UUID) (bool, error)
	FindCurrentClass(ctx context.Context, batchID, sectionID uuid.UUID, now time.Time) (*ttModel.TimetableEntryModel, error)
}

/* =========================
   Ledger
========================= */

// Ledger adalah satu-satunya pemilik mutasi AttendanceRecord.
type Ledger struct {
	Store          Store
	Dir            Directory
	Schedule       Schedule
	Clock          dbtime.Clock
	EditWindowDays int
}

func NewLedger(store Store, dir Directory, schedule Schedule, editWindowDays int) *Ledger {
	if editWindowDays < 0 {
		editWindowDays = 0
	}
	return &Ledger{
		Store:          store,
		Dir:            dir,
		Schedule:       schedule,
		Clock:          dbtime.SystemClock,
		EditWindowDays: editWindowDays,
	}
}

type MarkInput struct {
	StudentID uuid.UUID
	CourseID  uuid.UUID
	Date      time.Time
	Status    model.AttendanceStatus
	Source    model.AttendanceSource
	// nil = system (auto-mark sweep)
	MarkedBy *uuid.UUID
	// Optimistic concurrency: kalau diisi dan tidak cocok dengan version di
	// DB, upsert gagal dengan ErrVersionConflict (bukan lost update diam-diam).
	ExpectedVersion *int
	Remark          *string
}

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
)

type MarkResult struct {
	Outcome Outcome                      `json:"outcome"`
	Record  *model.AttendanceRecordModel `json:"record"`
}

// Remark: entri log remarks (append-only).
type Remark struct {
	Text string     `json:"text"`
	By   *uuid.UUID `json:"by,omitempty"`
	At   time.Time  `json:"at"`
}

/* =========================
   Edit window & locking
========================= */

func (l *Ledger) today() time.Time {
	return dbtime.DateOnly(l.Clock())
}

// editCutoff: tanggal tertua yang masih editable.
func (l *Ledger) editCutoff() time.Time {
	return l.today().AddDate(0, 0, -l.EditWindowDays)
}

// CanEdit: editable iff date >= today - editWindowDays. Dievaluasi fresh
// setiap panggilan ("today" maju terus), jangan pernah di-cache.
func (l *Ledger) CanEdit(date time.Time) bool {
	return !dbtime.DateOnly(date).Before(l.editCutoff())
}

// LockOld mengunci semua record unlocked yang sudah keluar dari edit window
// (date < today - editWindowDays). Idempoten: run kedua tidak mengubah apa-apa.
func (l *Ledger) LockOld(ctx context.Context) (int64, error) {
	return l.Store.LockBefore(ctx, l.editCutoff())
}

/* =========================
   Write paths
========================= */

// UpsertManual: path tulis teacher/admin/self-service.
//   - belum ada record → create (record backfill yang sudah lewat window lahir terkunci)
//   - ada & unlocked  → overwrite marking fields, version naik
//   - ada & locked    → ErrLocked (control flow normal, bukan fault)
// Race duplicate insert di-retry sebagai update, tidak pernah bocor ke caller.
func (l *Ledger) UpsertManual(ctx context.Context, in MarkInput) (MarkResult, error) {
	if err := l.normalize(&in); err != nil {
		return MarkResult{}, err
	}
	if err := l.checkRefs(ctx, in); err != nil {
		return MarkResult{}, err
	}

	existing, err := l.Store.Get(ctx, in.StudentID, in.CourseID, in.Date)
	if err != nil {
		return MarkResult{}, err
	}

	if existing == nil {
		rec := l.newRecord(in)
		err := l.Store.Insert(ctx, rec)
		if err == nil {
			return MarkResult{Outcome: OutcomeCreated, Record: rec}, nil
		}
		if err != ErrDuplicate {
			return MarkResult{}, err
		}
		// race: insert lain menang duluan, baca ulang dan lanjut sebagai update
		existing, err = l.Store.Get(ctx, in.StudentID, in.CourseID, in.Date)
		if err != nil {
			return MarkResult{}, err
		}
		if existing == nil {
			return MarkResult{}, ErrDuplicate
		}
	}

	return l.overwrite(ctx, existing, in)
}

// CreateIfAbsent: path tulis sweep auto-mark. HANYA membuat record baru;
// record yang sudah ada (apapun lock state-nya) di-skip, sweep tidak boleh
// menimpa Present hasil self-service kembali jadi Absent.
func (l *Ledger) CreateIfAbsent(ctx context.Context, in MarkInput) (MarkResult, error) {
	if err := l.normalize(&in); err != nil {
		return MarkResult{}, err
	}

	existing, err := l.Store.Get(ctx, in.StudentID, in.CourseID, in.Date)
	if err != nil {
		return MarkResult{}, err
	}
	if existing != nil {
		return MarkResult{Outcome: OutcomeSkipped, Record: existing}, nil
	}

	rec := l.newRecord(in)
	if err := l.Store.Insert(ctx, rec); err != nil {
		if err == ErrDuplicate {
			existing, gerr := l.Store.Get(ctx, in.StudentID, in.CourseID, in.Date)
			if gerr != nil {
				return MarkResult{}, gerr
			}
			return MarkResult{Outcome: OutcomeSkipped, Record: existing}, nil
		}
		return MarkResult{}, err
	}
	return MarkResult{Outcome: OutcomeCreated, Record: rec}, nil
}

// AppendRemark menambah remark pada record; tetap boleh pada record terkunci
// (hanya field marking yang beku).
func (l *Ledger) AppendRemark(ctx context.Context, studentID, courseID uuid.UUID, date time.Time, by *uuid.UUID, text string) (*model.AttendanceRecordModel, error) {
	date = dbtime.DateOnly(date)
	rec, err := l.Store.Get(ctx, studentID, courseID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if err := appendRemark(rec, Remark{Text: text, By: by, At: l.Clock()}); err != nil {
		return nil, err
	}
	if err := l.Store.UpdateRemarks(ctx, rec.AttendanceRecordID, rec.AttendanceRecordRemarks); err != nil {
		return nil, err
	}
	return rec, nil
}

/* =========================
   Authorization
========================= */

type Actor struct {
	UserID uuid.UUID
	Role   string
}

// MarkAsActor: capability check + upsert dalam satu write path, dipakai
// seragam oleh semua handler (tidak ada role branching di controller).
//   - admin   → tanpa batasan
//   - teacher → hanya (course, section) yang ada di jadwal dia sendiri
//   - student → hanya self-mark Present saat kelas course tsb sedang berjalan
func (l *Ledger) MarkAsActor(ctx context.Context, actor Actor, in MarkInput) (MarkResult, error) {
	switch actor.Role {
	case constants.RoleAdmin:
		in.MarkedBy = &actor.UserID
		return l.UpsertManual(ctx, in)

	case constants.RoleTeacher:
		st, err := l.Dir.StudentByID(ctx, in.StudentID)
		if err != nil {
			return MarkResult{}, err
		}
		ok, err := l.Schedule.TeacherAssigned(ctx, actor.UserID, in.CourseID, st.SectionID)
		if err != nil {
			return MarkResult{}, err
		}
		if !ok {
			return MarkResult{}, ErrNotAssigned
		}
		in.MarkedBy = &actor.UserID
		in.Source = model.SourceManual
		return l.UpsertManual(ctx, in)

	case constants.RoleStudent:
		st, err := l.Dir.StudentByUserID(ctx, actor.UserID)
		if err != nil {
			return MarkResult{}, err
		}
		if st.StudentID != in.StudentID {
			return MarkResult{}, ErrForbidden
		}
		now := l.Clock()
		entry, err := l.Schedule.FindCurrentClass(ctx, st.BatchID, st.SectionID, now)
		if err != nil {
			return MarkResult{}, err
		}
		if entry == nil || entry.TimetableEntryCourseID != in.CourseID {
			return MarkResult{}, ErrNoOngoingClass
		}
		in.Status = model.StatusPresent
		in.Source = model.SourceAuto
		in.MarkedBy = &actor.UserID
		in.Date = dbtime.DateOnly(now)
		return l.UpsertManual(ctx, in)
	}
	return MarkResult{}, ErrForbidden
}

/* =========================
   Internals
========================= */

func (l *Ledger) normalize(in *MarkInput) error {
	if !in.Status.Valid() {
		return fmt.Errorf("status tidak valid: %q", in.Status)
	}
	if in.Source != model.SourceManual && in.Source != model.SourceAuto {
		return fmt.Errorf("source tidak valid: %q", in.Source)
	}
	if in.Date.IsZero() {
		in.Date = l.today()
	} else {
		in.Date = dbtime.DateOnly(in.Date)
	}
	return nil
}

func (l *Ledger) checkRefs(ctx context.Context, in MarkInput) error {
	if _, err := l.Dir.StudentByID(ctx, in.StudentID); err != nil {
		return err
	}
	enrolled, err := l.Dir.Enrolled(ctx, in.StudentID, in.CourseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotEnrolled
	}
	return nil
}

// newRecord: record backfill yang masuk setelah edit window habis lahir
// langsung terkunci.
func (l *Ledger) newRecord(in MarkInput) *model.AttendanceRecordModel {
	rec := &model.AttendanceRecordModel{
		AttendanceRecordStudentID: in.StudentID,
		AttendanceRecordCourseID:  in.CourseID,
		AttendanceRecordDate:      in.Date,
		AttendanceRecordStatus:    in.Status,
		AttendanceRecordSource:    in.Source,
		AttendanceRecordMarkedBy:  in.MarkedBy,
		AttendanceRecordMarkedAt:  l.Clock(),
		AttendanceRecordIsLocked:  !l.CanEdit(in.Date),
		AttendanceRecordVersion:   1,
	}
	if in.Remark != nil && *in.Remark != "" {
		_ = appendRemark(rec, Remark{Text: *in.Remark, By: in.MarkedBy, At: rec.AttendanceRecordMarkedAt})
	}
	return rec
}

func (l *Ledger) overwrite(ctx context.Context, rec *model.AttendanceRecordModel, in MarkInput) (MarkResult, error) {
	// CanEdit dievaluasi fresh: record yang sudah lewat window ditolak di sini
	// juga, tidak menunggu lock sweep berikutnya.
	if rec.AttendanceRecordIsLocked || !l.CanEdit(rec.AttendanceRecordDate) {
		return MarkResult{}, ErrLocked
	}
	if in.ExpectedVersion != nil && *in.ExpectedVersion != rec.AttendanceRecordVersion {
		return MarkResult{}, ErrVersionConflict
	}

	expected := rec.AttendanceRecordVersion
	rec.AttendanceRecordStatus = in.Status
	rec.AttendanceRecordSource = in.Source
	rec.AttendanceRecordMarkedBy = in.MarkedBy
	rec.AttendanceRecordMarkedAt = l.Clock()
	rec.AttendanceRecordVersion = expected + 1
	if in.Remark != nil && *in.Remark != "" {
		if err := appendRemark(rec, Remark{Text: *in.Remark, By: in.MarkedBy, At: rec.AttendanceRecordMarkedAt}); err != nil {
			return MarkResult{}, err
		}
	}

	rows, err := l.Store.UpdateMarking(ctx, rec, expected)
	if err != nil {
		return MarkResult{}, err
	}
	if rows == 0 {
		// kalah race: bisa karena keburu dikunci, bisa karena version berubah
		cur, gerr := l.Store.Get(ctx, in.StudentID, in.CourseID, in.Date)
		if gerr == nil && cur != nil && cur.AttendanceRecordIsLocked {
			return MarkResult{}, ErrLocked
		}
		return MarkResult{}, ErrVersionConflict
	}
	return MarkResult{Outcome: OutcomeUpdated, Record: rec}, nil
}

// DecodeRemarks: remarks JSON → slice; kolom kosong = slice kosong.
func DecodeRemarks(raw datatypes.JSON) ([]Remark, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var remarks []Remark
	if err := json.Unmarshal(raw, &remarks); err != nil {
		return nil, err
	}
	return remarks, nil
}

func appendRemark(rec *model.AttendanceRecordModel, r Remark) error {
	var remarks []Remark
	if len(rec.AttendanceRecordRemarks) > 0 {
		if err := json.Unmarshal(rec.AttendanceRecordRemarks, &remarks); err != nil {
			return fmt.Errorf("remarks corrupt: %w", err)
		}
	}
	remarks = append(remarks, r)
	raw, err := json.Marshal(remarks)
	if err != nil {
		return err
	}
	rec.AttendanceRecordRemarks = raw
	return nil
}
