// file: internals/features/attendance/records/service/store.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	enrModel "kampusku_backend/internals/features/academics/enrollments/model"
	mastersModel "kampusku_backend/internals/features/academics/masters/model"
	"kampusku_backend/internals/features/attendance/records/model"
)

/* =========================
   PG error mapping
========================= */

type pgSQLErr interface {
	SQLState() string
	Error() string
}

// isUniqueViolation: SQLSTATE 23505 (race pada unique index).
// Bentuk error tergantung driver (pgx vs lib/pq), cek dua-duanya.
func isUniqueViolation(err error) bool {
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}

/* =========================
   GormStore
========================= */

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) Get(ctx context.Context, studentID, courseID uuid.UUID, date time.Time) (*model.AttendanceRecordModel, error) {
	var rec model.AttendanceRecordModel
	err := s.DB.WithContext(ctx).
		Where("attendance_record_student_id = ? AND attendance_record_course_id = ? AND attendance_record_date = ?",
			studentID, courseID, date).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) Insert(ctx context.Context, rec *model.AttendanceRecordModel) error {
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateMarking: guard version + not-locked di WHERE, serialisasi
// check-then-act antar penulis bersamaan; unique index jadi backstop insert.
func (s *GormStore) UpdateMarking(ctx context.Context, rec *model.AttendanceRecordModel, expectedVersion int) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_id = ? AND attendance_record_version = ? AND attendance_record_is_locked = FALSE",
			rec.AttendanceRecordID, expectedVersion).
		Updates(map[string]any{
			"attendance_record_status":    rec.AttendanceRecordStatus,
			"attendance_record_source":    rec.AttendanceRecordSource,
			"attendance_record_marked_by": rec.AttendanceRecordMarkedBy,
			"attendance_record_marked_at": rec.AttendanceRecordMarkedAt,
			"attendance_record_version":   rec.AttendanceRecordVersion,
			"attendance_record_remarks":   rec.AttendanceRecordRemarks,
		})
	return res.RowsAffected, res.Error
}

func (s *GormStore) UpdateRemarks(ctx context.Context, recordID uuid.UUID, remarks datatypes.JSON) error {
	return s.DB.WithContext(ctx).Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_id = ?", recordID).
		Update("attendance_record_remarks", remarks).Error
}

func (s *GormStore) LockBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_is_locked = FALSE AND attendance_record_date < ?", cutoff).
		Update("attendance_record_is_locked", true)
	return res.RowsAffected, res.Error
}

/* =========================
   GormDirectory
========================= */

type GormDirectory struct {
	DB *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

var _ Directory = (*GormDirectory)(nil)

func (d *GormDirectory) StudentByID(ctx context.Context, studentID uuid.UUID) (*StudentRef, error) {
	var st mastersModel.StudentModel
	if err := d.DB.WithContext(ctx).First(&st, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return studentRef(&st), nil
}

func (d *GormDirectory) StudentByUserID(ctx context.Context, userID uuid.UUID) (*StudentRef, error) {
	var st mastersModel.StudentModel
	if err := d.DB.WithContext(ctx).First(&st, "student_user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return studentRef(&st), nil
}

func (d *GormDirectory) Enrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var cnt int64
	err := d.DB.WithContext(ctx).Model(&enrModel.EnrollmentModel{}).
		Where("enrollment_student_id = ? AND enrollment_course_id = ?", studentID, courseID).
		Count(&cnt).Error
	return cnt > 0, err
}

func studentRef(st *mastersModel.StudentModel) *StudentRef {
	return &StudentRef{
		StudentID: st.StudentID,
		UserID:    st.StudentUserID,
		BatchID:   st.StudentBatchID,
		SectionID: st.StudentSectionID,
	}
}
