// file: internals/features/attendance/stats/service/store.go
package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/attendance/records/model"
)

type GormSource struct {
	DB *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{DB: db}
}

type countRow struct {
	GroupID uuid.UUID              `gorm:"column:group_id"`
	Status  model.AttendanceStatus `gorm:"column:status"`
	N       int                    `gorm:"column:n"`
}

func (s *GormSource) CountsByCourse(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]StatusCount, error) {
	var rows []countRow
	err := s.DB.WithContext(ctx).
		Model(&model.AttendanceRecordModel{}).
		Select("attendance_record_course_id AS group_id, attendance_record_status AS status, COUNT(*) AS n").
		Where("attendance_record_student_id = ?", studentID).
		Group("attendance_record_course_id, attendance_record_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return collect(rows), nil
}

func (s *GormSource) CountsByStudent(ctx context.Context, courseID uuid.UUID) (map[uuid.UUID]StatusCount, error) {
	var rows []countRow
	err := s.DB.WithContext(ctx).
		Model(&model.AttendanceRecordModel{}).
		Select("attendance_record_student_id AS group_id, attendance_record_status AS status, COUNT(*) AS n").
		Where("attendance_record_course_id = ?", courseID).
		Group("attendance_record_student_id, attendance_record_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return collect(rows), nil
}

func collect(rows []countRow) map[uuid.UUID]StatusCount {
	out := make(map[uuid.UUID]StatusCount, len(rows))
	for _, r := range rows {
		c := out[r.GroupID]
		applyStatus(&c, r.Status, r.N)
		out[r.GroupID] = c
	}
	return out
}
