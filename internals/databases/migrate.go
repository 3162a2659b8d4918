package database

import (
	"log"

	enrModel "kampusku_backend/internals/features/academics/enrollments/model"
	mastersModel "kampusku_backend/internals/features/academics/masters/model"
	ttModel "kampusku_backend/internals/features/academics/timetable/model"
	attModel "kampusku_backend/internals/features/attendance/records/model"
)

func Migrate() {
	log.Println("📦 Migrasi skema...")
	err := DB.AutoMigrate(
		&mastersModel.DepartmentModel{},
		&mastersModel.BatchModel{},
		&mastersModel.SectionModel{},
		&mastersModel.CourseModel{},
		&mastersModel.StudentModel{},
		&enrModel.EnrollmentModel{},
		&ttModel.TimetableEntryModel{},
		&attModel.AttendanceRecordModel{},
	)
	if err != nil {
		log.Fatalf("❌ Migrasi gagal: %v", err)
	}
	log.Println("✅ Skema up-to-date.")
}
