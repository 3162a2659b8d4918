// file: internals/features/attendance/records/service/errors.go
package service

import "errors"

// Sentinel errors ledger. ErrLocked dan ErrVersionConflict adalah control
// flow normal (bukan fault): controller memetakan ke 409, bukan 500.
var (
	ErrLocked          = errors.New("attendance record is locked")
	ErrNotFound        = errors.New("referenced entity not found")
	ErrNotEnrolled     = errors.New("student is not enrolled in course")
	ErrDuplicate       = errors.New("attendance record already exists")
	ErrVersionConflict = errors.New("attendance record version conflict")
	ErrNotAssigned     = errors.New("teacher is not assigned to this course/section")
	ErrNoOngoingClass  = errors.New("no ongoing class for this course")
	ErrForbidden       = errors.New("actor may not perform this mark")
)
