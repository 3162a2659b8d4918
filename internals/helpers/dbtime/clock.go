// file: internals/helpers/dbtime/clock.go
package dbtime

import "time"

// Clock adalah sumber waktu yang bisa di-inject; service memakai ini
// supaya "hari ini" bisa disimulasikan di test tanpa nunggu waktu nyata.
// Seluruh sistem mengevaluasi waktu di UTC agar batas hari konsisten.
type Clock func() time.Time

// SystemClock: jam sistem, dipaksa UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// DateOnly memotong instant ke tanggal (00:00:00 UTC).
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FixedClock untuk test: selalu mengembalikan t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t.UTC() }
}
