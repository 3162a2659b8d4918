// file: internals/features/attendance/stats/service/aggregator.go
package service

import (
	"context"
	"math"

	"github.com/google/uuid"

	"kampusku_backend/internals/features/attendance/records/model"
)

/* =========================
   Types
========================= */

type StatusCount struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
}

func (c StatusCount) Total() int { return c.Present + c.Late + c.Absent }

// Counted: status yang dihitung hadir (Late tetap dihitung hadir).
func (c StatusCount) Counted() int { return c.Present + c.Late }

type CoursePercentage struct {
	CourseID   uuid.UUID   `json:"course_id"`
	Counts     StatusCount `json:"counts"`
	Percentage float64     `json:"percentage"`
}

type StudentReport struct {
	StudentID uuid.UUID          `json:"student_id"`
	Courses   []CoursePercentage `json:"courses"`
	// Overall dihitung dari total record semua course (weighted), bukan
	// rata-rata persentase per course.
	Overall float64 `json:"overall"`
}

type StudentStanding struct {
	StudentID  uuid.UUID   `json:"student_id"`
	Counts     StatusCount `json:"counts"`
	Percentage float64     `json:"percentage"`
}

// Source: agregasi count per status dari attendance_records.
type Source interface {
	// Per course untuk satu student. Course tanpa record tidak muncul di map.
	CountsByCourse(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]StatusCount, error)
	// Per student untuk satu course.
	CountsByStudent(ctx context.Context, courseID uuid.UUID) (map[uuid.UUID]StatusCount, error)
}

/* =========================
   Aggregator
========================= */

type Aggregator struct {
	Source Source
}

func NewAggregator(src Source) *Aggregator {
	return &Aggregator{Source: src}
}

// round2: pembulatan 2 desimal, half away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percentage: (present + late) / total * 100, dibulatkan 2 desimal.
func Percentage(c StatusCount) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return round2(float64(c.Counted()) / float64(total) * 100)
}

// StudentPercentages: persentase per course. Course tanpa record sama sekali
// tidak muncul (bukan 0%, bukan 100%).
func (a *Aggregator) StudentPercentages(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]float64, error) {
	counts, err := a.Source.CountsByCourse(ctx, studentID)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]float64, len(counts))
	for courseID, c := range counts {
		out[courseID] = Percentage(c)
	}
	return out, nil
}

func (a *Aggregator) StudentReport(ctx context.Context, studentID uuid.UUID) (StudentReport, error) {
	counts, err := a.Source.CountsByCourse(ctx, studentID)
	if err != nil {
		return StudentReport{}, err
	}

	report := StudentReport{StudentID: studentID, Courses: make([]CoursePercentage, 0, len(counts))}
	var overall StatusCount
	for courseID, c := range counts {
		report.Courses = append(report.Courses, CoursePercentage{
			CourseID:   courseID,
			Counts:     c,
			Percentage: Percentage(c),
		})
		overall.Present += c.Present
		overall.Late += c.Late
		overall.Absent += c.Absent
	}
	report.Overall = Percentage(overall)
	return report, nil
}

// CourseStandings: persentase per student untuk satu course.
func (a *Aggregator) CourseStandings(ctx context.Context, courseID uuid.UUID) ([]StudentStanding, error) {
	counts, err := a.Source.CountsByStudent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]StudentStanding, 0, len(counts))
	for studentID, c := range counts {
		out = append(out, StudentStanding{
			StudentID:  studentID,
			Counts:     c,
			Percentage: Percentage(c),
		})
	}
	return out, nil
}

// applyStatus dipakai Source implementations untuk memetakan row GROUP BY
// ke StatusCount.
func applyStatus(c *StatusCount, status model.AttendanceStatus, n int) {
	switch status {
	case model.StatusPresent:
		c.Present += n
	case model.StatusLate:
		c.Late += n
	case model.StatusAbsent:
		c.Absent += n
	}
}
