// file: internals/features/attendance/scheduler/sweeper.go
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	enrModel "kampusku_backend/internals/features/academics/enrollments/model"
	ttModel "kampusku_backend/internals/features/academics/timetable/model"
	ttService "kampusku_backend/internals/features/academics/timetable/service"
	"kampusku_backend/internals/features/attendance/records/model"
	"kampusku_backend/internals/features/attendance/records/service"
	"kampusku_backend/internals/helpers/dbtime"
)

/* =========================
   Dependencies
========================= */

// Schedule: daftar kelas yang sedang berjalan (dipenuhi timetable resolver).
type Schedule interface {
	OngoingEntries(ctx context.Context, now time.Time) ([]ttModel.TimetableEntryModel, error)
}

// Roster: siapa saja yang seharusnya hadir di satu slot kelas.
type Roster interface {
	StudentIDs(ctx context.Context, batchID, sectionID, courseID uuid.UUID) ([]uuid.UUID, error)
}

// Marker: write path ledger yang dipakai sweep.
type Marker interface {
	CreateIfAbsent(ctx context.Context, in service.MarkInput) (service.MarkResult, error)
	LockOld(ctx context.Context) (int64, error)
}

type SweepResult struct {
	Classes int `json:"classes"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

/* =========================
   Sweeper
========================= */

// Sweeper menjalankan dua loop periodik:
//   - auto-mark: tiap interval, insert Absent untuk roster kelas yang sedang
//     berjalan dan belum punya record (tidak pernah menimpa record yang ada)
//   - lock: tiap interval, kunci record yang sudah keluar dari edit window
type Sweeper struct {
	Schedule Schedule
	Roster   Roster
	Ledger   Marker
	Clock    dbtime.Clock

	AutoMarkEvery time.Duration
	LockEvery     time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewSweeper(db *gorm.DB) *Sweeper {
	resolver := ttService.NewResolver(ttService.NewGormEntryStore(db))
	ledger := service.NewLedger(
		service.NewGormStore(db),
		service.NewGormDirectory(db),
		resolver,
		configs.EditWindowDays(),
	)
	return &Sweeper{
		Schedule:      resolver,
		Roster:        &GormRoster{DB: db},
		Ledger:        ledger,
		Clock:         dbtime.SystemClock,
		AutoMarkEvery: configs.AutoMarkInterval(),
		LockEvery:     configs.LockSweepInterval(),
		stop:          make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	log.Printf("[SWEEP] scheduler aktif (auto-mark tiap %s, lock tiap %s)", s.AutoMarkEvery, s.LockEvery)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.AutoMarkEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				res, err := s.AutoMarkOngoingClasses(context.Background(), s.Clock())
				if err != nil {
					log.Printf("[SWEEP] auto-mark gagal: %v", err)
					continue
				}
				if res.Created > 0 || res.Failed > 0 {
					log.Printf("[SWEEP] auto-mark: %d kelas, created=%d skipped=%d failed=%d",
						res.Classes, res.Created, res.Skipped, res.Failed)
				}
			case <-s.stop:
				return
			}
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.LockEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				locked, err := s.Ledger.LockOld(context.Background())
				if err != nil {
					log.Printf("[LOCK] sweep gagal: %v", err)
					continue
				}
				if locked > 0 {
					log.Printf("[LOCK] %d record dikunci", locked)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop menghentikan kedua loop; sweep yang sedang jalan dibiarkan selesai.
func (s *Sweeper) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
	log.Println("[SWEEP] scheduler berhenti")
}

// AutoMarkOngoingClasses: satu putaran sweep untuk instant now. Kegagalan per
// student diisolasi; satu row error tidak membatalkan sisanya.
func (s *Sweeper) AutoMarkOngoingClasses(ctx context.Context, now time.Time) (SweepResult, error) {
	entries, err := s.Schedule.OngoingEntries(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}

	res := SweepResult{Classes: len(entries)}
	date := dbtime.DateOnly(now.UTC())

	for i := range entries {
		e := &entries[i]
		studentIDs, err := s.Roster.StudentIDs(ctx, e.TimetableEntryBatchID, e.TimetableEntrySectionID, e.TimetableEntryCourseID)
		if err != nil {
			log.Printf("[SWEEP] roster course=%s gagal: %v", e.TimetableEntryCourseID, err)
			res.Failed++
			continue
		}
		for _, sid := range studentIDs {
			out, err := s.Ledger.CreateIfAbsent(ctx, service.MarkInput{
				StudentID: sid,
				CourseID:  e.TimetableEntryCourseID,
				Date:      date,
				Status:    model.StatusAbsent,
				Source:    model.SourceAuto,
				MarkedBy:  nil, // system
			})
			if err != nil {
				log.Printf("[SWEEP] student=%s course=%s gagal: %v", sid, e.TimetableEntryCourseID, err)
				res.Failed++
				continue
			}
			switch out.Outcome {
			case service.OutcomeCreated:
				res.Created++
			default:
				res.Skipped++
			}
		}
	}
	return res, nil
}

/* =========================
   Roster (GORM)
========================= */

// GormRoster: student yang seharusnya hadir = anggota (batch, section) yang
// ter-enroll di course tersebut.
type GormRoster struct {
	DB *gorm.DB
}

func (r *GormRoster) StudentIDs(ctx context.Context, batchID, sectionID, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(&enrModel.EnrollmentModel{}).
		Joins("JOIN students ON students.student_id = enrollments.enrollment_student_id AND students.student_deleted_at IS NULL").
		Where("students.student_batch_id = ? AND students.student_section_id = ?", batchID, sectionID).
		Where("enrollments.enrollment_course_id = ?", courseID).
		Pluck("enrollments.enrollment_student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
