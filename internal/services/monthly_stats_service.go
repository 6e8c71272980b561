package services

import (
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
	"github.com/teampulse/teampulse/internal/repositories"
)

// MonthlyStatsService is the accessor for monthly records. It performs
// read-modify-write without optimistic locking, so there must be at most
// one mutator per (team, month) at a time. The webhook path serializes
// through LockMonth; the bulk sync path is serialized by the job queue.
type MonthlyStatsService struct {
	monthlyStatsRepo *repositories.MonthlyStatsRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMonthlyStatsService(monthlyStatsRepo *repositories.MonthlyStatsRepository) *MonthlyStatsService {
	return &MonthlyStatsService{
		monthlyStatsRepo: monthlyStatsRepo,
		locks:            make(map[string]*sync.Mutex),
	}
}

// GetOrCreate returns the existing record for (team, month), or a fresh
// zeroed record that has not been persisted yet. The caller owns the record
// until it calls Save; nothing saves implicitly.
func (s *MonthlyStatsService) GetOrCreate(teamID string, monthStart time.Time) (*models.MonthlyRecord, error) {
	record, err := s.monthlyStatsRepo.GetByTeamAndMonth(teamID, monthStart)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	return models.NewMonthlyRecord(teamID, monthStart), nil
}

// Save upserts the record keyed by (team_id, month_start)
func (s *MonthlyStatsService) Save(record *models.MonthlyRecord) error {
	return s.monthlyStatsRepo.Upsert(record)
}

// GetByTeamAndMonth returns the record if it exists, (nil, nil) otherwise
func (s *MonthlyStatsService) GetByTeamAndMonth(teamID string, monthStart time.Time) (*models.MonthlyRecord, error) {
	return s.monthlyStatsRepo.GetByTeamAndMonth(teamID, monthStart)
}

// ListMonths returns the month starts that have records, newest first
func (s *MonthlyStatsService) ListMonths(teamID string) ([]time.Time, error) {
	return s.monthlyStatsRepo.ListMonthsByTeam(teamID)
}

// LockMonth acquires the mutex for a (team, month) pair and returns the
// unlock function. Concurrent webhook deliveries for the same pair must
// hold this lock across their read-modify-write cycle.
func (s *MonthlyStatsService) LockMonth(teamID string, monthStart time.Time) func() {
	key := teamID + "|" + models.MonthStart(monthStart).Format("2006-01-02")

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
