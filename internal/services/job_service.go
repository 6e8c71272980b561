package services

import (
	"github.com/teampulse/teampulse/internal/models"
	"github.com/teampulse/teampulse/internal/repositories"
)

type JobService struct {
	jobRepo *repositories.JobRepository
}

func NewJobService(jobRepo *repositories.JobRepository) *JobService {
	return &JobService{
		jobRepo: jobRepo,
	}
}

// EnqueueTeamSync creates a sync job per tracked repository and a stats job
// for the team. The stats job is held back by the dispatcher until none of
// the team's sync jobs are pending or in progress, so the rebuild sees the
// whole pull regardless of how many sync workers run
func (s *JobService) EnqueueTeamSync(teamID string, teamRepos []*models.TeamRepository) ([]*models.Job, error) {
	var jobs []*models.Job

	for _, teamRepo := range teamRepos {
		if !teamRepo.IsTracked {
			continue
		}

		job := models.NewJob(teamID, models.JobTypeSync)
		repoID := teamRepo.ID
		job.TeamRepositoryID = &repoID
		if err := s.jobRepo.Create(job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	statsJob := models.NewJob(teamID, models.JobTypeStats)
	if err := s.jobRepo.Create(statsJob); err != nil {
		return nil, err
	}
	jobs = append(jobs, statsJob)

	return jobs, nil
}

func (s *JobService) GetJobByID(id string) (*models.Job, error) {
	return s.jobRepo.GetByID(id)
}

func (s *JobService) GetJobsByTeamID(teamID string) ([]*models.Job, error) {
	return s.jobRepo.GetByTeamID(teamID)
}
