package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/teampulse/teampulse/internal/models"
	"github.com/teampulse/teampulse/internal/repositories"
)

type TeamService struct {
	teamRepo      *repositories.TeamRepository
	teamRepoRepo  *repositories.TeamRepositoryRepository
	githubService *GitHubService
}

func NewTeamService(
	teamRepo *repositories.TeamRepository,
	teamRepoRepo *repositories.TeamRepositoryRepository,
	githubService *GitHubService,
) *TeamService {
	return &TeamService{
		teamRepo:      teamRepo,
		teamRepoRepo:  teamRepoRepo,
		githubService: githubService,
	}
}

func (s *TeamService) CreateTeam(name, slug string) (*models.Team, error) {
	team := models.NewTeam(name, slug)
	if err := team.Validate(); err != nil {
		return nil, err
	}
	if err := s.teamRepo.Create(team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) GetTeamByID(id string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) GetAllTeams() ([]*models.Team, error) {
	return s.teamRepo.GetAll()
}

func (s *TeamService) DeleteTeam(id string) error {
	return s.teamRepo.Delete(id)
}

// AttachRepository verifies the repository exists on GitHub and tracks it
// for the team
func (s *TeamService) AttachRepository(ctx context.Context, teamID, owner, name string) (*models.TeamRepository, error) {
	if _, err := s.GetTeamByID(teamID); err != nil {
		return nil, err
	}

	repo, err := s.githubService.GetRepository(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to verify repository %s/%s: %w", owner, name, err)
	}

	teamRepo := models.NewTeamRepository(teamID, repo.GetID(), owner, name)
	if err := s.teamRepoRepo.Create(teamRepo); err != nil {
		return nil, err
	}

	return teamRepo, nil
}

// GetTeamRepositories returns the repositories tracked for a team
func (s *TeamService) GetTeamRepositories(teamID string) ([]*models.TeamRepository, error) {
	return s.teamRepoRepo.GetByTeamID(teamID)
}

// GetTeamByRepositoryGithubID resolves which team tracks a GitHub repository,
// used by the webhook handler to route incoming events
func (s *TeamService) GetTeamByRepositoryGithubID(githubRepoID int64) (*models.Team, *models.TeamRepository, error) {
	teamRepo, err := s.teamRepoRepo.GetByGithubRepoID(githubRepoID)
	if err == sql.ErrNoRows {
		return nil, nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	team, err := s.GetTeamByID(teamRepo.TeamID)
	if err != nil {
		return nil, nil, err
	}

	return team, teamRepo, nil
}
