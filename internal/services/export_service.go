package services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/teampulse/teampulse/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a monthly record as an XLSX workbook with one sheet
// of contributor rows and one of repository rows
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// MonthlyReport builds the workbook for a record and returns its bytes
func (s *ExportService) MonthlyReport(record *models.MonthlyRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeContributorSheet(f, record); err != nil {
		return nil, err
	}
	if err := s.writeRepositorySheet(f, record); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is unused
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf, nil
}

func (s *ExportService) writeContributorSheet(f *excelize.File, record *models.MonthlyRecord) error {
	sheet := "Contributors"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []interface{}{"Login", "Commits", "Pull Requests", "Merged PRs", "Lines Added", "Lines Removed", "Repositories", "Tabs", "Premium Requests", "Score"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	ids := make([]string, 0, len(record.Stats.Contributors))
	for id := range record.Stats.Contributors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return record.Stats.Contributors[ids[i]].ContributionScore > record.Stats.Contributors[ids[j]].ContributionScore
	})

	for i, id := range ids {
		c := record.Stats.Contributors[id]
		row := []interface{}{
			c.Login, c.Commits, c.PullRequests, c.MergedPullRequests,
			c.LinesAdded, c.LinesRemoved, len(c.ActiveRepositories),
			c.Tabs, c.PremiumRequests, c.ContributionScore,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func (s *ExportService) writeRepositorySheet(f *excelize.File, record *models.MonthlyRecord) error {
	sheet := "Repositories"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []interface{}{"Repository", "Commits", "Pull Requests", "Merged PRs", "Lines Added", "Lines Removed", "Active Contributors"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	ids := make([]string, 0, len(record.Stats.Repositories))
	for id := range record.Stats.Repositories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return record.Stats.Repositories[ids[i]].Commits > record.Stats.Repositories[ids[j]].Commits
	})

	for i, id := range ids {
		repo := record.Stats.Repositories[id]
		row := []interface{}{
			repo.Name, repo.Commits, repo.PullRequests, repo.MergedPullRequests,
			repo.LinesAdded, repo.LinesRemoved, repo.ActiveContributors,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}
