package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/highway-incident-api/internal/models"
	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
)

func exportFixture() []models.IncidentDetail {
	return []models.IncidentDetail{
		{
			Incident: models.Incident{
				Type:         models.IncidentPothole,
				Severity:     models.SeverityHigh,
				Status:       models.StatusPending,
				Location:     models.Location{Highway: "NH-44", Km: 342},
				AssignedTeam: "Team A",
				CreatedAt:    time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC),
			},
			Reporter: models.Reporter{Name: "Ravi Kumar", EmployeeID: "NHAI001"},
		},
	}
}

func TestBuildReportCSV(t *testing.T) {
	repo := newMockIncidentRepo()
	repo.listResult = exportFixture()
	svc := NewExportService(repo, nil)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }

	file, err := svc.BuildReport(context.Background(), models.IncidentFilter{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "incidents-20260901-080000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := bytes.Split(bytes.TrimSpace(file.Data), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "Reported,Type,Severity,Status,Highway,KM,Assigned Team,Reporter,Employee ID", string(bytes.TrimSpace(lines[0])))
	assert.Contains(t, string(lines[1]), "Pothole")
	assert.Contains(t, string(lines[1]), "NHAI001")
	assert.Contains(t, string(lines[1]), "2026-08-30 14:30")
}

func TestBuildReportPDF(t *testing.T) {
	repo := newMockIncidentRepo()
	repo.listResult = exportFixture()
	svc := NewExportService(repo, nil)

	file, err := svc.BuildReport(context.Background(), models.IncidentFilter{}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestBuildReportInvalidFormat(t *testing.T) {
	svc := NewExportService(newMockIncidentRepo(), nil)

	_, err := svc.BuildReport(context.Background(), models.IncidentFilter{}, "xlsx")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Format must be csv or pdf", appErr.Fields["format"])
}

func TestBuildReportPassesFilterThrough(t *testing.T) {
	repo := newMockIncidentRepo()
	svc := NewExportService(repo, nil)

	filter := models.IncidentFilter{Status: "Resolved", Highway: "NH-48"}
	_, err := svc.BuildReport(context.Background(), filter, "csv")
	require.NoError(t, err)
	assert.Equal(t, filter, repo.listFilter)
}
