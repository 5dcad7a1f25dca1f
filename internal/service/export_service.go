package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/roadwatch/highway-incident-api/internal/models"
	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
	"github.com/roadwatch/highway-incident-api/pkg/export"
)

type incidentLister interface {
	List(ctx context.Context, filter models.IncidentFilter) ([]models.IncidentDetail, error)
}

// ExportFile is a rendered incident report ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the admin's filtered incident list as CSV or PDF.
type ExportService struct {
	repo   incidentLister
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(repo incidentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{repo: repo, logger: logger, now: time.Now}
}

var exportHeaders = []string{"Reported", "Type", "Severity", "Status", "Highway", "KM", "Assigned Team", "Reporter", "Employee ID"}

// BuildReport applies the same filter grammar as the list endpoint and
// renders the unscoped result set in the requested format.
func (s *ExportService) BuildReport(ctx context.Context, filter models.IncidentFilter, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Validation(map[string]string{"format": "Format must be csv or pdf"})
	}

	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incidents for export")
	}

	rows := make([]map[string]string, 0, len(incidents))
	for _, in := range incidents {
		rows = append(rows, map[string]string{
			"Reported":      in.CreatedAt.UTC().Format("2006-01-02 15:04"),
			"Type":          string(in.Type),
			"Severity":      string(in.Severity),
			"Status":        string(in.Status),
			"Highway":       in.Location.Highway,
			"KM":            strconv.FormatFloat(in.Location.Km, 'f', -1, 64),
			"Assigned Team": in.AssignedTeam,
			"Reporter":      in.Reporter.Name,
			"Employee ID":   in.Reporter.EmployeeID,
		})
	}

	data, err := export.Render(format, export.Dataset{
		Title:   "Highway Incident Report",
		Headers: exportHeaders,
		Rows:    rows,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render incident report")
	}

	s.logger.Info("incident report rendered",
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)),
	)

	return &ExportFile{
		Filename:    fmt.Sprintf("incidents-%s.%s", s.now().UTC().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
