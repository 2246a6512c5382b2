package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/dto"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
	"github.com/noah-isme/sma-absensi-api/pkg/export"
)

type recapProvider interface {
	TeacherRecap(ctx context.Context, query dto.RecapQuery) (*dto.TeacherRecapResponse, bool, error)
	StudentRecap(ctx context.Context, classID string) (*dto.StudentRecapResponse, bool, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders recaps into downloadable CSV or PDF files.
type ExportService struct {
	recaps recapProvider
	csv    datasetRenderer
	pdf    datasetRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(recaps recapProvider, csv, pdf datasetRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{recaps: recaps, csv: csv, pdf: pdf, logger: logger}
}

// TeacherRecap renders the teacher recap of the active semester.
func (s *ExportService) TeacherRecap(ctx context.Context, format string) (*ExportFile, error) {
	f, err := parseFormat(format)
	if err != nil {
		return nil, err
	}
	res, _, err := s.recaps.TeacherRecap(ctx, dto.RecapQuery{})
	if err != nil {
		return nil, err
	}

	headers := []string{"No", "Nama Guru", "Hari Efektif", "Terjadwal", "Hadir", "Terlambat", "Alpa", "Hari Ini"}
	rows := make([]map[string]string, 0, len(res.Summaries))
	for i, summary := range res.Summaries {
		rows = append(rows, map[string]string{
			"No":           strconv.Itoa(i + 1),
			"Nama Guru":    displayName(summary.Name, summary.PersonID),
			"Hari Efektif": strconv.Itoa(res.EffectiveDays),
			"Terjadwal":    strconv.Itoa(summary.Total),
			"Hadir":        strconv.Itoa(summary.Present),
			"Terlambat":    strconv.Itoa(summary.Late),
			"Alpa":         strconv.Itoa(summary.Absent),
			"Hari Ini":     summary.Today,
		})
	}
	dataset := export.Dataset{
		Title:   fmt.Sprintf("Rekap Kehadiran Guru %s (%s s.d. %s)", res.Semester.Name, res.Semester.StartDate, res.Semester.EndDate),
		Headers: headers,
		Rows:    rows,
	}
	return s.render(f, dataset, fmt.Sprintf("rekap_guru_%s_%s", res.Semester.Name, res.Today))
}

// StudentRecap renders the class recap of the active semester.
func (s *ExportService) StudentRecap(ctx context.Context, classID, format string) (*ExportFile, error) {
	f, err := parseFormat(format)
	if err != nil {
		return nil, err
	}
	res, _, err := s.recaps.StudentRecap(ctx, classID)
	if err != nil {
		return nil, err
	}

	headers := []string{"No", "Nama Siswa", "Pertemuan", "Hadir", "Sakit", "Izin", "Alpa", "Hari Ini"}
	rows := make([]map[string]string, 0, len(res.Summaries))
	for i, summary := range res.Summaries {
		rows = append(rows, map[string]string{
			"No":         strconv.Itoa(i + 1),
			"Nama Siswa": displayName(summary.Name, summary.PersonID),
			"Pertemuan":  strconv.Itoa(summary.Total),
			"Hadir":      strconv.Itoa(summary.Present),
			"Sakit":      strconv.Itoa(summary.Sick),
			"Izin":       strconv.Itoa(summary.Leave),
			"Alpa":       strconv.Itoa(summary.Absent),
			"Hari Ini":   summary.Today,
		})
	}
	dataset := export.Dataset{
		Title:   fmt.Sprintf("Rekap Kehadiran Siswa %s", res.Semester.Name),
		Headers: headers,
		Rows:    rows,
	}
	return s.render(f, dataset, fmt.Sprintf("rekap_siswa_%s_%s", classID, res.Today))
}

func (s *ExportService) render(f export.Format, dataset export.Dataset, base string) (*ExportFile, error) {
	renderer := s.csv
	if f == export.FormatPDF {
		renderer = s.pdf
	}
	body, err := renderer.Render(dataset)
	if err != nil {
		s.logger.Error("render export failed", zap.String("format", string(f)), zap.Error(err))
		return nil, internalError(err, "render export")
	}
	return &ExportFile{
		Filename:    sanitizeFilename(base) + "." + string(f),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}

func parseFormat(raw string) (export.Format, error) {
	f := export.Format(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		f = export.FormatCSV
	}
	if !f.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	return f, nil
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
