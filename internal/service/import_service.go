package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/opusnote/opusnote-api/internal/models"
	"github.com/opusnote/opusnote-api/internal/repository"
)

// ErrInvalidWorkbook indicates the uploaded file is not a readable XLSX
// spreadsheet.
var ErrInvalidWorkbook = errors.New("invalid spreadsheet file")

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Spreadsheet headers recognised by the import mapping.
const (
	colFirstName  = "First Name"
	colLastName   = "Last Name"
	colBook       = "Book"
	colBookPage   = "Current book page"
	colPieces     = "Current Pieces"
	colSkillLevel = "Skill Level"
	colAge        = "Age"
	colInstrument = "Instrument"
	colGoals      = "Goals"
)

// ImportService parses a roster spreadsheet and bulk-inserts its rows.
type ImportService interface {
	// ImportXLSX creates one student per non-empty data row and returns the
	// created count. Imported rows may be sparse; they bypass the
	// required-field validation of the normal creation path.
	ImportXLSX(ctx context.Context, file io.Reader) (int, error)
}

type importService struct {
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewImportService constructs the spreadsheet import service.
func NewImportService(students repository.StudentRepository, logger zerolog.Logger) ImportService {
	return &importService{
		students: students,
		logger:   logger.With().Str("component", "import_service").Logger(),
	}
}

func (s *importService) ImportXLSX(ctx context.Context, file io.Reader) (int, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}

	if !mimetype.Detect(raw).Is(xlsxMIME) {
		return 0, ErrInvalidWorkbook
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(rows) < 2 {
		return 0, nil
	}

	headers := rows[0]
	s.logger.Info().Strs("headers", headers).Msg("importing spreadsheet")

	imported := 0
	for _, row := range rows[1:] {
		cells := rowMap(headers, row)
		if allEmpty(row) {
			continue
		}

		if _, err := s.students.Create(ctx, studentFromRow(cells)); err != nil {
			return imported, err
		}
		imported++
	}

	s.logger.Info().Int("count", imported).Msg("spreadsheet import complete")
	return imported, nil
}

func studentFromRow(cells map[string]string) models.Student {
	name := strings.TrimSpace(cells[colFirstName] + " " + cells[colLastName])
	if name == "" {
		name = "Unnamed Student"
	}

	assignments := strings.TrimSpace(fmt.Sprintf("%s (p. %s)\nPieces: %s",
		orNA(cells[colBook]), orNA(cells[colBookPage]), orNA(cells[colPieces])))

	instrument := cells[colInstrument]
	if instrument == "" {
		instrument = "Unknown"
	}

	return models.Student{
		Name:               name,
		Age:                parseAge(cells[colAge]),
		Instrument:         instrument,
		SkillLevel:         mapSkillLevel(cells[colSkillLevel]),
		CurrentAssignments: assignments,
		CurrentGoals:       cells[colGoals],
	}
}

// mapSkillLevel translates the spreadsheet's numeric-or-textual skill code to
// one of the four roster labels. Anything unrecognised lands on Intermediate.
func mapSkillLevel(value string) string {
	code := strings.ToLower(strings.TrimSpace(value))
	if code != "" {
		code = code[:1]
	}
	switch code {
	case "1":
		return "Beginner"
	case "2":
		return "Early Intermediate"
	case "3":
		return "Intermediate"
	case "4":
		return "Advanced"
	default:
		return "Intermediate"
	}
}

func parseAge(value string) *int {
	age, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &age
}

func rowMap(headers, row []string) map[string]string {
	cells := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			cells[strings.TrimSpace(header)] = strings.TrimSpace(row[i])
		}
	}
	return cells
}

func allEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}
