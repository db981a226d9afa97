package datasetadapter

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/internal"
	"nomengine/ports"
)

// ExcelDomain maps one analysis domain onto a sheet of the workbook
type ExcelDomain struct {
	DomainSpec
	Sheet         string
	NameColumn    string
	OutcomeColumn string
}

// ExcelSource reads entities from an .xlsx workbook or a .csv file. Each
// domain binds to one sheet (CSV files hold a single domain regardless of
// the configured sheet name). Rows are read in sheet order, so sampling is
// reproducible for an unchanged file.
type ExcelSource struct {
	filePath string
	fileType string // "xlsx" or "csv"
	domains  map[core.DomainKey]ExcelDomain
	logger   *internal.Logger
}

var _ ports.DatasetPort = (*ExcelSource)(nil)

// NewExcelSource builds a reader over the given file. The file is opened per
// Load call, not held open.
func NewExcelSource(filePath string, domains map[core.DomainKey]ExcelDomain, logger *internal.Logger) *ExcelSource {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &ExcelSource{
		filePath: filePath,
		fileType: fileType,
		domains:  domains,
		logger:   logger.With("excel"),
	}
}

// Load reads the domain's sheet, parses name/outcome pairs, and draws the
// seeded sample. Rows with an unparsable outcome are skipped and counted.
func (s *ExcelSource) Load(ctx context.Context, domain core.DomainKey, sampleSize int, seed int64) ([]dataset.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, ok := s.domains[domain]
	if !ok {
		return nil, core.NewDataUnavailableError(domain, fmt.Errorf("domain not mapped to a sheet"))
	}
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil, core.NewDataUnavailableError(domain, fmt.Errorf("file not found: %s", s.filePath))
	}

	var rows [][]string
	var err error
	switch s.fileType {
	case "csv":
		rows, err = s.readCSVRows()
	default:
		rows, err = s.readSheetRows(cfg.Sheet)
	}
	if err != nil {
		return nil, core.NewDataUnavailableError(domain, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s needs a header row and at least one data row", core.ErrEmptyDataset, s.filePath)
	}

	nameIdx, outcomeIdx, err := resolveColumns(rows[0], cfg.NameColumn, cfg.OutcomeColumn)
	if err != nil {
		return nil, core.NewDataUnavailableError(domain, err)
	}

	entities := make([]dataset.Entity, 0, len(rows)-1)
	skipped := 0
	for i, row := range rows[1:] {
		if nameIdx >= len(row) || outcomeIdx >= len(row) {
			skipped++
			continue
		}
		name := strings.TrimSpace(row[nameIdx])
		outcome, parseErr := strconv.ParseFloat(strings.TrimSpace(row[outcomeIdx]), 64)
		if name == "" || parseErr != nil {
			skipped++
			continue
		}
		entities = append(entities, dataset.Entity{
			ID:      core.EntityID(fmt.Sprintf("%s-%d", domain, i)),
			Domain:  domain,
			RawName: name,
			Outcome: outcome,
		})
	}
	if skipped > 0 {
		s.logger.Warn("domain %s: skipped %d rows with missing name or unparsable outcome", domain, skipped)
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: no usable rows for domain %s", core.ErrEmptyDataset, domain)
	}

	s.logger.Debug("domain %s: %d rows read from %s", domain, len(entities), s.filePath)
	return sampleWithoutReplacement(entities, sampleSize, seed), nil
}

// OutcomeKind reports the configured kind, continuous for unmapped domains
func (s *ExcelSource) OutcomeKind(domain core.DomainKey) dataset.OutcomeKind {
	return s.domains[domain].outcomeKind()
}

// MinSampleSize reports the configured minimum, the default for unmapped domains
func (s *ExcelSource) MinSampleSize(domain core.DomainKey) int {
	return s.domains[domain].minSample()
}

func (s *ExcelSource) readSheetRows(sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (s *ExcelSource) readCSVRows() ([][]string, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// resolveColumns matches the configured headers case-insensitively. An empty
// configured name falls back to "name" / "outcome".
func resolveColumns(header []string, nameCol, outcomeCol string) (int, int, error) {
	if nameCol == "" {
		nameCol = "name"
	}
	if outcomeCol == "" {
		outcomeCol = "outcome"
	}
	nameIdx, outcomeIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case strings.ToLower(nameCol):
			nameIdx = i
		case strings.ToLower(outcomeCol):
			outcomeIdx = i
		}
	}
	if nameIdx < 0 {
		return 0, 0, fmt.Errorf("name column %q not found in header", nameCol)
	}
	if outcomeIdx < 0 {
		return 0, 0, fmt.Errorf("outcome column %q not found in header", outcomeCol)
	}
	return nameIdx, outcomeIdx, nil
}
