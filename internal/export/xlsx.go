// Package export renders material spec sheets as XLSX workbooks laid
// out like the plant's paper forms: fixed cell addresses, one sheet per
// material kind.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"go_mes/internal/model"
)

// Exporter writes spec-sheet workbooks into a target directory
type Exporter struct {
	dir string
}

// NewExporter creates an exporter. The directory is created if missing.
func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

// cellValue is one template entry: a fixed cell address plus the value
// renderer for that cell.
type cellValue struct {
	cell  string
	value interface{}
}

// SheetFile renders one material sheet to disk and returns the file path.
func (e *Exporter) SheetFile(sheet *model.MaterialSheet) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const tab = "Spec Sheet"
	f.SetSheetName(f.GetSheetName(0), tab)

	for _, cv := range append(headerCells(sheet), kindCells(sheet)...) {
		if cv.value == nil {
			continue
		}
		if err := f.SetCellValue(tab, cv.cell, cv.value); err != nil {
			return "", fmt.Errorf("failed to set cell %s: %w", cv.cell, err)
		}
	}

	if err := f.SetColWidth(tab, "A", "B", 22); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_%s.xlsx", sheet.Kind, sheet.MaterialCode, uuid.New().String()[:8])
	path := filepath.Join(e.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

func headerCells(s *model.MaterialSheet) []cellValue {
	return []cellValue{
		{"A1", "Material Spec Sheet"},
		{"A2", "Kind"}, {"B2", s.Kind},
		{"A3", "Material Code"}, {"B3", s.MaterialCode},
		{"A4", "Status"}, {"B4", s.Status},
		{"A5", "Supplier"}, {"B5", strVal(s.Supplier)},
		{"A6", "Lot No"}, {"B6", strVal(s.LotNo)},
		{"A7", "Lot Date"}, {"B7", dateVal(s.LotDate)},
		{"A8", "UL File No"}, {"B8", strVal(s.ULFileNo)},
		{"A9", "Created By"}, {"B9", s.CreatedBy},
		{"A10", "Exported"}, {"B10", time.Now().Format("2006-01-02 15:04")},
	}
}

// kindCells returns the measurement block for the sheet's kind, starting
// at row 12 so every kind shares the same header layout.
func kindCells(s *model.MaterialSheet) []cellValue {
	switch s.Kind {
	case model.SheetKindCore:
		return []cellValue{
			{"A12", "Thickness (mm)"}, {"B12", floatVal(s.Thickness)},
			{"A13", "Copper Foil"}, {"B13", strVal(s.CopperFoil)},
			{"A14", "Tg (°C)"}, {"B14", intVal(s.Tg)},
			{"A15", "Dk"}, {"B15", floatVal(s.Dk)},
			{"A16", "Df"}, {"B16", floatVal(s.Df)},
		}
	case model.SheetKindPP:
		return []cellValue{
			{"A12", "Thickness (mm)"}, {"B12", floatVal(s.Thickness)},
			{"A13", "Resin Content (%)"}, {"B13", floatVal(s.ResinContent)},
			{"A14", "Resin Flow (%)"}, {"B14", floatVal(s.ResinFlow)},
			{"A15", "Gel Time (s)"}, {"B15", intVal(s.GelTime)},
		}
	case model.SheetKindNew:
		return []cellValue{
			{"A12", "Qualification Date"}, {"B12", dateVal(s.QualificationDate)},
			{"A13", "Trial Lot Qty"}, {"B13", intVal(s.TrialLotQty)},
			{"A14", "Remark"}, {"B14", strVal(s.Remark)},
		}
	}
	return nil
}

func strVal(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatVal(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func intVal(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func dateVal(p *time.Time) interface{} {
	if p == nil {
		return nil
	}
	return p.Format("2006-01-02")
}
