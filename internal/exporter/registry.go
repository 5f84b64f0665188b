package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"archivist/internal/model"
)

// 登记簿布局
const (
	RegistryFondsCell    = "A2"
	RegistryHeaderRow    = 3
	RegistryDataStartRow = 4
	registryLastCol      = 5 // E
)

var registryColumns = []interface{}{"Nr. crt", "An", "Compartiment", "Număr dosare", "Termen de păstrare"}

// BuildRegistry 在模板上填写全宗的清册登记簿（按年份升序），并重算 Sheet 使用范围
func BuildRegistry(f *excelize.File, fonds model.Fonds, entries []model.RegistryEntry) error {
	sheet := RegistryTemplateSheet
	if err := requireSheets(f, sheet); err != nil {
		return &TemplateLoadError{Err: err}
	}

	if err := setCellValue(f, sheet, RegistryFondsCell, "Fond: "+fonds.Name); err != nil {
		return fmt.Errorf("failed to write fond name: %w", err)
	}

	for i, e := range entries {
		row := []interface{}{i + 1, e.Year, e.DepartmentName, e.RecordCount, RetentionText(e.RetentionTerm)}
		if err := f.SetSheetRow(sheet, cellName(1, RegistryDataStartRow+i), &row); err != nil {
			return fmt.Errorf("failed to write registry row %d: %w", i+1, err)
		}
	}

	// 追加行后必须更新 dimension，否则部分阅读器看不到末尾的行；
	// 模板自带的额外列或页脚也要包含在内
	lastRow := RegistryDataStartRow + len(entries) - 1
	if lastRow < RegistryHeaderRow {
		lastRow = RegistryHeaderRow
	}
	lastCol := registryLastCol
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read registry extent: %w", err)
	}
	if len(rows) > lastRow {
		lastRow = len(rows)
	}
	for _, r := range rows {
		if len(r) > lastCol {
			lastCol = len(r)
		}
	}
	if err := f.SetSheetDimension(sheet, "A1:"+cellName(lastCol, lastRow)); err != nil {
		return fmt.Errorf("failed to set registry dimension: %w", err)
	}
	return nil
}
