package exporter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"archivist/internal/model"
)

var coverCardLabels = [...]string{
	CardRowDepartment:   "Compartiment",
	CardRowFonds:        "Fond",
	CardRowNomenclature: "Indicativ",
	CardRowSeq:          "Nr. dosar",
	CardRowContent:      "Conținut",
	CardRowDateRange:    "Date extreme",
	CardRowRetention:    "Termen păstrare",
}

// SpinePageName 第 page 页（0 起）书脊 Sheet 名
func SpinePageName(page int) string {
	return fmt.Sprintf("%s %d", SpineTemplateSheet, page+1)
}

// CoverPageName 第 page 页（0 起）封面 Sheet 名
func CoverPageName(page int) string {
	return fmt.Sprintf("%s %d", CoverTemplateSheet, page+1)
}

// BuildLabels 在模板上生成书脊与封面标签页，完成后删除模板 Sheet
func BuildLabels(f *excelize.File, info model.InventoryInfo, records []model.CaseRecord, format SpineFormat) error {
	if len(records) == 0 {
		return &NoRecordsError{InventarID: info.ID}
	}

	sorted := make([]model.CaseRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})

	if err := addPages(f, SpineTemplateSheet, PageCount(len(sorted), format.PerPage), SpinePageName); err != nil {
		return err
	}
	if err := addPages(f, CoverTemplateSheet, PageCount(len(sorted), CoverPerPage), CoverPageName); err != nil {
		return err
	}

	retention := RetentionText(info.RetentionTerm)
	for i, r := range sorted {
		if err := writeSpine(f, PlaceSpine(i, format), r, info.Year, retention, format.ContentRunes); err != nil {
			return err
		}
		if err := writeCover(f, PlaceCover(i), r, info, retention); err != nil {
			return err
		}
	}

	for _, name := range []string{SpineTemplateSheet, CoverTemplateSheet} {
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("failed to remove template sheet %s: %w", name, err)
		}
	}
	if idx, err := f.GetSheetIndex(SpinePageName(0)); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return nil
}

// addPages 复制模板 Sheet 生成 pages 个页面
func addPages(f *excelize.File, template string, pages int, name func(int) string) error {
	from, err := f.GetSheetIndex(template)
	if err != nil || from < 0 {
		return &TemplateLoadError{Err: fmt.Errorf("sheet %q missing from template", template)}
	}
	for p := 0; p < pages; p++ {
		to, err := f.NewSheet(name(p))
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name(p), err)
		}
		if err := f.CopySheet(from, to); err != nil {
			return fmt.Errorf("failed to copy template to %s: %w", name(p), err)
		}
	}
	return nil
}

func writeSpine(f *excelize.File, pl Placement, r model.CaseRecord, year int, retention string, runes int) error {
	sheet := SpinePageName(pl.Page)
	values := []struct {
		row   int
		value interface{}
	}{
		{SpineRowSeq, fmt.Sprintf("Nr. %d", r.SequenceNumber)},
		{SpineRowYear, year},
		{SpineRowContent, Truncate(r.Content, runes)},
		{SpineRowRetention, retention},
	}
	for _, v := range values {
		if err := setCellValue(f, sheet, cellName(pl.Col, v.row), v.value); err != nil {
			return fmt.Errorf("failed to write spine %d: %w", r.SequenceNumber, err)
		}
	}
	return nil
}

func writeCover(f *excelize.File, pl Placement, r model.CaseRecord, info model.InventoryInfo, retention string) error {
	sheet := CoverPageName(pl.Page)
	values := [...]interface{}{
		CardRowDepartment:   info.DepartmentName,
		CardRowFonds:        info.FondsName,
		CardRowNomenclature: r.NomenclatureCode,
		CardRowSeq:          r.SequenceNumber,
		CardRowContent:      Truncate(r.Content, CoverContentRunes),
		CardRowDateRange:    r.DateRange,
		CardRowRetention:    retention,
	}
	for offset, v := range values {
		row := pl.Row + offset
		if err := setCellValue(f, sheet, cellName(pl.Col, row), coverCardLabels[offset]); err != nil {
			return fmt.Errorf("failed to write cover %d: %w", r.SequenceNumber, err)
		}
		if err := setCellValue(f, sheet, cellName(pl.Col+1, row), v); err != nil {
			return fmt.Errorf("failed to write cover %d: %w", r.SequenceNumber, err)
		}
	}
	return nil
}
