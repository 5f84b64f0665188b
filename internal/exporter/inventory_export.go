package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"archivist/internal/model"
	"archivist/internal/parser"
)

// 导出文件中表头所在行（元数据 4 行 + 空行之后）
const InventoryHeaderRow = 6

// BuildInventory 生成可重新导入的清册工作簿
func BuildInventory(info model.InventoryInfo, records []model.CaseRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	meta := [][]interface{}{
		{"Fond", info.FondsName},
		{"Compartiment", info.DepartmentName},
		{"An", info.Year},
		{"Termen de păstrare", RetentionText(info.RetentionTerm)},
	}
	for i := range meta {
		if err := f.SetSheetRow(InventorySheet, cellName(1, i+1), &meta[i]); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write metadata: %w", err)
		}
	}

	header := make([]interface{}, len(parser.Fields))
	for i, field := range parser.Fields {
		header[i] = field.Title()
	}
	if err := f.SetSheetRow(InventorySheet, cellName(1, InventoryHeaderRow), &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		row := recordRow(r)
		if err := f.SetSheetRow(InventorySheet, cellName(1, InventoryHeaderRow+1+i), &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write dosar %d: %w", r.SequenceNumber, err)
		}
	}

	_ = f.SetColWidth(InventorySheet, "A", "A", 18)
	_ = f.SetColWidth(InventorySheet, "B", "B", 22)
	_ = f.SetColWidth(InventorySheet, "C", "C", 60)
	_ = f.SetColWidth(InventorySheet, "D", "G", 14)
	return f, nil
}

// recordRow 按 parser.Fields 的列顺序输出一行；空的可选字段留空
func recordRow(r model.CaseRecord) []interface{} {
	row := make([]interface{}, len(parser.Fields))
	for i, field := range parser.Fields {
		switch field {
		case parser.FieldSequence:
			row[i] = r.SequenceNumber
		case parser.FieldNomenclature:
			row[i] = r.NomenclatureCode
		case parser.FieldContent:
			row[i] = r.Content
		case parser.FieldDateRange:
			row[i] = r.DateRange
		case parser.FieldPageCount:
			if r.PageCount != nil {
				row[i] = *r.PageCount
			}
		case parser.FieldNotes:
			if r.Notes != nil {
				row[i] = *r.Notes
			}
		case parser.FieldBoxNumber:
			if r.BoxNumber != nil {
				row[i] = *r.BoxNumber
			}
		}
	}
	return row
}
