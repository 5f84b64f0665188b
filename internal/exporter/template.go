package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// 模板 Sheet 名称
const (
	SpineTemplateSheet    = "Cotor"
	CoverTemplateSheet    = "Copertă"
	RegistryTemplateSheet = "Registru"
	InventorySheet        = "Dosare"
)

// OpenTemplate 从路径打开模板，并确认包含所需的 Sheet
func OpenTemplate(path string, sheets ...string) (*excelize.File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &TemplateLoadError{Err: errors.New("template path is empty")}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &TemplateLoadError{Path: path, Err: fmt.Errorf("template not found: %w", err)}
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &TemplateLoadError{Path: path, Err: err}
	}
	if err := requireSheets(f, sheets...); err != nil {
		_ = f.Close()
		return nil, &TemplateLoadError{Path: path, Err: err}
	}
	return f, nil
}

func requireSheets(f *excelize.File, sheets ...string) error {
	for _, name := range sheets {
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			return err
		}
		if idx < 0 {
			return fmt.Errorf("sheet %q missing from template", name)
		}
	}
	return nil
}

// NewLabelTemplate 内置标签模板骨架（无外部文件时使用）
func NewLabelTemplate(format SpineFormat) *excelize.File {
	wb := excelize.NewFile()
	_ = wb.SetSheetName("Sheet1", SpineTemplateSheet)
	_, _ = wb.NewSheet(CoverTemplateSheet)

	first, _ := excelize.ColumnNumberToName(format.FirstCol)
	last, _ := excelize.ColumnNumberToName(format.FirstCol + (format.PerPage-1)*format.Stride)
	_ = wb.SetColWidth(SpineTemplateSheet, first, last, format.ColumnWidth)
	_ = wb.SetRowHeight(SpineTemplateSheet, SpineRowContent, 180)
	if style, err := wb.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	}); err == nil {
		_ = wb.SetCellStyle(SpineTemplateSheet, cellName(format.FirstCol, SpineRowSeq), cellName(format.FirstCol+(format.PerPage-1)*format.Stride, SpineRowRetention), style)
	}

	_ = wb.SetColWidth(CoverTemplateSheet, "A", "A", 16)
	_ = wb.SetColWidth(CoverTemplateSheet, "B", "B", 30)
	_ = wb.SetColWidth(CoverTemplateSheet, "C", "C", 3)
	_ = wb.SetColWidth(CoverTemplateSheet, "D", "D", 16)
	_ = wb.SetColWidth(CoverTemplateSheet, "E", "E", 30)

	wb.SetActiveSheet(0)
	return wb
}

// NewRegistryTemplate 内置登记簿模板骨架
func NewRegistryTemplate() *excelize.File {
	wb := excelize.NewFile()
	_ = wb.SetSheetName("Sheet1", RegistryTemplateSheet)
	_ = wb.SetCellValue(RegistryTemplateSheet, "A1", "Registrul de evidență a inventarelor")
	_ = wb.SetSheetRow(RegistryTemplateSheet, cellName(1, RegistryHeaderRow), &registryColumns)
	_ = wb.SetColWidth(RegistryTemplateSheet, "A", "B", 10)
	_ = wb.SetColWidth(RegistryTemplateSheet, "C", "C", 32)
	_ = wb.SetColWidth(RegistryTemplateSheet, "D", "E", 20)
	return wb
}

// render 写出到内存；失败时不返回任何字节
func render(f *excelize.File, kind string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, &DocumentWriteError{Kind: kind, Err: err}
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Sprintf("A%d", row)
	}
	return name
}

func setCellValue(f *excelize.File, sheet, cell string, value interface{}) error {
	return f.SetCellValue(sheet, cell, value)
}
