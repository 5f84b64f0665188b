package parser

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadGrid 读取工作簿的第一个 Sheet 为单元格网格
func ReadGrid(r io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return firstSheetGrid(f)
}

// ReadGridFile 从路径读取第一个 Sheet
func ReadGridFile(path string) (Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()
	return firstSheetGrid(f)
}

// firstSheetGrid 数值单元格取原始值（"#,##0" 等格式会改变文本），
// 日期格式的单元格保留显示文本
func firstSheetGrid(f *excelize.File) (Grid, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read raw values of sheet %s: %w", sheet, err)
	}

	for r := range rows {
		if r >= len(raw) {
			break
		}
		for c := range rows[r] {
			if c >= len(raw[r]) || raw[r][c] == rows[r][c] {
				continue
			}
			if _, err := strconv.ParseFloat(raw[r][c], 64); err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			if isDateCell(f, sheet, cell) {
				continue
			}
			rows[r][c] = raw[r][c]
		}
	}
	return Grid(rows), nil
}

// fmtLiteralRe 格式代码中的颜色/条件段与引号文本
var fmtLiteralRe = regexp.MustCompile(`\[[^\]]*\]|"[^"]*"`)

// isDateCell 单元格是否使用日期/时间数字格式
func isDateCell(f *excelize.File, sheet, cell string) bool {
	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		code := fmtLiteralRe.ReplaceAllString(strings.ToLower(*style.CustomNumFmt), "")
		return strings.ContainsAny(code, "dyh")
	}
	switch {
	case style.NumFmt >= 14 && style.NumFmt <= 22,
		style.NumFmt >= 45 && style.NumFmt <= 47:
		return true
	}
	return false
}
