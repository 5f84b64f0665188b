package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"archivist/internal/model"
)

// 字段限制（与手工录入表单一致）
const (
	MaxSequenceNumber  = 999999
	MaxPageCount       = 999999
	MaxBoxNumber       = 9999
	MaxNomenclatureLen = 100
	MaxContentLen      = 1000
	MaxDateRangeLen    = 100
	MaxNotesLen        = 500
)

// RowExtractor 数据行提取与字段校验
type RowExtractor struct{}

// NewRowExtractor 创建提取器
func NewRowExtractor() *RowExtractor {
	return &RowExtractor{}
}

// Extract 解析表头以下的全部非空行；任一行不合法即整体失败，不返回部分结果
func (e *RowExtractor) Extract(grid Grid, header HeaderResult) ([]model.ImportRow, error) {
	for _, f := range RequiredFields {
		if _, ok := header.Columns.Index(f); !ok {
			return nil, &MissingRequiredFieldError{Row: header.Row + 1, Field: f, ColumnMissing: true}
		}
	}

	var rows []model.ImportRow
	for rowIdx := header.Row + 1; rowIdx < len(grid); rowIdx++ {
		if IsBlankRow(grid[rowIdx]) {
			continue
		}
		row, err := e.parseRow(grid, header.Columns, rowIdx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRow 解析单行
func (e *RowExtractor) parseRow(grid Grid, columns ColumnMap, rowIdx int) (model.ImportRow, error) {
	rowNo := rowIdx + 1
	value := func(f Field) string {
		idx, ok := columns.Index(f)
		if !ok {
			return ""
		}
		return strings.TrimSpace(grid.Cell(rowIdx, idx))
	}

	seqText := value(FieldSequence)
	for _, f := range RequiredFields {
		if value(f) == "" {
			return model.ImportRow{}, &MissingRequiredFieldError{Row: rowNo, Field: f, SequenceHint: seqText}
		}
	}

	row := model.ImportRow{RowNo: rowNo}

	seq, err := parseBoundedInt(rowNo, FieldSequence, seqText, MaxSequenceNumber)
	if err != nil {
		return model.ImportRow{}, err
	}
	row.SequenceNumber = seq

	row.NomenclatureCode = value(FieldNomenclature)
	row.Content = value(FieldContent)
	row.DateRange = value(FieldDateRange)

	if err := checkLength(rowNo, FieldNomenclature, row.NomenclatureCode, MaxNomenclatureLen); err != nil {
		return model.ImportRow{}, err
	}
	if err := checkLength(rowNo, FieldContent, row.Content, MaxContentLen); err != nil {
		return model.ImportRow{}, err
	}
	if err := checkLength(rowNo, FieldDateRange, row.DateRange, MaxDateRangeLen); err != nil {
		return model.ImportRow{}, err
	}

	if v := value(FieldPageCount); v != "" {
		n, err := parseBoundedInt(rowNo, FieldPageCount, v, MaxPageCount)
		if err != nil {
			return model.ImportRow{}, err
		}
		row.PageCount = &n
	}
	if v := value(FieldBoxNumber); v != "" {
		n, err := parseBoundedInt(rowNo, FieldBoxNumber, v, MaxBoxNumber)
		if err != nil {
			return model.ImportRow{}, err
		}
		row.BoxNumber = &n
	}
	if v := value(FieldNotes); v != "" {
		if err := checkLength(rowNo, FieldNotes, v, MaxNotesLen); err != nil {
			return model.ImportRow{}, err
		}
		row.Notes = &v
	}

	return row, nil
}

func parseBoundedInt(rowNo int, f Field, text string, max int) (int, error) {
	n, ok := ParseWholeNumber(text)
	if !ok {
		return 0, &TypeCoercionError{Row: rowNo, Field: f, Value: text}
	}
	if n < 1 || n > max {
		return 0, &FieldLimitError{Row: rowNo, Field: f, Limit: boundedLimit(max)}
	}
	return n, nil
}

func boundedLimit(max int) string {
	return fmt.Sprintf("1..%d", max)
}

func checkLength(rowNo int, f Field, text string, max int) error {
	if utf8.RuneCountInString(text) > max {
		return &FieldLimitError{Row: rowNo, Field: f, Limit: fmt.Sprintf("maxim %d caractere", max)}
	}
	return nil
}
