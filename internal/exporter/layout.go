package exporter

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// 书脊标签在页内的行
const (
	SpineRowSeq       = 2
	SpineRowYear      = 3
	SpineRowContent   = 4
	SpineRowRetention = 5
)

// 封面卡片：每页 5 行 × 2 列
const (
	CoverPerPage       = 10
	CoverColumns       = 2
	RowsPerCard        = 8
	CoverContentRunes  = 120
	coverLeftLabelCol  = 1 // A
	coverRightLabelCol = 4 // D
)

// 卡片内各行相对 baseRow 的偏移
const (
	CardRowDepartment = iota
	CardRowFonds
	CardRowNomenclature
	CardRowSeq
	CardRowContent
	CardRowDateRange
	CardRowRetention
)

// SpineFormat 书脊标签纸张格式
type SpineFormat struct {
	Name         string
	PerPage      int
	FirstCol     int // 1 起的列号
	Stride       int
	ContentRunes int
	ColumnWidth  float64
}

var (
	FormatA4x10 = SpineFormat{Name: "a4-10", PerPage: 10, FirstCol: 2, Stride: 1, ContentRunes: 60, ColumnWidth: 9}
	FormatA4x9  = SpineFormat{Name: "a4-9", PerPage: 9, FirstCol: 2, Stride: 1, ContentRunes: 80, ColumnWidth: 10.5}
)

// LookupSpineFormat 按名称查找格式，空名称为 a4-10
func LookupSpineFormat(name string) (SpineFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatA4x10.Name:
		return FormatA4x10, true
	case FormatA4x9.Name:
		return FormatA4x9, true
	}
	return SpineFormat{}, false
}

// Placement 记录在分页模板中的位置（Page/Slot 从 0 起，Row/Col 从 1 起）
type Placement struct {
	Page int
	Slot int
	Row  int
	Col  int
}

// PlaceSpine 书脊标签位置；Row 为顺序号所在行
func PlaceSpine(index int, f SpineFormat) Placement {
	slot := index % f.PerPage
	return Placement{
		Page: index / f.PerPage,
		Slot: slot,
		Row:  SpineRowSeq,
		Col:  f.FirstCol + slot*f.Stride,
	}
}

// PlaceCover 封面卡片位置；Row 为卡片首行，Col 为标签列（值在 Col+1）
func PlaceCover(index int) Placement {
	slot := index % CoverPerPage
	rowOffset := slot / CoverColumns
	col := coverLeftLabelCol
	if slot%CoverColumns == 1 {
		col = coverRightLabelCol
	}
	return Placement{
		Page: index / CoverPerPage,
		Slot: slot,
		Row:  1 + rowOffset*RowsPerCard,
		Col:  col,
	}
}

// PageCount ceil(n/per)
func PageCount(n, per int) int {
	if n <= 0 || per <= 0 {
		return 0
	}
	return (n + per - 1) / per
}

// RetentionText 保管期限文本：数字 N 为 "N ani"，其余首字母大写
func RetentionText(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	if n, err := strconv.Atoi(term); err == nil {
		if n == 1 {
			return "1 an"
		}
		return strconv.Itoa(n) + " ani"
	}
	r, size := utf8.DecodeRuneInString(term)
	return string(unicode.ToUpper(r)) + term[size:]
}

// Truncate 按字符截断，超长时以 … 结尾
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
