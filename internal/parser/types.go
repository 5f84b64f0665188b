package parser

// Field 案卷字段（取值即数据库列名）
type Field string

const (
	FieldSequence     Field = "nr_crt"
	FieldNomenclature Field = "indicativ_nomenclator"
	FieldContent      Field = "continut"
	FieldDateRange    Field = "date_extreme"
	FieldPageCount    Field = "numar_file"
	FieldNotes        Field = "observatii"
	FieldBoxNumber    Field = "nr_cutie"
)

// Fields 导出列顺序
var Fields = []Field{
	FieldSequence,
	FieldNomenclature,
	FieldContent,
	FieldDateRange,
	FieldPageCount,
	FieldNotes,
	FieldBoxNumber,
}

// RequiredFields 必填字段
var RequiredFields = []Field{
	FieldSequence,
	FieldNomenclature,
	FieldContent,
	FieldDateRange,
}

var fieldTitles = map[Field]string{
	FieldSequence:     "Nr. crt",
	FieldNomenclature: "Indicativ nomenclator",
	FieldContent:      "Conținut",
	FieldDateRange:    "Date extreme",
	FieldPageCount:    "Număr file",
	FieldNotes:        "Observații",
	FieldBoxNumber:    "Nr. cutie",
}

// Title 字段在表格中的标准列名
func (f Field) Title() string {
	if t, ok := fieldTitles[f]; ok {
		return t
	}
	return string(f)
}

// Grid 原始单元格网格（行 × 列，行优先）
type Grid [][]string

// Cell 安全读取单元格，越界返回空串
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// ColumnMap 字段 → 列索引（0 起）
type ColumnMap map[Field]int

// Index 获取字段所在列
func (m ColumnMap) Index(f Field) (int, bool) {
	idx, ok := m[f]
	return idx, ok
}

// HeaderResult 表头定位结果
type HeaderResult struct {
	Row     int       `json:"row"` // 表头所在行索引（0 起）
	Columns ColumnMap `json:"columns"`
}
