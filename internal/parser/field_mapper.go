package parser

// ColumnRule 列签名规则：规范化后的列名须包含 AllOf 的全部关键词，
// 且（AnyOf 非空时）至少包含 AnyOf 中的一个。
// 新的表头写法只需在规则表中追加关键词。
type ColumnRule struct {
	Field Field
	AllOf []string
	AnyOf []string
}

// Match 判断规范化后的列名是否满足规则
func (r ColumnRule) Match(normalized string) bool {
	if normalized == "" {
		return false
	}
	if len(r.AllOf) == 0 && len(r.AnyOf) == 0 {
		return false
	}
	if !ContainsAll(normalized, normalizeKeywords(r.AllOf)) {
		return false
	}
	if len(r.AnyOf) > 0 && !ContainsAny(normalized, normalizeKeywords(r.AnyOf)) {
		return false
	}
	return true
}

// DefaultColumnRules 默认规则表，按优先级排列
var DefaultColumnRules = []ColumnRule{
	{Field: FieldSequence, AllOf: []string{"nr"}, AnyOf: []string{"crt", "curent"}},
	{Field: FieldNomenclature, AnyOf: []string{"indicativ", "nomenclator"}},
	{Field: FieldContent, AnyOf: []string{"conținut", "continut"}},
	{Field: FieldDateRange, AllOf: []string{"date", "extreme"}},
	{Field: FieldPageCount, AllOf: []string{"file"}, AnyOf: []string{"număr", "numar", "nr"}},
	{Field: FieldNotes, AnyOf: []string{"observații", "observatii"}},
	{Field: FieldBoxNumber, AnyOf: []string{"cutie"}},
}

// FieldMapper 字段映射器
type FieldMapper struct {
	rules []ColumnRule
}

// NewFieldMapper 创建字段映射器；rules 为空时使用默认规则表
func NewFieldMapper(rules []ColumnRule) *FieldMapper {
	if len(rules) == 0 {
		rules = DefaultColumnRules
	}
	return &FieldMapper{rules: rules}
}

// Map 从左到右扫描表头行，生成字段 → 列索引映射。
// 每个单元格取第一条命中的规则；同一字段只保留第一次出现的列。
func (m *FieldMapper) Map(headerRow []string) ColumnMap {
	mapping := make(ColumnMap)
	for idx, raw := range headerRow {
		col := NormalizeHeaderText(raw)
		if col == "" {
			continue
		}
		for _, rule := range m.rules {
			if !rule.Match(col) {
				continue
			}
			if _, taken := mapping[rule.Field]; !taken {
				mapping[rule.Field] = idx
			}
			break
		}
	}
	return mapping
}

// MatchField 返回规范化列名命中的字段
func (m *FieldMapper) MatchField(normalized string) (Field, bool) {
	for _, rule := range m.rules {
		if rule.Match(normalized) {
			return rule.Field, true
		}
	}
	return "", false
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if n := NormalizeHeaderText(kw); n != "" {
			out = append(out, n)
		}
	}
	return out
}
