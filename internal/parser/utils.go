package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	// groupedRe 千位分组写法，同一数字内只用一种分隔符
	groupedRe = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$|^-?\d{1,3}(?:\.\d{3})+$`)
)

// NormalizeHeaderText 规范化表头文本：去首尾空白、小写、去除变音符号、压缩空白
// 例如 "  Număr   FILE\n" → "numar file"，"Observații" → "observatii"
func NormalizeHeaderText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = foldDiacritics(text)
	return spaceRe.ReplaceAllString(text, " ")
}

func foldDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// ContainsAll 检查字符串是否包含全部关键词
func ContainsAll(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsBlankRow 整行为空（仅空白）
func IsBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseWholeNumber 将文本转换为整数，接受 "12"、"12.0"、"12,0"。
// 分隔符后恰为三位数字时视为千位分隔："1,000"、"1.000"、"2,500" → 1000、1000、2500
func ParseWholeNumber(text string) (int, bool) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	if groupedRe.MatchString(s) {
		s = strings.NewReplacer(",", "", ".", "").Replace(s)
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if math.Abs(f-math.Round(f)) > 1e-9 || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Round(f)), true
}
