package parser

import "go.uber.org/zap"

// HeaderLocator 表头定位器：按内容而非位置识别表头行
type HeaderLocator struct {
	mapper *FieldMapper
	logger *zap.Logger
}

// NewHeaderLocator 创建定位器
func NewHeaderLocator(mapper *FieldMapper, logger *zap.Logger) *HeaderLocator {
	if mapper == nil {
		mapper = NewFieldMapper(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeaderLocator{mapper: mapper, logger: logger}
}

// Locate 自上而下扫描，找到第一个含顺序号列签名（nr + crt|curent）的行，
// 并在该行上建立字段映射。未找到时返回 HeaderNotFoundError。
func (l *HeaderLocator) Locate(grid Grid) (HeaderResult, error) {
	for rowIdx, row := range grid {
		for _, cell := range row {
			field, ok := l.mapper.MatchField(NormalizeHeaderText(cell))
			if !ok || field != FieldSequence {
				continue
			}
			columns := l.mapper.Map(row)
			l.logger.Debug("header row located",
				zap.Int("row", rowIdx+1),
				zap.Int("mapped_columns", len(columns)),
			)
			return HeaderResult{Row: rowIdx, Columns: columns}, nil
		}
	}
	return HeaderResult{}, &HeaderNotFoundError{ScannedRows: len(grid)}
}
