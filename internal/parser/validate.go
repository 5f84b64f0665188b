package parser

import (
	"strings"

	"archivist/internal/model"
)

// ValidateRecord 校验单条手工录入的案卷（与导入行相同的必填与长度规则）
func ValidateRecord(seq int, f model.RecordFields) error {
	required := map[Field]string{
		FieldNomenclature: f.NomenclatureCode,
		FieldContent:      f.Content,
		FieldDateRange:    f.DateRange,
	}
	for _, field := range RequiredFields {
		if v, ok := required[field]; ok && strings.TrimSpace(v) == "" {
			return &MissingRequiredFieldError{Field: field}
		}
	}

	if seq < 1 || seq > MaxSequenceNumber {
		return &FieldLimitError{Field: FieldSequence, Limit: boundedLimit(MaxSequenceNumber)}
	}
	if err := checkLength(0, FieldNomenclature, f.NomenclatureCode, MaxNomenclatureLen); err != nil {
		return err
	}
	if err := checkLength(0, FieldContent, f.Content, MaxContentLen); err != nil {
		return err
	}
	if err := checkLength(0, FieldDateRange, f.DateRange, MaxDateRangeLen); err != nil {
		return err
	}
	if f.PageCount != nil && (*f.PageCount < 1 || *f.PageCount > MaxPageCount) {
		return &FieldLimitError{Field: FieldPageCount, Limit: boundedLimit(MaxPageCount)}
	}
	if f.BoxNumber != nil && (*f.BoxNumber < 1 || *f.BoxNumber > MaxBoxNumber) {
		return &FieldLimitError{Field: FieldBoxNumber, Limit: boundedLimit(MaxBoxNumber)}
	}
	if f.Notes != nil {
		if err := checkLength(0, FieldNotes, *f.Notes, MaxNotesLen); err != nil {
			return err
		}
	}
	return nil
}
