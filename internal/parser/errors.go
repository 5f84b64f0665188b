package parser

import (
	"errors"
	"fmt"
)

var (
	ErrHeaderNotFound       = errors.New("header not found")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTypeCoercion         = errors.New("type coercion failed")
	ErrFieldLimit           = errors.New("field out of range")
)

// HeaderNotFoundError 未找到表头行
type HeaderNotFoundError struct {
	ScannedRows int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("nu a fost găsit rândul de antet: niciunul dintre cele %d rânduri nu conține coloana „Nr. crt”", e.ScannedRows)
}

func (e *HeaderNotFoundError) Unwrap() error { return ErrHeaderNotFound }

// MissingRequiredFieldError 必填字段缺失（整列缺失或某行为空）
type MissingRequiredFieldError struct {
	Row           int    // 表格行号（1 起）
	Field         Field
	SequenceHint  string // 该行顺序号单元格原文，可能为空
	ColumnMissing bool
}

func (e *MissingRequiredFieldError) Error() string {
	if e.ColumnMissing {
		return fmt.Sprintf("coloana obligatorie „%s” lipsește din antet (rândul %d)", e.Field.Title(), e.Row)
	}
	if e.Row <= 0 {
		return fmt.Sprintf("câmpul obligatoriu „%s” este gol", e.Field.Title())
	}
	if e.SequenceHint != "" {
		return fmt.Sprintf("rândul %d (Nr. crt %s): câmpul obligatoriu „%s” este gol", e.Row, e.SequenceHint, e.Field.Title())
	}
	return fmt.Sprintf("rândul %d: câmpul obligatoriu „%s” este gol", e.Row, e.Field.Title())
}

func (e *MissingRequiredFieldError) Unwrap() error { return ErrMissingRequiredField }

// TypeCoercionError 数值字段无法转换
type TypeCoercionError struct {
	Row   int
	Field Field
	Value string
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("rândul %d: valoarea „%s” din coloana „%s” nu este un număr întreg", e.Row, e.Value, e.Field.Title())
}

func (e *TypeCoercionError) Unwrap() error { return ErrTypeCoercion }

// FieldLimitError 字段超出允许范围（长度或数值）
type FieldLimitError struct {
	Row   int
	Field Field
	Limit string
}

func (e *FieldLimitError) Error() string {
	if e.Row <= 0 {
		return fmt.Sprintf("câmpul „%s” depășește limita admisă (%s)", e.Field.Title(), e.Limit)
	}
	return fmt.Sprintf("rândul %d: câmpul „%s” depășește limita admisă (%s)", e.Row, e.Field.Title(), e.Limit)
}

func (e *FieldLimitError) Unwrap() error { return ErrFieldLimit }
