package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrDuplicateSequence = errors.New("duplicate sequence number")
	ErrSequenceStart     = errors.New("sequence does not start at one")
	ErrSequenceGap       = errors.New("sequence gap")
	ErrEmptyBatch        = errors.New("empty batch")
	ErrNextNumber        = errors.New("unexpected next sequence number")
	ErrPersistedRead     = errors.New("persisted read failure")
	ErrWriteFailure      = errors.New("write failure")
	ErrInputRead         = errors.New("input read failure")
)

// DuplicateSequenceError 批次内顺序号重复（列出全部重复值，升序）
type DuplicateSequenceError struct {
	Numbers []int
}

func (e *DuplicateSequenceError) Error() string {
	parts := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("numerele curente se repetă în fișier: %s", strings.Join(parts, ", "))
}

func (e *DuplicateSequenceError) Unwrap() error { return ErrDuplicateSequence }

// SequenceStartError 最小顺序号不是 1
type SequenceStartError struct {
	Min int
}

func (e *SequenceStartError) Error() string {
	return fmt.Sprintf("numerotarea trebuie să înceapă de la 1, dar cel mai mic Nr. crt din fișier este %d", e.Min)
}

func (e *SequenceStartError) Unwrap() error { return ErrSequenceStart }

// SequenceGapError 顺序号不连续（第一处缺口）
type SequenceGapError struct {
	Current int
	Next    int
}

func (e *SequenceGapError) Error() string {
	return fmt.Sprintf("numerotarea are o întrerupere: după Nr. crt %d urmează %d", e.Current, e.Next)
}

func (e *SequenceGapError) Unwrap() error { return ErrSequenceGap }

// EmptyBatchError 表头以下没有数据行
type EmptyBatchError struct{}

func (e *EmptyBatchError) Error() string {
	return "fișierul nu conține niciun dosar sub rândul de antet"
}

func (e *EmptyBatchError) Unwrap() error { return ErrEmptyBatch }

// NextNumberError 手工添加时顺序号不是 max+1
type NextNumberError struct {
	Expected int
	Got      int
}

func (e *NextNumberError) Error() string {
	return fmt.Sprintf("numărul curent %d nu este valid; următorul număr disponibil este %d", e.Got, e.Expected)
}

func (e *NextNumberError) Unwrap() error { return ErrNextNumber }

// PersistedReadError 读取已存案卷失败
type PersistedReadError struct {
	InventarID string
	Err        error
}

func (e *PersistedReadError) Error() string {
	return fmt.Sprintf("dosarele existente ale inventarului nu au putut fi citite: %v", e.Err)
}

func (e *PersistedReadError) Unwrap() []error { return []error{ErrPersistedRead, e.Err} }

// WriteFailureError 对账写入失败；Sequence 为失败行的顺序号
type WriteFailureError struct {
	Sequence int
	Op       string // insert/update
	Err      error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("scrierea dosarului cu Nr. crt %d a eșuat (%s): %v", e.Sequence, e.Op, e.Err)
}

func (e *WriteFailureError) Unwrap() []error { return []error{ErrWriteFailure, e.Err} }

// InputReadError 上传文件无法作为工作簿读取
type InputReadError struct {
	Err error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("fișierul nu a putut fi citit ca registru Excel: %v", e.Err)
}

func (e *InputReadError) Unwrap() []error { return []error{ErrInputRead, e.Err} }
