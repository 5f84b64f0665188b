package importer

import (
	"sort"

	"archivist/internal/model"
)

// ValidateSequence 校验批次顺序号恰为 1..N
// 检查顺序：重复 → 起始值 → 缺口；均只针对批次本身，与已存数据无关
func ValidateSequence(rows []model.ImportRow) error {
	if len(rows) == 0 {
		return &EmptyBatchError{}
	}

	seen := make(map[int]int, len(rows))
	for _, r := range rows {
		seen[r.SequenceNumber]++
	}
	var dups []int
	for n, c := range seen {
		if c > 1 {
			dups = append(dups, n)
		}
	}
	if len(dups) > 0 {
		sort.Ints(dups)
		return &DuplicateSequenceError{Numbers: dups}
	}

	nums := make([]int, 0, len(rows))
	for _, r := range rows {
		nums = append(nums, r.SequenceNumber)
	}
	sort.Ints(nums)

	if nums[0] != 1 {
		return &SequenceStartError{Min: nums[0]}
	}
	for i := 1; i < len(nums); i++ {
		if nums[i]-nums[i-1] != 1 {
			return &SequenceGapError{Current: nums[i-1], Next: nums[i]}
		}
	}
	return nil
}

// NextSequenceNumber 已存案卷的 max+1（空清册为 1）
func NextSequenceNumber(existing []model.CaseRecord) int {
	max := 0
	for _, r := range existing {
		if r.SequenceNumber > max {
			max = r.SequenceNumber
		}
	}
	return max + 1
}

// ValidateNextNumber 手工添加只允许 max(existing)+1
func ValidateNextNumber(existing []model.CaseRecord, seq int) error {
	if want := NextSequenceNumber(existing); seq != want {
		return &NextNumberError{Expected: want, Got: seq}
	}
	return nil
}
