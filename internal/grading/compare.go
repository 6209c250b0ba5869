package grading

import (
	"slices"
	"sort"

	"github.com/sqlgram/sqlgram/internal/engine"
)

// CompareResults compares learner rows (got) against reference rows (want)
// using exactly one mode, chosen in this order:
//
//   - CheckRowCount: row counts only.
//   - CheckStructureOnly with both sides non-empty: the sorted column names
//     of each side's first row.
//   - CheckColumns: every learner row must equal some reference row on the
//     listed columns. Several learner rows may match the same reference row.
//   - otherwise: same rows in the same order, each with the same columns in
//     the same order and equal values. Two empty sets are equal.
func CompareResults(got, want engine.QueryResult, cfg ExerciseConfig) bool {
	if cfg.CheckRowCount {
		return got.Len() == want.Len()
	}

	if cfg.CheckStructureOnly && !got.Empty() && !want.Empty() {
		return slices.Equal(sortedColumns(got.Rows[0]), sortedColumns(want.Rows[0]))
	}

	if len(cfg.CheckColumns) > 0 {
		for _, g := range got.Rows {
			if !containsMatch(g, want.Rows, cfg.CheckColumns) {
				return false
			}
		}
		return true
	}

	if got.Len() != want.Len() {
		return false
	}
	for i := range got.Rows {
		if !rowsEqual(got.Rows[i], want.Rows[i]) {
			return false
		}
	}
	return true
}

func sortedColumns(r engine.Row) []string {
	cols := append([]string(nil), r.Columns...)
	sort.Strings(cols)
	return cols
}

func containsMatch(row engine.Row, candidates []engine.Row, columns []string) bool {
	for _, c := range candidates {
		if matchOn(row, c, columns) {
			return true
		}
	}
	return false
}

func matchOn(a, b engine.Row, columns []string) bool {
	for _, col := range columns {
		av, aok := a.Get(col)
		bv, bok := b.Get(col)
		if aok != bok {
			return false
		}
		if aok && !ValuesEqual(av, bv) {
			return false
		}
	}
	return true
}

func rowsEqual(a, b engine.Row) bool {
	if !slices.Equal(a.Columns, b.Columns) {
		return false
	}
	for i := range a.Values {
		if !ValuesEqual(a.Values[i], b.Values[i]) {
			return false
		}
	}
	return true
}

// ValuesEqual is strict equality over cell values. Integers and floats form
// one numeric type and compare by value; text never equals a number and NULL
// only equals NULL.
func ValuesEqual(a, b engine.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	an, aNum := number(a)
	bn, bNum := number(b)
	if aNum || bNum {
		return aNum && bNum && an == bn
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	return aStr && bStr && as == bs
}

func number(v engine.Value) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
