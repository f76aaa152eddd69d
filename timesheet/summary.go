package timesheet

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// GroupBy selects the summary dimension.
type GroupBy string

const (
	GroupByProject  GroupBy = "project"
	GroupByEmployee GroupBy = "employee"
)

var ErrInvalidGroupBy = errors.New("invalid group by")

// SummaryLine totals the rows sharing one key. Key is nil for rows
// without a value in the grouped column.
type SummaryLine struct {
	Key        *int64
	Lines      int
	Amount     decimal.Decimal
	UnitAmount decimal.Decimal
}

// Summarize totals amount and time spent per group, in order of first appearance.
func Summarize(rows []Row, by GroupBy) ([]SummaryLine, error) {
	var keyOf func(Row) *int64
	switch by {
	case GroupByProject:
		keyOf = func(r Row) *int64 { return r.ProjectID }
	case GroupByEmployee:
		keyOf = func(r Row) *int64 { return r.EmployeeID }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroupBy, by)
	}

	const nilKey = int64(-1)
	index := make(map[int64]int)
	result := []SummaryLine{}
	for _, r := range rows {
		k := keyOf(r)
		mapKey := nilKey
		if k != nil {
			mapKey = *k
		}

		i, ok := index[mapKey]
		if !ok {
			i = len(result)
			index[mapKey] = i
			result = append(result, SummaryLine{Key: k, Amount: decimal.Zero, UnitAmount: decimal.Zero})
		}
		result[i].Lines++
		result[i].Amount = result[i].Amount.Add(r.Amount)
		result[i].UnitAmount = result[i].UnitAmount.Add(r.UnitAmount)
	}
	return result, nil
}
