/*
Package leave finds approved leaves starting in the next two weeks and
turns them into a digest for managers.

PURPOSE:
  The upcoming-leave finder answers "who is off soon?". It selects leaves
  that lie entirely inside [now, now+14d] and are approved, then projects
  each one into a plain record with an inclusive day count.

INCLUSION RULE:
  start >= now AND end <= now + 14 days AND state == approved

  A leave that straddles either bound is excluded entirely. There is no
  partial-overlap inclusion.

DAY COUNT:
  LeaveDays = whole days between start and end + 1
  A leave from Jan 10 to Jan 12 is 3 days; a same-day leave is 1 day.

SEE ALSO:
  - digest.go: Digest rendering (HTML page and email body)
  - scheduler.go in api/: periodic digest emails
*/
package leave

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/warp/hr-extensions/hr"
)

// Window is how far ahead the finder looks.
const Window = 14 * 24 * time.Hour

// UpcomingLeave is one row of the upcoming-leave list.
type UpcomingLeave struct {
	EmployeeName string
	LeaveDays    int
	StartDate    time.Time
	EndDate      time.Time
}

// Finder selects upcoming approved leaves.
type Finder struct {
	leaves hr.LeaveSearcher
	logger log.FieldLogger
}

// NewFinder creates a finder over the given leave source.
// A nil logger uses the standard logrus logger.
func NewFinder(leaves hr.LeaveSearcher, logger log.FieldLogger) *Finder {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Finder{leaves: leaves, logger: logger}
}

// FindUpcoming returns approved leaves lying entirely within [now, now+Window],
// in the order the source returns them. No matches is an empty list, not an error.
func (f *Finder) FindUpcoming(ctx context.Context, now time.Time) ([]UpcomingLeave, error) {
	until := now.Add(Window)

	leaves, err := f.leaves.SearchLeaves(ctx, Filter(now))
	if err != nil {
		return nil, err
	}

	f.logger.WithFields(log.Fields{
		"count": len(leaves),
		"from":  now.Format(time.RFC3339),
		"until": until.Format(time.RFC3339),
	}).Info("Found upcoming leaves")

	result := Project(leaves)
	for _, r := range result {
		f.logger.WithFields(log.Fields{
			"employee": r.EmployeeName,
			"days":     r.LeaveDays,
		}).Debug("Processing leave")
	}
	return result, nil
}

// Filter is the store-side predicate used by FindUpcoming.
func Filter(now time.Time) hr.LeaveFilter {
	until := now.Add(Window)
	return hr.LeaveFilter{
		StartsOnOrAfter: &now,
		EndsOnOrBefore:  &until,
		State:           hr.LeaveApproved,
	}
}

// Project converts leaves into upcoming-leave rows, preserving order.
func Project(leaves []hr.Leave) []UpcomingLeave {
	result := make([]UpcomingLeave, 0, len(leaves))
	for _, l := range leaves {
		result = append(result, UpcomingLeave{
			EmployeeName: l.EmployeeName,
			LeaveDays:    LeaveDays(l.DateFrom, l.DateTo),
			StartDate:    l.DateFrom,
			EndDate:      l.DateTo,
		})
	}
	return result
}

// LeaveDays is the inclusive number of days covered by a leave.
func LeaveDays(from, to time.Time) int {
	return hr.WholeDaysBetween(from, to) + 1
}
