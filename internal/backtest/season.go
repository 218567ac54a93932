package backtest

import (
	"fmt"
	"time"
)

// SeasonForDate derives a season label from a game date. Months at or after
// the cutoff month open a new season; earlier months belong to the season
// started the previous calendar year. The label matches the upstream code
// format, e.g. "20242025".
func SeasonForDate(date time.Time, cutoff time.Month) string {
	startYear := date.Year()
	if date.Month() < cutoff {
		startYear--
	}
	return fmt.Sprintf("%d%d", startYear, startYear+1)
}
