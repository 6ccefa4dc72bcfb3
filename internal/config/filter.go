package config

import (
	"slices"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
	"github.com/urfave/cli/v2"

	"github.com/lifeinfocus/focus/internal/timeutil"
)

// FilterConfig narrows stored sessions down to a time range.
type FilterConfig struct {
	Since time.Time
	Until time.Time
	Limit int
}

// getTimeRange returns the start and end time according to the
// specified time period.
func getTimeRange(period timeutil.Period, now time.Time) (start, end time.Time) {
	start = timeutil.RoundToStart(now)

	end = timeutil.RoundToEnd(now)

	//nolint:exhaustive // other cases covered by default
	switch period {
	case timeutil.PeriodToday:
		return
	case timeutil.PeriodYesterday:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
		end = timeutil.RoundToEnd(start)

		return
	case timeutil.PeriodAllTime:
		start = time.Time{}
		return
	default:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
	}

	return
}

// parseDate understands absolute dates as well as phrases such as
// "2 days ago" or "yesterday 9am".
func parseDate(s string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, errInvalidDate.Fmt(s)
	}

	return dt.Time, nil
}

// Filter builds a filter from the --period, --since, --until and --limit
// flags. A period takes precedence over explicit dates. Without any flags the
// filter covers the last seven days.
func Filter(ctx *cli.Context) (*FilterConfig, error) {
	return newFilter(
		ctx.String("period"),
		ctx.String("since"),
		ctx.String("until"),
		ctx.Int("limit"),
		time.Now(),
	)
}

func newFilter(
	periodFlag, sinceFlag, untilFlag string,
	limit int,
	now time.Time,
) (*FilterConfig, error) {
	f := &FilterConfig{Limit: limit}

	period := timeutil.Period(strings.TrimSpace(periodFlag))

	if period != "" {
		if !slices.Contains(timeutil.PeriodCollection, period) {
			return nil, errInvalidPeriod.Fmt(period, periodList())
		}

		f.Since, f.Until = getTimeRange(period, now)

		return f, nil
	}

	if sinceFlag == "" && untilFlag == "" {
		f.Since, f.Until = getTimeRange(timeutil.Period7Days, now)
		return f, nil
	}

	f.Until = now

	if sinceFlag != "" {
		since, err := parseDate(sinceFlag, now)
		if err != nil {
			return nil, err
		}

		f.Since = since
	}

	if untilFlag != "" {
		until, err := parseDate(untilFlag, now)
		if err != nil {
			return nil, err
		}

		f.Until = until
	}

	if f.Until.Before(f.Since) {
		return nil, errInvalidDateRange
	}

	return f, nil
}

func periodList() string {
	names := make([]string, len(timeutil.PeriodCollection))
	for i, p := range timeutil.PeriodCollection {
		names[i] = string(p)
	}

	return strings.Join(names, ", ")
}
