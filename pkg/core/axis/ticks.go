package axis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/chartcore/pkg/core/plot"
)

func numberTicks(s plot.Scale, values []float64, format string) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(values))
	for _, v := range values {
		px, ok := s.Map(v)
		if !ok {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Position: px, Label: label(v, format)})
	}
	return ticks
}

// label formats a tick value. Numbers use format as a fmt verb when it has
// one and otherwise print with up to ten significant digits.
func label(v any, format string) string {
	if f, ok := plot.Number(v); ok {
		if strings.Contains(format, "%") {
			return fmt.Sprintf(format, f)
		}
		return strconv.FormatFloat(f, 'g', 10, 64)
	}
	if t, ok := v.(time.Time); ok {
		if format == "" {
			format = time.RFC3339
		}
		return t.Format(format)
	}
	return plot.Key(v)
}

// timeStep is one candidate spacing for time ticks.
type timeStep struct {
	d      time.Duration
	months int
	layout string
}

var timeSteps = []timeStep{
	{d: time.Second, layout: "15:04:05"},
	{d: 5 * time.Second, layout: "15:04:05"},
	{d: 15 * time.Second, layout: "15:04:05"},
	{d: 30 * time.Second, layout: "15:04:05"},
	{d: time.Minute, layout: "15:04"},
	{d: 5 * time.Minute, layout: "15:04"},
	{d: 15 * time.Minute, layout: "15:04"},
	{d: 30 * time.Minute, layout: "15:04"},
	{d: time.Hour, layout: "15:04"},
	{d: 3 * time.Hour, layout: "15:04"},
	{d: 6 * time.Hour, layout: "Jan 2 15:04"},
	{d: 12 * time.Hour, layout: "Jan 2 15:04"},
	{d: 24 * time.Hour, layout: "Jan 2"},
	{d: 48 * time.Hour, layout: "Jan 2"},
	{d: 7 * 24 * time.Hour, layout: "Jan 2"},
	{months: 1, layout: "Jan 2006"},
	{months: 3, layout: "Jan 2006"},
	{months: 12, layout: "2006"},
	{months: 60, layout: "2006"},
	{months: 120, layout: "2006"},
}

// timeTicks places ticks on calendar boundaries, choosing the finest step
// that yields at most count ticks.
func timeTicks(s plot.Scale, lo, hi time.Time, count int, format string) []plot.Tick {
	step := timeSteps[len(timeSteps)-1]
	for _, st := range timeSteps {
		if len(stepTimes(lo, hi, st, count+1)) <= count {
			step = st
			break
		}
	}

	layout := step.layout
	if format != "" {
		layout = format
	}
	times := stepTimes(lo, hi, step, 0)
	ticks := make([]plot.Tick, 0, len(times))
	for _, t := range times {
		px, _ := s.Map(t)
		ticks = append(ticks, plot.Tick{Value: t, Position: px, Label: t.Format(layout)})
	}
	return ticks
}

// stepTimes lists the step boundaries in [lo, hi], stopping after limit
// entries when limit is positive.
func stepTimes(lo, hi time.Time, st timeStep, limit int) []time.Time {
	var out []time.Time
	t := floor(lo, st)
	for t.Before(lo) {
		t = advance(t, st)
	}
	for !t.After(hi) {
		out = append(out, t)
		if limit > 0 && len(out) >= limit {
			break
		}
		t = advance(t, st)
	}
	return out
}

func floor(t time.Time, st timeStep) time.Time {
	if st.months == 0 {
		return t.Truncate(st.d)
	}
	y := t.Year()
	m := 1
	if st.months < 12 {
		m = int(t.Month()) - (int(t.Month())-1)%st.months
	} else {
		years := st.months / 12
		y -= y % years
	}
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, t.Location())
}

func advance(t time.Time, st timeStep) time.Time {
	if st.months == 0 {
		return t.Add(st.d)
	}
	return t.AddDate(0, st.months, 0)
}
