// Package clock converts wall-clock "HH:MM" targets into forward-looking
// delays. Calculations use minute granularity: "now" is truncated to the
// start of its minute, matching how targets are entered.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Delay returns how long until the next occurrence of target ("HH:MM").
// A target earlier than now wraps to the same time tomorrow. The special
// target "24:00" means the upcoming midnight, one full day ahead when now
// is itself midnight.
func Delay(target string, now time.Time) (time.Duration, error) {
	t, err := sinceMidnight(target)
	if err != nil {
		return 0, err
	}

	elapsed := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute

	d := t - elapsed
	if d < 0 {
		// Target already passed today: remainder of today plus the
		// offset from midnight to the target.
		d = (day - elapsed) + t
	}
	return d, nil
}

// UntilMidnight returns the time remaining until the next midnight.
func UntilMidnight(now time.Time) time.Duration {
	d, _ := Delay("24:00", now)
	return d
}

// Interval parses "HH:MM" as a plain duration, for delays measured from
// now rather than against the wall clock.
func Interval(s string) (time.Duration, error) {
	return sinceMidnight(s)
}

// sinceMidnight parses "HH:MM" into an offset from midnight.
// "24:00" is accepted as exactly one day.
func sinceMidnight(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h == 24 && m == 0 {
		return day, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// Valid reports whether s is an acceptable schedule target.
func Valid(s string) bool {
	_, err := sinceMidnight(s)
	return err == nil
}
