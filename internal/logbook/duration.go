package logbook

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const ongoingToken = "ongoing"

// Duration is either a whole number of minutes or the ongoing marker used for
// work that has not been quantified yet. The zero value is zero minutes.
type Duration struct {
	minutes int
	ongoing bool
}

// Ongoing is the marker for time that is excluded from every total.
var Ongoing = Duration{ongoing: true}

// Minutes returns a Duration of n minutes. Negative values clamp to zero.
func Minutes(n int) Duration {
	if n < 0 {
		n = 0
	}
	return Duration{minutes: n}
}

var componentPattern = regexp.MustCompile(`^(\d+)\s*([hm])`)

// ParseDuration accepts "1h 30m", "30m 1h", "2h", "45m", "1h30m" or
// "ongoing" (any case).
func ParseDuration(text string) (Duration, error) {
	rest := strings.TrimSpace(text)
	if rest == "" {
		return Duration{}, fmt.Errorf("%w: empty", ErrInvalidDurationFormat)
	}
	if strings.EqualFold(rest, ongoingToken) {
		return Ongoing, nil
	}

	var (
		total        int
		seenH, seenM bool
	)
	lower := strings.ToLower(rest)
	for lower != "" {
		matches := componentPattern.FindStringSubmatch(lower)
		if matches == nil {
			return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDurationFormat, text)
		}
		n, err := strconv.Atoi(matches[1])
		if err != nil {
			return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDurationFormat, text)
		}
		switch matches[2] {
		case "h":
			if seenH {
				return Duration{}, fmt.Errorf("%w: repeated hour component in %q", ErrInvalidDurationFormat, text)
			}
			seenH = true
			if n > (math.MaxInt-total)/60 {
				return Duration{}, fmt.Errorf("%w: %q is too long", ErrInvalidDurationFormat, text)
			}
			total += n * 60
		case "m":
			if seenM {
				return Duration{}, fmt.Errorf("%w: repeated minute component in %q", ErrInvalidDurationFormat, text)
			}
			seenM = true
			if n > math.MaxInt-total {
				return Duration{}, fmt.Errorf("%w: %q is too long", ErrInvalidDurationFormat, text)
			}
			total += n
		}
		lower = strings.TrimLeft(lower[len(matches[0]):], " \t")
	}
	return Duration{minutes: total}, nil
}

// MustParseDuration is ParseDuration for literals known to be valid.
func MustParseDuration(text string) Duration {
	d, err := ParseDuration(text)
	if err != nil {
		panic(err)
	}
	return d
}

// Minutes returns the minute count. ok is false for the ongoing marker.
func (d Duration) Minutes() (minutes int, ok bool) {
	if d.ongoing {
		return 0, false
	}
	return d.minutes, true
}

// IsOngoing reports whether d is the ongoing marker.
func (d Duration) IsOngoing() bool {
	return d.ongoing
}

// Add sums two durations, saturating at math.MaxInt minutes. Ongoing
// absorbs: callers that want totals must skip ongoing values instead of
// relying on Add.
func (d Duration) Add(other Duration) Duration {
	if d.ongoing || other.ongoing {
		return Ongoing
	}
	if d.minutes > math.MaxInt-other.minutes {
		return Duration{minutes: math.MaxInt}
	}
	return Duration{minutes: d.minutes + other.minutes}
}

// Equal reports whether both durations hold the same value.
func (d Duration) Equal(other Duration) bool {
	return d == other
}

// String renders "1h 30m", "2h", "45m", "0m" or "ongoing".
func (d Duration) String() string {
	if d.ongoing {
		return ongoingToken
	}
	h, m := d.minutes/60, d.minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// Hours returns the duration in fractional hours; ongoing is zero.
func (d Duration) Hours() float64 {
	if d.ongoing {
		return 0
	}
	return float64(d.minutes) / 60
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
