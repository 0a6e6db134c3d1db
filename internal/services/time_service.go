package services

import (
	"errors"
	"fmt"
	"time"
)

var ErrAmbiguousTime = errors.New("ambiguous local time")

const OperatorZone = "America/Chicago"

// TimeService converts operator-local wall-clock times into UTC instants.
// The canonical representation is always hour-beginning, so published
// hour-ending stamps are shifted back one hour before localization.
type TimeService struct {
	loc *time.Location
}

func NewTimeService(zoneName string) (*TimeService, error) {
	if zoneName == "" {
		return nil, errors.New("zone name is empty")
	}

	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("load location: %w", err)
	}

	return &TimeService{loc: loc}, nil
}

// Normalize localizes a naive timestamp and returns it in UTC. The DST
// flag is source-specific: the caller passes the report's own marker for
// standard time, and the flag only breaks the tie for the repeated hour at
// a fall-back transition. For unambiguous wall-clock times the calendar
// wins regardless of the flag; a wall-clock time inside the spring-forward
// gap fails with ErrAmbiguousTime.
func (s *TimeService) Normalize(local time.Time, hourEnding bool, dstFlag string, standardMarker string) (time.Time, error) {
	if s == nil {
		return time.Time{}, errors.New("time service is nil")
	}
	if s.loc == nil {
		return time.Time{}, errors.New("time zone is nil")
	}

	if hourEnding {
		local = local.Add(-time.Hour)
	}
	isDST := dstFlag != standardMarker

	candidates := localCandidates(local, s.loc)
	switch len(candidates) {
	case 0:
		return time.Time{}, fmt.Errorf("%w: %s does not exist in %s",
			ErrAmbiguousTime, local.Format("2006-01-02 15:04:05"), s.loc)
	case 1:
		return candidates[0].UTC(), nil
	}

	for _, candidate := range candidates {
		if candidate.IsDST() == isDST {
			return candidate.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %s has %d interpretations in %s and the DST flag resolves none",
		ErrAmbiguousTime, local.Format("2006-01-02 15:04:05"), len(candidates), s.loc)
}

// localCandidates finds every instant whose wall clock in loc matches the
// given components. Probing one hour to either side of the normalized
// instant covers both sides of a repeated fall-back hour.
func localCandidates(local time.Time, loc *time.Location) []time.Time {
	base := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), loc)

	var candidates []time.Time
	for _, probe := range []time.Time{base.Add(-time.Hour), base, base.Add(time.Hour)} {
		if !sameWallClock(probe.In(loc), local) {
			continue
		}
		duplicate := false
		for _, existing := range candidates {
			if existing.Equal(probe) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			candidates = append(candidates, probe)
		}
	}

	return candidates
}

func sameWallClock(a time.Time, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute() && a.Second() == b.Second()
}
