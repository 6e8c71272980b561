package services

import (
	"fmt"
	"time"
)

// CallWindow is a bookable slot for an outbound call
type CallWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScheduleService computes available call windows for the outbound-calling
// workflow: business-hours slots in the lead's timezone, respecting a
// minimum notice period and skipping weekends.
type ScheduleService struct {
	businessStartHour int
	businessEndHour   int
	windowMinutes     int
	minNoticeMinutes  int
}

func NewScheduleService(businessStartHour, businessEndHour, windowMinutes, minNoticeMinutes int) *ScheduleService {
	return &ScheduleService{
		businessStartHour: businessStartHour,
		businessEndHour:   businessEndHour,
		windowMinutes:     windowMinutes,
		minNoticeMinutes:  minNoticeMinutes,
	}
}

// Windows returns the call windows available between now and now+daysAhead
// in the given IANA timezone. Windows start on the hour or half hour within
// business hours, Monday through Friday.
func (s *ScheduleService) Windows(now time.Time, timezone string, daysAhead int) ([]CallWindow, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	earliest := now.Add(time.Duration(s.minNoticeMinutes) * time.Minute).In(location)
	horizon := now.AddDate(0, 0, daysAhead).In(location)

	var windows []CallWindow
	day := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, location)
	for !day.After(horizon) {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			windows = append(windows, s.dayWindows(day, earliest, horizon)...)
		}
		day = day.AddDate(0, 0, 1)
	}

	return windows, nil
}

// dayWindows generates the in-bounds windows for a single day
func (s *ScheduleService) dayWindows(day, earliest, horizon time.Time) []CallWindow {
	var windows []CallWindow

	start := day.Add(time.Duration(s.businessStartHour) * time.Hour)
	dayEnd := day.Add(time.Duration(s.businessEndHour) * time.Hour)

	for slot := start; !slot.After(dayEnd); slot = slot.Add(30 * time.Minute) {
		end := slot.Add(time.Duration(s.windowMinutes) * time.Minute)
		if end.After(dayEnd) {
			break
		}
		if slot.Before(earliest) || slot.After(horizon) {
			continue
		}
		windows = append(windows, CallWindow{Start: slot, End: end})
	}

	return windows
}
