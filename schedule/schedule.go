// Package schedule resolves the restaurant open/closed status from the
// weekly opening-hours table and a wall-clock instant. The resolver is a
// pure function; callers decide how often to recompute (the storefront
// does it every 60 seconds).
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is one row of the weekly table. Times are "HH:MM" local.
// Close numerically at or before Open means the window spans midnight
// (e.g. 18:00-02:00).
type Day struct {
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"isClosed"`
}

// Week maps time.Weekday (Sunday=0) to the day schedule.
type Week [7]Day

// Status is the resolved open/closed state shown to customers.
type Status struct {
	IsOpen       bool   `json:"isOpen"`
	Message      string `json:"message"`
	NextOpenTime string `json:"nextOpenTime,omitempty"`
}

var dayNames = [7]string{
	"воскресенье", "понедельник", "вторник", "среду", "четверг", "пятницу", "субботу",
}

const inactiveMessage = "Ресторан временно не принимает заказы"

// parseMinutes turns "HH:MM" into minutes since midnight. Malformed
// values resolve to 0 so a broken row behaves as closed-at-midnight
// rather than panicking.
func parseMinutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0
	}
	return h*60 + m
}

// overnight reports whether the day's window wraps past midnight.
func overnight(d Day) bool {
	return !d.IsClosed && parseMinutes(d.Close) <= parseMinutes(d.Open)
}

// Resolve computes the status for the given instant. The open window is
// half-open: the opening minute counts as open, the closing minute as
// closed.
func Resolve(week Week, isActive bool, now time.Time) Status {
	if !isActive {
		return Status{IsOpen: false, Message: inactiveMessage}
	}

	weekday := int(now.Weekday())
	minutes := now.Hour()*60 + now.Minute()

	// Yesterday's overnight window can spill into the small hours of today.
	yesterday := week[(weekday+6)%7]
	if overnight(yesterday) && minutes < parseMinutes(yesterday.Close) {
		return Status{IsOpen: true, Message: fmt.Sprintf("Открыто до %s", yesterday.Close)}
	}

	today := week[weekday]
	if !today.IsClosed {
		openAt := parseMinutes(today.Open)
		closeAt := parseMinutes(today.Close)

		if overnight(today) {
			if minutes >= openAt {
				return Status{IsOpen: true, Message: fmt.Sprintf("Открыто до %s", today.Close)}
			}
		} else if minutes >= openAt && minutes < closeAt {
			return Status{IsOpen: true, Message: fmt.Sprintf("Открыто до %s", today.Close)}
		}

		if minutes < openAt {
			return Status{
				IsOpen:       false,
				Message:      fmt.Sprintf("Закрыто. Откроемся сегодня в %s", today.Open),
				NextOpenTime: today.Open,
			}
		}
	}

	// Today is closed or already past closing: scan forward up to a week.
	for offset := 1; offset <= 7; offset++ {
		day := week[(weekday+offset)%7]
		if day.IsClosed {
			continue
		}
		when := dayNames[(weekday+offset)%7]
		if offset == 1 {
			when = "завтра"
		}
		return Status{
			IsOpen:       false,
			Message:      fmt.Sprintf("Закрыто. Откроемся %s в %s", when, day.Open),
			NextOpenTime: day.Open,
		}
	}

	return Status{IsOpen: false, Message: inactiveMessage}
}
