package service

import (
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/repository"
)

const dateLayout = "2006-01-02"

// parsePeriod turns inclusive YYYY-MM-DD bounds into a repository window.
// The upper bound covers the whole "to" day.
func parsePeriod(from, to string) (repository.Period, error) {
	var p repository.Period
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, time.Local)
		if err != nil {
			return p, invalid("from", "must be a date in YYYY-MM-DD format")
		}
		p.From = &t
	}
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, time.Local)
		if err != nil {
			return p, invalid("to", "must be a date in YYYY-MM-DD format")
		}
		until := t.AddDate(0, 0, 1)
		p.Until = &until
	}
	if p.From != nil && p.Until != nil && !p.From.Before(*p.Until) {
		return p, invalid("from", "must not be after to")
	}
	return p, nil
}

// periodLabel renders the window the way report headers print it.
func periodLabel(from, to string) string {
	if from == "" && to == "" {
		return ""
	}
	if from == "" {
		from = "Start"
	}
	if to == "" {
		to = "End"
	}
	return "Date Range: " + from + " to " + to
}
