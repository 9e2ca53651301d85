package internal

import (
	"math"
	"sort"
)

type Status string

const (
	StatusCompleted  Status = "COMPLETED"
	StatusIncomplete Status = "INCOMPLETE"
	StatusMissing    Status = "MISSING"
)

// DefaultWeeklyThreshold is a standard full-time week.
const DefaultWeeklyThreshold = 40.0

// WeekStatus maps the hours logged for a week to its completion status.
// The threshold itself counts as completed.
func WeekStatus(logged, threshold float64) Status {
	switch {
	case logged <= 0:
		return StatusMissing
	case logged < threshold:
		return StatusIncomplete
	default:
		return StatusCompleted
	}
}

// WeekTotals sums hours per week number, rounded to hundredths of an hour.
func WeekTotals(entries []TimesheetEntry) map[int]float64 {
	totals := make(map[int]float64)
	for _, e := range entries {
		totals[e.WeekNumber] += e.Hours
	}
	for week, sum := range totals {
		totals[week] = roundHours(sum)
	}
	return totals
}

// WithStatus fills Status on every entry from the totals of its week.
func WithStatus(entries []TimesheetEntry, threshold float64) []TimesheetEntry {
	totals := WeekTotals(entries)
	for i := range entries {
		entries[i].Status = WeekStatus(totals[entries[i].WeekNumber], threshold)
	}
	return entries
}

// SummarizeWeeks returns one summary per week present in entries, ordered by week.
func SummarizeWeeks(entries []TimesheetEntry, threshold float64) []WeekSummary {
	totals := WeekTotals(entries)
	counts := make(map[int]int, len(totals))
	for _, e := range entries {
		counts[e.WeekNumber]++
	}
	weeks := make([]WeekSummary, 0, len(totals))
	for week, hours := range totals {
		weeks = append(weeks, WeekSummary{
			WeekNumber: week,
			Hours:      hours,
			Entries:    counts[week],
			Status:     WeekStatus(hours, threshold),
		})
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekNumber < weeks[j].WeekNumber
	})
	return weeks
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
