package services

import (
	"fmt"
	"sort"
	"time"

	"ghexplorer/internal/github"
	"ghexplorer/internal/models"
)

const dayLayout = "2006-01-02"

// EventWeight is how many contributions an event counts for. A push counts
// each of its commits.
func EventWeight(e github.Event) int {
	if e.Type == "PushEvent" {
		if e.Payload.Size > 0 {
			return e.Payload.Size
		}
		if n := len(e.Payload.Commits); n > 0 {
			return n
		}
	}
	return 1
}

// BuildContributions aggregates events into per-day, per-month and per-weekday
// totals. Days are keyed by UTC date.
func BuildContributions(events []github.Event, now time.Time) models.Contributions {
	perDay := make(map[string]int)
	for _, e := range events {
		if e.CreatedAt.IsZero() {
			continue
		}
		perDay[e.CreatedAt.UTC().Format(dayLayout)] += EventWeight(e)
	}

	dates := make([]string, 0, len(perDay))
	for d := range perDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := models.Contributions{
		Days:       make([]models.ContributionDay, 0, len(dates)),
		Months:     []models.MonthlyContribution{},
		Weekdays:   []models.WeekdayContribution{},
		Last30Days: []models.ContributionDay{},
	}

	var weekdays [7]int
	var seen [7]bool
	cutoff := now.UTC().AddDate(0, 0, -30)
	for _, d := range dates {
		count := perDay[d]
		day := models.ContributionDay{Date: d, Count: count, Level: models.ContributionLevel(count)}
		out.Days = append(out.Days, day)
		out.TotalContributions += count

		t, _ := time.Parse(dayLayout, d)
		month := fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
		if n := len(out.Months); n > 0 && out.Months[n-1].Month == month {
			out.Months[n-1].Count += count
		} else {
			out.Months = append(out.Months, models.MonthlyContribution{Month: month, Count: count})
		}

		weekdays[t.Weekday()] += count
		seen[t.Weekday()] = true

		if !t.Before(cutoff.Truncate(24*time.Hour)) && !t.After(now.UTC()) {
			out.Last30Days = append(out.Last30Days, day)
		}
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if seen[wd] {
			out.Weekdays = append(out.Weekdays, models.WeekdayContribution{Day: wd.String(), Count: weekdays[wd]})
		}
	}
	return out
}
