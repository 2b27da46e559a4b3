package models

type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	// Level is the heatmap bucket, 0 (none) to 4 (most).
	Level int `json:"level"`
}

type MonthlyContribution struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type WeekdayContribution struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type Contributions struct {
	TotalContributions int                   `json:"totalContributions"`
	Days               []ContributionDay     `json:"days"`
	Months             []MonthlyContribution `json:"months"`
	Weekdays           []WeekdayContribution `json:"weekdays"`
	Last30Days         []ContributionDay     `json:"last30Days"`
}

// ContributionLevel buckets a daily count for the heatmap.
func ContributionLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 1
	case count <= 6:
		return 2
	case count <= 9:
		return 3
	}
	return 4
}
