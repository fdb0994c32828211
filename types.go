package pulseboard

import (
	"context"
	"time"
)

// RegionStats holds the latest published figures for one area.
type RegionStats struct {
	AreaName      string `json:"area_name"`
	SevenDayCases int64  `json:"seven_day_cases"`
	HospitalCases int64  `json:"hospital_cases"`
	TotalDeaths   int64  `json:"total_deaths"`
}

// Article is one headline shown in the news panel. A placeholder entry
// has an empty title and the configured no-articles message as body.
type Article struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ScheduledUpdate is one pending refresh as shown on the dashboard.
type ScheduledUpdate struct {
	Title      string    `json:"title"`
	TargetTime string    `json:"target_time"`
	Repeat     bool      `json:"repeat"`
	Stats      bool      `json:"stats"`
	News       bool      `json:"news"`
	Content    string    `json:"content"`
	FiresAt    time.Time `json:"fires_at"`
}

// ScheduleRequest describes a refresh the user wants to add.
type ScheduleRequest struct {
	Title string
	// At is the wall-clock target "HH:MM". Empty means the configured
	// base update interval from now.
	At     string
	Repeat bool
	Stats  bool
	News   bool
}

// Snapshot is everything one page render needs, captured atomically.
type Snapshot struct {
	Title    string            `json:"title"`
	Image    string            `json:"image,omitempty"`
	Location string            `json:"location"`
	National RegionStats       `json:"national"`
	Local    RegionStats       `json:"local"`
	Articles []Article         `json:"articles"`
	Updates  []ScheduledUpdate `json:"updates"`
}

// StatsSource fetches the national and local figures in one call.
type StatsSource interface {
	Latest(ctx context.Context) (national, local RegionStats, err error)
}

// NewsSource fetches the full current result set, most relevant first.
type NewsSource interface {
	Articles(ctx context.Context) ([]Article, error)
}
