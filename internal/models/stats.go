package models

// TypeCount is a per-incident-type tally.
type TypeCount struct {
	Type  IncidentType `db:"type" json:"type"`
	Count int          `db:"count" json:"count"`
}

// HighwayCount is a per-highway tally, returned busiest-first.
type HighwayCount struct {
	Highway string `db:"highway" json:"highway"`
	Count   int    `db:"count" json:"count"`
}

// DayCount is a per-calendar-day tally, date formatted YYYY-MM-DD.
type DayCount struct {
	Date  string `db:"day" json:"date"`
	Count int    `db:"count" json:"count"`
}

// IncidentStats is the admin dashboard aggregate, computed fresh on every
// call over the full unscoped incident set.
type IncidentStats struct {
	TotalIncidents    int            `json:"totalIncidents"`
	PendingIncidents  int            `json:"pendingIncidents"`
	ResolvedIncidents int            `json:"resolvedIncidents"`
	CriticalIncidents int            `json:"criticalIncidents"`
	ByType            []TypeCount    `json:"byType"`
	ByHighway         []HighwayCount `json:"byHighway"`
	Last7Days         []DayCount     `json:"last7Days"`
}
