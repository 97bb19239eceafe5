package model

import (
	"strings"
	"time"
)

// UnknownGroup is the group key for photos whose location carries no country token.
const UnknownGroup = "UNK"

type Photo struct {
	Filename string     `json:"filename" yaml:"filename"`
	Lat      float64    `json:"lat" yaml:"lat"`
	Lon      float64    `json:"lon" yaml:"lon"`
	Location string     `json:"location,omitempty" yaml:"location,omitempty"`
	DateStr  string     `json:"date_str,omitempty" yaml:"date_str,omitempty"`
	TakenAt  *time.Time `json:"taken_at,omitempty" yaml:"taken_at,omitempty"`
}

type Stats struct {
	TotalKm    float64 `json:"total_km" yaml:"total_km"`
	Countries  int     `json:"countries" yaml:"countries"`
	Days       int     `json:"days" yaml:"days"`
	PhotoCount int     `json:"photo_count" yaml:"photo_count"`
}

// Route is the payload served at /api/route.
type Route struct {
	Photos []Photo `json:"photos" yaml:"photos"`
	Stats  *Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// GroupKey derives the grouping label from a free-text location such as
// "Porto, Portugal": the trimmed token after the last comma.
func GroupKey(location string) string {
	if location == "" {
		return UnknownGroup
	}
	parts := strings.Split(location, ",")
	if len(parts) < 2 {
		return UnknownGroup
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

// DisplayLocation returns the caption for a photo's location.
func (p Photo) DisplayLocation() string {
	if strings.TrimSpace(p.Location) == "" {
		return "Unknown"
	}
	return p.Location
}

// DisplayDate prefers the feed's preformatted date and falls back to TakenAt.
func (p Photo) DisplayDate() string {
	if s := strings.TrimSpace(p.DateStr); s != "" {
		return s
	}
	if p.TakenAt != nil && !p.TakenAt.IsZero() {
		return p.TakenAt.Format("02.01.2006")
	}
	return "Date unknown"
}
