package models

import "time"

var WaterActivities = []string{"swim", "dive", "shower", "rain", "other"}

func ValidWaterActivity(a string) bool {
	for _, v := range WaterActivities {
		if v == a {
			return true
		}
	}
	return false
}

type WaterUsage struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	ItemID          string    `json:"item_id" db:"item_id"`
	UsedOn          Date      `json:"used_on" db:"used_on"`
	Activity        string    `json:"activity" db:"activity"`
	DurationMinutes *int      `json:"duration_minutes,omitempty" db:"duration_minutes"`
	DepthM          *float64  `json:"depth_m,omitempty" db:"depth_m"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type WaterResult struct {
	Usage   WaterUsage `json:"usage"`
	Warning string     `json:"warning,omitempty"`
}
