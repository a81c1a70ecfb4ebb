package types

import "time"

type SelectionSnapshot struct {
	Server     string        `json:"server"`
	ImageCount int           `json:"image_count"`
	Current    int           `json:"current"`
	Selections map[int][]int `json:"selections,omitempty"`
	SavedAt    time.Time     `json:"saved_at"`
}
