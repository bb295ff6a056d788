package models

import "time"

// ChannelBinding associates one chat channel with one back-end project.
// A channel maps to at most one project; a project may be bound to many channels.
type ChannelBinding struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channel_id"`
	TeamID       string    `json:"team_id"`
	ProjectID    string    `json:"project_id"`
	ConfiguredBy string    `json:"configured_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
