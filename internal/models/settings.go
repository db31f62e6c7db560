package models

type Settings struct {
	ID                int64  `json:"id"`
	Department        string `json:"department"`
	IsQueueingEnabled string `json:"is_queueing_enabled"`
	OpenTime          string `json:"open_time"`  // format: "HH:MM:SS"
	CloseTime         string `json:"close_time"` // format: "HH:MM:SS"
	MarqueeText       string `json:"marquee_text"`
}

type UpdateSettingsRequest struct {
	IsQueueingEnabled string `json:"is_queueing_enabled" validate:"omitempty,oneof=y n"`
	OpenTime          string `json:"open_time" validate:"omitempty"`
	CloseTime         string `json:"close_time" validate:"omitempty"`
	MarqueeText       string `json:"marquee_text" validate:"omitempty,max=500"`
}
