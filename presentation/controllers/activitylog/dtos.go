package activitylog

import "time"

type ListActivityLogsQuery struct {
	RoomID  string `form:"room_id" binding:"omitempty,max=36"`
	Action  string `form:"action" binding:"omitempty,oneof=created joined left expired deleted"`
	SinceID int64  `form:"since_id" binding:"omitempty,gte=1"`
	Limit   int    `form:"limit" binding:"omitempty,gte=1,lte=500"`
}

type PurgeActivityLogsQuery struct {
	OlderThanDays int `form:"older_than_days" binding:"omitempty,gte=1,lte=3650"`
}

type ActivityLogResponse struct {
	ID               int64     `json:"id"`
	EventID          string    `json:"event_id"`
	RoomID           string    `json:"room_id"`
	Action           string    `json:"action"`
	Timestamp        time.Time `json:"timestamp"`
	ParticipantCount int       `json:"participant_count"`
	IPAddress        *string   `json:"ip_address,omitempty"`
	UserAgentHash    *string   `json:"user_agent_hash,omitempty"`
}

type ListActivityLogsResponse struct {
	Data        []ActivityLogResponse `json:"data"`
	Count       int                   `json:"count"`
	NextSinceID int64                 `json:"next_since_id,omitempty"`
}

type PurgeActivityLogsResponse struct {
	Deleted       int64 `json:"deleted"`
	OlderThanDays int   `json:"older_than_days"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
