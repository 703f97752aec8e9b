package messaging

// RoomEventData is the payload the call service publishes for room
// lifecycle events.
type RoomEventData struct {
	RoomID           string `json:"roomId"`
	ParticipantCount int    `json:"participantCount"`
	IPAddress        string `json:"ipAddress,omitempty"`
	UserAgent        string `json:"userAgent,omitempty"`
}
