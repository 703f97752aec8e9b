package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	OwnerID string `json:"ownerId"`
	Data    []byte `json:"data"`
}

// Routing keys published by the call service - using consistent
// event/command patterns
const (
	EventRoomCreated  = "room.created"
	EventMemberJoined = "member.joined"
	EventMemberLeft   = "member.left"
	EventRoomExpired  = "room.expired"
	EventRoomDeleted  = "room.deleted"
)
