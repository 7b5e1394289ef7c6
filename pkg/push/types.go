package push

// Message kinds pushed to clients. The kind and target are contractual;
// payload wording is presentation.
const (
	KindMatch   = "match"
	KindRequest = "request"
	KindSystem  = "system"
)

// PushMessage is the fan-out request handed to the dispatcher.
type PushMessage struct {
	Kind      string
	SenderID  int64
	TargetIDs []int64
	Payload   string
}

// ClientMessage is the wire format written to a live channel.
type ClientMessage struct {
	Kind     string `json:"kind"`
	SenderID int64  `json:"sender_id,omitempty"`
	Payload  string `json:"payload,omitempty"`
}

// PushTask is one delivery unit consumed by a dispatcher worker.
type PushTask struct {
	UserID int64
	Msg    ClientMessage
}
