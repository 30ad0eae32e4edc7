package models

import "time"

// Notice represents one legal publication extracted from an email message.
// A single email may carry several numbered publications; each becomes its
// own Notice sharing the message UID.
type Notice struct {
	UID        uint32
	From       string
	Subject    string
	Body       string
	ReceivedAt time.Time
	PubIndex   int
	PubTotal   int
	TraceID    string
}
