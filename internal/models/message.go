package models

type MessageType int

const (
	Program MessageType = iota
)

// Message is a line the client itself shows (banner, hints), as opposed to
// an exchange with the backend.
type Message struct {
	Content string
	Type    MessageType
}
