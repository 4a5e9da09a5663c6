//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Message is an inter-agency message. Depending on the endpoint the backend
// embeds full sender/receiver objects or only their ids.
type Message struct {
	ID          int64     `json:"id"`
	Sender      *User     `json:"sender,omitempty"`
	Receiver    *User     `json:"receiver,omitempty"`
	SenderID    int64     `json:"senderId,omitempty"`
	ReceiverID  int64     `json:"receiverId,omitempty"`
	Subject     string    `json:"subject"`
	Content     string    `json:"content"`
	SentAt      Timestamp `json:"sentAt"`
	IsEncrypted bool      `json:"isEncrypted"`
	IsRead      bool      `json:"isRead"`
}

// From returns the sender id from whichever representation is present.
func (m Message) From() int64 {
	if m.Sender != nil {
		return m.Sender.ID
	}
	return m.SenderID
}

// To returns the receiver id from whichever representation is present.
func (m Message) To() int64 {
	if m.Receiver != nil {
		return m.Receiver.ID
	}
	return m.ReceiverID
}

// SenderName is the sender's display name when embedded.
func (m Message) SenderName() string {
	if m.Sender == nil {
		return ""
	}
	return m.Sender.DisplayName()
}

// MessageInput is the payload for sending a message.
type MessageInput struct {
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
}

// DefaultSubject is used for quick replies sent without a subject.
const DefaultSubject = "Direct Message"
