package chat

import "strings"

// MessageType classifies a normalized chat message by its renderer kind.
type MessageType string

const (
	TypeText    MessageType = "text"
	TypePaid    MessageType = "paid"
	TypeSticker MessageType = "sticker"
	TypeSystem  MessageType = "system"
)

// Classify maps a renderer kind key to a message type. Matches are
// case-sensitive substring checks applied in priority order.
func Classify(kind string) MessageType {
	switch {
	case strings.Contains(kind, "Paid"):
		return TypePaid
	case strings.Contains(kind, "Sticker"):
		return TypeSticker
	case strings.Contains(kind, "ViewerEngagement"):
		return TypeSystem
	default:
		return TypeText
	}
}

// Message is one normalized chat replay row. String fields are empty when the
// renderer carried no value; the store maps empty optional fields to NULL.
// Body is a pointer because an empty body and a missing body are distinct: a
// message whose runs render to "" is stored as an empty string, not NULL.
type Message struct {
	ID           string
	SentAbsolute string // ISO-8601 UTC instant, empty when no timestamp
	SentOffset   int64  // seconds from video start
	UserName     string
	UserID       string
	UserLogo     string
	Body         *string
	Donation     string // "<amount 2dp>; <currency>; <color>" for purchases
	Color        string
	Type         MessageType
	Pinned       bool
	Badges       string // ";"-joined uppercase badge icon types, original order
}
