package notify_queue

import (
	"context"
	"fmt"

	"dingbot/internal/dingbot"
)

// Kind names the message variant carried by a NotificationMessage.
type Kind string

const (
	KindText     Kind = "text"
	KindMarkdown Kind = "markdown"
	KindPicture  Kind = "picture"
)

// NotificationMessage is the queued form of a dingbot.Message.
type NotificationMessage struct {
	RequestID string   `json:"request_id"`
	Kind      Kind     `json:"kind"`
	Content   string   `json:"content,omitempty"`
	Title     string   `json:"title,omitempty"`
	Text      string   `json:"text,omitempty"`
	URL       string   `json:"url,omitempty"`
	Caption   string   `json:"caption,omitempty"`
	AtAll     bool     `json:"at_all"`
	AtMobiles []string `json:"at_mobiles,omitempty"`
	AtUserIDs []string `json:"at_user_ids,omitempty"`
}

// ToMessage maps the queued form back to a dingbot.Message.
func (n NotificationMessage) ToMessage() (dingbot.Message, error) {
	at := dingbot.At{All: n.AtAll, Mobiles: n.AtMobiles, UserIDs: n.AtUserIDs}

	switch n.Kind {
	case KindText:
		return dingbot.Text{Content: n.Content, At: at}, nil
	case KindMarkdown:
		return dingbot.Markdown{Title: n.Title, Text: n.Text, At: at}, nil
	case KindPicture:
		return dingbot.Picture{URL: n.URL, Caption: n.Caption, At: at}, nil
	default:
		return nil, &dingbot.ValidationError{Field: "kind", Reason: fmt.Sprintf("%q is not one of text, markdown, picture", n.Kind)}
	}
}

// NotifyConsumer delivers queued notifications.
type NotifyConsumer interface {
	// ProcessMessage sends one notification. It always returns true: a
	// notification is attempted once and never redelivered.
	ProcessMessage(ctx context.Context, message NotificationMessage) bool

	// Enqueue validates and publishes a notification, returning the queue message ID.
	Enqueue(ctx context.Context, message NotificationMessage) (string, error)
}
