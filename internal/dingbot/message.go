package dingbot

import (
	"time"
	"unicode/utf8"
)

// PictureTitleLayout formats the title of picture messages (YYYY/MM/DD HH:MM:SS).
const PictureTitleLayout = "2006/01/02 15:04:05"

// Message is one of Text, Markdown or Picture.
type Message interface {
	isMessage()
}

// At selects who gets mentioned. Mobiles and UserIDs are optional.
type At struct {
	All     bool
	Mobiles []string
	UserIDs []string
}

// Text is a plain text message.
type Text struct {
	Content string
	At      At
}

// Markdown is a markdown message; Title shows up in the conversation list.
type Markdown struct {
	Title string
	Text  string
	At    At
}

// Picture is sent as markdown embedding the image, titled with the send time.
type Picture struct {
	URL     string
	Caption string
	At      At
}

func (Text) isMessage()     {}
func (Markdown) isMessage() {}
func (Picture) isMessage()  {}

type wireMessage struct {
	MsgType  string        `json:"msgtype"`
	Text     *wireText     `json:"text,omitempty"`
	Markdown *wireMarkdown `json:"markdown,omitempty"`
	At       wireAt        `json:"at"`
}

type wireText struct {
	Content string `json:"content"`
}

type wireMarkdown struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type wireAt struct {
	IsAtAll   bool     `json:"isAtAll"`
	AtMobiles []string `json:"atMobiles,omitempty"`
	AtUserIDs []string `json:"atUserIds,omitempty"`
}

// encodeMessage validates msg and maps it to its wire shape. now is only used by Picture.
func encodeMessage(msg Message, now time.Time) (wireMessage, error) {
	switch m := msg.(type) {
	case Text:
		if err := requireText("text.content", m.Content); err != nil {
			return wireMessage{}, err
		}
		at, err := encodeAt(m.At)
		if err != nil {
			return wireMessage{}, err
		}
		return wireMessage{
			MsgType: "text",
			Text:    &wireText{Content: m.Content},
			At:      at,
		}, nil
	case Markdown:
		if err := requireText("markdown.title", m.Title); err != nil {
			return wireMessage{}, err
		}
		if err := requireText("markdown.text", m.Text); err != nil {
			return wireMessage{}, err
		}
		at, err := encodeAt(m.At)
		if err != nil {
			return wireMessage{}, err
		}
		return wireMessage{
			MsgType:  "markdown",
			Markdown: &wireMarkdown{Title: m.Title, Text: m.Text},
			At:       at,
		}, nil
	case Picture:
		if err := requireText("picture.url", m.URL); err != nil {
			return wireMessage{}, err
		}
		if !utf8.ValidString(m.Caption) {
			return wireMessage{}, invalid("picture.caption", "is not valid UTF-8")
		}
		md := PictureMarkdown(m, now)
		return encodeMessage(md, now)
	case nil:
		return wireMessage{}, invalid("message", "is nil")
	default:
		return wireMessage{}, invalid("message", "has an unsupported type")
	}
}

// PictureMarkdown renders a picture as the markdown message that is actually posted.
func PictureMarkdown(p Picture, now time.Time) Markdown {
	title := now.Local().Format(PictureTitleLayout)
	text := title + "\n![pic](" + p.URL + ")"
	if p.Caption != "" {
		text += "\n" + p.Caption
	}
	return Markdown{Title: title, Text: text, At: p.At}
}

func encodeAt(at At) (wireAt, error) {
	for _, m := range at.Mobiles {
		if err := requireText("at.mobiles", m); err != nil {
			return wireAt{}, err
		}
	}
	for _, id := range at.UserIDs {
		if err := requireText("at.user_ids", id); err != nil {
			return wireAt{}, err
		}
	}
	return wireAt{
		IsAtAll:   at.All,
		AtMobiles: at.Mobiles,
		AtUserIDs: at.UserIDs,
	}, nil
}

func requireText(field, s string) error {
	if s == "" {
		return invalid(field, "is empty")
	}
	if !utf8.ValidString(s) {
		return invalid(field, "is not valid UTF-8")
	}
	return nil
}

// Validate reports the ValidationError Send would return for msg, if any.
func Validate(msg Message) error {
	_, err := encodeMessage(msg, time.Now())
	return err
}
