package dto

import (
	"time"

	notify "dingbot/internal/consumer/notify_queue/iface"
	"dingbot/internal/dingbot"
)

// Mentions is embedded in every notify request.
type Mentions struct {
	AtAll     bool     `json:"at_all"`
	AtMobiles []string `json:"at_mobiles,omitempty"`
	AtUserIDs []string `json:"at_user_ids,omitempty"`
}

func (m Mentions) At() dingbot.At {
	return dingbot.At{All: m.AtAll, Mobiles: m.AtMobiles, UserIDs: m.AtUserIDs}
}

// SendTextRequest represents request to send a text message
type SendTextRequest struct {
	Content string `json:"content" binding:"required"`
	Mentions
}

// SendMarkdownRequest represents request to send a markdown message
type SendMarkdownRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
	Mentions
}

// SendPictureRequest represents request to send an image link
type SendPictureRequest struct {
	URL     string `json:"url" binding:"required,url"`
	Caption string `json:"caption"`
	Mentions
}

// EnqueueRequest represents request to deliver a notification asynchronously
type EnqueueRequest struct {
	Kind    string `json:"kind" binding:"required,oneof=text markdown picture"`
	Content string `json:"content"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Mentions
}

// ToNotification converts the request to its queued form.
func (r EnqueueRequest) ToNotification(requestID string) notify.NotificationMessage {
	return notify.NotificationMessage{
		RequestID: requestID,
		Kind:      notify.Kind(r.Kind),
		Content:   r.Content,
		Title:     r.Title,
		Text:      r.Text,
		URL:       r.URL,
		Caption:   r.Caption,
		AtAll:     r.AtAll,
		AtMobiles: r.AtMobiles,
		AtUserIDs: r.AtUserIDs,
	}
}

// DeliveryResponse mirrors dingbot.DeliveryResult
type DeliveryResponse struct {
	HTTPStatus int    `json:"http_status"`
	ErrCode    int    `json:"errcode"`
	ErrMessage string `json:"errmsg"`
	Succeeded  bool   `json:"succeeded"`
}

func NewDeliveryResponse(r dingbot.DeliveryResult) DeliveryResponse {
	return DeliveryResponse{
		HTTPStatus: r.HTTPStatus,
		ErrCode:    r.ErrCode,
		ErrMessage: r.ErrMessage,
		Succeeded:  r.Succeeded(),
	}
}

// QuotaExceeded is returned as error data when the send quota is used up
type QuotaExceeded struct {
	Limit   int       `json:"limit"`
	ResetAt time.Time `json:"reset_at"`
}

// EnqueueResponse represents response after queueing a notification
type EnqueueResponse struct {
	RequestID string `json:"request_id"`
	MessageID string `json:"message_id"`
}
