package dingbot

const (
	// StatusNotSent is the HTTP status of a result whose request never got a response.
	StatusNotSent = -1
	// ErrCodeNotParsed is the error code of a result with no parsed response.
	ErrCodeNotParsed = -128
	// ErrCodeFailed marks transport and response-parse failures.
	ErrCodeFailed = -1

	ParseFailureMessage = "failed to parse response"
)

// DeliveryResult is the outcome of one send.
type DeliveryResult struct {
	HTTPStatus int    `json:"http_status"`
	ErrCode    int    `json:"errcode"`
	ErrMessage string `json:"errmsg"`
}

// NewDeliveryResult returns a result in the "not yet sent" state.
func NewDeliveryResult() DeliveryResult {
	return DeliveryResult{
		HTTPStatus: StatusNotSent,
		ErrCode:    ErrCodeNotParsed,
	}
}

// Succeeded reports whether the server accepted the message.
func (r DeliveryResult) Succeeded() bool {
	return r.ErrCode == 0 && r.HTTPStatus == 200
}
