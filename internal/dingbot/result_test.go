package dingbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryResultSucceeded(t *testing.T) {
	tests := []struct {
		name   string
		result DeliveryResult
		want   bool
	}{
		{"ok", DeliveryResult{HTTPStatus: 200, ErrCode: 0}, true},
		{"server error with zero errcode", DeliveryResult{HTTPStatus: 500, ErrCode: 0}, false},
		{"parse failure on 200", DeliveryResult{HTTPStatus: 200, ErrCode: -1}, false},
		{"api error on 200", DeliveryResult{HTTPStatus: 200, ErrCode: 310000}, false},
		{"rejected", DeliveryResult{HTTPStatus: 401, ErrCode: 401}, false},
		{"not sent", NewDeliveryResult(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Succeeded())
		})
	}
}

func TestNewDeliveryResultSentinels(t *testing.T) {
	r := NewDeliveryResult()
	assert.Equal(t, -1, r.HTTPStatus)
	assert.Equal(t, -128, r.ErrCode)
	assert.Empty(t, r.ErrMessage)
}
