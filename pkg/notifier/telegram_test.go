package notifier

import (
	"context"
	"testing"

	"opentalk/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "e164", phone: "+79991112233", want: "+7 (***) ***-22-33"},
		{name: "no plus", phone: "79991112233", want: "+7 (***) ***-22-33"},
		{name: "us number", phone: "+14155550142", want: "+1 (***) ***-01-42"},
		{name: "too short", phone: "+123", want: "***"},
		{name: "empty", phone: "", want: "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPhone(tt.phone))
		})
	}
}

func TestTelegramSink_Unconfigured(t *testing.T) {
	sink := NewTelegramSink(utils.TelegramConfig{}, zap.NewNop())

	err := sink.SendCode(context.Background(), "+79991112233", "123456")
	assert.Error(t, err)
}
