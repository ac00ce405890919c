package snowflake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"17 digits", "12345678901234567", true},
		{"18 digits", "123456789012345678", true},
		{"20 digits max value", "18446744073709551614", true},
		{"16 digits", "1234567890123456", false},
		{"21 digits", "123456789012345678901", false},
		{"not numeric", "12345678901234567a", false},
		{"max uint64 rejected", "18446744073709551615", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}

func TestTimestamp(t *testing.T) {
	// 175928847299117063 >> 22 = 41944705796 ms past the epoch
	got := Timestamp("175928847299117063")
	want := time.UnixMilli(Epoch + 41944705796)
	assert.True(t, got.Equal(want))
}
