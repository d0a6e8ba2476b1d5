package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		expiration time.Time
		want       ExpiryState
	}{
		{"ten days out", now.AddDate(0, 0, 10), ExpiryExpiringSoon},
		{"yesterday", now.AddDate(0, 0, -1), ExpiryExpired},
		{"ninety days out", now.AddDate(0, 0, 90), ExpiryNormal},
		{"thirty days out", now.AddDate(0, 0, 30), ExpiryExpiringSoon},
		{"thirty one days out", now.AddDate(0, 0, 31), ExpiryNormal},
		{"one minute ago", now.Add(-time.Minute), ExpiryExpired},
		{"never set", time.Time{}, ExpiryNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExpiry(tt.expiration, now))
		})
	}
}

func TestRankTrend(t *testing.T) {
	assert.Equal(t, 1, RankTrend(12, 5), "moving from 12 to 5 is an improvement")
	assert.Equal(t, -1, RankTrend(3, 9), "moving from 3 to 9 is a drop")
	assert.Equal(t, 0, RankTrend(7, 7))
	assert.Equal(t, 0, RankTrend(0, 4), "no history means no trend")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "••••", MaskSecret("hunt"))
	assert.Equal(t, "••••••••", MaskSecret("hunter22"))
	assert.Equal(t, "••••••••b3f9", MaskSecret("sk-live-29ab11b3f9"))
}
