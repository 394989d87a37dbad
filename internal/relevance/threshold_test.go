package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
)

func TestPassesThresholds(t *testing.T) {
	prefs := &org.AlertPreferences{
		MinRelevanceScore: 60,
		MinUrgencyScore:   50,
		MaxAlertsPerDay:   5,
		DigestMode:        org.DigestRealtime,
	}

	tests := []struct {
		name        string
		relevance   float64
		urgency     float64
		prefs       *org.AlertPreferences
		wantPass    bool
		wantReason  []string
		avoidReason string
	}{
		{
			name:      "no preferences always passes",
			relevance: 0,
			urgency:   0,
			prefs:     nil,
			wantPass:  true,
		},
		{
			name:        "relevance below minimum",
			relevance:   55,
			urgency:     80,
			prefs:       prefs,
			wantPass:    false,
			wantReason:  []string{"Relevance", "55", "60"},
			avoidReason: "Urgency",
		},
		{
			name:        "both below reports relevance",
			relevance:   10,
			urgency:     5,
			prefs:       prefs,
			wantPass:    false,
			wantReason:  []string{"Relevance", "10", "60"},
			avoidReason: "Urgency",
		},
		{
			name:        "urgency below minimum",
			relevance:   75,
			urgency:     49.5,
			prefs:       prefs,
			wantPass:    false,
			wantReason:  []string{"Urgency", "49.5", "50"},
			avoidReason: "Relevance",
		},
		{
			name:      "exactly at minimums",
			relevance: 60,
			urgency:   50,
			prefs:     prefs,
			wantPass:  true,
		},
		{
			name:      "zero thresholds",
			relevance: 0,
			urgency:   0,
			prefs:     &org.AlertPreferences{DigestMode: org.DigestDaily},
			wantPass:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := PassesThresholds(tt.relevance, tt.urgency, tt.prefs)

			assert.Equal(t, tt.wantPass, v.Passes)
			if tt.wantPass {
				assert.Empty(t, v.Reason)
				return
			}
			for _, want := range tt.wantReason {
				assert.Contains(t, v.Reason, want)
			}
			if tt.avoidReason != "" {
				assert.NotContains(t, v.Reason, tt.avoidReason)
			}
		})
	}
}

func TestPassesThresholds_ReasonText(t *testing.T) {
	prefs := &org.AlertPreferences{MinRelevanceScore: 60, MinUrgencyScore: 50, DigestMode: org.DigestRealtime}

	v := PassesThresholds(55, 80, prefs)

	assert.Equal(t, Verdict{Passes: false, Reason: "Relevance score 55 is below minimum 60"}, v)
}
