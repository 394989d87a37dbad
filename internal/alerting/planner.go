// Package alerting decides whether and when a gated evaluation becomes an
// alert, applying the organization's daily cap and digest mode.
package alerting

import (
	"fmt"
	"time"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

// Delivery is the planned outcome for one evaluation
type Delivery struct {
	Alert     bool      `json:"alert"`
	DeliverAt time.Time `json:"deliver_at,omitzero"`
	Reason    string    `json:"reason,omitempty"`
}

// Plan turns a threshold verdict into a delivery decision. sentToday is the
// number of alerts already planned for the organization since StartOfDay(now).
func Plan(v relevance.Verdict, prefs *org.AlertPreferences, sentToday int, now time.Time) Delivery {
	if !v.Passes {
		return Delivery{Alert: false, Reason: v.Reason}
	}

	if prefs == nil {
		return Delivery{Alert: true, DeliverAt: now}
	}

	if prefs.MaxAlertsPerDay > 0 && sentToday >= prefs.MaxAlertsPerDay {
		return Delivery{
			Alert:  false,
			Reason: fmt.Sprintf("Daily alert limit of %d reached", prefs.MaxAlertsPerDay),
		}
	}

	return Delivery{Alert: true, DeliverAt: NextSlot(prefs.DigestMode, now)}
}

// NextSlot returns when an alert created at now is delivered in the given mode
func NextSlot(mode org.DigestMode, now time.Time) time.Time {
	switch mode {
	case org.DigestHourly:
		return now.Truncate(time.Hour).Add(time.Hour)
	case org.DigestDaily:
		return StartOfDay(now).AddDate(0, 0, 1)
	default:
		return now
	}
}

// StartOfDay returns local midnight of the day containing t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
