package amqp

import (
	"testing"
	"time"

	"finledger/internal/core"
)

func TestAlertFiredMessageJSON(t *testing.T) {
	threshold := core.FromCents(10000)
	rule := &core.AlertRule{
		ID: 12, OwnerID: 3, Name: "low checking",
		Type: core.MinimumBalance, AccountID: 5,
		Threshold: &threshold, NotifyEmail: true,
	}
	firedAt := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	msg := NewAlertFiredMessage(rule, "low checking: account balance 95.00 is below minimum 100.00", firedAt)
	if msg.MessageID == "" {
		t.Fatal("message id must be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := AlertFiredMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.MessageID != msg.MessageID || got.RuleID != 12 || got.OwnerID != 3 ||
		got.Type != core.MinimumBalance || !got.NotifyEmail || !got.FiredAt.Equal(firedAt) {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	// Distinct messages get distinct ids so consumers can deduplicate.
	other := NewAlertFiredMessage(rule, "again", firedAt)
	if other.MessageID == msg.MessageID {
		t.Fatal("message ids must be unique")
	}
}

func TestAlertFiredMessageFromJSONInvalid(t *testing.T) {
	if _, err := AlertFiredMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
