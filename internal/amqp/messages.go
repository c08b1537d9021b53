package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"finledger/internal/core"
)

// AlertFiredMessage is published when a rule evaluation fires. It carries
// everything the notifier needs; delivery itself stays outside the core.
type AlertFiredMessage struct {
	MessageID   string         `json:"message_id"`
	RuleID      int64          `json:"rule_id"`
	OwnerID     int64          `json:"owner_id"`
	RuleName    string         `json:"rule_name"`
	Type        core.AlertType `json:"type"`
	Message     string         `json:"message"`
	NotifyEmail bool           `json:"notify_email"`
	FiredAt     time.Time      `json:"fired_at"`
}

// NewAlertFiredMessage builds a message from a fired rule. MessageID is a
// fresh UUID so consumers can deduplicate redeliveries.
func NewAlertFiredMessage(rule *core.AlertRule, message string, firedAt time.Time) *AlertFiredMessage {
	return &AlertFiredMessage{
		MessageID:   uuid.NewString(),
		RuleID:      rule.ID,
		OwnerID:     rule.OwnerID,
		RuleName:    rule.Name,
		Type:        rule.Type,
		Message:     message,
		NotifyEmail: rule.NotifyEmail,
		FiredAt:     firedAt,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *AlertFiredMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertFiredMessageFromJSON parses a message from JSON bytes.
func AlertFiredMessageFromJSON(data []byte) (*AlertFiredMessage, error) {
	var msg AlertFiredMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
