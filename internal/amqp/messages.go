package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage asks the mirror worker to re-export one ledger
// entry. It carries only the ID; the worker fetches the current row from the
// database, so stale messages never overwrite newer data.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Deleted   bool      `json:"deleted"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id int64, deleted bool) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Deleted:   deleted,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NotificationMessage is a rendered alert coming out of the summary and
// reminder jobs, queued for whatever channel delivers it to the owner.
type NotificationMessage struct {
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	NotificationDailySummary = "daily_summary"
	NotificationOverdue      = "overdue_reminder"
)

func NewNotificationMessage(kind, title, body string) *NotificationMessage {
	return &NotificationMessage{
		Kind:      kind,
		Title:     title,
		Body:      body,
		Timestamp: time.Now(),
	}
}

func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
