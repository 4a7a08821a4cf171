package game

import "github.com/sirupsen/logrus"

// MessageLog is the append-only event log shown to the player.
type MessageLog struct {
	entries []string
	log     logrus.FieldLogger
}

// NewMessageLog creates an empty log that mirrors entries to log.
func NewMessageLog(log logrus.FieldLogger) *MessageLog {
	return &MessageLog{log: log}
}

// Add appends an entry.
func (m *MessageLog) Add(msg string) {
	m.entries = append(m.entries, msg)
	m.log.WithField("component", "message_log").Info(msg)
}

// Len returns the number of entries.
func (m *MessageLog) Len() int {
	return len(m.entries)
}

// Entries returns a copy of all entries, oldest first.
func (m *MessageLog) Entries() []string {
	return append([]string(nil), m.entries...)
}

// Recent returns up to n entries, newest first.
func (m *MessageLog) Recent(n int) []string {
	n = min(n, len(m.entries))
	out := make([]string, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.entries[i])
	}
	return out
}
