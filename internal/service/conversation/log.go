// Package conversation manages the in-session message history and the turn
// lifecycle: one user utterance, one assistant reply, strictly serialized.
package conversation

import (
	"sync"

	"github.com/ritankar/legalaid/internal/model/chat"
)

// Greeting seeds every new conversation log.
const Greeting = "Greetings. I am the Legal Aid Assistant. How may I assist you with your legal queries today?"

// Log is the append-only record of one conversation. History is never edited
// in place; it is only appended to, or replaced wholesale on session switch.
type Log struct {
	mu      sync.RWMutex
	entries []chat.Message
	nextSeq int
}

// NewLog returns a log seeded with the assistant greeting.
func NewLog() *Log {
	l := &Log{}
	_ = l.Append(chat.Message{Role: chat.RoleAssistant, Content: Greeting})
	return l
}

// Append adds a message to the end of the log, assigning its sequence number.
func (l *Log) Append(msg chat.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextSeq++
	msg.Seq = l.nextSeq
	l.entries = append(l.entries, msg)
	return nil
}

// Snapshot returns a copy of the ordered history for rendering.
func (l *Log) Snapshot() []chat.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]chat.Message, len(l.entries))
	copy(copied, l.entries)
	return copied
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Reset replaces the history wholesale, used when a saved session is restored
// or a new one is started. An empty replacement reseeds the greeting.
func (l *Log) Reset(entries []chat.Message) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(entries) == 0 {
		entries = []chat.Message{{Role: chat.RoleAssistant, Content: Greeting}}
	}
	l.entries = l.entries[:0]
	l.nextSeq = 0
	for _, e := range entries {
		l.nextSeq++
		e.Seq = l.nextSeq
		l.entries = append(l.entries, e)
	}
	return nil
}
