package conversation_test

import (
	"errors"
	"testing"

	"github.com/ritankar/legalaid/internal/model/chat"
	"github.com/ritankar/legalaid/internal/service/conversation"
)

func TestNewLogSeedsGreeting(t *testing.T) {
	log := conversation.NewLog()

	snapshot := log.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("got %d entries, want 1", len(snapshot))
	}
	if snapshot[0].Role != chat.RoleAssistant {
		t.Errorf("seed role = %q, want assistant", snapshot[0].Role)
	}
	if snapshot[0].Content != conversation.Greeting {
		t.Errorf("seed content = %q", snapshot[0].Content)
	}
}

func TestAppendAssignsSequence(t *testing.T) {
	log := conversation.NewLog()

	if err := log.Append(chat.Message{Role: chat.RoleUser, Content: "What is bail?"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	snapshot := log.Snapshot()
	if snapshot[0].Seq != 1 || snapshot[1].Seq != 2 {
		t.Errorf("sequences = %d, %d, want 1, 2", snapshot[0].Seq, snapshot[1].Seq)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	log := conversation.NewLog()

	cases := []chat.Message{
		{Role: chat.RoleUser, Content: ""},
		{Role: "system", Content: "hello"},
	}
	for _, msg := range cases {
		if err := log.Append(msg); !errors.Is(err, chat.ErrInvalidMessage) {
			t.Errorf("Append(%+v) = %v, want ErrInvalidMessage", msg, err)
		}
	}
	if log.Len() != 1 {
		t.Errorf("invalid appends mutated the log: len = %d", log.Len())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	log := conversation.NewLog()
	snapshot := log.Snapshot()
	snapshot[0].Content = "tampered"

	if log.Snapshot()[0].Content != conversation.Greeting {
		t.Error("mutating a snapshot changed the log")
	}
}

func TestResetReplacesWholesale(t *testing.T) {
	log := conversation.NewLog()
	_ = log.Append(chat.Message{Role: chat.RoleUser, Content: "old"})

	restored := []chat.Message{
		{Role: chat.RoleAssistant, Content: "saved greeting"},
		{Role: chat.RoleUser, Content: "saved question"},
	}
	if err := log.Reset(restored); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	snapshot := log.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("got %d entries, want 2", len(snapshot))
	}
	if snapshot[0].Content != "saved greeting" || snapshot[0].Seq != 1 {
		t.Errorf("unexpected first entry: %+v", snapshot[0])
	}
}

func TestResetEmptyReseedsGreeting(t *testing.T) {
	log := conversation.NewLog()
	_ = log.Append(chat.Message{Role: chat.RoleUser, Content: "old"})

	if err := log.Reset(nil); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	snapshot := log.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Content != conversation.Greeting {
		t.Fatalf("expected reseeded greeting, got %+v", snapshot)
	}
}

func TestResetRejectsInvalidEntries(t *testing.T) {
	log := conversation.NewLog()
	err := log.Reset([]chat.Message{{Role: "narrator", Content: "x"}})
	if !errors.Is(err, chat.ErrInvalidMessage) {
		t.Fatalf("Reset = %v, want ErrInvalidMessage", err)
	}
	if log.Len() != 1 {
		t.Errorf("failed reset mutated the log: len = %d", log.Len())
	}
}
