package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ritankar/legalaid/internal/api"
	"github.com/ritankar/legalaid/internal/model/chat"
)

var (
	// ErrEmptyUtterance rejects blank input before any side effect.
	ErrEmptyUtterance = errors.New("utterance is empty")
	// ErrTurnInProgress rejects a send while a reply is still outstanding.
	ErrTurnInProgress = errors.New("a turn is already awaiting its reply")
)

// Notices appended to the log in place of a reply when a turn fails. The two
// texts stay distinguishable so the user can tell a rejected request from an
// unreachable backend.
const (
	ServerErrorNotice = "Error: Unable to reach the legal database. Please try again later."
	OfflineNotice     = "Connection Error: Backend server may be offline."
)

// Responder produces the assistant reply for one user query.
type Responder interface {
	Chat(ctx context.Context, userID, query string) (string, error)
}

// TurnController owns the awaiting-reply flag and runs turns one at a time.
type TurnController struct {
	log       *Log
	responder Responder
	userID    string
	logger    *zap.Logger

	mu       sync.Mutex
	awaiting bool
}

// NewTurnController binds a controller to a log and a responder. The userID
// scopes conversation memory on the backend.
func NewTurnController(log *Log, responder Responder, userID string, logger *zap.Logger) *TurnController {
	return &TurnController{
		log:       log,
		responder: responder,
		userID:    userID,
		logger:    logger,
	}
}

// Awaiting reports whether a turn is outstanding. The send control stays
// disabled while this is true.
func (t *TurnController) Awaiting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.awaiting
}

// Send runs one full turn: optimistic user append, exactly one outbound
// request, assistant append. A failed request is folded into the log as an
// assistant notice rather than returned; the turn is terminal either way and
// the user resends manually.
func (t *TurnController) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyUtterance
	}

	t.mu.Lock()
	if t.awaiting {
		t.mu.Unlock()
		return ErrTurnInProgress
	}
	t.awaiting = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.awaiting = false
		t.mu.Unlock()
	}()

	if err := t.log.Append(chat.Message{Role: chat.RoleUser, Content: text}); err != nil {
		return err
	}

	reply, err := t.responder.Chat(ctx, t.userID, text)
	if err != nil {
		notice := OfflineNotice
		if api.IsStatus(err) {
			notice = ServerErrorNotice
		}
		t.logger.Warn("turn failed", zap.Error(err))
		return t.log.Append(chat.Message{Role: chat.RoleAssistant, Content: notice})
	}

	return t.log.Append(chat.Message{Role: chat.RoleAssistant, Content: reply})
}
