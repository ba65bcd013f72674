// Package session composes the conversation and document controllers behind
// one session view: it routes user actions to the right controller and merges
// their outcomes into a single ordered conversation log.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ritankar/legalaid/internal/model/chat"
	docmodel "github.com/ritankar/legalaid/internal/model/document"
	"github.com/ritankar/legalaid/internal/model/user"
	"github.com/ritankar/legalaid/internal/service/conversation"
	"github.com/ritankar/legalaid/internal/service/document"
)

// Backend bundles the API surface the session view depends on.
type Backend interface {
	conversation.Responder
	document.TemplateSource
	document.Generator
}

// Coordinator drives one session view. It owns no persistent state of its own
// beyond delegating to the log, turn, catalog, and draft controllers.
type Coordinator struct {
	id      string
	profile user.Profile
	log     *conversation.Log
	turns   *conversation.TurnController
	catalog *document.Catalog
	draft   *document.Draft
	logger  *zap.Logger

	mu        sync.Mutex
	modalOpen bool
}

// New builds a coordinator for the given account. The profile's email is the
// user key scoping conversation memory on the backend.
func New(profile user.Profile, backend Backend, logger *zap.Logger) *Coordinator {
	log := conversation.NewLog()
	return &Coordinator{
		id:      uuid.NewString(),
		profile: profile,
		log:     log,
		turns:   conversation.NewTurnController(log, backend, profile.Email, logger),
		catalog: document.NewCatalog(backend, logger),
		draft:   document.NewDraft(backend, logger),
		logger:  logger,
	}
}

// ID identifies this session view instance.
func (c *Coordinator) ID() string { return c.id }

// Profile returns the session's account.
func (c *Coordinator) Profile() user.Profile { return c.profile }

// Messages returns the ordered conversation history.
func (c *Coordinator) Messages() []chat.Message { return c.log.Snapshot() }

// Awaiting reports whether a reply is outstanding; the send control is
// disabled while true.
func (c *Coordinator) Awaiting() bool { return c.turns.Awaiting() }

// Send runs one conversation turn. Blank input is inert: no request, no log
// growth, no error surfaced.
func (c *Coordinator) Send(ctx context.Context, text string) error {
	err := c.turns.Send(ctx, text)
	if errors.Is(err, conversation.ErrEmptyUtterance) {
		return nil
	}
	return err
}

// OpenDocumentModal marks the modal visible and fetches the catalog, once per
// opening rather than once per render.
func (c *Coordinator) OpenDocumentModal(ctx context.Context) {
	c.mu.Lock()
	if c.modalOpen {
		c.mu.Unlock()
		return
	}
	c.modalOpen = true
	c.mu.Unlock()

	c.catalog.Load(ctx)
}

// CloseDocumentModal hides the modal and discards the draft. An in-flight
// generation is not cancelled; its late result is dropped by the draft.
func (c *Coordinator) CloseDocumentModal() {
	c.mu.Lock()
	if !c.modalOpen {
		c.mu.Unlock()
		return
	}
	c.modalOpen = false
	c.mu.Unlock()

	c.draft.Discard()
}

// ModalOpen reports modal visibility.
func (c *Coordinator) ModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalOpen
}

// Templates returns the cached catalog in backend order.
func (c *Coordinator) Templates() []docmodel.Template { return c.catalog.Templates() }

// SelectTemplate switches the draft to a template.
func (c *Coordinator) SelectTemplate(t docmodel.Template) { c.draft.SelectTemplate(t) }

// SetFieldValue records one form entry on the draft.
func (c *Coordinator) SetFieldValue(key, value string) error {
	return c.draft.SetFieldValue(key, value)
}

// Draft returns a rendering snapshot of the draft.
func (c *Coordinator) Draft() docmodel.DraftView { return c.draft.View() }

// Generate runs one document generation and, on success, notes the produced
// document in the conversation. Failures are returned for the view to surface
// as a blocking alert; a stale result is dropped without a trace.
func (c *Coordinator) Generate(ctx context.Context) error {
	result, err := c.draft.Generate(ctx)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	note := fmt.Sprintf("I have generated the %s for you. You can download it from the modal.", result.TemplateTitle)
	return c.log.Append(chat.Message{Role: chat.RoleAssistant, Content: note})
}

// RestoreTranscript replaces the conversation with a saved transcript.
func (c *Coordinator) RestoreTranscript(messages []chat.Message) error {
	return c.log.Reset(messages)
}

// ResetConversation clears the conversation back to the seeded greeting when
// the user starts a fresh chat.
func (c *Coordinator) ResetConversation() error {
	return c.log.Reset(nil)
}
