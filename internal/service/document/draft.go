package document

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	model "github.com/ritankar/legalaid/internal/model/document"
)

var (
	// ErrNoTemplateSelected rejects operations that need a selected template.
	ErrNoTemplateSelected = errors.New("no template selected")
	// ErrGenerationInProgress rejects a duplicate generate while one request
	// is still in flight for this draft.
	ErrGenerationInProgress = errors.New("document generation already in progress")
	// ErrUnknownField rejects values for keys the template does not declare.
	ErrUnknownField = errors.New("field is not declared by the selected template")
)

// Generator issues one document generation request.
type Generator interface {
	GenerateDocument(ctx context.Context, templateID string, inputs map[string]string) (string, error)
}

// Draft holds the modal-scoped state for one document generation attempt:
// the selected template, entered field values, and the request lifecycle.
type Draft struct {
	generator Generator
	logger    *zap.Logger

	mu          sync.Mutex
	epoch       int
	template    *model.Template
	values      map[string]string
	phase       model.GenerationPhase
	artifactURL string
}

// NewDraft returns an empty draft with nothing selected.
func NewDraft(generator Generator, logger *zap.Logger) *Draft {
	return &Draft{generator: generator, logger: logger}
}

// SelectTemplate switches the draft to a template, clearing entered values,
// any prior artifact, and the generation state.
func (d *Draft) SelectTemplate(t model.Template) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.epoch++
	selected := t
	d.template = &selected
	d.values = make(map[string]string)
	d.phase = model.GenerationIdle
	d.artifactURL = ""
}

// SetFieldValue records one form entry. Keys must be declared by the selected
// template. Editing never resets a succeeded or failed generation state.
func (d *Draft) SetFieldValue(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.template == nil {
		return ErrNoTemplateSelected
	}
	if _, ok := d.template.Field(key); !ok {
		return ErrUnknownField
	}
	d.values[key] = value
	return nil
}

// Discard drops the modal-scoped state when the modal closes. A request
// already in flight keeps running; its result resolves against a stale epoch
// and is dropped.
func (d *Draft) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.epoch++
	d.template = nil
	d.values = nil
	d.phase = model.GenerationIdle
	d.artifactURL = ""
}

// View returns a snapshot of the draft for rendering.
func (d *Draft) View() model.DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()

	view := model.DraftView{Phase: d.phase, ArtifactURL: d.artifactURL}
	if d.template != nil {
		selected := *d.template
		view.Template = &selected
		view.FieldValues = make(map[string]string, len(d.values))
		for k, v := range d.values {
			view.FieldValues[k] = v
		}
	}
	return view
}

// Generate issues exactly one generation request carrying a call-time snapshot
// of the field values; later edits do not affect the in-flight request. On
// success it returns the summary the session view folds into the conversation.
// A result resolving after the draft was discarded or reselected is dropped
// silently and reported as (nil, nil).
func (d *Draft) Generate(ctx context.Context) (*model.GeneratedDocument, error) {
	d.mu.Lock()
	if d.template == nil {
		d.mu.Unlock()
		return nil, ErrNoTemplateSelected
	}
	if d.phase == model.GenerationInProgress {
		d.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	epoch := d.epoch
	selected := *d.template
	inputs := make(map[string]string, len(d.values))
	for k, v := range d.values {
		inputs[k] = v
	}
	d.phase = model.GenerationInProgress
	d.mu.Unlock()

	artifactURL, err := d.generator.GenerateDocument(ctx, selected.ID, inputs)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.epoch != epoch {
		// The modal closed or a different template was selected while the
		// request was in flight.
		d.logger.Debug("dropping stale generation result",
			zap.String("template", selected.ID))
		return nil, nil
	}
	if err != nil {
		d.phase = model.GenerationFailed
		d.logger.Warn("document generation failed",
			zap.String("template", selected.ID), zap.Error(err))
		return nil, err
	}

	d.phase = model.GenerationSucceeded
	d.artifactURL = artifactURL
	return &model.GeneratedDocument{TemplateTitle: selected.Title, ArtifactURL: artifactURL}, nil
}
