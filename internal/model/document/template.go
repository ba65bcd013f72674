package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one fillable slot of a template. Declaration order drives the
// rendering order of the form.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FieldList keeps fields in the order the backend declared them. The wire
// format is a JSON object mapping key to label, so decoding walks the raw
// tokens instead of going through a map.
type FieldList []Field

// UnmarshalJSON decodes the backend's {key: label} object preserving
// document order.
func (f *FieldList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected object, got %v", tok)
	}

	list := FieldList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fields: expected string key, got %v", keyTok)
		}
		var label string
		if err := dec.Decode(&label); err != nil {
			return fmt.Errorf("fields[%s]: %w", key, err)
		}
		list = append(list, Field{Key: key, Label: label})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = list
	return nil
}

// MarshalJSON writes the list back as the wire-format object.
func (f FieldList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		label, err := json.Marshal(field.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(label)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Template is a named, parameterized document definition. Immutable once
// received from the backend.
type Template struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Fields FieldList `json:"fields"`
}

// Field looks up a declared field by key.
func (t Template) Field(key string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// GenerationPhase tracks the lifecycle of one generation request.
type GenerationPhase int

const (
	GenerationIdle GenerationPhase = iota
	GenerationInProgress
	GenerationSucceeded
	GenerationFailed
)

// String returns the phase name for logs and rendering.
func (p GenerationPhase) String() string {
	switch p {
	case GenerationIdle:
		return "idle"
	case GenerationInProgress:
		return "in-progress"
	case GenerationSucceeded:
		return "succeeded"
	case GenerationFailed:
		return "failed"
	}
	return "unknown"
}

// DraftView is a read-only snapshot of the modal-scoped draft for rendering.
type DraftView struct {
	Template    *Template
	FieldValues map[string]string
	Phase       GenerationPhase
	ArtifactURL string
}

// GeneratedDocument summarizes a successful generation so the session view
// can note it in the conversation without coupling the log to the draft.
type GeneratedDocument struct {
	TemplateTitle string
	ArtifactURL   string
}
