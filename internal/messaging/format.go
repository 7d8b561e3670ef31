package messaging

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

var defaultTemplates = map[EventType]string{
	EventTurn:        `{{ .ActorName | default .Actor }} acts at t{{ .Time }}`,
	EventAssigned:    `{{ .ActorName | default .Actor }} takes up {{ .Kind }}{{ with .Activity }} ({{ . }}){{ end }}`,
	EventTransferred: `{{ .ActorName | default .Actor }} takes over {{ .Kind }} from {{ .From }}`,
	EventCompleted:   `{{ .ActorName | default .Actor }} finished {{ .Kind }}`,
	EventReleased:    `{{ .ActorName | default .Actor }} let go of {{ .Kind }}{{ with .Refund }}, returning {{ . }}{{ end }}`,
}

// Formatter renders the human readable text of events.
type Formatter struct {
	templates map[EventType]*template.Template
}

// NewFormatter parses the built-in templates with the given ones replacing
// them per event type.
func NewFormatter(overrides map[EventType]string) (*Formatter, error) {
	f := &Formatter{templates: map[EventType]*template.Template{}}

	for typ, text := range defaultTemplates {
		if o, ok := overrides[typ]; ok {
			text = o
		}
		tmpl, err := template.New(string(typ)).Funcs(templateFuncs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", typ, err)
		}
		f.templates[typ] = tmpl
	}
	for typ := range overrides {
		if _, ok := defaultTemplates[typ]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, typ)
		}
	}

	return f, nil
}

// Format expands the template for the event's type.
func (f *Formatter) Format(ev Event) (string, error) {
	tmpl, ok := f.templates[ev.Type]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Type)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ev); err != nil {
		return "", fmt.Errorf("executing %s template: %w", ev.Type, err)
	}
	return buf.String(), nil
}
