package notify

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// TemplateData is everything a template may reference.
type TemplateData struct {
	Kind           Kind
	AppointmentID  string
	CustomerName   string
	CustomerEmail  string
	Service        string
	Date           string
	TimeSlot       string
	Status         string
	PreviousStatus string
	Address        models.Address
	Reason         string
}

type Rendered struct {
	Subject string
	HTML    string
}

// Renderer turns structured data into a message body. Template copy is owned
// by whoever supplies the implementation.
type Renderer interface {
	Render(kind Kind, data TemplateData) (Rendered, error)
}

func templateDataFor(kind Kind, ap *models.Appointment, previous string) TemplateData {
	name := ap.UserName
	if name == "" {
		name = "there"
	}
	return TemplateData{
		Kind:           kind,
		AppointmentID:  ap.ID,
		CustomerName:   name,
		CustomerEmail:  ap.UserEmail,
		Service:        ap.ServiceLabel(),
		Date:           ap.Date,
		TimeSlot:       ap.TimeSlot,
		Status:         ap.Status,
		PreviousStatus: previous,
		Address:        ap.Address,
	}
}

type htmlTemplate struct {
	subject *texttemplate.Template
	body    *template.Template
}

// HTMLRenderer is the built-in plain renderer.
type HTMLRenderer struct {
	templates map[Kind]htmlTemplate
}

const layout = `<html><body>{{template "content" .}}<p>Appointment reference: {{.AppointmentID}}</p></body></html>`

var defaultBodies = map[Kind][2]string{
	KindCreated: {"We received your booking",
		`<p>Hi {{.CustomerName}},</p><p>Your {{.Service}} appointment on {{.Date}} at {{.TimeSlot}} is pending approval.</p>`},
	KindStatusChanged: {"Your appointment is now {{.Status}}",
		`<p>Hi {{.CustomerName}},</p><p>Your {{.Service}} appointment on {{.Date}} at {{.TimeSlot}} changed from {{.PreviousStatus}} to {{.Status}}.</p>`},
	KindReminder24h: {"Reminder: your appointment is tomorrow",
		`<p>Hi {{.CustomerName}},</p><p>See you in about 24 hours for your {{.Service}} ({{.Date}} {{.TimeSlot}}).</p>`},
	KindReminder2h: {"Reminder: your appointment starts soon",
		`<p>Hi {{.CustomerName}},</p><p>Your {{.Service}} starts in about two hours ({{.TimeSlot}}).</p>`},
	KindDayBefore: {"See you tomorrow",
		`<p>Hi {{.CustomerName}},</p><p>Your {{.Service}} appointment is tomorrow, {{.Date}} at {{.TimeSlot}}.</p>{{with .Address.Street}}<p>Location: {{.}}</p>{{end}}`},
	KindFollowUp: {"Time for your next detail?",
		`<p>Hi {{.CustomerName}},</p><p>It has been about three months since your {{.Service}}. Book your next visit whenever you are ready.</p>`},
	KindSupportAlert: {"Appointment cancelled: {{.Date}} {{.TimeSlot}}",
		`<p>Appointment {{.AppointmentID}} ({{.Service}}) for {{.CustomerName}} &lt;{{.CustomerEmail}}&gt; on {{.Date}} at {{.TimeSlot}} was cancelled.</p>{{with .Reason}}<p>{{.}}</p>{{end}}`},
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	r := &HTMLRenderer{templates: make(map[Kind]htmlTemplate, len(defaultBodies))}
	for kind, parts := range defaultBodies {
		t, err := template.New(string(kind)).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("notify: parse layout: %w", err)
		}
		if _, err := t.New("content").Parse(parts[1]); err != nil {
			return nil, fmt.Errorf("notify: parse %s body: %w", kind, err)
		}
		subject, err := texttemplate.New(string(kind) + "_subject").Parse(parts[0])
		if err != nil {
			return nil, fmt.Errorf("notify: parse %s subject: %w", kind, err)
		}
		r.templates[kind] = htmlTemplate{subject: subject, body: t}
	}
	return r, nil
}

func (r *HTMLRenderer) Render(kind Kind, data TemplateData) (Rendered, error) {
	tpl, ok := r.templates[kind]
	if !ok {
		return Rendered{}, fmt.Errorf("notify: no template for %q", kind)
	}

	var sb bytes.Buffer
	if err := tpl.subject.Execute(&sb, data); err != nil {
		return Rendered{}, fmt.Errorf("notify: render subject: %w", err)
	}

	var bb bytes.Buffer
	if err := tpl.body.Execute(&bb, data); err != nil {
		return Rendered{}, fmt.Errorf("notify: render %s: %w", kind, err)
	}

	return Rendered{Subject: sb.String(), HTML: bb.String()}, nil
}

var _ Renderer = (*HTMLRenderer)(nil)
