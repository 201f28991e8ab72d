// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

// Package email sends portal notification emails over SMTP with both HTML
// and plain text bodies rendered from embedded templates.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

//go:embed templates/*
var templateFS embed.FS

// RenderedEmail holds both HTML and text versions of a rendered email
type RenderedEmail struct {
	HTML string
	Text string
}

// TemplateSet pairs the HTML and text templates for one notification.
type TemplateSet struct {
	HTML *template.Template
	Text *template.Template
}

// Templates holds every notification template the portal sends.
type Templates struct {
	ApprovalNotice      TemplateSet
	MeetingCancellation TemplateSet
}

type templateConfig struct {
	name string
	path string
}

// PortalTemplateManager defines the interface for rendering notification emails.
type PortalTemplateManager interface {
	RenderApprovalNotice(data domain.EmailApprovalNotice) (*RenderedEmail, error)
	RenderMeetingCancellation(data domain.EmailMeetingCancellation) (*RenderedEmail, error)
}

// TemplateManager is the default implementation of PortalTemplateManager
type TemplateManager struct {
	templates Templates
}

// NewTemplateManager creates a new template manager with all templates loaded
func NewTemplateManager() (*TemplateManager, error) {
	templateConfigs := map[string]templateConfig{
		"approvalHTML":     {"approval_notice.html", "templates/approval_notice.html"},
		"approvalText":     {"approval_notice.txt", "templates/approval_notice.txt"},
		"cancellationHTML": {"meeting_cancellation.html", "templates/meeting_cancellation.html"},
		"cancellationText": {"meeting_cancellation.txt", "templates/meeting_cancellation.txt"},
	}

	loadedTemplates := make(map[string]*template.Template)
	for key, cfg := range templateConfigs {
		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return nil, err
		}
		loadedTemplates[key] = tmpl
	}

	return &TemplateManager{
		templates: Templates{
			ApprovalNotice: TemplateSet{
				HTML: loadedTemplates["approvalHTML"],
				Text: loadedTemplates["approvalText"],
			},
			MeetingCancellation: TemplateSet{
				HTML: loadedTemplates["cancellationHTML"],
				Text: loadedTemplates["cancellationText"],
			},
		},
	}, nil
}

// Ensure TemplateManager implements PortalTemplateManager
var _ PortalTemplateManager = (*TemplateManager)(nil)

// RenderApprovalNotice renders an approval notice with both HTML and text versions
func (tm *TemplateManager) RenderApprovalNotice(data domain.EmailApprovalNotice) (*RenderedEmail, error) {
	html, err := renderTemplate(tm.templates.ApprovalNotice.HTML, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render approval notice HTML: %w", err)
	}

	text, err := renderTemplate(tm.templates.ApprovalNotice.Text, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render approval notice text: %w", err)
	}

	return &RenderedEmail{HTML: html, Text: text}, nil
}

// RenderMeetingCancellation renders a cancellation notice with both HTML and text versions
func (tm *TemplateManager) RenderMeetingCancellation(data domain.EmailMeetingCancellation) (*RenderedEmail, error) {
	html, err := renderTemplate(tm.templates.MeetingCancellation.HTML, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render cancellation HTML: %w", err)
	}

	text, err := renderTemplate(tm.templates.MeetingCancellation.Text, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render cancellation text: %w", err)
	}

	return &RenderedEmail{HTML: html, Text: text}, nil
}

// loadTemplate loads a single template with the shared function map
func loadTemplate(config templateConfig) (*template.Template, error) {
	tmpl, err := template.New(config.name).Funcs(template.FuncMap{
		"formatDate":     formatDate,
		"divisionLabel":  divisionLabel,
		"formatDateSpan": formatDateSpan,
	}).ParseFS(templateFS, config.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", config.name, err)
	}
	return tmpl, nil
}

// renderTemplate renders any template with the provided data
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatDate formats a portal date for display in emails
func formatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// formatDateSpan renders a start/end date pair, collapsing single-day spans
func formatDateSpan(start, end models.Date) string {
	if start.Equal(end) {
		return formatDate(start)
	}
	return fmt.Sprintf("%s to %s", formatDate(start), formatDate(end))
}

// divisionLabel renders a division identifier as a readable label
func divisionLabel(d models.Division) string {
	label := strings.ReplaceAll(string(d), "-", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
