package generation

import (
	"fmt"
	"strings"

	"github.com/slidesmith/slidesmith-api/internal/domain"
)

// Canonical field names accepted in a generation request. Absent fields
// suppress the corresponding line of the user message; for SOW sections
// bound to an optional field they switch the section guidance to
// "emit the heading with empty content".
const (
	FieldProjectDescription = "projectDescription"
	FieldRequirements       = "requirements"
	FieldDeliverables       = "deliverables"
	FieldDuration           = "duration"
	FieldBudget             = "budget"
	FieldSupportService     = "supportService"
	FieldLegalTerms         = "legalTerms"
	FieldTermination        = "terminationClause"
	FieldClientName         = "clientName"
)

// fieldOrder fixes the order in which fields appear in the user message,
// keeping prompt construction deterministic regardless of map iteration.
var fieldOrder = []struct {
	name  string
	label string
}{
	{FieldProjectDescription, "Project Description"},
	{FieldRequirements, "Client Requirements"},
	{FieldDeliverables, "Deliverables"},
	{FieldDuration, "Project Duration"},
	{FieldBudget, "Budget"},
	{FieldSupportService, "Support Services"},
	{FieldLegalTerms, "Special Legal Terms"},
	{FieldTermination, "Termination Clause"},
	{FieldClientName, "Client Name"},
}

// Fields is the named free-text input of a generation request.
type Fields map[string]string

// Get returns the trimmed value of the named field.
func (f Fields) Get(name string) string {
	return strings.TrimSpace(f[name])
}

// HasAny reports whether at least one field carries a non-empty value.
func (f Fields) HasAny() bool {
	for _, v := range f {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// sowSection is one entry of the canonical SOW section ordering. Sections
// with a non-empty field name derive their content from that request field
// when it is present; the heading itself is structural and always appears.
type sowSection struct {
	title    string
	template domain.TemplateTag
	field    string
}

// sowSections is the canonical, ordered SOW structure. Order is part of the
// output contract: the renderer maps position and template tag to layout.
var sowSections = []sowSection{
	{"Cover/Title Page", domain.TemplateCover, ""},
	{"Introduction", domain.TemplateGeneric, ""},
	{"Objectives", domain.TemplateGeneric, ""},
	{"Scope of Work", domain.TemplateScope, ""},
	{"Deliverables", domain.TemplateDeliverables, ""},
	{"Timeline", domain.TemplateGeneric, ""},
	{"Budget", domain.TemplateGeneric, ""},
	{"Payment Terms", domain.TemplateGeneric, ""},
	{"Acceptance Criteria", domain.TemplateGeneric, ""},
	{"Assumptions and Constraints", domain.TemplateGeneric, ""},
	{"Support Services", domain.TemplateGeneric, FieldSupportService},
	{"General Terms", domain.TemplateGeneric, FieldLegalTerms},
	{"Project Terms", domain.TemplateGeneric, ""},
	{"Termination", domain.TemplateGeneric, FieldTermination},
	{"Signature Page", domain.TemplateSignature, ""},
}

// jsonRules is shared instruction text nudging the model toward a single
// clean JSON object. The extractor tolerates violations anyway.
const jsonRules = `CRITICAL JSON FORMATTING RULES:
1. The response MUST be a single, valid JSON object
2. NO additional text, markdown, or code blocks before or after the JSON
3. ALL strings must be properly escaped and enclosed in double quotes
4. NO trailing commas and NO comments within the JSON
`

// slideSchema describes the per-slide record the front-end renderer consumes.
const slideSchema = `Each slide object MUST have exactly these fields:
{
  "id": "string (unique, e.g. slide-1)",
  "type": "string category tag (e.g. content)",
  "template": "cover|scope|deliverables|generic|signature|plain",
  "title": "string",
  "content": "markdown or HTML string, wrapped in <div id=\"slide-content\"> when HTML",
  "contentType": "text|list|table|mixed"
}
`

// BuildInstruction constructs the system instruction encoding the required
// output schema for the given document kind. It is a pure function:
// identical inputs yield byte-identical instruction text.
func BuildInstruction(kind domain.DocumentKind, fields Fields) string {
	var b strings.Builder

	switch kind {
	case domain.KindSOW:
		b.WriteString("You are an expert business consultant creating professional Statement of Work (SOW) documents. ")
		b.WriteString("Create a comprehensive SOW with proper business structure and professional content.\n\n")
		b.WriteString(jsonRules)
		b.WriteString("\nREQUIRED SOW STRUCTURE (in this exact order with template assignments):\n")
		for i, sec := range sowSections {
			fmt.Fprintf(&b, "%d. %s (template: %q)", i+1, sec.title, sec.template)
			if sec.field != "" {
				if fields.Get(sec.field) != "" {
					fmt.Fprintf(&b, " - derive substantive content from the provided %s", fieldOrderLabel(sec.field))
				} else {
					b.WriteString(" - ALWAYS include this section heading, but leave its content empty")
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("\nEvery section above must appear as one slide, in the given order. ")
		b.WriteString("Do not omit sections, including those with empty content: the heading is structural.\n\n")
		b.WriteString(slideSchema)
		b.WriteString("\nRequired top-level JSON structure:\n")
		b.WriteString(`{"title": "Statement of Work (SOW)", "theme": "sow", "template": "sow", "slides": [...], "totalSlides": 15}` + "\n")
		b.WriteString("\nCreate professional, business-appropriate content for each section, ")
		b.WriteString("specific to the user's request while maintaining the SOW structure.\n")

	default:
		b.WriteString("You are an expert presentation designer. Create a well-structured presentation for the user's topic.\n\n")
		b.WriteString("IMPORTANT: Analyze the content depth and choose the APPROPRIATE number of slides: ")
		b.WriteString("a small deck for a simple topic, a larger one for a complex topic. There is no fixed count.\n\n")
		b.WriteString(jsonRules)
		b.WriteString("\n")
		b.WriteString(slideSchema)
		b.WriteString("\nRequired top-level JSON structure:\n")
		b.WriteString(`{"title": "string", "theme": "standard", "template": "plain", "slides": [...], "totalSlides": number}` + "\n")
		b.WriteString("\nGenerate slides that are professional, clear, and data-driven where appropriate.\n")
	}

	return b.String()
}

// BuildUserMessage composes the user-facing half of the prompt from the
// non-empty request fields, in a fixed order. Pure and deterministic.
func BuildUserMessage(kind domain.DocumentKind, fields Fields) string {
	var lines []string
	for _, f := range fieldOrder {
		if v := fields.Get(f.name); v != "" {
			lines = append(lines, f.label+": "+v)
		}
	}
	body := strings.Join(lines, "\n")

	if kind == domain.KindSOW {
		return "Create a professional Statement of Work for:\n" + body
	}
	return "Create a comprehensive presentation about:\n" + body
}

// fieldOrderLabel returns the human label for a canonical field name.
func fieldOrderLabel(name string) string {
	for _, f := range fieldOrder {
		if f.name == name {
			return f.label
		}
	}
	return name
}

// sowKeywords trigger SOW mode for legacy requests that carry a bare prompt
// with no explicit document kind.
var sowKeywords = []string{
	"statement of work", "sow", "project proposal", "work agreement",
	"project scope", "deliverables", "timeline", "budget", "payment terms",
}

// DetectKind infers the document kind from a free-text prompt. Explicit
// kinds in the request always take precedence over this heuristic.
func DetectKind(prompt string) domain.DocumentKind {
	lower := strings.ToLower(prompt)
	for _, kw := range sowKeywords {
		if strings.Contains(lower, kw) {
			return domain.KindSOW
		}
	}
	return domain.KindStandardPresentation
}

// SOWSectionCount is the length of the canonical SOW section ordering.
func SOWSectionCount() int {
	return len(sowSections)
}
