package generation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slidesmith/slidesmith-api/internal/domain"
)

// slideContentWrapper is the structural wrapper the front-end renderer
// positions template styling against. HTML slide content missing it gets
// wrapped during normalization.
const slideContentWrapper = `<div id="slide-content">`

// Normalizer repairs an extracted object into a valid GeneratedDocument.
// Everything repairable is repaired; only a missing or empty slide sequence
// is fatal, because that means the generation itself failed rather than
// merely being untidy.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil logger falls back to the
// default slog logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With(slog.String("component", "slide_normalizer"))}
}

// Normalize enforces the minimum viable document schema on obj:
//   - a missing "slides" key or empty sequence is a *SchemaError (fatal)
//   - slide entries that are not objects are dropped with a warning
//   - missing per-slide fields get deterministic defaults keyed by the
//     slide's 1-based position in the filtered sequence
//   - totalSlides is always recomputed from the repaired sequence
func (n *Normalizer) Normalize(kind domain.DocumentKind, obj map[string]any) (*domain.GeneratedDocument, error) {
	rawSlides, ok := obj["slides"]
	if !ok {
		return nil, &SchemaError{Reason: "missing slides key", Excerpt: objectExcerpt(obj)}
	}

	entries, ok := rawSlides.([]any)
	if !ok {
		return nil, &SchemaError{Reason: "slides is not a list", Excerpt: objectExcerpt(obj)}
	}
	if len(entries) == 0 {
		return nil, &SchemaError{Reason: "slide sequence is empty", Excerpt: objectExcerpt(obj)}
	}

	slides := make([]domain.SlideRecord, 0, len(entries))
	for i, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			n.logger.Warn("dropping non-object slide entry",
				slog.Int("position", i+1),
				slog.String("kind", string(kind)))
			continue
		}
		slides = append(slides, n.normalizeSlide(record, len(slides)+1))
	}

	if len(slides) == 0 {
		return nil, &SchemaError{Reason: "no well-formed slides in sequence", Excerpt: objectExcerpt(obj)}
	}

	n.dedupeSlideIDs(slides)

	doc := &domain.GeneratedDocument{
		Title:       stringField(obj, "title", defaultTitle(kind)),
		Theme:       stringField(obj, "theme", defaultTheme(kind)),
		Template:    stringField(obj, "template", defaultDocTemplate(kind)),
		Slides:      slides,
		TotalSlides: len(slides), // always recomputed, never trusted from the model
	}

	if err := doc.Validate(); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("normalized document invalid: %v", err)}
	}

	return doc, nil
}

// normalizeSlide fills missing slide fields with position-keyed defaults and
// coerces closed-set fields back to their defaults when the model invented a
// value outside the set.
func (n *Normalizer) normalizeSlide(record map[string]any, position int) domain.SlideRecord {
	slide := domain.SlideRecord{
		ID:          stringField(record, "id", fmt.Sprintf("slide-%d", position)),
		Type:        stringField(record, "type", domain.DefaultSlideType),
		Template:    domain.TemplateTag(stringField(record, "template", string(domain.DefaultSlideTemplate))),
		Title:       stringField(record, "title", fmt.Sprintf("Slide %d", position)),
		Content:     contentField(record),
		ContentType: domain.ContentType(stringField(record, "contentType", string(domain.DefaultSlideContentType))),
	}

	if !domain.IsValidTemplateTag(slide.Template) {
		n.logger.Warn("coercing unknown template tag",
			slog.String("template", string(slide.Template)),
			slog.Int("position", position))
		slide.Template = domain.DefaultSlideTemplate
	}

	if !domain.IsValidContentType(slide.ContentType) {
		n.logger.Warn("coercing unknown content type",
			slog.String("content_type", string(slide.ContentType)),
			slog.Int("position", position))
		slide.ContentType = domain.DefaultSlideContentType
	}

	if wrapped, changed := ensureContentWrapper(slide.Content); changed {
		n.logger.Debug("added slide-content wrapper", slog.Int("position", position))
		slide.Content = wrapped
	}

	return slide
}

// dedupeSlideIDs rewrites colliding slide IDs to position-based ones so the
// uniqueness invariant holds by construction. Model-assigned IDs survive
// unless they collide.
func (n *Normalizer) dedupeSlideIDs(slides []domain.SlideRecord) {
	seen := make(map[string]struct{}, len(slides))
	for i := range slides {
		id := slides[i].ID
		if _, dup := seen[id]; dup {
			id = fmt.Sprintf("slide-%d", i+1)
			for {
				if _, dup := seen[id]; !dup {
					break
				}
				id = fmt.Sprintf("%s-dup", id)
			}
			n.logger.Warn("rewriting duplicate slide ID",
				slog.String("original", slides[i].ID),
				slog.String("rewritten", id))
			slides[i].ID = id
		}
		seen[id] = struct{}{}
	}
}

// contentField reads the slide content, accepting the legacy "html" key
// emitted by earlier prompt revisions when "content" is absent.
func contentField(record map[string]any) string {
	if v, ok := record["content"].(string); ok {
		return v
	}
	if v, ok := record["html"].(string); ok {
		return v
	}
	return ""
}

// ensureContentWrapper wraps HTML content in the slide-content div the
// renderer expects. Markdown and plain text pass through untouched.
func ensureContentWrapper(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || !strings.HasPrefix(trimmed, "<") {
		return content, false
	}
	if strings.HasPrefix(trimmed, slideContentWrapper) {
		return content, false
	}
	return slideContentWrapper + trimmed + "</div>", true
}

// stringField reads a non-empty string value from an extracted object,
// falling back to def when the key is absent, empty, or not a string.
func stringField(record map[string]any, key, def string) string {
	if v, ok := record[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// objectExcerpt renders a bounded excerpt of the offending object for
// schema error diagnostics.
func objectExcerpt(obj map[string]any) string {
	raw, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return excerpt(string(raw), excerptLimit)
}

func defaultTitle(kind domain.DocumentKind) string {
	if kind == domain.KindSOW {
		return "Statement of Work (SOW)"
	}
	return "Untitled Presentation"
}

func defaultTheme(kind domain.DocumentKind) string {
	if kind == domain.KindSOW {
		return "sow"
	}
	return "standard"
}

func defaultDocTemplate(kind domain.DocumentKind) string {
	if kind == domain.KindSOW {
		return "sow"
	}
	return "plain"
}
