package domain

import (
	"errors"
	"fmt"
)

// DocumentKind selects between a variable-length generic slide deck and a
// fixed-structure Statement-of-Work document.
type DocumentKind string

// Supported document kinds.
const (
	KindStandardPresentation DocumentKind = "standard-presentation"
	KindSOW                  DocumentKind = "sow"
)

// IsValidDocumentKind reports whether kind is one of the supported kinds.
func IsValidDocumentKind(kind DocumentKind) bool {
	return kind == KindStandardPresentation || kind == KindSOW
}

// TemplateTag identifies which visual layout/background a slide binds to
// downstream. The set is closed: the front-end renderer only knows these.
type TemplateTag string

// The closed set of template tags.
const (
	TemplateCover        TemplateTag = "cover"
	TemplateScope        TemplateTag = "scope"
	TemplateDeliverables TemplateTag = "deliverables"
	TemplateGeneric      TemplateTag = "generic"
	TemplateSignature    TemplateTag = "signature"
	TemplatePlain        TemplateTag = "plain"
)

// IsValidTemplateTag reports whether tag belongs to the closed template set.
func IsValidTemplateTag(tag TemplateTag) bool {
	switch tag {
	case TemplateCover, TemplateScope, TemplateDeliverables,
		TemplateGeneric, TemplateSignature, TemplatePlain:
		return true
	}
	return false
}

// ContentType describes how a slide's content string should be interpreted
// by the renderer.
type ContentType string

// The closed set of content types.
const (
	ContentTypeText  ContentType = "text"
	ContentTypeList  ContentType = "list"
	ContentTypeTable ContentType = "table"
	ContentTypeMixed ContentType = "mixed"
)

// IsValidContentType reports whether ct belongs to the closed content-type set.
func IsValidContentType(ct ContentType) bool {
	switch ct {
	case ContentTypeText, ContentTypeList, ContentTypeTable, ContentTypeMixed:
		return true
	}
	return false
}

// Per-slide defaults applied during normalization. Position-dependent
// defaults (id, title) are derived from the slide's 1-based position.
const (
	DefaultSlideType        = "content"
	DefaultSlideTemplate    = TemplateGeneric
	DefaultSlideContentType = ContentTypeText
)

// Slide-specific validation errors
var (
	ErrEmptySlideID          = errors.New("slide ID cannot be empty")
	ErrInvalidSlideTemplate  = errors.New("invalid slide template tag")
	ErrInvalidContentType    = errors.New("invalid slide content type")
	ErrEmptySlideSequence    = errors.New("document must contain at least one slide")
	ErrSlideCountMismatch    = errors.New("totalSlides does not match slide count")
	ErrDuplicateSlideID      = errors.New("slide IDs must be unique within a document")
	ErrEmptyDocumentTitle    = errors.New("document title cannot be empty")
)

// SlideRecord is the atomic output unit of document generation. Every field
// is always populated on records returned by the core; normalization fills
// missing fields with deterministic defaults rather than rejecting.
type SlideRecord struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Template    TemplateTag `json:"template"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"contentType"`
}

// Validate checks that the slide satisfies the fully-populated invariant.
func (s *SlideRecord) Validate() error {
	if s.ID == "" {
		return ErrEmptySlideID
	}
	if !IsValidTemplateTag(s.Template) {
		return fmt.Errorf("%w: %q", ErrInvalidSlideTemplate, s.Template)
	}
	if !IsValidContentType(s.ContentType) {
		return fmt.Errorf("%w: %q", ErrInvalidContentType, s.ContentType)
	}
	return nil
}

// GeneratedDocument is the finished deck or SOW returned by the generation
// pipeline. Slide order is meaningful: it reflects document reading order
// and, for SOW documents, the canonical section ordering.
type GeneratedDocument struct {
	Title       string        `json:"title"`
	Theme       string        `json:"theme"`
	Template    string        `json:"template"`
	Slides      []SlideRecord `json:"slides"`
	TotalSlides int           `json:"totalSlides"`
}

// Validate checks the document-level invariants: a non-empty slide sequence,
// an accurate totalSlides count, per-slide validity, and unique slide IDs.
func (d *GeneratedDocument) Validate() error {
	if d.Title == "" {
		return ErrEmptyDocumentTitle
	}
	if len(d.Slides) == 0 {
		return ErrEmptySlideSequence
	}
	if d.TotalSlides != len(d.Slides) {
		return fmt.Errorf("%w: totalSlides=%d, len(slides)=%d",
			ErrSlideCountMismatch, d.TotalSlides, len(d.Slides))
	}
	seen := make(map[string]struct{}, len(d.Slides))
	for i := range d.Slides {
		if err := d.Slides[i].Validate(); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		if _, dup := seen[d.Slides[i].ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateSlideID, d.Slides[i].ID)
		}
		seen[d.Slides[i].ID] = struct{}{}
	}
	return nil
}
