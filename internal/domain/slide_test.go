package domain

import (
	"errors"
	"testing"
)

func validSlide(id string) SlideRecord {
	return SlideRecord{
		ID:          id,
		Type:        DefaultSlideType,
		Template:    TemplateGeneric,
		Title:       "Title",
		Content:     "",
		ContentType: ContentTypeText,
	}
}

func TestSlideRecordValidate(t *testing.T) {
	t.Parallel()

	slide := validSlide("slide-1")
	if err := slide.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	slide = validSlide("")
	if err := slide.Validate(); !errors.Is(err, ErrEmptySlideID) {
		t.Errorf("Expected ErrEmptySlideID, got %v", err)
	}

	slide = validSlide("slide-1")
	slide.Template = "banner"
	if err := slide.Validate(); !errors.Is(err, ErrInvalidSlideTemplate) {
		t.Errorf("Expected ErrInvalidSlideTemplate, got %v", err)
	}

	slide = validSlide("slide-1")
	slide.ContentType = "video"
	if err := slide.Validate(); !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("Expected ErrInvalidContentType, got %v", err)
	}
}

func TestTemplateTagClosedSet(t *testing.T) {
	t.Parallel()

	valid := []TemplateTag{
		TemplateCover, TemplateScope, TemplateDeliverables,
		TemplateGeneric, TemplateSignature, TemplatePlain,
	}
	for _, tag := range valid {
		if !IsValidTemplateTag(tag) {
			t.Errorf("Expected %q to be valid", tag)
		}
	}

	for _, tag := range []TemplateTag{"", "Cover", "sow", "hero"} {
		if IsValidTemplateTag(tag) {
			t.Errorf("Expected %q to be invalid", tag)
		}
	}
}

func TestGeneratedDocumentValidate(t *testing.T) {
	t.Parallel()

	doc := GeneratedDocument{
		Title:    "Quarterly Review",
		Theme:    "standard",
		Template: "plain",
		Slides: []SlideRecord{
			validSlide("slide-1"),
			validSlide("slide-2"),
		},
		TotalSlides: 2,
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	empty := doc
	empty.Slides = nil
	empty.TotalSlides = 0
	if err := empty.Validate(); !errors.Is(err, ErrEmptySlideSequence) {
		t.Errorf("Expected ErrEmptySlideSequence, got %v", err)
	}

	mismatch := doc
	mismatch.TotalSlides = 5
	if err := mismatch.Validate(); !errors.Is(err, ErrSlideCountMismatch) {
		t.Errorf("Expected ErrSlideCountMismatch, got %v", err)
	}

	dup := doc
	dup.Slides = []SlideRecord{validSlide("slide-1"), validSlide("slide-1")}
	if err := dup.Validate(); !errors.Is(err, ErrDuplicateSlideID) {
		t.Errorf("Expected ErrDuplicateSlideID, got %v", err)
	}

	untitled := doc
	untitled.Title = ""
	if err := untitled.Validate(); !errors.Is(err, ErrEmptyDocumentTitle) {
		t.Errorf("Expected ErrEmptyDocumentTitle, got %v", err)
	}
}

func TestIsValidDocumentKind(t *testing.T) {
	t.Parallel()

	if !IsValidDocumentKind(KindSOW) || !IsValidDocumentKind(KindStandardPresentation) {
		t.Error("Expected both document kinds to be valid")
	}
	if IsValidDocumentKind("pitch-deck") {
		t.Error("Expected unknown kind to be invalid")
	}
}
