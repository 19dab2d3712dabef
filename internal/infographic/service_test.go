package infographic

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/generation"
)

type fakeTextInvoker struct {
	responses map[string]string // keyed by instruction prefix
	err       error
}

func (f *fakeTextInvoker) Invoke(_ context.Context, instruction, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for prefix, resp := range f.responses {
		if strings.HasPrefix(instruction, prefix) {
			return resp, nil
		}
	}
	return "", errors.New("unexpected instruction")
}

type fakeImageInvoker struct {
	data       string
	err        error
	lastPrompt string
}

func (f *fakeImageInvoker) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.data, f.err
}

type fakeSaver struct {
	url string
	err error
}

func (f *fakeSaver) SaveBase64Image(string) (string, error) {
	return f.url, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const placeholder = "/public/placeholder-infographic.png"

func testDoc() *domain.GeneratedDocument {
	return &domain.GeneratedDocument{
		Title:    "Quarterly Review",
		Theme:    "standard",
		Template: "plain",
		Slides: []domain.SlideRecord{
			{
				ID:          "slide-1",
				Type:        "content",
				Template:    domain.TemplateGeneric,
				Title:       "Revenue",
				Content:     "<div id=\"slide-content\"><p>Revenue grew 20%</p></div>",
				ContentType: domain.ContentTypeText,
			},
		},
		TotalSlides: 1,
	}
}

func insightsJSON() string {
	return `{"title":"Key Insights","sections":[{"title":"Growth","content":"Revenue grew 20%","visual_type":"highlight"}],"description":"Summary","summary":"Strong quarter"}`
}

func newService(t *testing.T, text generation.ModelInvoker, image ImageInvoker, saver ImageSaver) *Service {
	t.Helper()
	svc, err := NewService(text, image, saver, placeholder, testLogger())
	require.NoError(t, err)
	return svc
}

func TestGenerateHappyPath(t *testing.T) {
	text := &fakeTextInvoker{responses: map[string]string{
		"Based on the presentation data provided, create a detailed": "vibrant corporate infographic",
		"You are an expert infographic designer":                     insightsJSON(),
	}}
	image := &fakeImageInvoker{data: base64.StdEncoding.EncodeToString([]byte("png-bytes"))}
	saver := &fakeSaver{url: "/public/gen_abc.png"}

	info := newService(t, text, image, saver).Generate(context.Background(), testDoc())

	assert.Equal(t, "/public/gen_abc.png", info.ImageURL)
	assert.Equal(t, "Key Insights: Quarterly Review", info.Title)
	require.Len(t, info.Sections, 1)
	assert.Equal(t, "Growth", info.Sections[0].Title)
	assert.Equal(t, "Strong quarter", info.Summary)

	// The rendered prompt carries the styling enhancement suffix.
	assert.True(t, strings.HasPrefix(image.lastPrompt, "vibrant corporate infographic"))
	assert.Contains(t, image.lastPrompt, "4K resolution")
}

func TestGenerateImageFailureUsesPlaceholder(t *testing.T) {
	text := &fakeTextInvoker{responses: map[string]string{
		"Based on the presentation data provided, create a detailed": "a prompt",
		"You are an expert infographic designer":                     insightsJSON(),
	}}
	image := &fakeImageInvoker{err: generation.Transient(errors.New("throttled"))}

	info := newService(t, text, image, &fakeSaver{}).Generate(context.Background(), testDoc())

	assert.Equal(t, placeholder, info.ImageURL)
	require.Len(t, info.Sections, 1)
}

func TestGenerateSaveFailureUsesPlaceholder(t *testing.T) {
	text := &fakeTextInvoker{responses: map[string]string{
		"Based on the presentation data provided, create a detailed": "a prompt",
		"You are an expert infographic designer":                     insightsJSON(),
	}}
	image := &fakeImageInvoker{data: "aW1n"}
	saver := &fakeSaver{err: errors.New("disk full")}

	info := newService(t, text, image, saver).Generate(context.Background(), testDoc())
	assert.Equal(t, placeholder, info.ImageURL)
}

func TestGenerateTextFailureDegradesEverywhere(t *testing.T) {
	text := &fakeTextInvoker{err: generation.Permanent(errors.New("access denied"))}
	image := &fakeImageInvoker{data: "aW1n"}
	saver := &fakeSaver{url: "/public/gen_xyz.png"}

	info := newService(t, text, image, saver).Generate(context.Background(), testDoc())

	// Image prompt fell back to the generic form but the image still rendered.
	assert.Contains(t, image.lastPrompt, "Professional infographic about Quarterly Review")
	assert.Equal(t, "/public/gen_xyz.png", info.ImageURL)

	// Insights fell back to the canned section.
	require.Len(t, info.Sections, 1)
	assert.Equal(t, "Generated Insights", info.Sections[0].Title)
	assert.Equal(t, "Key Insights: Quarterly Review", info.Title)
}

func TestGenerateUnparsableInsightsFallsBack(t *testing.T) {
	text := &fakeTextInvoker{responses: map[string]string{
		"Based on the presentation data provided, create a detailed": "a prompt",
		"You are an expert infographic designer":                     "not json at all",
	}}
	image := &fakeImageInvoker{data: "aW1n"}
	saver := &fakeSaver{url: "/public/gen_1.png"}

	info := newService(t, text, image, saver).Generate(context.Background(), testDoc())
	require.Len(t, info.Sections, 1)
	assert.Equal(t, "Generated Insights", info.Sections[0].Title)
}

func TestGenerateFencedInsightsParsed(t *testing.T) {
	text := &fakeTextInvoker{responses: map[string]string{
		"Based on the presentation data provided, create a detailed": "a prompt",
		"You are an expert infographic designer":                     "```json\n" + insightsJSON() + "\n```",
	}}
	image := &fakeImageInvoker{data: "aW1n"}
	saver := &fakeSaver{url: "/public/gen_2.png"}

	info := newService(t, text, image, saver).Generate(context.Background(), testDoc())
	require.Len(t, info.Sections, 1)
	assert.Equal(t, "Growth", info.Sections[0].Title)
}

func TestKeyTopicsStripMarkupAndSkipInfographSlides(t *testing.T) {
	doc := testDoc()
	doc.Slides = append(doc.Slides, domain.SlideRecord{
		ID:       "slide-2",
		Type:     "infograph",
		Template: domain.TemplateGeneric,
		Content:  "<p>should be skipped</p>",
	})

	topics := keyTopics(doc)
	require.Len(t, topics, 1)
	assert.Equal(t, "Revenue grew 20%", topics[0])
}

func TestKeyTopicsCapsLength(t *testing.T) {
	doc := testDoc()
	doc.Slides[0].Content = strings.Repeat("word ", 200)

	topics := keyTopics(doc)
	require.Len(t, topics, 1)
	assert.LessOrEqual(t, utf8.RuneCountInString(topics[0]), maxTopicChars)
}

func TestKeyTopicsCapKeepsRunesIntact(t *testing.T) {
	doc := testDoc()
	doc.Slides[0].Content = strings.Repeat("ü", maxTopicChars+50)

	topics := keyTopics(doc)
	require.Len(t, topics, 1)
	assert.True(t, utf8.ValidString(topics[0]))
	assert.Equal(t, maxTopicChars, utf8.RuneCountInString(topics[0]))
}

func TestInfographSlide(t *testing.T) {
	info := &Infograph{ImageURL: "/public/gen_abc.png"}

	slide := info.Slide(8)

	assert.Equal(t, "slide-8", slide.ID)
	assert.Equal(t, "infograph", slide.Type)
	assert.Equal(t, domain.TemplateGeneric, slide.Template)
	assert.Equal(t, domain.ContentTypeMixed, slide.ContentType)
	assert.True(t, strings.HasPrefix(slide.Content, `<div id="slide-content">`))
	assert.Contains(t, slide.Content, `src="/public/gen_abc.png"`)
	require.NoError(t, slide.Validate())
}
