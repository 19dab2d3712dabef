package infographic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/generation"
)

// ImageInvoker is the image-generation transport: one prompt in, raw
// base64 PNG data out.
type ImageInvoker interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageSaver persists raw base64 image data and returns its public URL.
type ImageSaver interface {
	SaveBase64Image(data string) (string, error)
}

// Insight is one highlighted takeaway on the infographic.
type Insight struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	VisualType string `json:"visual_type"`
}

// Infograph is the assembled infographic: the rendered image plus the
// structured insight content that accompanies it.
type Infograph struct {
	Title       string    `json:"title"`
	Sections    []Insight `json:"sections"`
	Description string    `json:"description,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	ImageURL    string    `json:"image_url"`
}

const imagePromptInstruction = `Based on the presentation data provided, create a detailed, visual prompt for generating an infographic image.
The prompt should describe:
- Overall theme and color scheme matching the presentation
- Key visual elements (charts, icons, diagrams)
- Layout and composition (professional infographic style)
- Text placement and hierarchy
- Modern, clean design aesthetic
- Data visualization elements

Return only the image generation prompt, nothing else.`

const insightsInstruction = `You are an expert infographic designer. Based on the presentation data provided,
create a structured description of key insights that complement the generated image.

Return a JSON object with this structure:
{
  "title": "Key Insights",
  "sections": [
    {
      "title": "Section Title",
      "content": "Brief, impactful content",
      "visual_type": "highlight"
    }
  ],
  "description": "Brief description of the infographic content",
  "summary": "One-line summary of key takeaway"
}

Keep sections concise and impactful. Maximum 4 sections.`

// promptEnhancement is appended to every image prompt before rendering.
const promptEnhancement = ", professional infographic design, clean modern layout, data visualization, " +
	"charts and graphs, high quality, 4K resolution, corporate style, readable text, clear hierarchy"

var htmlTagPattern = regexp.MustCompile(`<[^<]+?>`)

// maxTopicChars caps the text carried from each slide into the summary.
const maxTopicChars = 300

// Service assembles infographics from presentation documents.
type Service struct {
	text            generation.ModelInvoker
	image           ImageInvoker
	saver           ImageSaver
	placeholderPath string
	logger          *slog.Logger
}

// NewService creates an infographic Service with explicit dependencies.
func NewService(
	text generation.ModelInvoker,
	image ImageInvoker,
	saver ImageSaver,
	placeholderPath string,
	logger *slog.Logger,
) (*Service, error) {
	if text == nil {
		return nil, fmt.Errorf("%w: text invoker cannot be nil", generation.ErrInvalidConfig)
	}
	if image == nil {
		return nil, fmt.Errorf("%w: image invoker cannot be nil", generation.ErrInvalidConfig)
	}
	if saver == nil {
		return nil, fmt.Errorf("%w: image saver cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Service{
		text:            text,
		image:           image,
		saver:           saver,
		placeholderPath: placeholderPath,
		logger:          logger.With(slog.String("component", "infographic_service")),
	}, nil
}

// Generate builds the infographic for a presentation. It never fails
// outright: each stage degrades independently, so the worst case is a
// placeholder image with canned insights.
func (s *Service) Generate(ctx context.Context, doc *domain.GeneratedDocument) *Infograph {
	imagePrompt := s.buildImagePrompt(ctx, doc)
	imageURL := s.renderImage(ctx, imagePrompt)

	info := s.buildInsights(ctx, doc)
	info.ImageURL = imageURL
	info.Title = fmt.Sprintf("Key Insights: %s", docTitle(doc))

	s.logger.InfoContext(ctx, "infographic generated",
		slog.String("image_url", imageURL),
		slog.Int("sections", len(info.Sections)))
	return info
}

// buildImagePrompt asks the text model for a visual prompt describing the
// presentation. Any failure falls back to a generic prompt built from the
// title.
func (s *Service) buildImagePrompt(ctx context.Context, doc *domain.GeneratedDocument) string {
	summary := map[string]any{
		"title":      docTitle(doc),
		"theme":      docTheme(doc),
		"key_topics": keyTopics(doc),
	}

	payload, err := json.Marshal(summary)
	if err == nil {
		prompt, invokeErr := s.text.Invoke(ctx, imagePromptInstruction,
			fmt.Sprintf("Create an infographic image prompt for: %s", payload))
		if invokeErr == nil && strings.TrimSpace(prompt) != "" {
			return strings.TrimSpace(prompt)
		}
		err = invokeErr
	}

	s.logger.WarnContext(ctx, "falling back to generic image prompt",
		slog.Any("error", err))
	return fmt.Sprintf(
		"Professional infographic about %s, modern design, clean layout, data visualization, charts and graphs",
		docTitle(doc))
}

// renderImage generates and persists the image, returning the placeholder
// path when anything goes wrong.
func (s *Service) renderImage(ctx context.Context, prompt string) string {
	data, err := s.image.GenerateImage(ctx, prompt+promptEnhancement)
	if err != nil {
		s.logger.WarnContext(ctx, "image generation failed, using placeholder",
			slog.Any("error", err))
		return s.placeholderPath
	}

	url, err := s.saver.SaveBase64Image(data)
	if err != nil {
		s.logger.WarnContext(ctx, "image save failed, using placeholder",
			slog.Any("error", err))
		return s.placeholderPath
	}
	return url
}

// buildInsights asks the text model for the structured insight block,
// degrading to static content if the call or the JSON parse fails.
func (s *Service) buildInsights(ctx context.Context, doc *domain.GeneratedDocument) *Infograph {
	fallback := &Infograph{
		Title: "Key Insights",
		Sections: []Insight{
			{
				Title:      "Generated Insights",
				Content:    "AI-generated infographic with key presentation insights",
				VisualType: "highlight",
			},
		},
		Description: "Visual summary of presentation content",
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fallback
	}

	raw, err := s.text.Invoke(ctx, insightsInstruction,
		fmt.Sprintf("Create infographic insights for: %s", payload))
	if err != nil {
		s.logger.WarnContext(ctx, "insight generation failed, using fallback",
			slog.Any("error", err))
		return fallback
	}

	obj, err := generation.ExtractObject(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "insight response unparsable, using fallback",
			slog.Any("error", err))
		return fallback
	}

	encoded, err := json.Marshal(obj)
	if err != nil {
		return fallback
	}

	var info Infograph
	if err := json.Unmarshal(encoded, &info); err != nil || len(info.Sections) == 0 {
		return fallback
	}
	return &info
}

// Slide renders the infographic as a closing deck slide at the given
// 1-based position.
func (i *Infograph) Slide(position int) domain.SlideRecord {
	return domain.SlideRecord{
		ID:       fmt.Sprintf("slide-%d", position),
		Type:     "infograph",
		Template: domain.TemplateGeneric,
		Title:    "Key Insights",
		Content: fmt.Sprintf(`<div id="slide-content">
  <h2>Key Insights</h2>
  <img src=%q alt="Infographic" />
</div>`, i.ImageURL),
		ContentType: domain.ContentTypeMixed,
	}
}

func docTitle(doc *domain.GeneratedDocument) string {
	if doc == nil || doc.Title == "" {
		return "Presentation"
	}
	return doc.Title
}

func docTheme(doc *domain.GeneratedDocument) string {
	if doc == nil || doc.Theme == "" {
		return "modern"
	}
	return doc.Theme
}

// keyTopics extracts the readable text of each content slide, stripped of
// markup and capped per slide.
func keyTopics(doc *domain.GeneratedDocument) []string {
	if doc == nil {
		return nil
	}

	var topics []string
	for _, slide := range doc.Slides {
		if slide.Type == "infograph" {
			continue
		}
		text := htmlTagPattern.ReplaceAllString(slide.Content, "")
		text = strings.Join(strings.Fields(text), " ")
		text = truncateRunes(text, maxTopicChars)
		if text != "" {
			topics = append(topics, text)
		}
	}
	return topics
}

// truncateRunes caps s at maxRunes without splitting a multi-byte rune.
func truncateRunes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
