package api

import (
	"log/slog"
	"net/http"

	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/generation"
	"github.com/slidesmith/slidesmith-api/internal/infographic"
	"github.com/slidesmith/slidesmith-api/internal/platform/logger"
)

// GenerateHandler handles document and infographic generation requests.
type GenerateHandler struct {
	generator   generation.DocumentGenerator
	infographer *infographic.Service
}

// NewGenerateHandler creates a new GenerateHandler with the given dependencies.
func NewGenerateHandler(
	generator generation.DocumentGenerator,
	infographer *infographic.Service,
) *GenerateHandler {
	return &GenerateHandler{
		generator:   generator,
		infographer: infographer,
	}
}

// description resolves the request's free-text description, falling back
// to the legacy bare prompt field.
func (req *GeneratePresentationRequest) description() string {
	if req.ProjectDescription != "" {
		return req.ProjectDescription
	}
	return req.Prompt
}

// fields converts the request payload into the generation input map,
// omitting empty values.
func (req *GeneratePresentationRequest) fields() generation.Fields {
	f := generation.Fields{}
	for name, value := range map[string]string{
		generation.FieldProjectDescription: req.description(),
		generation.FieldRequirements:       req.Requirements,
		generation.FieldDeliverables:       req.Deliverables,
		generation.FieldDuration:           req.Duration,
		generation.FieldBudget:             req.Budget,
		generation.FieldSupportService:     req.SupportService,
		generation.FieldLegalTerms:         req.LegalTerms,
		generation.FieldTermination:        req.TerminationClause,
		generation.FieldClientName:         req.ClientName,
	} {
		if value != "" {
			f[name] = value
		}
	}
	return f
}

// kind resolves the document kind: an explicit value wins, otherwise it is
// sniffed from the description text.
func (req *GeneratePresentationRequest) kind() domain.DocumentKind {
	if req.Kind != "" {
		return domain.DocumentKind(req.Kind)
	}
	return generation.DetectKind(req.description())
}

// GeneratePresentation handles the /api/generate-presentation endpoint.
func (h *GenerateHandler) GeneratePresentation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	var req GeneratePresentationRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	doc, err := h.generator.Generate(r.Context(), req.kind(), req.fields())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	// The deck closes with an infographic slide. Its generation degrades
	// internally, so the document is never lost to an image failure.
	info := h.infographer.Generate(r.Context(), doc)
	doc.Slides = append(doc.Slides, info.Slide(len(doc.Slides)+1))
	doc.TotalSlides = len(doc.Slides)

	log.Info("presentation generated",
		slog.String("kind", string(req.kind())),
		slog.Int("slides", doc.TotalSlides))

	RespondWithJSON(w, r, http.StatusOK, GeneratePresentationResponse{
		Success: true,
		Data:    doc,
	})
}

// GenerateInfograph handles the /api/generate-infograph endpoint.
func (h *GenerateHandler) GenerateInfograph(w http.ResponseWriter, r *http.Request) {
	var req GenerateInfographRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Presentation == nil || len(req.Presentation.Slides) == 0 {
		RespondWithError(w, r, http.StatusBadRequest, "Presentation with at least one slide is required")
		return
	}

	// Infographic generation degrades internally, it does not fail.
	info := h.infographer.Generate(r.Context(), req.Presentation)
	RespondWithJSON(w, r, http.StatusOK, GenerateInfographResponse{
		Success:   true,
		Infograph: info,
	})
}
