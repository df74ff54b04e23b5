package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_model_service.go -package=mocks -mock_names=ModelService=MockModelService chemchat/internal/service ModelService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chemchat/internal/contextutil"
	"chemchat/internal/llm"
)

// Generation defaults applied when a request leaves a parameter unset.
const (
	DefaultMaxLength   = 512
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
)

// Model identity reported by the stub.
const (
	ModelName = "AI4Chem/ChemLLM-7B-Chat-1.5-DPO"
	ModelType = "ChemLLM-7B-Chat-1.5-DPO"
	Device    = "cpu"
)

// GenerateRequest represents a generation request in the domain layer.
type GenerateRequest struct {
	Prompt      string
	MaxLength   int
	Temperature float64
	TopP        float64
}

// GenerateResult represents a completed generation.
type GenerateResult struct {
	Text        string
	GeneratedAt time.Time
}

// ModelService answers status and generation calls for the ChemLLM routes.
type ModelService interface {
	// Info reports the model record served by the status route.
	Info(ctx context.Context) llm.StatusInfo
	// Generate produces a response. It returns a ValidationError for an empty prompt
	// and ErrModelNotLoaded when the model is not loaded.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// StubConfig configures the canned model.
type StubConfig struct {
	// Status is reported verbatim; only "loaded" allows generation.
	Status string
	// Latency delays every generation.
	Latency time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type cannedAnswer struct {
	keywords []string
	text     string
}

// The first entry whose keywords all appear in the prompt wins.
var cannedAnswers = []cannedAnswer{
	{[]string{"boiling", "ethanol"}, "78.37 °C"},
	{[]string{"boiling", "water"}, "Water boils at **100 °C** at 1 atm (373.15 K)."},
	{[]string{"benzene"}, "Benzene (C₆H₆) is an aromatic hydrocarbon. It boils at 80.1 °C and melts at 5.5 °C."},
	{[]string{"sodium chloride"}, "Sodium chloride (NaCl) forms a face-centred cubic lattice and melts at 801 °C."},
	{[]string{"nacl"}, "Sodium chloride (NaCl) forms a face-centred cubic lattice and melts at 801 °C."},
	{[]string{"avogadro"}, "Avogadro's constant is 6.02214076 × 10²³ mol⁻¹."},
}

// stubModelService implements ModelService with canned chemistry answers.
type stubModelService struct {
	cfg StubConfig
}

// NewStubModelService creates a ModelService that never loads real weights.
func NewStubModelService(cfg StubConfig) ModelService {
	if cfg.Status == "" {
		cfg.Status = llm.StatusLoaded
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &stubModelService{cfg: cfg}
}

func (s *stubModelService) Info(ctx context.Context) llm.StatusInfo {
	info := llm.StatusInfo{
		Status:    s.cfg.Status,
		ModelName: ModelName,
		Device:    Device,
		ModelType: ModelType,
	}
	switch s.cfg.Status {
	case llm.StatusLoaded:
	case "disabled":
		info.Error = "ChemLLM is disabled in this deployment"
	case "dependencies_missing":
		info.Error = "torch and transformers are not installed"
	default:
		info.Error = "model weights are not loaded"
	}
	return info
}

// Generate returns a canned answer after the configured latency.
func (s *stubModelService) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		logger.WarnContext(ctx, "empty prompt in generate request")
		return GenerateResult{}, &ValidationError{
			Field:   "prompt",
			Message: "cannot be empty",
		}
	}

	if s.cfg.Status != llm.StatusLoaded {
		logger.WarnContext(ctx, "generate requested while model not loaded", "status", s.cfg.Status)
		return GenerateResult{}, ErrModelNotLoaded
	}

	if req.MaxLength <= 0 {
		req.MaxLength = DefaultMaxLength
	}

	if s.cfg.Latency > 0 {
		timer := time.NewTimer(s.cfg.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return GenerateResult{}, WrapError(ctx.Err(), "generation interrupted")
		}
	}

	text := truncateWords(answerFor(prompt), req.MaxLength)
	logger.InfoContext(ctx, "generate request processed successfully",
		"prompt_length", len(prompt), "reply_length", len(text), "max_length", req.MaxLength)
	return GenerateResult{Text: text, GeneratedAt: s.cfg.Clock()}, nil
}

func answerFor(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, a := range cannedAnswers {
		matched := true
		for _, kw := range a.keywords {
			if !strings.Contains(lower, kw) {
				matched = false
				break
			}
		}
		if matched {
			return a.text
		}
	}
	return fmt.Sprintf("This is a stub ChemLLM server, so it has no answer for %q. Point chemchat at a real ChemLLM backend for full responses.", prompt)
}

// truncateWords keeps at most n whitespace-separated words.
func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}
