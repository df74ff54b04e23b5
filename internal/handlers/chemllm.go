package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chemchat/internal/contextutil"
	"chemchat/internal/llm"
	"chemchat/internal/service"
)

// TimestampLayout matches the naive ISO format the ChemLLM server emits.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// maxBodyBytes caps a generate request body.
const maxBodyBytes = 1 << 20

// ChemLLMHandler serves the ChemLLM status and generate routes.
type ChemLLMHandler struct {
	model service.ModelService
}

// NewChemLLMHandler creates a new ChemLLMHandler.
func NewChemLLMHandler(model service.ModelService) *ChemLLMHandler {
	return &ChemLLMHandler{model: model}
}

// generateRequest uses pointers so absent parameters fall back to the route defaults.
type generateRequest struct {
	Prompt      string   `json:"prompt"`
	MaxLength   *int     `json:"max_length"`
	Temperature *float64 `json:"temperature"`
	TopP        *float64 `json:"top_p"`
}

// Status handles GET /chemllm/status.
func (h *ChemLLMHandler) Status(w http.ResponseWriter, r *http.Request) {
	info := h.model.Info(r.Context())
	writeJSON(w, r, http.StatusOK, llm.StatusResponse{
		Success:   true,
		ModelInfo: &info,
	})
}

// Generate handles POST /chemllm/generate.
//
// Returns 400 for a missing prompt, 503 with model_status when the model is not
// loaded, and 200 with the response, timestamp and model_info otherwise.
func (h *ChemLLMHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeJSON(w, r, http.StatusBadRequest, llm.GenerateResponse{Error: "Invalid request body"})
		return
	}

	svcReq := service.GenerateRequest{
		Prompt:      req.Prompt,
		MaxLength:   service.DefaultMaxLength,
		Temperature: service.DefaultTemperature,
		TopP:        service.DefaultTopP,
	}
	if req.MaxLength != nil {
		svcReq.MaxLength = *req.MaxLength
	}
	if req.Temperature != nil {
		svcReq.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		svcReq.TopP = *req.TopP
	}

	result, err := h.model.Generate(ctx, svcReq)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeJSON(w, r, http.StatusBadRequest, llm.GenerateResponse{Error: "Prompt is required"})
		return
	case errors.Is(err, service.ErrModelNotLoaded):
		info := h.model.Info(ctx)
		writeJSON(w, r, http.StatusServiceUnavailable, llm.GenerateResponse{
			Error:       "ChemLLM model is not available. Please check the model installation.",
			ModelStatus: &info,
		})
		return
	case err != nil:
		logger.ErrorContext(ctx, "service error", "error", err)
		writeJSON(w, r, http.StatusInternalServerError, llm.GenerateResponse{Error: err.Error()})
		return
	}

	info := h.model.Info(ctx)
	writeJSON(w, r, http.StatusOK, llm.GenerateResponse{
		Success:   true,
		Response:  result.Text,
		Timestamp: result.GeneratedAt.UTC().Format(TimestampLayout),
		ModelInfo: &info,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		contextutil.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}
