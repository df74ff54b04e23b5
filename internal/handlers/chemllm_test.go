package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"chemchat/internal/llm"
	"chemchat/internal/service"
	"chemchat/internal/service/mocks"
)

var loaded = llm.StatusInfo{Status: "loaded", ModelName: service.ModelName, Device: "cpu", ModelType: service.ModelType}

func TestNewChemLLMHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockModel := mocks.NewMockModelService(ctrl)
	handler := NewChemLLMHandler(mockModel)

	if handler == nil {
		t.Fatal("NewChemLLMHandler() returned nil")
	}
	if handler.model != mockModel {
		t.Error("NewChemLLMHandler() model not set correctly")
	}
}

func TestChemLLMHandler_Status(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockModel := mocks.NewMockModelService(ctrl)
	mockModel.EXPECT().Info(gomock.Any()).Return(loaded)

	w := httptest.NewRecorder()
	NewChemLLMHandler(mockModel).Status(w, httptest.NewRequest(http.MethodGet, "/chemllm/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Status() status = %d, want 200", w.Code)
	}
	var resp llm.StatusResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.ModelInfo == nil || *resp.ModelInfo != loaded {
		t.Errorf("Status() response = %+v", resp)
	}
}

func TestChemLLMHandler_Generate(t *testing.T) {
	generatedAt := time.Date(2026, 5, 1, 12, 0, 3, 123456000, time.UTC)

	tests := []struct {
		name          string
		body          any
		mockSetup     func(*mocks.MockModelService)
		wantStatus    int
		checkResponse func(*testing.T, llm.GenerateResponse)
	}{
		{
			name: "success",
			body: map[string]any{"prompt": "What is the boiling point of ethanol?", "max_length": 200, "temperature": 0.7, "top_p": 0.9},
			mockSetup: func(m *mocks.MockModelService) {
				m.EXPECT().
					Generate(gomock.Any(), service.GenerateRequest{Prompt: "What is the boiling point of ethanol?", MaxLength: 200, Temperature: 0.7, TopP: 0.9}).
					Return(service.GenerateResult{Text: "78.37 °C", GeneratedAt: generatedAt}, nil)
				m.EXPECT().Info(gomock.Any()).Return(loaded)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp llm.GenerateResponse) {
				if !resp.Success || resp.Response != "78.37 °C" {
					t.Errorf("response = %+v", resp)
				}
				if resp.Timestamp != "2026-05-01T12:00:03.123456" {
					t.Errorf("timestamp = %q", resp.Timestamp)
				}
				if resp.ModelInfo == nil || resp.ModelInfo.Status != "loaded" {
					t.Errorf("model_info = %+v", resp.ModelInfo)
				}
			},
		},
		{
			name: "defaults applied",
			body: map[string]any{"prompt": "benzene"},
			mockSetup: func(m *mocks.MockModelService) {
				m.EXPECT().
					Generate(gomock.Any(), service.GenerateRequest{Prompt: "benzene", MaxLength: 512, Temperature: 0.7, TopP: 0.9}).
					Return(service.GenerateResult{Text: "aromatic", GeneratedAt: generatedAt}, nil)
				m.EXPECT().Info(gomock.Any()).Return(loaded)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "empty prompt",
			body: map[string]any{"prompt": ""},
			mockSetup: func(m *mocks.MockModelService) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).
					Return(service.GenerateResult{}, &service.ValidationError{Field: "prompt", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp llm.GenerateResponse) {
				if resp.Success || resp.Error != "Prompt is required" {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name: "model not loaded",
			body: map[string]any{"prompt": "benzene"},
			mockSetup: func(m *mocks.MockModelService) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(service.GenerateResult{}, service.ErrModelNotLoaded)
				m.EXPECT().Info(gomock.Any()).Return(llm.StatusInfo{Status: "not_loaded", Error: "model weights are not loaded"})
			},
			wantStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, resp llm.GenerateResponse) {
				if resp.Success || resp.Error == "" {
					t.Errorf("response = %+v", resp)
				}
				if resp.ModelStatus == nil || resp.ModelStatus.Status != "not_loaded" {
					t.Errorf("model_status = %+v", resp.ModelStatus)
				}
			},
		},
		{
			name: "unexpected service error",
			body: map[string]any{"prompt": "benzene"},
			mockSetup: func(m *mocks.MockModelService) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(service.GenerateResult{}, errors.New("CUDA out of memory"))
			},
			wantStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, resp llm.GenerateResponse) {
				if resp.Error != "CUDA out of memory" {
					t.Errorf("error = %q", resp.Error)
				}
			},
		},
		{
			name:       "invalid JSON body",
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockModelService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockModel := mocks.NewMockModelService(ctrl)
			tt.mockSetup(mockModel)

			var body []byte
			if s, ok := tt.body.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/chemllm/generate", bytes.NewReader(body)).WithContext(context.Background())
			w := httptest.NewRecorder()

			NewChemLLMHandler(mockModel).Generate(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Generate() status = %d, want %d", w.Code, tt.wantStatus)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if tt.checkResponse != nil {
				var resp llm.GenerateResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				tt.checkResponse(t, resp)
			}
		})
	}
}
