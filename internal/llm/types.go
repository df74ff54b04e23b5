package llm

// GenerateRequest is the payload sent to the generation endpoint.
type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// StatusInfo describes the model as reported by the server.
type StatusInfo struct {
	Status    string `json:"status"`
	ModelName string `json:"model_name"`
	Device    string `json:"device"`
	ModelType string `json:"model_type"`
	Error     string `json:"error,omitempty"`
}

// Loaded reports whether the server considers the model ready.
func (s StatusInfo) Loaded() bool {
	return s.Status == StatusLoaded
}

// StatusLoaded is the only status value that means the model can serve requests.
const StatusLoaded = "loaded"

// GenerateResponse is the body returned by the generation endpoint.
// A reachable server that refuses the request sets Success=false and Error.
type GenerateResponse struct {
	Success     bool        `json:"success"`
	Response    string      `json:"response,omitempty"`
	Timestamp   string      `json:"timestamp,omitempty"`
	Error       string      `json:"error,omitempty"`
	ModelStatus *StatusInfo `json:"model_status,omitempty"`
	ModelInfo   *StatusInfo `json:"model_info,omitempty"`
}

// StatusResponse is the body returned by the status endpoint.
type StatusResponse struct {
	Success   bool        `json:"success"`
	ModelInfo *StatusInfo `json:"model_info,omitempty"`
	Error     string      `json:"error,omitempty"`
}
