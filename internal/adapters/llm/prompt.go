package llm

import (
	"google.golang.org/genai"

	"github.com/PabloGalante/careerai/internal/domain"
)

const (
	defaultTopP      = float32(0.9)
	maxOutputTokens  = int32(8192)
	jsonResponseMIME = "application/json"
)

// buildContents turns a flow request into the single user turn sent to Gemini.
// The transcript, if any, is already serialized inside the prompt.
func buildContents(req domain.GenerateRequest) []*genai.Content {
	return []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}
}

// buildConfig asks for JSON constrained to the flow's output schema.
func buildConfig(req domain.GenerateRequest) *genai.GenerateContentConfig {
	temp := req.Temperature
	topP := defaultTopP

	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		TopP:             &topP,
		MaxOutputTokens:  maxOutputTokens,
		ResponseMIMEType: jsonResponseMIME,
	}
	if req.System != "" {
		// According to official examples, the role here is usually RoleUser, not "system"
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseJsonSchema = req.Schema
	}
	return cfg
}
