package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/careerai/internal/domain"
)

type GeminiConfig struct {
	APIKey    string // Gemini API; takes precedence over Vertex
	ProjectID string // Vertex AI
	Location  string
	Model     string
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a domain.Generator backed by the Gemini API when an
// API key is given, or by Vertex AI otherwise.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.ProjectID != "" && cfg.Location != "":
		cc.Project = cfg.ProjectID
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini: an API key or a project and location are required")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Generate implements domain.Generator.
func (g *GeminiClient) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.modelName, buildContents(req), buildConfig(req))
	if err != nil {
		return "", fmt.Errorf("gemini generate content (%s): %w", req.Flow, err)
	}

	// Only the text, never the structs.
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text for %s", req.Flow)
	}

	return text, nil
}
