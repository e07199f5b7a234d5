// pkg/ai/gemini_client.go

package ai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned by NewGemini when no credential is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not configured")

// contentStreamer is the part of *genai.Models the client uses.
type contentStreamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

type gemini struct {
	models contentStreamer
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &gemini{models: client.Models, model: model}, nil
}

func (c *gemini) Generate(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  req.ResponseMIMEType,
		SafetySettings:    toGenAISafety(req.SafetySettings),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(req.UserMessage, genai.RoleUser),
	}

	// Chunks are only concatenated here; nothing parses a partial reply.
	var sb strings.Builder
	for resp, err := range c.models.GenerateContentStream(ctx, c.model, contents, config) {
		if err != nil {
			return "", fmt.Errorf("gemini generate: %w", err)
		}
		if resp == nil {
			continue
		}
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked the prompt: %s %s", fb.BlockReason, fb.BlockReasonMessage)
		}
		sb.WriteString(resp.Text())
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini returned an empty reply")
	}
	return text, nil
}

func toGenAISafety(settings []SafetySetting) []*genai.SafetySetting {
	out := make([]*genai.SafetySetting, 0, len(settings))
	for _, s := range settings {
		out = append(out, &genai.SafetySetting{
			Category:  genaiCategory(s.Category),
			Threshold: genaiThreshold(s.Threshold),
		})
	}
	return out
}

func genaiCategory(c HarmCategory) genai.HarmCategory {
	switch c {
	case HarmHarassment:
		return genai.HarmCategoryHarassment
	case HarmHateSpeech:
		return genai.HarmCategoryHateSpeech
	case HarmSexuallyExplicit:
		return genai.HarmCategorySexuallyExplicit
	case HarmDangerousContent:
		return genai.HarmCategoryDangerousContent
	default:
		return genai.HarmCategoryUnspecified
	}
}

func genaiThreshold(t BlockThreshold) genai.HarmBlockThreshold {
	switch t {
	case BlockLowAndAbove:
		return genai.HarmBlockThresholdBlockLowAndAbove
	case BlockMediumAndAbove:
		return genai.HarmBlockThresholdBlockMediumAndAbove
	case BlockOnlyHigh:
		return genai.HarmBlockThresholdBlockOnlyHigh
	case BlockNone:
		return genai.HarmBlockThresholdBlockNone
	default:
		return genai.HarmBlockThresholdUnspecified
	}
}
