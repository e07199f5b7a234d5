package ai

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeStreamer struct {
	chunks []*genai.GenerateContentResponse
	err    error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (f *fakeStreamer) GenerateContentStream(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func textChunk(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(s, genai.RoleModel),
		}},
	}
}

func testRequest() Request {
	return Request{
		SystemInstruction: "instruções",
		UserMessage:       `{"quantidade":1}`,
		ResponseMIMEType:  "application/json",
		SafetySettings:    StrictSafety(),
	}
}

func TestGemini_ConcatenatesChunksInOrder(t *testing.T) {
	fs := &fakeStreamer{chunks: []*genai.GenerateContentResponse{
		textChunk(`{"data_fim_`),
		textChunk(`plantio": "2024-04-30",`),
		textChunk(` "tarefas": []}`),
	}}
	c := &gemini{models: fs, model: "gemini-2.0-flash"}

	out, err := c.Generate(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, `{"data_fim_plantio": "2024-04-30", "tarefas": []}`, out)
}

func TestGemini_SendsInstructionMessageAndSafety(t *testing.T) {
	fs := &fakeStreamer{chunks: []*genai.GenerateContentResponse{textChunk(`{}`)}}
	c := &gemini{models: fs, model: "gemini-2.0-flash"}

	_, err := c.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", fs.gotModel)
	require.Len(t, fs.gotContents, 1)
	assert.Equal(t, genai.RoleUser, fs.gotContents[0].Role)
	assert.Equal(t, `{"quantidade":1}`, fs.gotContents[0].Parts[0].Text)

	require.NotNil(t, fs.gotConfig)
	assert.Equal(t, "application/json", fs.gotConfig.ResponseMIMEType)
	assert.Equal(t, "instruções", fs.gotConfig.SystemInstruction.Parts[0].Text)
	require.Len(t, fs.gotConfig.SafetySettings, 4)
	cats := map[genai.HarmCategory]bool{}
	for _, s := range fs.gotConfig.SafetySettings {
		cats[s.Category] = true
		assert.Equal(t, genai.HarmBlockThresholdBlockLowAndAbove, s.Threshold)
	}
	assert.True(t, cats[genai.HarmCategoryHarassment])
	assert.True(t, cats[genai.HarmCategoryHateSpeech])
	assert.True(t, cats[genai.HarmCategorySexuallyExplicit])
	assert.True(t, cats[genai.HarmCategoryDangerousContent])
}

func TestGemini_StreamError(t *testing.T) {
	fs := &fakeStreamer{
		chunks: []*genai.GenerateContentResponse{textChunk(`{"parcial":`)},
		err:    errors.New("connection reset"),
	}
	c := &gemini{models: fs, model: "m"}

	_, err := c.Generate(context.Background(), testRequest())

	assert.EqualError(t, err, "gemini generate: connection reset")
}

func TestGemini_BlockedPrompt(t *testing.T) {
	fs := &fakeStreamer{chunks: []*genai.GenerateContentResponse{{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	}}}
	c := &gemini{models: fs, model: "m"}

	_, err := c.Generate(context.Background(), testRequest())

	assert.ErrorContains(t, err, "gemini blocked the prompt")
}

func TestGemini_EmptyReply(t *testing.T) {
	c := &gemini{models: &fakeStreamer{}, model: "m"}

	_, err := c.Generate(context.Background(), testRequest())

	assert.EqualError(t, err, "gemini returned an empty reply")
}

func TestNewGemini_MissingKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
