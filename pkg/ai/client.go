// pkg/ai/client.go

package ai

import "context"

type HarmCategory string

const (
	HarmHarassment       HarmCategory = "harassment"
	HarmHateSpeech       HarmCategory = "hate_speech"
	HarmSexuallyExplicit HarmCategory = "sexually_explicit"
	HarmDangerousContent HarmCategory = "dangerous_content"
)

type BlockThreshold string

const (
	BlockLowAndAbove    BlockThreshold = "block_low_and_above"
	BlockMediumAndAbove BlockThreshold = "block_medium_and_above"
	BlockOnlyHigh       BlockThreshold = "block_only_high"
	BlockNone           BlockThreshold = "block_none"
)

type SafetySetting struct {
	Category  HarmCategory
	Threshold BlockThreshold
}

// Request is one model invocation: a system instruction and a single user message.
type Request struct {
	SystemInstruction string
	UserMessage       string
	ResponseMIMEType  string
	SafetySettings    []SafetySetting
}

// Client is the only I/O dependency of plan generation. Generate returns the
// whole reply text; streamed replies are concatenated in order first.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// StrictSafety blocks every category from low probability up.
func StrictSafety() []SafetySetting {
	return []SafetySetting{
		{Category: HarmHarassment, Threshold: BlockLowAndAbove},
		{Category: HarmHateSpeech, Threshold: BlockLowAndAbove},
		{Category: HarmSexuallyExplicit, Threshold: BlockLowAndAbove},
		{Category: HarmDangerousContent, Threshold: BlockLowAndAbove},
	}
}
