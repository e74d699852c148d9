package receipt

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for receipt analysis.
const DefaultModelName = "gemini-2.5-flash"

// Analyzer is the opaque image-to-text call to the generative backend. It
// returns the model's raw text; interpreting that text is Parse's job. This
// interface enables mocking the backend in tests.
type Analyzer interface {
	AnalyzeReceipt(ctx context.Context, imageBytes []byte, mimeType string) (string, error)
}

// GeminiAnalyzer is the concrete Analyzer backed by the Gemini API.
type GeminiAnalyzer struct {
	model string
}

// NewGeminiAnalyzer creates an Analyzer for the given model name. An empty
// name selects DefaultModelName.
func NewGeminiAnalyzer(model string) *GeminiAnalyzer {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiAnalyzer{model: model}
}

// AnalyzeReceipt sends the image with the accounting prompt and returns the
// model's raw text output. An empty model response is returned as an empty
// string, not an error; Parse rejects it with ErrEmptyResponse.
func (a *GeminiAnalyzer) AnalyzeReceipt(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("AnalyzeReceipt: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt()},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     imageBytes,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("AnalyzeReceipt: generate content: %w", err)
	}

	return resp.Text(), nil
}

// Ensure GeminiAnalyzer implements the Analyzer interface.
var _ Analyzer = (*GeminiAnalyzer)(nil)
