package aicat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/perrors"
)

// GeminiClassifier implements Classifier on top of the Gemini API.
type GeminiClassifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClassifier creates a classifier bound to the given model name.
// The API key comes from configuration; callers should not construct one
// when no key is set.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, logger logging.Logger) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &perrors.AIServiceError{Operation: "create client", Err: err}
	}

	return &GeminiClassifier{
		client: client,
		model:  client.GenerativeModel(model),
		logger: logger,
	}, nil
}

// Classify asks the model to pick one of the allowed labels for the given
// description. Errors are wrapped as AIServiceError with the transient
// flag set for rate limits, server errors and deadline expiry.
func (g *GeminiClassifier) Classify(ctx context.Context, description string, allowed []string) (string, error) {
	prompt := buildPrompt(description, allowed)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapServiceError("generate content", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &perrors.AIServiceError{
			Operation: "generate content",
			Transient: true,
			Err:       errors.New("empty response"),
		}
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	label := extractCategory(text)
	g.logger.WithFields(
		logging.Field{Key: logging.FieldShortDesc, Value: description},
		logging.Field{Key: logging.FieldCategory, Value: label},
	).Debug("Classifier response")

	return label, nil
}

// Close releases the underlying API client.
func (g *GeminiClassifier) Close() error {
	return g.client.Close()
}

func buildPrompt(description string, allowed []string) string {
	var sb strings.Builder
	sb.WriteString("You are a financial transaction categorizer.\n")
	sb.WriteString("Assign exactly one category to the transaction description below.\n")
	sb.WriteString("You must answer with one of these categories and nothing else:\n")
	for _, c := range allowed {
		sb.WriteString("- ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	sb.WriteString("\nTransaction: ")
	sb.WriteString(description)
	sb.WriteString("\n\nAnswer in the format:\nCategory: <category>\n")
	return sb.String()
}

// extractCategory pulls the label out of the model response. The prompt
// asks for a "Category:" line; a bare label on the first line is accepted
// as well since models do not always follow the format.
func extractCategory(response string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "Category:"); ok {
			return strings.TrimSpace(after)
		}
	}
	for _, line := range strings.Split(response, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// wrapServiceError tags API failures as transient or permanent. Rate
// limits (429), server-side errors (5xx) and deadline expiry are worth a
// retry; auth failures and cancellation are not.
func wrapServiceError(op string, err error) error {
	var gerr *googleapi.Error
	transient := false
	switch {
	case errors.As(err, &gerr):
		transient = gerr.Code == 429 || gerr.Code >= 500
	case errors.Is(err, context.DeadlineExceeded):
		transient = true
	}
	return &perrors.AIServiceError{Operation: op, Transient: transient, Err: err}
}
