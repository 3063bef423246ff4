package assistant

import (
	"context"
	"errors"
	"log/slog"

	"vibella/internal/config"
	"vibella/internal/middleware"
	"vibella/internal/observability"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const systemPrompt = "You are a supportive mental wellness assistant for the " +
	"Vibella community. Offer practical, gentle guidance on stress, anxiety, " +
	"sleep, breathing exercises, meditation and healthy habits. Keep replies " +
	"short and concrete. You are not a medical professional: for persistent " +
	"or severe symptoms, encourage the user to seek professional help."

// Source labels for replies.
const (
	SourceLLM    = "llm"
	SourceCanned = "canned"
)

// Reply is an assistant answer together with where it came from.
type Reply struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Assistant answers wellness questions. With no configured model it runs
// purely on canned responses; with one, the LLM is tried first and the
// canned responder covers failures.
type Assistant struct {
	model     llms.Model
	maxTokens int
}

// New builds an Assistant from config. An empty LLM_API_KEY yields a
// canned-only assistant and is not an error.
func New(cfg *config.Config) (*Assistant, error) {
	a := &Assistant{maxTokens: cfg.LLMMaxTokens}
	if cfg.LLMAPIKey == "" {
		return a, nil
	}

	opts := []openai.Option{
		openai.WithModel(cfg.LLMModel),
		openai.WithToken(cfg.LLMAPIKey),
	}
	if cfg.LLMBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.LLMBaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	a.model = model
	return a, nil
}

// Respond answers a user message. The reply's Source reports whether the
// model or the canned fallback produced it.
func (a *Assistant) Respond(ctx context.Context, message string) (*Reply, error) {
	if message == "" {
		return nil, errors.New("empty message")
	}

	if a.model != nil {
		content, err := a.generate(ctx, message)
		if err == nil && content != "" {
			observability.AssistantReplies.WithLabelValues(SourceLLM).Inc()
			return &Reply{Content: content, Source: SourceLLM}, nil
		}
		if err != nil {
			middleware.Logger.WarnContext(ctx, "assistant model request failed, using canned reply",
				slog.String("error", err.Error()))
		}
	}

	return Canned(message), nil
}

// Canned answers from the rule table alone, skipping the model even when
// one is configured.
func Canned(message string) *Reply {
	observability.AssistantReplies.WithLabelValues(SourceCanned).Inc()
	return &Reply{Content: CannedReply(message), Source: SourceCanned}
}

func (a *Assistant) generate(ctx context.Context, message string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(message)},
		},
	}

	resp, err := a.model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(a.maxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
