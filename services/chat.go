package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/NizanHulq/portfolio-web/config"
	"github.com/NizanHulq/portfolio-web/errs"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	defaultChatModel = "llama-3.3-70b-versatile"

	// Only the most recent turns are forwarded, to bound token usage.
	historyLimit = 10

	chatTemperature = 0.7
	chatTopP        = 1
	chatMaxTokens   = 1024
)

// Message is one turn of the visitor conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewGroqModel builds the completion client against Groq's OpenAI-compatible
// endpoint. GROQ_MODEL overrides the default model identifier.
func NewGroqModel(cfg map[string]string) (llms.Model, error) {
	return openai.New(
		openai.WithToken(config.GetString(cfg, "GROQ_API_KEY", "")),
		openai.WithBaseURL(groqBaseURL),
		openai.WithModel(config.GetString(cfg, "GROQ_MODEL", defaultChatModel)),
	)
}

// ChatRelay bridges visitor conversations to the completion API, grounding
// every call with the current system prompt from the context cache.
type ChatRelay struct {
	llm    llms.Model
	cache  *ContextCache
	logger zerolog.Logger
}

func NewChatRelay(llm llms.Model, cache *ContextCache) *ChatRelay {
	return &ChatRelay{
		llm:    llm,
		cache:  cache,
		logger: log.With().Str("service", "chatRelay").Logger(),
	}
}

// Reply forwards the last turns of history, prefixed by the system prompt,
// and returns the assistant's answer. Provider failures come back as
// classified ApiErrs that never carry provider internals.
func (r *ChatRelay) Reply(ctx context.Context, history []Message) (string, error) {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	content := make([]llms.MessageContent, 0, len(history)+1)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, r.cache.Prompt()))
	for _, m := range history {
		role := llms.ChatMessageTypeHuman
		if m.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, m.Content))
	}

	resp, err := r.llm.GenerateContent(ctx, content,
		llms.WithTemperature(chatTemperature),
		llms.WithTopP(chatTopP),
		llms.WithMaxTokens(chatMaxTokens),
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("completion request failed")
		return "", classifyProviderError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "Sorry, I couldn't generate a response.", nil
	}
	return resp.Choices[0].Content, nil
}

// classifyProviderError maps provider failures onto the caller-facing
// taxonomy: rate limits get a 429 the widget can back off on, credential
// problems and everything else collapse to a generic 500. The provider's own
// message is logged by the caller, never returned.
func classifyProviderError(err error) *errs.ApiErr {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return errs.NewRateLimitedError("Too many requests. Please wait a moment and try again.")
	case strings.Contains(msg, "401") || strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized"):
		return errs.NewInternalError("AI service configuration error.")
	default:
		return errs.NewInternalError("Failed to get AI response. Please try again.")
	}
}
