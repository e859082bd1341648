package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/config"
)

// ErrorCode categorizes a failed upstream call. Callers switch on the code;
// the message is for logs only.
type ErrorCode string

// Client error codes.
const (
	// ErrCodeConfig marks a missing or invalid client configuration,
	// detected before any network attempt.
	ErrCodeConfig ErrorCode = "config"

	// ErrCodeTimeout marks a call cancelled by its context deadline.
	ErrCodeTimeout ErrorCode = "timeout"

	// ErrCodeUnavailable marks transient upstream unavailability (HTTP 503
	// or 429).
	ErrCodeUnavailable ErrorCode = "unavailable"

	// ErrCodeParse marks a reply that did not contain the requested
	// structured JSON output.
	ErrCodeParse ErrorCode = "parse"

	// ErrCodeUpstream marks every other upstream failure.
	ErrCodeUpstream ErrorCode = "upstream"
)

// ClientError is the only error type returned by ChatClient. The code field
// replaces free-text classification: downstream components must never
// inspect the message.
type ClientError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("openrouter: %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("openrouter: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// CompletionRequest describes one chat-completion call. When Schema is
// non-nil, the upstream is asked for structured JSON output conforming to it
// and the reply body is parsed before being returned.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int64

	// SchemaName and Schema describe the requested structured output.
	SchemaName string
	Schema     map[string]interface{}
}

// Completion is the outcome of a successful call.
type Completion struct {
	// Raw is the untouched reply content.
	Raw string

	// Parsed holds the decoded JSON value when a schema was requested,
	// nil otherwise. Its shape is untrusted; callers must validate every
	// field access.
	Parsed interface{}
}

// ChatClient performs single chat-completion request/response cycles against
// an OpenAI-compatible endpoint. It never retries; retry policy belongs to
// the caller.
type ChatClient struct {
	client openai.Client
}

// NewChatClient creates a ChatClient from the LLM configuration. A missing
// API key is reported as a config-coded ClientError before any network
// attempt is possible.
func NewChatClient(cfg config.LLMConfig) (*ChatClient, error) {
	if strings.TrimSpace(cfg.OpenRouterAPIKey) == "" {
		return nil, &ClientError{
			Code:    ErrCodeConfig,
			Message: "API key is not configured",
		}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenRouterAPIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}

	return &ChatClient{
		client: openai.NewClient(opts...),
	}, nil
}

// Complete performs one chat-completion cycle. The context bounds the call;
// cancellation and deadline expiry surface as a timeout-coded ClientError.
func (c *ChatClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		Temperature: openai.Float(req.Temperature),
	}

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyCallError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ClientError{
			Code:    ErrCodeUpstream,
			Message: "reply contained no choices",
		}
	}

	raw := resp.Choices[0].Message.Content

	completion := &Completion{Raw: raw}
	if req.Schema != nil {
		var parsed interface{}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			// Structured output was requested; a non-JSON body is a
			// distinct failure, not plain text to pass through.
			return nil, &ClientError{
				Code:    ErrCodeParse,
				Message: "reply is not valid JSON despite requested schema",
				Err:     err,
			}
		}
		completion.Parsed = parsed
	}

	return completion, nil
}

// classifyCallError maps SDK and transport failures to coded ClientErrors.
func classifyCallError(ctx context.Context, err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ClientError{
			Code:    ErrCodeTimeout,
			Message: "call exceeded its deadline",
			Err:     err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{
			Code:    ErrCodeTimeout,
			Message: "call was cancelled",
			Err:     err,
		}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusServiceUnavailable, http.StatusTooManyRequests:
			return &ClientError{
				Code:    ErrCodeUnavailable,
				Message: fmt.Sprintf("upstream returned status %d", apiErr.StatusCode),
				Err:     err,
			}
		default:
			return &ClientError{
				Code:    ErrCodeUpstream,
				Message: fmt.Sprintf("upstream returned status %d", apiErr.StatusCode),
				Err:     err,
			}
		}
	}

	return &ClientError{
		Code:    ErrCodeUpstream,
		Message: "upstream call failed",
		Err:     err,
	}
}
