package openai

import (
	"context"
	"io"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rotisserie/eris"
)

const (
	defaultChatModel    = "gpt-4o-mini"
	defaultWhisperModel = "whisper-1"
)

// Client defines the OpenAI API operations used by the pipeline.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
}

// ChatRequest is our own request type for ChatCompletion. Text becomes the
// first user content part; each image URL is appended as a low-detail
// image_url part for vision analysis.
type ChatRequest struct {
	Model       string
	System      string
	Text        string
	ImageURLs   []string
	Temperature *float64
	MaxTokens   int64
}

// ChatResponse is our own response type from ChatCompletion.
type ChatResponse struct {
	ID      string
	Content string
	Usage   TokenUsage
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// TranscriptionRequest is our own request type for Transcribe. File must be
// positioned at the start of the audio payload.
type TranscriptionRequest struct {
	File     io.Reader
	Model    string
	Language string
}

// Option configures the client.
type Option func(*sdkClient)

// WithChatModel overrides the default chat model.
func WithChatModel(model string) Option {
	return func(c *sdkClient) {
		c.chatModel = model
	}
}

// WithWhisperModel overrides the default transcription model.
func WithWhisperModel(model string) Option {
	return func(c *sdkClient) {
		c.whisperModel = model
	}
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *sdkClient) {
		c.requestOpts = append(c.requestOpts, option.WithBaseURL(url))
	}
}

type sdkClient struct {
	client       sdk.Client
	chatModel    string
	whisperModel string
	requestOpts  []option.RequestOption
}

// NewClient creates an OpenAI API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &sdkClient{
		chatModel:    defaultChatModel,
		whisperModel: defaultWhisperModel,
		requestOpts:  []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, o := range opts {
		o(c)
	}
	c.client = sdk.NewClient(c.requestOpts...)
	return c
}

func (c *sdkClient) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = c.chatModel
	}

	parts := []sdk.ChatCompletionContentPartUnionParam{
		sdk.TextContentPart(req.Text),
	}
	for _, u := range req.ImageURLs {
		parts = append(parts, sdk.ImageContentPart(sdk.ChatCompletionContentPartImageImageURLParam{
			URL:    u,
			Detail: "low",
		}))
	}

	params := sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(req.System),
			sdk.UserMessage(parts),
		},
	}
	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(req.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "openai: chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("openai: chat completion returned no choices")
	}

	return &ChatResponse{
		ID:      resp.ID,
		Content: resp.Choices[0].Message.Content,
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func (c *sdkClient) Transcribe(ctx context.Context, req TranscriptionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.whisperModel
	}

	params := sdk.AudioTranscriptionNewParams{
		Model: sdk.AudioModel(model),
		File:  req.File,
	}
	if req.Language != "" {
		params.Language = sdk.String(req.Language)
	}

	transcription, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "openai: transcribe audio")
	}

	return transcription.Text, nil
}
