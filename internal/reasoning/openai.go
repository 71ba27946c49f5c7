package reasoning

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/jsonschema-go/jsonschema"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client   *resty.Client
	opts     Options
	endpoint string
}

// NewOpenAIClient creates a client for opts.BaseURL (default api.openai.com).
func NewOpenAIClient(opts Options) *OpenAIClient {
	opts = opts.withDefaults()

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+opts.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(opts.Timeout)

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &OpenAIClient{
		client:   client,
		opts:     opts,
		endpoint: baseURL + "/chat/completions",
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string, or []interface{} of parts when an image is attached
}

type chatTextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatImagePart struct {
	Type     string       `json:"type"`
	ImageURL chatImageURL `json:"image_url"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type responseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *jsonSchemaSpec `json:"json_schema,omitempty"`
}

type jsonSchemaSpec struct {
	Name   string             `json:"name"`
	Schema *jsonschema.Schema `json:"schema"`
	Strict bool               `json:"strict"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Invoke implements Client.
func (c *OpenAIClient) Invoke(ctx context.Context, req Request) Result {
	body := chatRequest{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: userContent(req)},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	if req.Schema != nil {
		body.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaSpec{
				Name:   schemaName(req),
				Schema: req.Schema,
			},
		}
	}

	var resp chatResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&resp).
		SetError(&resp).
		Post(c.endpoint)
	if err != nil {
		return c.fail(ctx, "request failed: %v", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return c.fail(ctx, "HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return c.fail(ctx, "HTTP %d: %s", httpResp.StatusCode(), truncate(httpResp.String(), 200))
	}
	if resp.Error != nil {
		return c.fail(ctx, "API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return c.fail(ctx, "no choices in response")
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return c.fail(ctx, "model refused: %s", choice.Message.Refusal)
	}
	if choice.FinishReason == "length" {
		return c.fail(ctx, "response truncated at max_tokens=%d", c.opts.MaxTokens)
	}

	return c.finish(ctx, coerce(choice.Message.Content, req.Schema))
}

func userContent(req Request) interface{} {
	if req.Image == nil {
		return req.User
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data))
	return []interface{}{
		chatTextPart{Type: "text", Text: req.User},
		chatImagePart{Type: "image_url", ImageURL: chatImageURL{URL: dataURL, Detail: "auto"}},
	}
}

func (c *OpenAIClient) fail(ctx context.Context, format string, args ...interface{}) Result {
	return c.finish(ctx, providerError(format, args...))
}

func (c *OpenAIClient) finish(ctx context.Context, res Result) Result {
	logResult(ctx, ProviderOpenAI, c.opts.Model, res)
	return res
}
