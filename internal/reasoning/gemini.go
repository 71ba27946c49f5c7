package reasoning

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Generative Language generateContent endpoint.
// Replies are requested as application/json and validated locally, since the
// API accepts only a subset of JSON Schema.
type GeminiClient struct {
	client   *resty.Client
	opts     Options
	endpoint string
}

func NewGeminiClient(opts Options) *GeminiClient {
	opts = opts.withDefaults()

	client := resty.New()
	client.SetHeader("x-goog-api-key", opts.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(opts.Timeout)

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &GeminiClient{
		client:   client,
		opts:     opts,
		endpoint: fmt.Sprintf("%s/models/%s:generateContent", baseURL, opts.Model),
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Invoke implements Client.
func (c *GeminiClient) Invoke(ctx context.Context, req Request) Result {
	parts := []geminiPart{{Text: req.User}}
	if req.Image != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: req.Image.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(req.Image.Data),
		}})
	}

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      c.opts.Temperature,
			MaxOutputTokens:  c.opts.MaxTokens,
			ResponseMimeType: "application/json",
		},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	var resp geminiResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&resp).
		SetError(&resp).
		Post(c.endpoint)
	if err != nil {
		return c.finish(ctx, providerError("request failed: %v", err))
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return c.finish(ctx, providerError("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message))
		}
		return c.finish(ctx, providerError("HTTP %d: %s", httpResp.StatusCode(), truncate(httpResp.String(), 200)))
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return c.finish(ctx, providerError("prompt blocked: %s", resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 {
		return c.finish(ctx, providerError("no candidates in response"))
	}

	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case "", "STOP":
	case "MAX_TOKENS":
		return c.finish(ctx, providerError("response truncated at maxOutputTokens=%d", c.opts.MaxTokens))
	default:
		return c.finish(ctx, providerError("generation stopped: %s", cand.FinishReason))
	}

	var text strings.Builder
	for _, p := range cand.Content.Parts {
		text.WriteString(p.Text)
	}
	return c.finish(ctx, coerce(text.String(), req.Schema))
}

func (c *GeminiClient) finish(ctx context.Context, res Result) Result {
	logResult(ctx, ProviderGemini, c.opts.Model, res)
	return res
}
