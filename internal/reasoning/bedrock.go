package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// bedrockRuntimeClient is the part of the Bedrock runtime API this package uses.
type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient calls the Bedrock Converse API.
type BedrockClient struct {
	brc  bedrockRuntimeClient
	opts Options
}

// NewBedrockClient loads the default AWS credential chain for opts.Region.
func NewBedrockClient(ctx context.Context, opts Options) (*BedrockClient, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.Profile != "" {
		loaders = append(loaders, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newBedrockClient(bedrockruntime.NewFromConfig(awsCfg), opts), nil
}

func newBedrockClient(brc bedrockRuntimeClient, opts Options) *BedrockClient {
	return &BedrockClient{brc: brc, opts: opts.withDefaults()}
}

// Invoke implements Client.
func (c *BedrockClient) Invoke(ctx context.Context, req Request) Result {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	content := []types.ContentBlock{&types.ContentBlockMemberText{Value: req.User}}
	if req.Image != nil {
		format, ok := bedrockImageFormat(req.Image.MIMEType)
		if !ok {
			return c.finish(ctx, providerError("unsupported image type %q", req.Image.MIMEType))
		}
		content = append(content, &types.ContentBlockMemberImage{Value: types.ImageBlock{
			Format: format,
			Source: &types.ImageSourceMemberBytes{Value: req.Image.Data},
		}})
	}

	in := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(c.opts.Model),
		Messages: []types.Message{{Role: types.ConversationRoleUser, Content: content}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(c.opts.MaxTokens)),
			Temperature: aws.Float32(float32(c.opts.Temperature)),
		},
	}
	if req.System != "" {
		in.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: req.System}}
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		return c.finish(ctx, providerError("converse failed: %v", err))
	}

	switch out.StopReason {
	case types.StopReasonEndTurn, types.StopReasonStopSequence, "":
	case types.StopReasonMaxTokens:
		return c.finish(ctx, providerError("response truncated at max_tokens=%d", c.opts.MaxTokens))
	default:
		return c.finish(ctx, providerError("generation stopped: %s", out.StopReason))
	}

	return c.finish(ctx, coerce(textFromOutput(out), req.Schema))
}

func (c *BedrockClient) finish(ctx context.Context, res Result) Result {
	logResult(ctx, ProviderBedrock, c.opts.Model, res)
	return res
}

// textFromOutput joins the text blocks of the assistant message.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return ""
	}
	var texts []string
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	return strings.Join(texts, "\n")
}

func bedrockImageFormat(mimeType string) (types.ImageFormat, bool) {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return types.ImageFormatPng, true
	case "image/jpeg", "image/jpg":
		return types.ImageFormatJpeg, true
	case "image/webp":
		return types.ImageFormatWebp, true
	case "image/gif":
		return types.ImageFormatGif, true
	}
	return "", false
}
