package reasoning

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBedrockClient implements bedrockRuntimeClient for testing
type mockBedrockClient struct {
	response *bedrockruntime.ConverseOutput
	err      error
	input    *bedrockruntime.ConverseInput
}

func (m *mockBedrockClient) Converse(ctx context.Context, input *bedrockruntime.ConverseInput, opts ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.input = input
	return m.response, m.err
}

func textOutput(stop types.StopReason, texts ...string) *bedrockruntime.ConverseOutput {
	var blocks []types.ContentBlock
	for _, t := range texts {
		blocks = append(blocks, &types.ContentBlockMemberText{Value: t})
	}
	return &bedrockruntime.ConverseOutput{
		StopReason: stop,
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{Role: types.ConversationRoleAssistant, Content: blocks},
		},
	}
}

func TestBedrockClientInvoke(t *testing.T) {
	mock := &mockBedrockClient{response: textOutput(types.StopReasonEndTurn, `Here you go: {"dish_name":"Pad Thai"}`)}
	c := newBedrockClient(mock, Options{Model: "claude"})

	res := c.Invoke(context.Background(), Request{
		System: "sys",
		User:   "name it",
		Image:  &Image{Data: []byte("jpg"), MIMEType: "image/jpeg"},
		Schema: dishNameSchema,
	})

	require.Equal(t, StatusOK, res.Status, res.Detail)
	assert.JSONEq(t, `{"dish_name":"Pad Thai"}`, string(res.Payload))

	require.NotNil(t, mock.input)
	assert.Equal(t, "claude", *mock.input.ModelId)
	assert.Equal(t, int32(4096), *mock.input.InferenceConfig.MaxTokens)
	require.Len(t, mock.input.System, 1)
	require.Len(t, mock.input.Messages, 1)
	require.Len(t, mock.input.Messages[0].Content, 2)

	img, ok := mock.input.Messages[0].Content[1].(*types.ContentBlockMemberImage)
	require.True(t, ok)
	assert.Equal(t, types.ImageFormatJpeg, img.Value.Format)
}

func TestBedrockClientFailures(t *testing.T) {
	tests := []struct {
		name string
		mock *mockBedrockClient
		img  *Image
		want Status
	}{
		{"converse error", &mockBedrockClient{err: errors.New("throttled")}, nil, StatusProviderError},
		{"max tokens", &mockBedrockClient{response: textOutput(types.StopReasonMaxTokens, `{"dish_name":`)}, nil, StatusProviderError},
		{"guardrail", &mockBedrockClient{response: textOutput(types.StopReasonGuardrailIntervened)}, nil, StatusProviderError},
		{"no text", &mockBedrockClient{response: textOutput(types.StopReasonEndTurn)}, nil, StatusEmpty},
		{"unsupported image", &mockBedrockClient{}, &Image{Data: []byte("x"), MIMEType: "image/tiff"}, StatusProviderError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newBedrockClient(tt.mock, Options{Model: "m"}).Invoke(context.Background(), Request{User: "x", Image: tt.img, Schema: dishNameSchema})
			assert.Equal(t, tt.want, res.Status, res.Detail)
		})
	}
}
