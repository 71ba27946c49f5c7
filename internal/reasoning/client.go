// Package reasoning sends structured-output prompts to a reasoning provider and
// returns a tagged result instead of an error.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Provider is the enumerated tag of a reasoning backend.
type Provider string

const (
	ProviderOpenAI  Provider = "openai"
	ProviderGemini  Provider = "gemini"
	ProviderBedrock Provider = "bedrock"
)

// ParseProvider maps a configuration value to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case ProviderOpenAI, ProviderGemini, ProviderBedrock:
		return p, nil
	}
	return "", fmt.Errorf("unknown reasoning provider %q", s)
}

// Image is an inline image sent alongside the user prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Request is one structured-output call.
type Request struct {
	System string
	User   string
	Image  *Image

	// Schema describes the expected JSON reply. Replies that do not validate
	// are reported as StatusProviderError.
	Schema     *jsonschema.Schema
	SchemaName string
}

// Status tags a Result.
type Status int

const (
	// StatusOK means Payload holds JSON that matches the request schema.
	StatusOK Status = iota
	// StatusEmpty means the provider answered with nothing usable: {}, [] or all nulls.
	StatusEmpty
	// StatusProviderError covers transport failures, timeouts, non-2xx replies and
	// malformed or schema-violating output.
	StatusProviderError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusProviderError:
		return "provider_error"
	}
	return "unknown"
}

// Result is the outcome of Invoke.
type Result struct {
	Status  Status
	Payload json.RawMessage
	Detail  string
}

// Usable reports whether the result carries a payload.
func (r Result) Usable() bool {
	return r.Status == StatusOK && len(r.Payload) > 0
}

func okResult(payload json.RawMessage) Result {
	return Result{Status: StatusOK, Payload: payload}
}

func emptyResult(detail string) Result {
	return Result{Status: StatusEmpty, Detail: detail}
}

func providerError(format string, args ...interface{}) Result {
	return Result{Status: StatusProviderError, Detail: fmt.Sprintf(format, args...)}
}

// Client performs one structured-output call. Implementations never return
// errors: every failure is folded into the Result status.
type Client interface {
	Invoke(ctx context.Context, req Request) Result
}

// Decode unmarshals a usable result into T. Any other status, or a payload that
// does not fit T, yields false.
func Decode[T any](res Result) (T, bool) {
	var v T
	if !res.Usable() {
		return v, false
	}
	if err := json.Unmarshal(res.Payload, &v); err != nil {
		return v, false
	}
	return v, true
}
