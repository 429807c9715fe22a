package llm

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted during backend resolution.
const (
	// EnvModel overrides the model when no explicit override is given.
	EnvModel = "PROOFLOOP_MODEL"

	// EnvReasoningEffort selects the OpenAI reasoning effort. Invalid or
	// unset values silently fall back to low.
	EnvReasoningEffort = "PROOFLOOP_REASONING_EFFORT"

	// EnvGeminiKey and EnvOpenAIKey hold the provider credentials. Their
	// presence also steers the default-provider fallback.
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvOpenAIKey = "OPENAI_API_KEY"
)

// openAITag prefixes a model value to select the OpenAI backend, e.g.
// "openai:gpt-5-nano".
const openAITag = "openai:"

const (
	defaultGeminiModel = "gemini-2.5-pro"
	defaultOpenAIModel = "gpt-5-mini"
)

// Effort is the OpenAI reasoning effort for responses-shape models.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// ParseEffort maps a raw environment value to an Effort. Anything outside
// {low, medium, high} falls back to low.
func ParseEffort(raw string) Effort {
	switch Effort(strings.ToLower(strings.TrimSpace(raw))) {
	case EffortMedium:
		return EffortMedium
	case EffortHigh:
		return EffortHigh
	default:
		return EffortLow
	}
}

// Shape is the wire shape used for an OpenAI model family.
type Shape string

const (
	// ShapeResponses is the reasoning-effort request/response shape.
	ShapeResponses Shape = "responses"

	// ShapeChat is the conventional chat-messages shape.
	ShapeChat Shape = "chat"
)

// Backend is a closed tagged union over the two generation backends. It is
// resolved once per engine invocation and passed explicitly; nothing
// re-reads the environment per call.
type Backend interface {
	// ModelName returns the bare model identifier.
	ModelName() string
	fmt.Stringer

	isBackend()
}

// Gemini is the primary backend: the multi-turn contents API.
type Gemini struct {
	Model string
}

func (Gemini) isBackend()          {}
func (b Gemini) ModelName() string { return b.Model }
func (b Gemini) String() string    { return "gemini/" + b.Model }

// OpenAI is the secondary backend: the chat/responses API.
type OpenAI struct {
	Model  string
	Shape  Shape
	Effort Effort
}

func (OpenAI) isBackend()          {}
func (b OpenAI) ModelName() string { return b.Model }
func (b OpenAI) String() string    { return "openai/" + b.Model }

// Resolve picks the backend for this invocation. Precedence: the explicit
// override, then EnvModel, then a default derived from which credential is
// present (OpenAI key without a Gemini key selects OpenAI), then the
// hard-coded Gemini default. A value carrying the openai: tag selects the
// OpenAI backend with the remainder as the model name.
func Resolve(override string) (Backend, error) {
	raw := strings.TrimSpace(override)
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv(EnvModel))
	}
	if raw == "" {
		if os.Getenv(EnvOpenAIKey) != "" && os.Getenv(EnvGeminiKey) == "" {
			raw = openAITag + defaultOpenAIModel
		} else {
			raw = defaultGeminiModel
		}
	}

	if name, ok := strings.CutPrefix(raw, openAITag); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("model %q selects the OpenAI backend but names no model", raw)
		}
		return OpenAI{
			Model:  name,
			Shape:  shapeFor(name),
			Effort: ParseEffort(os.Getenv(EnvReasoningEffort)),
		}, nil
	}
	return Gemini{Model: raw}, nil
}

// shapeFor picks the wire shape from the model name. The gpt-5 family and
// the o-series reasoning models speak the responses shape; everything else
// gets conventional chat messages.
func shapeFor(model string) Shape {
	m := strings.ToLower(model)
	for _, prefix := range []string{"gpt-5", "o1", "o3", "o4"} {
		if m == prefix {
			return ShapeResponses
		}
		if strings.HasPrefix(m, prefix) && len(m) > len(prefix) {
			switch m[len(prefix)] {
			case '-', '.':
				return ShapeResponses
			}
		}
	}
	return ShapeChat
}
