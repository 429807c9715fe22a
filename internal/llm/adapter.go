package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Options configures an Adapter.
type Options struct {
	// ModelOverride is the per-invocation model override. Empty means
	// "resolve from the environment".
	ModelOverride string

	// MaxConcurrentCalls caps in-flight generation calls. Zero disables
	// the cap.
	MaxConcurrentCalls int

	// RequestsPerMinute throttles call starts. Zero disables the throttle.
	RequestsPerMinute int

	// BaseURL overrides the OpenAI API base, primarily for tests. Empty
	// falls back to OPENAI_BASE_URL, then the public endpoint.
	BaseURL string

	// HTTPClient serves the hand-built responses endpoint. Nil gets a
	// client with no client-level timeout; request contexts carry the
	// deadline.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Adapter dispatches Generate calls to the backend resolved at
// construction. Provider clients are built lazily on first use so that a
// missing credential surfaces inside a run attempt, where the engine's
// outer loop records it, rather than at process start.
type Adapter struct {
	backend Backend
	logger  *slog.Logger

	sem     *semaphore.Weighted
	limiter *rate.Limiter

	baseURL    string
	httpClient *http.Client

	mu           sync.Mutex
	geminiClient *genai.Client
	openaiClient *openai.Client
}

var _ Generator = (*Adapter)(nil)

// New resolves the backend once and returns an adapter bound to it.
func New(opts Options) (*Adapter, error) {
	backend, err := Resolve(opts.ModelOverride)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		backend:    backend,
		logger:     logger,
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
	}
	if a.baseURL == "" {
		a.baseURL = strings.TrimRight(os.Getenv("OPENAI_BASE_URL"), "/")
	}
	if a.baseURL == "" {
		a.baseURL = "https://api.openai.com"
	}
	if a.httpClient == nil {
		// No client-level timeout; rely on request context deadlines.
		a.httpClient = &http.Client{Timeout: 0}
	}
	if opts.MaxConcurrentCalls > 0 {
		a.sem = semaphore.NewWeighted(int64(opts.MaxConcurrentCalls))
	}
	if opts.RequestsPerMinute > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}

	logger.Debug("generation backend resolved", "backend", backend.String())
	return a, nil
}

// Backend reports the resolved backend.
func (a *Adapter) Backend() Backend { return a.backend }

// Generate issues one generation call against the resolved backend and
// returns the reply as plain text. Errors are returned as-is for the
// caller's run loop; nothing is retried here.
func (a *Adapter) Generate(ctx context.Context, systemInstruction string, conv Conversation) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if a.sem != nil {
		if err := a.sem.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer a.sem.Release(1)
	}
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	start := time.Now()
	var (
		text string
		err  error
	)
	switch b := a.backend.(type) {
	case Gemini:
		text, err = a.generateGemini(ctx, b, systemInstruction, conv)
	case OpenAI:
		text, err = a.generateOpenAI(ctx, b, systemInstruction, conv)
	default:
		err = fmt.Errorf("unknown backend %T", a.backend)
	}
	if err != nil {
		a.logger.Debug("generation call failed",
			"backend", a.backend.String(), "duration", time.Since(start), "error", err)
		return "", err
	}

	a.logger.Debug("generation call complete",
		"backend", a.backend.String(), "duration", time.Since(start), "chars", len(text))
	return text, nil
}
