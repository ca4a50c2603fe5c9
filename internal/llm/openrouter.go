package llm

import (
	"cmp"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "google/gemini-2.0-flash-exp"

	openRouterReferer = "https://github.com/abhisek/clil"
	openRouterTitle   = "CLIL Task Generator"
)

// NewOpenRouterProvider reaches OpenRouter's OpenAI-compatible endpoint.
// Every call carries OpenRouter's app attribution headers.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = cmp.Or(cfg.BaseURL, defaultOpenRouterBaseURL)
	cc.HTTPClient = &http.Client{Transport: attribution{base: http.DefaultTransport}}
	return newChatProvider("openrouter", cc, cmp.Or(cfg.Model, defaultOpenRouterModel)), nil
}

// attribution sets the headers OpenRouter uses to credit calls to an app.
type attribution struct {
	base http.RoundTripper
}

func (a attribution) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", openRouterReferer)
	r.Header.Set("X-Title", openRouterTitle)
	return a.base.RoundTrip(r)
}
