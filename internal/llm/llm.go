// Package llm resolves the chat model provider and builds the eino chat model
// that drives the agent crews.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/gorewood/docflow/internal/output"
)

// Provider represents an OpenAI-compatible chat completions provider.
type Provider string

// Supported providers.
const (
	ProviderNVIDIA Provider = "nvidia"
	ProviderOpenAI Provider = "openai"
	ProviderLocal  Provider = "local"
)

// DefaultProvider is used when no provider is configured.
const DefaultProvider = ProviderNVIDIA

// ProviderInfo describes what a provider needs: its credential variable, the
// prefix a valid key carries, and where to send requests.
type ProviderInfo struct {
	Name         Provider          `json:"name"`
	Label        string            `json:"label"`
	EnvVar       string            `json:"env_var,omitempty"`
	KeyPrefix    string            `json:"key_prefix,omitempty"`
	BaseURL      string            `json:"base_url"`
	DefaultModel string            `json:"default_model"`
	Aliases      map[string]string `json:"aliases"`
}

var providers = map[Provider]ProviderInfo{
	ProviderNVIDIA: {
		Name:         ProviderNVIDIA,
		Label:        "NVIDIA",
		EnvVar:       "NVIDIA_NIM_API_KEY",
		KeyPrefix:    "nvapi-",
		BaseURL:      "https://integrate.api.nvidia.com/v1",
		DefaultModel: "meta/llama-3.1-70b-instruct",
		Aliases: map[string]string{
			"llama-8b":   "meta/llama-3.1-8b-instruct",
			"llama-70b":  "meta/llama-3.1-70b-instruct",
			"llama-405b": "meta/llama-3.1-405b-instruct",
			"nemotron":   "nvidia/llama-3.1-nemotron-70b-instruct",
		},
	},
	ProviderOpenAI: {
		Name:         ProviderOpenAI,
		Label:        "OpenAI",
		EnvVar:       "OPENAI_API_KEY",
		KeyPrefix:    "sk-",
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: "gpt-5-mini",
		Aliases: map[string]string{
			"nano": "gpt-5-nano",
			"mini": "gpt-5-mini",
			"gpt":  "gpt-5.2",
		},
	},
	// Local servers (LM Studio, Ollama) need no credential.
	ProviderLocal: {
		Name:         ProviderLocal,
		Label:        "local",
		BaseURL:      "http://localhost:1234/v1",
		DefaultModel: "default",
		Aliases: map[string]string{
			"local": "default",
		},
	},
}

// providerOrder is the display order for SupportedProviders and ProviderInfos.
var providerOrder = []Provider{ProviderNVIDIA, ProviderOpenAI, ProviderLocal}

// Lookup returns the description of a provider. An empty name selects
// DefaultProvider.
func Lookup(name string) (ProviderInfo, error) {
	if name == "" {
		name = string(DefaultProvider)
	}
	info, ok := providers[Provider(strings.ToLower(name))]
	if !ok {
		return ProviderInfo{}, output.NewUserError(fmt.Sprintf(
			"unsupported provider: %s (use one of %s)", name, strings.Join(SupportedProviders(), ", ")))
	}
	return info, nil
}

// SupportedProviders returns the provider names in display order.
func SupportedProviders() []string {
	names := make([]string, len(providerOrder))
	for i, p := range providerOrder {
		names[i] = string(p)
	}
	return names
}

// ProviderInfos returns every provider description in display order.
func ProviderInfos() []ProviderInfo {
	infos := make([]ProviderInfo, len(providerOrder))
	for i, p := range providerOrder {
		infos[i] = providers[p]
	}
	return infos
}

// AliasNames returns the sorted alias names of a provider.
func (p ProviderInfo) AliasNames() []string {
	names := make([]string, 0, len(p.Aliases))
	for name := range p.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// providerPrefixes maps explicit prefixes to providers for combined format
// parsing, e.g. "openai-mini".
var providerPrefixes = map[string]Provider{
	"nvidia-": ProviderNVIDIA,
	"nim-":    ProviderNVIDIA,
	"openai-": ProviderOpenAI,
	"local-":  ProviderLocal,
}

// parseProviderPrefix extracts provider from a combined format like
// "openai-mini". Returns empty provider if no prefix matches.
func parseProviderPrefix(model string) (Provider, string) {
	modelLower := strings.ToLower(model)
	for prefix, provider := range providerPrefixes {
		if strings.HasPrefix(modelLower, prefix) {
			return provider, model[len(prefix):]
		}
	}
	return "", model
}

// resolveModelAlias expands shorthand aliases, passes through unknown names.
func resolveModelAlias(model string, info ProviderInfo) string {
	if model == "" {
		return info.DefaultModel
	}
	if resolved, ok := info.Aliases[strings.ToLower(model)]; ok {
		return resolved
	}
	return model
}

// Selection is a fully resolved provider and model.
type Selection struct {
	Provider ProviderInfo
	Model    string
	BaseURL  string
}

// Select resolves provider and model names. A provider prefix on the model
// ("openai-mini") wins over the provider argument. An empty baseURL selects
// the provider's endpoint.
func Select(provider, modelName, baseURL string) (Selection, error) {
	if p, rest := parseProviderPrefix(modelName); p != "" {
		provider, modelName = string(p), rest
	}

	info, err := Lookup(provider)
	if err != nil {
		return Selection{}, err
	}

	if baseURL == "" {
		baseURL = info.BaseURL
	}
	return Selection{
		Provider: info,
		Model:    resolveModelAlias(modelName, info),
		BaseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Options tune the chat model.
type Options struct {
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewChatModel builds a tool-calling chat model for sel. Local servers get a
// placeholder key since the adapter requires one.
func NewChatModel(ctx context.Context, sel Selection, opts Options) (model.ToolCallingChatModel, error) {
	apiKey := opts.APIKey
	if sel.Provider.EnvVar == "" {
		apiKey = "not-needed"
	}
	if apiKey == "" {
		return nil, output.NewUserError(sel.Provider.EnvVar + " is not set")
	}

	// Use an empty model name to let a local server pick its loaded model.
	modelName := sel.Model
	if sel.Provider.Name == ProviderLocal && modelName == "default" {
		modelName = ""
	}

	cfg := &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: sel.BaseURL,
		Model:   modelName,
		Timeout: opts.Timeout,
	}
	if opts.MaxTokens > 0 {
		maxTokens := opts.MaxTokens
		cfg.MaxTokens = &maxTokens
	}
	if opts.Temperature > 0 {
		cfg.Temperature = ptrFloat32(float32(opts.Temperature))
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to create chat model for %s", sel.Provider.Name), err)
	}
	return chatModel, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
