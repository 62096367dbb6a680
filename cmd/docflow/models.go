package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/docflow/internal/llm"
	"github.com/gorewood/docflow/internal/output"
)

// newModelsCmd creates the models command.
func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List providers and model aliases",
		Long: `List the supported providers, the variable holding each provider's API
key, and the model aliases accepted by --model.

A model may carry a provider prefix, e.g. "openai-mini" or "nim-llama-8b".
Names that are not aliases are passed to the provider unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModels(newPrinter(cmd))
		},
	}
}

func runModels(printer *output.Printer) error {
	infos := llm.ProviderInfos()

	if printer.IsJSON() {
		type jsonAlias struct {
			Alias string `json:"alias"`
			Model string `json:"model"`
		}
		type jsonProvider struct {
			Provider string      `json:"provider"`
			EnvVar   string      `json:"env_var,omitempty"`
			BaseURL  string      `json:"base_url"`
			Default  string      `json:"default_model"`
			Aliases  []jsonAlias `json:"aliases"`
		}

		providers := make([]jsonProvider, 0, len(infos))
		for _, info := range infos {
			jp := jsonProvider{
				Provider: string(info.Name),
				EnvVar:   info.EnvVar,
				BaseURL:  info.BaseURL,
				Default:  info.DefaultModel,
			}
			for _, alias := range info.AliasNames() {
				jp.Aliases = append(jp.Aliases, jsonAlias{Alias: alias, Model: info.Aliases[alias]})
			}
			providers = append(providers, jp)
		}
		return printer.Success(map[string]any{"providers": providers})
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		auth := "(no API key needed)"
		if info.EnvVar != "" {
			auth = info.EnvVar
		}
		rows = append(rows, []string{string(info.Name), auth, info.DefaultModel, info.BaseURL})
	}
	printer.Table([]string{"PROVIDER", "API KEY", "DEFAULT MODEL", "ENDPOINT"}, rows)

	for _, info := range infos {
		printer.Section(info.Label + " aliases")
		aliases := make([][]string, 0, len(info.Aliases))
		for _, alias := range info.AliasNames() {
			aliases = append(aliases, []string{alias, info.Aliases[alias]})
		}
		printer.Table([]string{"ALIAS", "MODEL"}, aliases)
	}
	return nil
}
