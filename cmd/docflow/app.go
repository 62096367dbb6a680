package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/spf13/cobra"

	"github.com/gorewood/docflow/internal/config"
	"github.com/gorewood/docflow/internal/credential"
	"github.com/gorewood/docflow/internal/crew"
	"github.com/gorewood/docflow/internal/envfile"
	"github.com/gorewood/docflow/internal/fstools"
	"github.com/gorewood/docflow/internal/llm"
	"github.com/gorewood/docflow/internal/logging"
	"github.com/gorewood/docflow/internal/output"
)

const configFileName = config.DefaultFile

// app carries what every command resolves before doing work.
type app struct {
	env      *envfile.Env
	settings *config.Settings
	// settingsPath is the settings file that was read, if any.
	settingsPath string
	logger       *slog.Logger
	printer      *output.Printer
	// input buffers stdin so successive prompts share it.
	input *bufio.Reader
}

// loadApp reads the env files and settings, applies flag overrides, and
// builds the logger. Loading does not touch the process environment.
func loadApp(cmd *cobra.Command, printer *output.Printer) (*app, error) {
	env, err := envfile.Load(config.EnvFiles()...)
	if err != nil {
		return nil, err
	}

	settingsPath := persistentFlag(cmd, "config")
	settings, err := config.Load(env, settingsPath)
	if err != nil {
		return nil, err
	}
	if settingsPath == "" {
		if _, err := os.Stat(configFileName); err == nil {
			settingsPath = configFileName
		}
	}
	if p := strings.ToLower(persistentFlag(cmd, "provider")); p != "" && p != settings.Provider {
		// The configured model belongs to the previous provider.
		settings.Provider = p
		settings.Model = ""
	}
	if m := persistentFlag(cmd, "model"); m != "" {
		settings.Model = m
	}
	if persistentFlag(cmd, "verbose") == "true" {
		settings.LogLevel = "debug"
	}

	return &app{
		env:          env,
		settings:     settings,
		settingsPath: settingsPath,
		logger:       logging.New(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat),
		printer:      printer,
		input:        bufio.NewReader(cmd.InOrStdin()),
	}, nil
}

// selection resolves the configured provider and model.
func (a *app) selection() (llm.Selection, error) {
	return llm.Select(a.settings.Provider, a.settings.Model, a.settings.BaseURL)
}

// ensureCredential prompts for the provider key when it is missing or
// malformed. The prompt goes to stderr so stdout stays clean for --json.
func (a *app) ensureCredential(cmd *cobra.Command, sel llm.Selection) error {
	gate := &credential.Gate{
		EnvVar: sel.Provider.EnvVar,
		Prefix: sel.Provider.KeyPrefix,
		Prompt: fmt.Sprintf("Enter your %s API key: ", sel.Provider.Label),
		Reader: a.secretReader(cmd.InOrStdin()),
		Out:    cmd.ErrOrStderr(),
	}
	return gate.Ensure(a.env)
}

func (a *app) secretReader(in io.Reader) credential.SecretReader {
	if f, ok := in.(*os.File); ok {
		return credential.TerminalReader{File: f, Lines: a.input}
	}
	return lineReader{a.input}
}

// lineReader reads secrets from non-terminal input.
type lineReader struct {
	r *bufio.Reader
}

func (l lineReader) ReadSecret() (string, error) {
	return credential.ReadLine(l.r)
}

// newRunner gates the credential and builds the crew engine. Every kickoff
// gets repository tools rooted at its repo_path input.
func (a *app) newRunner(ctx context.Context, cmd *cobra.Command) (crew.Runner, error) {
	sel, err := a.selection()
	if err != nil {
		return nil, err
	}
	if err := a.ensureCredential(cmd, sel); err != nil {
		return nil, err
	}

	chatModel, err := llm.NewChatModel(ctx, sel, llm.Options{
		APIKey:      a.env.Get(sel.Provider.EnvVar),
		Temperature: a.settings.Temperature,
		MaxTokens:   a.settings.MaxTokens,
		Timeout:     a.settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("chat model ready", "provider", sel.Provider.Name, "model", sel.Model, "base_url", sel.BaseURL)

	engine := crew.NewEngine(chatModel, repoTools, a.logger)
	engine.MaxToolRounds = a.settings.MaxToolRounds
	return engine, nil
}

func repoTools(inputs crew.Inputs) []tool.BaseTool {
	return fstools.New(inputs["repo_path"]).Tools()
}

// promptLine writes prompt to w and reads one trimmed line of input.
func (a *app) promptLine(w io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(w, prompt)
	line, err := credential.ReadLine(a.input)
	if err != nil {
		return "", output.NewUserErrorWithCause("no input", err)
	}
	return strings.TrimSpace(line), nil
}
