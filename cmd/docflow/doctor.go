package main

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/docflow/internal/crew"
	"github.com/gorewood/docflow/internal/git"
	"github.com/gorewood/docflow/internal/output"
)

// checkStatus represents the result of a health check.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult holds the result of a single health check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult holds all check results organized by category.
type doctorResult struct {
	Version  string         `json:"version"`
	Core     []checkResult  `json:"core"`
	Crew     []checkResult  `json:"crew"`
	Provider []checkResult  `json:"provider"`
	Summary  *doctorSummary `json:"summary"`
}

// doctorSummary holds the counts of check results.
type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// doctorFlags holds the command-line flags for the doctor command.
type doctorFlags struct {
	quiet bool
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that a documentation run can start",
		Long: `Check that everything a documentation run needs is in place.

Checks are grouped in three categories:
  CORE      - git on PATH and the settings file
  CREW      - the four crew definition files
  PROVIDER  - provider selection and its API key

Examples:
  docflow doctor              # Run all checks
  docflow doctor --quiet      # Only show failures and warnings
  docflow doctor --json       # Output results as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Only show failures and warnings")

	return cmd
}

// runDoctor executes the doctor command.
func runDoctor(cmd *cobra.Command, flags *doctorFlags) error {
	printer := newPrinter(cmd)

	a, err := loadApp(cmd, printer)
	if err != nil {
		printer.Error(err)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result := gatherDoctorChecks(ctx, a)

	if printer.IsJSON() {
		if err := printer.WriteJSON(result); err != nil {
			return err
		}
	} else {
		outputDoctorHuman(printer, result, flags.quiet)
	}

	if result.Summary.Failed > 0 {
		return output.NewUserError("doctor found failing checks")
	}
	return nil
}

// gatherDoctorChecks runs all health checks and returns results.
func gatherDoctorChecks(ctx context.Context, a *app) *doctorResult {
	result := &doctorResult{
		Version:  version,
		Core:     []checkResult{checkGit(ctx), checkSettingsFile(a)},
		Crew:     checkDefinitions(a.settings.ConfigDir),
		Provider: checkProvider(a),
		Summary:  &doctorSummary{},
	}

	allChecks := slices.Concat(result.Core, result.Crew, result.Provider)
	for _, check := range allChecks {
		switch check.Status {
		case checkPass:
			result.Summary.Passed++
		case checkWarn:
			result.Summary.Warnings++
		case checkFail:
			result.Summary.Failed++
		}
	}
	return result
}

func checkGit(ctx context.Context) checkResult {
	v, err := git.Version(ctx)
	if err != nil {
		return checkResult{
			Name:    "git",
			Status:  checkFail,
			Message: "git not found",
			Hint:    "Install git and make sure it is on PATH",
		}
	}
	return checkResult{Name: "git", Status: checkPass, Message: v}
}

func checkSettingsFile(a *app) checkResult {
	name := "Settings"
	if path := a.settingsPath; path != "" {
		return checkResult{Name: name, Status: checkPass, Message: path}
	}
	return checkResult{
		Name:    name,
		Status:  checkPass,
		Message: "defaults (no " + configFileName + ")",
	}
}

// checkDefinitions loads each stage's agents and tasks.
func checkDefinitions(dir string) []checkResult {
	stages := []struct {
		name   string
		agents string
		tasks  string
	}{
		{"Planning crew", crew.PlannerAgentsFile, crew.PlannerTasksFile},
		{"Writing crew", crew.DocumentationAgentsFile, crew.DocumentationTasksFile},
	}

	checks := make([]checkResult, 0, len(stages))
	for _, s := range stages {
		agents, tasks, err := crew.LoadStage(dir, s.agents, s.tasks)
		if err != nil {
			checks = append(checks, checkResult{
				Name:    s.name,
				Status:  checkFail,
				Message: errorMessage(err),
				Hint:    "Run 'docflow init' to write the built-in definitions",
			})
			continue
		}
		msg := filepath.Join(dir, s.agents) + ": " + strings.Join(agents.Names(), ", ") +
			"; " + filepath.Join(dir, s.tasks) + ": " + strings.Join(tasks.Names(), ", ")
		checks = append(checks, checkResult{Name: s.name, Status: checkPass, Message: msg})
	}
	return checks
}

// checkProvider resolves the model selection and looks for a usable key
// without prompting.
func checkProvider(a *app) []checkResult {
	sel, err := a.selection()
	if err != nil {
		return []checkResult{{
			Name:    "Provider",
			Status:  checkFail,
			Message: errorMessage(err),
			Hint:    "Run 'docflow models' to see supported providers",
		}}
	}

	checks := []checkResult{{
		Name:    "Provider",
		Status:  checkPass,
		Message: string(sel.Provider.Name) + " " + sel.Model + " at " + sel.BaseURL,
	}}

	envVar := sel.Provider.EnvVar
	if envVar == "" {
		return append(checks, checkResult{Name: "API key", Status: checkPass, Message: "not needed"})
	}
	key := a.env.Get(envVar)
	switch {
	case key == "":
		checks = append(checks, checkResult{
			Name:    "API key",
			Status:  checkWarn,
			Message: envVar + " is not set",
			Hint:    "docflow will prompt for it; or add it to .env",
		})
	case !strings.HasPrefix(key, sel.Provider.KeyPrefix):
		checks = append(checks, checkResult{
			Name:    "API key",
			Status:  checkWarn,
			Message: envVar + " does not start with " + sel.Provider.KeyPrefix,
			Hint:    "docflow will prompt for a replacement",
		})
	default:
		checks = append(checks, checkResult{Name: "API key", Status: checkPass, Message: envVar + " is set"})
	}
	return checks
}

func errorMessage(err error) string {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Message
	}
	return err.Error()
}

// outputDoctorHuman outputs the doctor result in human-readable format.
func outputDoctorHuman(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Println()
	printer.Print("docflow doctor %s\n", result.Version)

	printCheckSection(printer, "CORE", result.Core, quiet)
	printCheckSection(printer, "CREW", result.Crew, quiet)
	printCheckSection(printer, "PROVIDER", result.Provider, quiet)

	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		statusIcon(checkPass), result.Summary.Passed,
		statusIcon(checkWarn), result.Summary.Warnings,
		statusIcon(checkFail), result.Summary.Failed,
	)
}

// printCheckSection prints a section of checks.
func printCheckSection(printer *output.Printer, title string, checks []checkResult, quiet bool) {
	if quiet && !slices.ContainsFunc(checks, func(c checkResult) bool { return c.Status != checkPass }) {
		return
	}

	printer.Println()
	printer.Println(title)

	for _, check := range checks {
		if quiet && check.Status == checkPass {
			continue
		}
		printer.Print("  %s  %s %s\n", statusIcon(check.Status), check.Name, check.Message)
		if check.Hint != "" {
			printer.Print("     -> %s\n", check.Hint)
		}
	}
}

// statusIcon returns the icon for a check status.
func statusIcon(status checkStatus) string {
	switch status {
	case checkPass:
		return "ok"
	case checkWarn:
		return "!!"
	case checkFail:
		return "XX"
	default:
		return "??"
	}
}
