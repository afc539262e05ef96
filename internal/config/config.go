// Package config collects the action's inputs from the environment the
// GitHub Actions runner provides: `INPUT_<NAME>` variables for the inputs
// declared in action.yml, plus the standard `GITHUB_*` variables describing
// the triggering repository and commit.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Inputs is the process-scoped configuration for one action invocation.
// It is captured once at startup and never mutated afterwards.
type Inputs struct {
	// RepoToken authenticates calls to the GitHub REST API.
	RepoToken string `validate:"required"`

	// ConfigurationPath locates the username mapping file: either an
	// absolute URL or a path inside the triggering repository.
	ConfigurationPath string `validate:"required"`

	// APIToken authenticates calls to the Chatwork REST API.
	APIToken string `validate:"required"`

	// RunID is the workflow run identifier, used to link error reports
	// back to the failing job. Optional.
	RunID string

	// ReviewRequest forces review-requested mode regardless of the
	// payload's action verb.
	ReviewRequest bool

	// ActionName, when set, restricts the run to payloads whose action
	// verb matches it exactly. Optional.
	ActionName string

	// Repository is the "owner/name" of the triggering repository
	// (GITHUB_REPOSITORY).
	Repository string `validate:"required"`

	// SHA is the commit the workflow ran against (GITHUB_SHA). Used to
	// pin repository-relative mapping file reads.
	SHA string

	// EventPath is the file holding the webhook payload JSON
	// (GITHUB_EVENT_PATH).
	EventPath string `validate:"required"`
}

// ActionInput returns the value of a declared action input, following the
// runner's convention: `with: repo-token` arrives as INPUT_REPO_TOKEN.
func ActionInput(name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return strings.TrimSpace(os.Getenv(key))
}

// ActionBoolInput parses a boolean action input using the YAML 1.2 core
// schema spellings the official toolkit accepts.
func ActionBoolInput(name string) bool {
	switch ActionInput(name) {
	case "true", "True", "TRUE":
		return true
	}
	return false
}

// FromEnv assembles Inputs from the runner environment. Callers may
// override individual fields (from CLI flags) before calling Validate.
func FromEnv() *Inputs {
	return &Inputs{
		RepoToken:         ActionInput("repo-token"),
		ConfigurationPath: ActionInput("configuration-path"),
		APIToken:          ActionInput("api-token"),
		RunID:             ActionInput("run-id"),
		ReviewRequest:     ActionBoolInput("review-request"),
		ActionName:        ActionInput("action-name"),
		Repository:        os.Getenv("GITHUB_REPOSITORY"),
		SHA:               os.Getenv("GITHUB_SHA"),
		EventPath:         os.Getenv("GITHUB_EVENT_PATH"),
	}
}

// Validate checks that every required input is present.
func (i *Inputs) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("invalid action inputs: %w", err)
	}
	return nil
}
