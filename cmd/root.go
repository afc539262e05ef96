package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/craftsland/mention-to-chatwork/internal/chatwork"
	"github.com/craftsland/mention-to-chatwork/internal/config"
	"github.com/craftsland/mention-to-chatwork/internal/github"
	"github.com/craftsland/mention-to-chatwork/internal/mapping"
	"github.com/craftsland/mention-to-chatwork/internal/notify"
)

// Version is set at build time via -ldflags "-X github.com/craftsland/mention-to-chatwork/cmd.Version=v1.0.0"
var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mention-to-chatwork",
	Short: "Bridge GitHub mentions and review requests to Chatwork",
	Long: "mention-to-chatwork: a GitHub Actions automation that maps @-mentioned GitHub " +
		"usernames to Chatwork accounts and posts notifications or review tasks to their rooms.",
	Run: func(cmd *cobra.Command, args []string) {
		runNotify(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Flags mirror the action inputs; unset flags fall back to the
	// INPUT_* environment variables the Actions runner provides.
	rootCmd.Flags().String("repo-token", "", "GitHub API token (default: $INPUT_REPO_TOKEN)")
	rootCmd.Flags().String("configuration-path", "", "mapping file URL or repository path (default: $INPUT_CONFIGURATION_PATH)")
	rootCmd.Flags().String("api-token", "", "Chatwork API token (default: $INPUT_API_TOKEN)")
	rootCmd.Flags().String("run-id", "", "workflow run id for error reports (default: $INPUT_RUN_ID)")
	rootCmd.Flags().Bool("review-request", false, "force review-requested mode (default: $INPUT_REVIEW_REQUEST)")
	rootCmd.Flags().String("action-name", "", "only handle payloads with this action verb (default: $INPUT_ACTION_NAME)")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(dumpCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mention-to-chatwork %s\n", Version)
		},
	}
}

// Execute runs the root cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

// loadInputs merges the runner environment with any explicitly set
// flags, flags winning.
func loadInputs(cmd *cobra.Command) *config.Inputs {
	inputs := config.FromEnv()

	overrideString := func(name string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	overrideString("repo-token", &inputs.RepoToken)
	overrideString("configuration-path", &inputs.ConfigurationPath)
	overrideString("api-token", &inputs.APIToken)
	overrideString("run-id", &inputs.RunID)
	overrideString("action-name", &inputs.ActionName)
	if cmd.Flags().Changed("review-request") {
		inputs.ReviewRequest, _ = cmd.Flags().GetBool("review-request")
	}
	return inputs
}

func runNotify(cmd *cobra.Command) {
	setupLogging()

	inputs := loadInputs(cmd)
	if err := inputs.Validate(); err != nil {
		slog.Error("failed to load inputs", "error", err)
		os.Exit(1)
	}

	// Tag every log record with the run id, or a generated one for
	// invocations outside a workflow (local testing).
	run := inputs.RunID
	if run == "" {
		run = uuid.NewString()
	}
	slog.SetDefault(slog.Default().With("run", run))

	data, err := os.ReadFile(inputs.EventPath)
	if err != nil {
		slog.Error("failed to read event payload", "path", inputs.EventPath, "error", err)
		os.Exit(1)
	}
	payload, err := github.ParsePayload(data)
	if err != nil {
		slog.Error("failed to parse event payload", "error", err)
		os.Exit(1)
	}
	slog.Debug("event payload", "json", string(data))

	// Everything past input loading is non-critical: failures are
	// reported and swallowed so the host workflow never goes red
	// because of its notifier.
	if err := dispatch(context.Background(), inputs, payload); err != nil {
		notify.Report(err, inputs)
	}
}

func dispatch(ctx context.Context, inputs *config.Inputs, payload *github.Payload) error {
	gh := github.NewClient(inputs.RepoToken, github.DefaultBaseURL)

	m, err := mapping.Load(ctx, &http.Client{Timeout: 30 * time.Second}, gh,
		inputs.ConfigurationPath, inputs.Repository, inputs.SHA)
	if err != nil {
		return err
	}

	chat := chatwork.NewClient(inputs.APIToken, chatwork.DefaultBaseURL)
	return notify.NewRouter(chat, gh, m, inputs).Dispatch(ctx, payload)
}
