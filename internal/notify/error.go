package notify

import (
	"log/slog"

	"github.com/craftsland/mention-to-chatwork/internal/chatwork"
	"github.com/craftsland/mention-to-chatwork/internal/config"
	"github.com/craftsland/mention-to-chatwork/internal/github"
)

// Report logs a formatted error report and swallows the error. This is
// the non-critical dispatch policy: the action must never fail the host
// workflow on its own internal faults, so every error raised after input
// loading ends here as a warning, not an exit code.
func Report(err error, inputs *config.Inputs) {
	jobURL := ""
	if inputs.RunID != "" {
		jobURL = github.JobURL(inputs.Repository, inputs.RunID)
	}
	slog.Warn(chatwork.ErrorMessage(err, jobURL))
}
