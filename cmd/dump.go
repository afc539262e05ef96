package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/craftsland/mention-to-chatwork/internal/github"
)

// dumpCmd classifies a payload file from disk and prints the normalized
// event info. Handy when writing a mapping file: run it against a saved
// webhook delivery to see which usernames would be looked up.
func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <payload.json>",
		Short: "Classify a webhook payload file and print the extracted event info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			payload, err := github.ParsePayload(data)
			if err != nil {
				return err
			}
			info, err := github.Classify(payload)
			if err != nil {
				return err
			}

			out := struct {
				Body     *string  `json:"body"`
				Title    string   `json:"title"`
				URL      string   `json:"url"`
				Sender   string   `json:"sender"`
				Mentions []string `json:"mentions"`
			}{
				Body:   info.Body,
				Title:  info.Title,
				URL:    info.URL,
				Sender: info.SenderName,
			}
			if info.Body != nil {
				out.Mentions = github.ExtractMentions(*info.Body)
			}

			rendered, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(rendered))
			return nil
		},
	}
}
