package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/mdpub/internal/target"
	"github.com/spf13/cobra"
)

var (
	publishFile   string
	publishTarget string
	publishDryRun bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a markdown draft to a configured target",
	Long: `Reads a markdown draft (optionally with a YAML header), copies images referenced
by absolute path into <repo_root>/public/uploads/<year>/<month>, writes the post
into the target's posts directory and, when auto_commit is set, runs git_cmd.

Use --dry-run to print the composed post without touching the repository.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if publishFile == "" {
			return fmt.Errorf("--file (-f) is required")
		}

		if err := loadConfig(); err != nil {
			return err
		}

		publisher := newPublisher()

		if publishDryRun {
			filename, content, err := publisher.Preview(publishFile, publishTarget)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Dry run: would write %s\n\n", filename)
			fmt.Print(content)
			return nil
		}

		report, err := publisher.Publish(publishFile, publishTarget)
		if err != nil {
			return fmt.Errorf("publishing %s: %w", publishFile, err)
		}
		if report == nil {
			fmt.Fprintf(os.Stderr, "Could not read %s; nothing published.\n", publishFile)
			return nil
		}
		if report.Skipped {
			fmt.Fprintf(os.Stderr, "Target %q is not enabled; nothing published.\n", report.Target)
			return nil
		}

		for _, a := range report.Assets {
			fmt.Fprintf(os.Stderr, "Copied image to %s\n", a.RelativePath)
		}
		fmt.Fprintf(os.Stderr, "Published %q to %s\n", report.Title, report.Target)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVarP(&publishFile, "file", "f", "", "markdown draft to publish (required)")
	publishCmd.Flags().StringVarP(&publishTarget, "target", "t", target.AstroName, "publish target name")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "print the composed post without writing it")
	rootCmd.AddCommand(publishCmd)
}
