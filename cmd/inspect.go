package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dt-pm-tools/mdpub/internal/markdown"
	"github.com/dt-pm-tools/mdpub/internal/target"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <post-file>",
	Short: "Show the header of a published post",
	Long:  `Decodes a published post the way the site's content loader does and prints its header fields. Useful to check a post before committing it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening post: %w", err)
		}
		defer f.Close()

		post, err := markdown.ReadPost(f)
		if err != nil {
			return err
		}

		fmt.Printf("title:   %s\n", post.Title)
		fmt.Printf("date:    %s\n", post.Date)
		fmt.Printf("excerpt: %s\n", post.Excerpt)
		fmt.Printf("tags:    %s\n", strings.Join(post.Tags, ", "))
		if post.Cover != "" {
			fmt.Printf("cover:   %s\n", post.Cover)
		}
		fmt.Printf("body:    %d bytes\n", len(post.Body))
		return nil
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List publish targets and whether they are enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		for _, name := range target.DefaultRegistry().Names() {
			state := "disabled"
			if tc := appConfig.Target(name); target.Enabled(tc) {
				state = "enabled (" + tc.RepoRoot + ")"
			}
			fmt.Printf("%-10s %s\n", name, state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(targetsCmd)
}
