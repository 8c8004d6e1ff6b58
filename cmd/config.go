package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/mdpub/internal/config"
	"github.com/dt-pm-tools/mdpub/internal/target"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure the astro target and signer credentials",
	Long:  `Interactively set up the Astro repository, commit command and image host signer credentials. Settings are saved to ~/.mdpub.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)
		astro := existing.Target(target.AstroName)
		if astro == nil {
			astro = &config.TargetConfig{}
		}

		astro.RepoRoot = prompt(reader, "Astro repository root", astro.RepoRoot)
		astro.PostsDir = prompt(reader, "Posts directory", astro.PostsDirOrDefault())
		astro.FilenamePattern = prompt(reader, "Filename pattern", astro.FilenamePatternOrDefault())
		astro.GitCmd = prompt(reader, "Commit command ({filename} is replaced, empty to skip)", astro.GitCmd)
		astro.AutoCommit = astro.GitCmd != ""
		astro.Enabled = astro.RepoRoot != ""

		existing.Signer.Key = prompt(reader, "Signer key", existing.Signer.Key)

		// Secret (masked input)
		fmt.Print("Signer secret (input hidden, empty to keep): ")
		secretBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading secret: %w", err)
		}
		if secret := strings.TrimSpace(string(secretBytes)); secret != "" {
			existing.Signer.Secret = secret
		}

		existing.SetTarget(target.AstroName, astro)
		if err := existing.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(existing, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

// prompt reads one line, returning def when the answer is empty.
func prompt(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def
	}
	return answer
}

func init() {
	rootCmd.AddCommand(configCmd)
}
