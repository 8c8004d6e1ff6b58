package cmd

import (
	"fmt"

	"github.com/dt-pm-tools/mdpub/internal/signer"
	"github.com/spf13/cobra"
)

var (
	signURL   string
	signNonce string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Compute the image host request signature for a URL",
	Long: `Prints the nonce and HMAC-SHA256 signature for a POST to --url, using the
signer key and secret from configuration. Only the URL path is signed.

A fresh nonce is generated unless --nonce is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if signURL == "" {
			return fmt.Errorf("--url is required")
		}

		if err := loadConfig(); err != nil {
			return err
		}
		if err := appConfig.Signer.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w\nRun 'mdpub config' to set up credentials", err)
		}

		s, err := signer.New(appConfig.Signer.Key, appConfig.Signer.Secret)
		if err != nil {
			return err
		}

		nonce := signNonce
		if nonce == "" {
			nonce = signer.NewNonce()
		}
		sig, err := s.Sign(nonce, signURL)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s\n", signer.HeaderKey, s.Key())
		fmt.Printf("%s: %s\n", signer.HeaderNonce, nonce)
		fmt.Printf("%s: %s\n", signer.HeaderSignature, sig)
		return nil
	},
}

var nonceCmd = &cobra.Command{
	Use:   "nonce",
	Short: "Print a fresh request nonce",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(signer.NewNonce())
	},
}

func init() {
	signCmd.Flags().StringVar(&signURL, "url", "", "request URL to sign (required)")
	signCmd.Flags().StringVar(&signNonce, "nonce", "", "use this nonce instead of generating one")
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(nonceCmd)
}
