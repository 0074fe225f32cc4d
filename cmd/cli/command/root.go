package command

// root.go defines the root command for the revivalhub CLI.
// set up the global flags here.

import (
	"fmt"
	"os"

	"revivalhub/cmd/cli/authentication"
	"revivalhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "revivalhub",
	Short: "revivalhub - RevivalHub Command Line Interface",
	Long: `revivalhub is a tool for founders and investors to interact with the RevivalHub API.
User can use this application to:
- Send collaboration requests and buyout offers on listings
- Review incoming requests on their own listings
- Read and follow their notifications

Use "revivalhub command --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("REVIVALHUB_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(collabCmd)
	rootCmd.AddCommand(notificationsCmd)
}

// authedClient returns a client carrying the stored access token
func authedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.AccessToken)
	return c, nil
}
