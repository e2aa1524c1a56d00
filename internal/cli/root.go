package cli

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fsobj",
	Short: "Manage files and directories on local disk, FTP or SFTP",
	Long: `fsobj manipulates files and directories through one interface,
whether they live on the local disk or on a remote FTP/SFTP server.

Every path must lie inside one of the allowed paths of the config file.
Without --url the local disk is used.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRootConfig,
}

var options struct {
	configPath string
	url        string
	verbose    int
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && options.verbose > 0 {
		log.Println("No .env file found, using environment variables")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&options.configPath, "config", "", "Config file (default ./fsobj.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&options.url, "url", "", "Remote server URL (ftp:// or sftp://); local disk when empty")
	rootCmd.PersistentFlags().CountVarP(&options.verbose, "verbose", "v", "Increase verbosity (repeatable)")

	rootCmd.AddCommand(lsCmd, existsCmd, rmCmd, mvCmd, mkdirCmd)
}
