package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"patternbook/internal/repository"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagSyncBranch      string
	flagSyncStoreToken  bool
	flagSyncDeleteToken bool
)

func init() {
	syncCmd.Flags().StringVar(&flagSyncBranch, "branch", "", "branch to track (defaults to the remote's HEAD)")
	syncCmd.Flags().BoolVar(&flagSyncStoreToken, "store-token", false, "store a GitHub Personal Access Token for private repositories")
	syncCmd.Flags().BoolVar(&flagSyncDeleteToken, "delete-token", false, "remove the stored GitHub token")
}

var syncCmd = &cobra.Command{
	Use:   "sync <git-url>",
	Short: "Clone or update the pattern catalog from a git repository",
	Long: `Clone a remote pattern repository into the configured patterns directory,
or fetch updates if it is already cloned. Private GitHub repositories use a
Personal Access Token stored in the OS credential store.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if flagSyncStoreToken || flagSyncDeleteToken {
			return cobra.MaximumNArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSyncDeleteToken {
			if err := repository.NewCredentialManager().DeleteGitHubToken(); err != nil {
				return err
			}
			fmt.Println("GitHub token removed.")
			if len(args) == 0 {
				return nil
			}
		}

		if flagSyncStoreToken {
			if err := storeToken(); err != nil {
				return err
			}
			if len(args) == 0 {
				return nil
			}
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		var branch *string
		if flagSyncBranch != "" {
			branch = &flagSyncBranch
		}

		source := repository.NewGitSource(args[0], branch, cfg.PatternsDir)
		localPath, err := source.Prepare(logger)
		if err != nil {
			return err
		}

		fmt.Printf("Pattern catalog ready at %s\n", localPath)
		return nil
	},
}

// storeToken prompts for a PAT without echoing it when stdin is a terminal.
func storeToken() error {
	fmt.Print("GitHub Personal Access Token: ")

	var token string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = string(raw)
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = line
	}

	if err := repository.NewCredentialManager().StoreGitHubToken(strings.TrimSpace(token)); err != nil {
		return err
	}
	fmt.Println("GitHub token stored.")
	return nil
}
