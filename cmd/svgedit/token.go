package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/inamate/svgedit/internal/auth"
	"github.com/inamate/svgedit/internal/typeid"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token [user-id]",
	Short: "Issue a session token signed with JWT_SECRET",
	Long: `Prints an HS256 token for the editing server. Without a user id a new
one is generated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTokenTTL, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	userID := typeid.NewUserID()
	if len(args) == 1 {
		userID = args[0]
	}

	token, err := auth.NewService(cfg.JWTSecret).IssueToken(userID, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
