package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MarcoGiova99/tutor/internal/auth"
	"github.com/MarcoGiova99/tutor/internal/config"
	"github.com/MarcoGiova99/tutor/internal/models"
)

var (
	studentFlag string
	roleFlag    string
	ttlFlag     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		role := models.Role(roleFlag)
		if role != models.RoleStudent && role != models.RoleTutor {
			return fmt.Errorf("unknown role %q", roleFlag)
		}

		token, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Issue(studentFlag, role, ttlFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&studentFlag, "student", "", "student id placed in the token subject")
	tokenCmd.Flags().StringVar(&roleFlag, "role", string(models.RoleStudent), "student or tutor")
	tokenCmd.Flags().DurationVar(&ttlFlag, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("student")
	rootCmd.AddCommand(tokenCmd)
}
