package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/infrastructure/config"
	"github.com/animecatalog/catalog-api/pkg/logger"
)

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage API accounts",
	}
	cmd.AddCommand(newAccountsCreateCmd())
	return cmd
}

type createAccountOptions struct {
	username string
	name     string
	password string
	admin    bool
}

func newAccountsCreateCmd() *cobra.Command {
	var opts createAccountOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with ROLE_USER, plus ROLE_ADMIN when --admin is set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := opts.account()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "catalog-cli"})

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close()

			if err := st.accounts.Create(ctx, account); err != nil {
				if errors.Is(err, domain.ErrAccountExists) {
					return fmt.Errorf("account %q already exists", account.Username)
				}
				return err
			}

			log.Info().
				Int64("account_id", account.ID).
				Str("username", account.Username).
				Strs("authorities", account.Authorities).
				Msg("account created")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.username, "username", "", "login name (required)")
	f.StringVar(&opts.name, "name", "", "display name, defaults to the username")
	f.StringVar(&opts.password, "password", "", "plain-text password, stored as a bcrypt hash (required)")
	f.BoolVar(&opts.admin, "admin", false, "grant ROLE_ADMIN")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// account builds the account to insert, hashing the password.
func (o createAccountOptions) account() (*domain.Account, error) {
	username := strings.TrimSpace(o.username)
	if username == "" {
		return nil, errors.New("--username must not be blank")
	}
	if o.password == "" {
		return nil, errors.New("--password must not be blank")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(o.name)
	if name == "" {
		name = username
	}

	return &domain.Account{
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
		Authorities:  domain.NormalizeAuthorities(nil, o.admin),
	}, nil
}
