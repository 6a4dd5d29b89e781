// Command catalog runs the anime catalog API and its operator tooling.
//
// @title                      Anime Catalog API
// @version                    1.0
// @description                CRUD REST API for an anime catalog with USER and ADMIN roles.
// @BasePath                   /
// @securityDefinitions.basic  BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load() // load .env if present

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Anime catalog API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newAccountsCmd())
	return root
}
