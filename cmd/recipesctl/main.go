package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"philcali.me/recipesync/internal/app"
	"philcali.me/recipesync/internal/config"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/logger"
)

type cli struct {
	jsonOutput bool
	retry      bool
	memory     bool
	app        *app.App
	owned      bool
	logger     *zap.Logger
}

// call runs action once, or under the configured retry policy when --retry
// is set.
func call[T interface{}](c *cli, ctx context.Context, action func(context.Context) (T, error)) (T, error) {
	if !c.retry {
		return action(ctx)
	}
	return exceptions.Retry(ctx, action, c.app.RetryOptions()...)
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if c.app != nil {
		return nil
	}
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if c.memory {
		cfg.Store.Memory = true
	}
	c.logger, err = logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.app, err = app.New(cmd.Context(), cfg, c.logger)
	if err != nil {
		return err
	}
	c.owned = true
	return nil
}

func (c *cli) close() {
	if !c.owned {
		return
	}
	c.app.Close()
	c.logger.Sync()
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "recipesctl",
		Short: "Manage recipes and shopping lists",
		Long: `recipesctl reads and writes the recipe and shopping list collections.

The document store is selected from the environment: TABLE_NAME and
AWS_REGION for DynamoDB, DYNAMODB_ENDPOINT for a local DynamoDB, or
STORE_MEMORY=true (or --memory) for a throwaway in-process store.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVar(&c.retry, "retry", false, "retry operations that fail with network errors")
	root.PersistentFlags().BoolVar(&c.memory, "memory", false, "use the in-process document store")

	root.AddCommand(
		newRecipesCmd(c),
		newListsCmd(c),
		newItemsCmd(c),
		newWatchCmd(c),
		newProvidersCmd(c),
		newNotifyCmd(c),
	)
	return root
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer c.close()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", exceptions.Message(err))
		if c.logger != nil {
			c.logger.Debug("command failed", zap.Error(err))
		}
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
