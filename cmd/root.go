package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"taxon/internal/app"
	"taxon/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "taxon",
	Short: "Taxon CLI",
	Long:  `Taxon categorizes forum posts with a language model and deterministic fallbacks, and serves related-post suggestions.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		appInstance, err := app.NewApp(cfg, optionsFor(cmd.Name()))
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

// optionsFor decides which optional subsystems a command needs, so the CLI
// doesn't require Redis or a vector index just to classify text.
func optionsFor(command string) app.Options {
	switch command {
	case "serve", "worker":
		return app.Options{NeedJobClient: true, NeedVectorStore: true}
	default:
		return app.Options{}
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Custom context key type avoids collisions with other packages' keys.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance placed by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and other diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Println("Checking database connectivity...")
		if err := appInstance.CategoryStore.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		fmt.Println("Database connection successful.")

		if appInstance.VectorStore != nil {
			if err := appInstance.VectorStore.Ping(ctx); err != nil {
				return fmt.Errorf("vector store ping failed: %w", err)
			}
			fmt.Println("Vector store connection successful.")
		}
		return nil
	},
}
