package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/civicdata/mdm/internal/server"
	"github.com/civicdata/mdm/pkg/resolve"
)

// NewServeCommand creates the serve command. The resolution store is built
// completely before the listener starts: a fatal load error aborts startup
// and no partial store is ever published.
func (a *App) NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolved citizen registry over HTTP",
		Long: `Start a read-only REST API over the resolved citizen registry.

Endpoints:
  GET {prefix}/citizens        - list all golden records
  GET {prefix}/citizens/{id}   - look up one golden record
  GET {prefix}/stats           - load statistics
  GET /health, {prefix}/ready  - liveness and readiness probes
  GET /metrics                 - Prometheus metrics

All sources are loaded and resolved before the server starts listening;
the registry is immutable for the life of the process.`,
		Example: `  mdm serve
  mdm serve --port 3000
  mdm serve --cors-origins "https://example.com"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, args)
		},
	}

	// Server configuration flags
	cmd.Flags().IntP("port", "p", 8080, "Server port")
	cmd.Flags().String("host", "localhost", "Bind address")

	// CORS flags
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	// Timeout flags
	cmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", 10*time.Second, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", 120*time.Second, "HTTP idle timeout")

	// Features flags
	cmd.Flags().Bool("metrics", true, "Enable metrics endpoint")
	cmd.Flags().String("prefix", "/api/v1", "API path prefix")

	return cmd
}

// runServe loads the sources, builds the registry, and serves it.
func (a *App) runServe(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	corsEnabled, _ := cmd.Flags().GetBool("cors")
	corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
	readTimeout, _ := cmd.Flags().GetDuration("read-timeout")
	writeTimeout, _ := cmd.Flags().GetDuration("write-timeout")
	idleTimeout, _ := cmd.Flags().GetDuration("idle-timeout")
	metricsEnabled, _ := cmd.Flags().GetBool("metrics")
	pathPrefix, _ := cmd.Flags().GetString("prefix")

	// Override with environment variables
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil && p > 0 && p < 65536 {
			port = p
		}
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		host = envHost
	}

	// Build the registry first; fatal load errors abort before listening.
	reg, err := a.Registry()
	if err != nil {
		return err
	}
	result, err := a.Result()
	if err != nil {
		return err
	}

	logger := a.Logger()
	logger.Info().
		Int("port", port).
		Str("host", host).
		Str("prefix", pathPrefix).
		Int("citizens", reg.Len()).
		Bool("cors", corsEnabled).
		Msg("Starting API server")

	cfg := server.DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	cfg.PathPrefix = pathPrefix
	cfg.CORSEnabled = corsEnabled || len(corsOrigins) > 0
	cfg.CORSOrigins = corsOrigins
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.IdleTimeout = idleTimeout
	cfg.MetricsEnabled = metricsEnabled

	srv := server.New(reg, result.Stats, logger, cfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      srv.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return runServerUntilShutdown(cmd.Context(), httpServer, logger)
}

// runServerUntilShutdown serves until the context is canceled, then drains
// connections gracefully.
func runServerUntilShutdown(ctx context.Context, httpServer *http.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Msg("Server starting")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

// NewResolveCommand creates the resolve command, which runs the full
// resolution pass once and reports the outcome without serving.
func (a *App) NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Run the resolution pass and report the outcome",
		Long: `Load every configured source, group records by citizen ID, resolve
field conflicts, and print the resulting golden records together with the
diagnostics of the pass. Nothing is served or persisted; the command is
for inspecting what a load would produce.`,
		Example: `  mdm resolve
  mdm resolve --output json
  mdm resolve --data-dir ./fixtures`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")
			return a.runResolve(cmd, output)
		},
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table, json")

	return cmd
}

// runResolve executes the pass and renders the result.
func (a *App) runResolve(cmd *cobra.Command, output string) error {
	result, err := a.Result()
	if err != nil {
		return err
	}

	switch output {
	case "json":
		return printResultJSON(cmd, result)
	case "table", "":
		printResultTable(cmd, result)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

// printResultJSON renders the full result as indented JSON.
func printResultJSON(cmd *cobra.Command, result *resolve.Result) error {
	payload := map[string]any{
		"citizens":    result.Records,
		"diagnostics": result.Diagnostics,
		"stats":       result.Stats,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

// printResultTable renders a human-readable summary.
func printResultTable(cmd *cobra.Command, result *resolve.Result) {
	cmd.Printf("Golden records: %d\n", result.Stats.GoldenRecords)
	for _, record := range result.Records {
		cmd.Printf("  %-12s %-24s %-12s %s\n",
			record.ID, record.Name.OrEmpty(), record.DOB.OrEmpty(), record.Gender.OrEmpty())
		for _, name := range record.DomainFieldNames() {
			cmd.Printf("    %s: %s\n", name, record.Domain[name].OrEmpty())
		}
	}

	sources := make([]string, 0, len(result.Stats.RecordsSeen))
	for source := range result.Stats.RecordsSeen {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	cmd.Println()
	cmd.Println("Sources:")
	for _, source := range sources {
		cmd.Printf("  %-12s %d records\n", source, result.Stats.RecordsSeen[source])
	}

	cmd.Println()
	cmd.Printf("Identities: %d  skipped: %d  conflicts resolved: %d  records dropped: %d\n",
		result.Stats.Identities,
		result.Stats.IdentitiesSkipped,
		result.Stats.ConflictsResolved,
		result.Stats.RecordsDropped)

	if len(result.Diagnostics) > 0 {
		cmd.Println()
		cmd.Println("Diagnostics:")
		for _, d := range result.Diagnostics {
			cmd.Printf("  [%s] %s\n", d.Level, d.String())
		}
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("mdm %s\n", a.version)
			cmd.Printf("  commit: %s\n", a.commit)
			cmd.Printf("  built:  %s\n", a.date)
		},
	}
}
