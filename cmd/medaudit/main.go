package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nferro/medaudit/internal/config"
	"github.com/nferro/medaudit/internal/llm"
	"github.com/nferro/medaudit/internal/mcptools"
	"github.com/nferro/medaudit/internal/orchestrator"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Request  string
	SpecPath string
	Model    string
	ServeMCP bool
	Addr     string
	Verbose  bool
	Version  bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("medaudit", flag.ContinueOnError)
	fs.StringVar(&flags.Request, "request", "", "run a single audit for this request and exit")
	fs.StringVar(&flags.SpecPath, "spec", "", "path to the technical specification document")
	fs.StringVar(&flags.Model, "model", "", "generation model override")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server exposing the audit tools")
	fs.StringVar(&flags.Addr, "addr", "127.0.0.1:8484", "listen address for -serve-mcp")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable progress output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	// Credentials may live in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if flags.SpecPath != "" {
		cfg.SpecPath = flags.SpecPath
	}
	if flags.Model != "" {
		cfg.Model = flags.Model
	}
	if flags.Verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := newClient(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if flags.ServeMCP {
		fmt.Printf("medaudit MCP server listening on %s\n", flags.Addr)
		return mcptools.RunMCPServer(ctx, mcptools.NewAuditService(cfg, client), flags.Addr)
	}

	if flags.Request != "" {
		return runOnce(ctx, cfg, client, flags.Request)
	}

	return runSession(ctx, cfg, client)
}

// newClient builds the generation client from config.
func newClient(cfg config.Config) *llm.HTTPClient {
	opts := []llm.ClientOption{llm.WithTimeout(cfg.Timeout)}
	if cfg.BaseURL != "" {
		opts = append(opts, llm.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, llm.WithModel(cfg.Model))
	}
	return llm.NewHTTPClient(cfg.APIKey, opts...)
}

// runOnce executes a single audit and prints the report.
func runOnce(ctx context.Context, cfg config.Config, client llm.Client, request string) error {
	w := orchestrator.NewWorkflow(cfg, client)
	defer w.Close()
	go printProgress(w.Progress(), cfg.Verbose)

	state, err := w.Run(ctx, request)
	if err != nil {
		return err
	}
	printReport(state.FinalReport)
	return nil
}

// runSession reads requests from stdin until quit/exit or EOF.
func runSession(ctx context.Context, cfg config.Config, client llm.Client) error {
	fmt.Println("Medical Device Compliance Auditor")
	fmt.Println("Type 'quit' or 'exit' to stop")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter your compliance request: ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Println("Exiting.")
			return nil
		case "":
			continue
		}

		if err := runOnce(ctx, cfg, client, input); err != nil {
			// A failed run ends with an explicit message, not the session.
			fmt.Fprintf(os.Stderr, "audit failed: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func printProgress(events <-chan orchestrator.ProgressEvent, verbose bool) {
	for ev := range events {
		if verbose {
			fmt.Println(orchestrator.FormatProgress(ev))
		}
	}
}

func printReport(report string) {
	fmt.Println()
	fmt.Println("================ GENERATED FINAL REPORT ================")
	fmt.Println()
	fmt.Println(report)
	fmt.Println("========================================================")
	fmt.Println()
}
