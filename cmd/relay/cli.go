package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/fuelcore/meetingrelay/internal/block"
	"github.com/fuelcore/meetingrelay/internal/config"
	"github.com/fuelcore/meetingrelay/internal/document"
	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/ledger"
	"github.com/fuelcore/meetingrelay/internal/logging"
	"github.com/fuelcore/meetingrelay/internal/mcp"
	"github.com/fuelcore/meetingrelay/internal/metrics"
	"github.com/fuelcore/meetingrelay/internal/ops"
	"github.com/fuelcore/meetingrelay/internal/signature"
	"github.com/fuelcore/meetingrelay/internal/web"
)

// newCLIApp creates the CLI application with all commands. Running with no
// command starts the HTTP server.
func newCLIApp(cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "relay",
		Usage:   "Meeting transcript relay and workspace bridge",
		Version: Version,
		Action: func(c *cli.Context) error {
			return runServe(cfg)
		},
		Commands: []*cli.Command{
			serveCmd(cfg),
			mcpCmd(cfg),
			renderCmd(),
			secretCmd(),
			signCmd(cfg),
			ledgerCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the webhook receiver and workspace bridge over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (overrides PORT)"},
		},
		Action: func(c *cli.Context) error {
			if port := c.Int("port"); port > 0 {
				cfg.Port = port
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	log := newLogger(cfg)
	for _, w := range cfg.Validate() {
		log.Warn().Msg(w)
	}

	d, err := ops.NewDeps(cfg, metrics.New(), log)
	if err != nil {
		return outputError(err)
	}
	defer closeDeps(d)

	log.Info().Str("version", Version).Bool("signature_check", cfg.WebhookSecret != "").Msg("starting relay")
	return web.Run(web.NewServer(d, Version), log)
}

// mcpCmd creates the mcp command.
func mcpCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the workspace tools over MCP stdio",
		Action: func(c *cli.Context) error {
			log := newLogger(cfg)
			d, err := ops.NewDeps(cfg, nil, log)
			if err != nil {
				return outputError(err)
			}
			defer closeDeps(d)

			if err := mcp.Run(d, Version); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// renderCmd creates the render command.
func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Compose a note or agenda request offline and print the result",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: "note", Usage: "Document kind: note|agenda"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format: text|json"},
		},
		Action: func(c *cli.Context) error {
			data, err := readInput(c)
			if err != nil {
				return outputError(err)
			}

			doc, err := composeDocument(c.String("kind"), data)
			if err != nil {
				return outputError(err)
			}

			switch c.String("format") {
			case "text":
				_, err := io.WriteString(c.App.Writer, block.Render(doc.Blocks))
				return err
			case "json":
				return outputJSON(c.App.Writer, struct {
					*document.Document
					Fingerprint string `json:"fingerprint"`
				}{doc, doc.Fingerprint()})
			default:
				return outputError(errors.NewInvalidRequest("format must be text or json"))
			}
		},
	}
}

// composeDocument decodes data as a request of the given kind and composes it.
func composeDocument(kind string, data []byte) (*document.Document, error) {
	switch kind {
	case "note":
		req, err := document.DecodeNote(data)
		if err != nil {
			return nil, errors.NewInvalidRequest("invalid note request: " + err.Error())
		}
		return document.ComposeNote(req), nil
	case "agenda":
		req, err := document.DecodeAgenda(data)
		if err != nil {
			return nil, errors.NewInvalidRequest("invalid agenda request: " + err.Error())
		}
		return document.ComposeAgenda(req), nil
	default:
		return nil, errors.NewInvalidRequest("kind must be note or agenda")
	}
}

// secretCmd creates the secret command.
func secretCmd() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Generate a random webhook signing secret",
		Action: func(c *cli.Context) error {
			secret, err := signature.GenerateSecret()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			_, err = fmt.Fprintln(c.App.Writer, secret)
			return err
		},
	}
}

// signCmd creates the sign command.
func signCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "sign",
		Usage:     "Print the webhook signature of a request body",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "secret", Aliases: []string{"s"}, Usage: "Signing secret (defaults to FIREFLY_WEBHOOK_SECRET)"},
		},
		Action: func(c *cli.Context) error {
			secret := c.String("secret")
			if secret == "" && cfg != nil {
				secret = cfg.WebhookSecret
			}
			if secret == "" {
				return outputError(errors.NewInvalidRequest("no signing secret configured"))
			}

			body, err := readInput(c)
			if err != nil {
				return outputError(err)
			}

			_, err = fmt.Fprintln(c.App.Writer, signature.Sign(secret, body))
			return err
		},
	}
}

// ledgerCmd creates the ledger command group.
func ledgerCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "Inspect the publish ledger",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent publications, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
				},
				Action: func(c *cli.Context) error {
					if cfg == nil || cfg.LedgerPath == "" {
						return outputError(errors.NewInvalidRequest("LEDGER_PATH is not set"))
					}

					l, err := ledger.Open(cfg.LedgerPath)
					if err != nil {
						return outputError(errors.NewInternal(err))
					}
					defer l.Close()

					pubs, err := l.List(context.Background(), c.Int("limit"))
					if err != nil {
						return outputError(err)
					}

					return outputJSON(c.App.Writer, pubs)
				},
			},
		},
	}
}

// Helper functions

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
}

func closeDeps(d *ops.Deps) {
	if d.Ledger != nil {
		_ = d.Ledger.Close()
	}
}

// outputJSON marshals result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if rErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readInput reads the file named by the first argument, or piped stdin.
func readInput(c *cli.Context) ([]byte, error) {
	if c.NArg() > 0 {
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return nil, errors.NewInvalidRequest("read input: " + err.Error())
		}
		return data, nil
	}
	if c.App.Reader == os.Stdin && !stdinHasData() {
		return nil, errors.NewInvalidRequest("input must be a file argument or piped via stdin")
	}
	data, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
