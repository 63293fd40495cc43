package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/folio/internal/api"
	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/cv"
	"github.com/hpungsan/folio/internal/devapi"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/markdown"
	"github.com/hpungsan/folio/internal/mcp"
	"github.com/hpungsan/folio/internal/session"
	"github.com/hpungsan/folio/internal/web"
)

// appEnv carries what every command needs.
type appEnv struct {
	cfg     *config.Config
	baseDir string
	log     *logging.Logger
	stdin   io.Reader
}

// client builds a backend client with a fresh, empty session.
func (e *appEnv) client() *api.Client {
	return api.FromConfig(e.cfg, session.New(), e.log)
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *appEnv) *cli.App {
	if env.stdin == nil {
		env.stdin = os.Stdin
	}
	app := &cli.App{
		Name:    "folio",
		Usage:   "Personal portfolio site with blog and CV",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(env),
			devapiCmd(env),
			mcpCmd(env),
			blogCmd(env),
			cvCmd(env),
			renderCmd(env),
			configCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd runs the portfolio web server.
func serveCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the portfolio web server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			cfg := *env.cfg
			if c.IsSet("bind") {
				cfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}

			h, err := web.NewHandlers(api.FromConfig(&cfg, session.New(), env.log), &cfg, Version, env.log)
			if err != nil {
				return outputError(err)
			}
			env.log.Info("web", "backend", map[string]any{"api_base_url": cfg.APIBaseURL})
			return web.Run(web.NewServer(h, cfg.Addr()), env.log)
		},
	}
}

// devapiCmd runs the local stand-in backend.
func devapiCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "devapi",
		Usage: "Run a local stand-in for the REST backend (sqlite, seeded)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			port := env.cfg.DevAPIPort
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv, conn, err := devapi.Open(c.Context, env.baseDir, env.cfg.DevAPIUsername, env.cfg.DevAPIPassword, devapi.Options{
				JWTSecret: env.cfg.DevAPIJWTSecret,
				Logger:    env.log,
			})
			if err != nil {
				return outputError(err)
			}
			defer conn.Close()

			return web.Run(srv.NewHTTPServer(fmt.Sprintf("%s:%d", env.cfg.Bind, port)), env.log)
		},
	}
}

// mcpCmd serves the MCP tools over stdio.
func mcpCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			if unknown := mcp.ValidateDisabledTools(env.cfg.DisabledTools); len(unknown) > 0 {
				env.log.Warn("mcp", "unknown tools in disabled_tools", map[string]any{"tools": unknown})
			}
			return mcp.Run(env.client(), env.cfg, Version, env.log)
		},
	}
}

// blogCmd groups the read-only post commands.
func blogCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "blog",
		Usage: "Read blog posts from the backend",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List visible posts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Tech or Personal"},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Title or tag substring"},
				},
				Action: func(c *cli.Context) error {
					categories := blog.Categories
					if name := c.String("category"); name != "" {
						cat := blog.Category(name)
						if !cat.Valid() {
							return outputError(errors.NewInvalidRequest("category must be Tech or Personal"))
						}
						categories = []blog.Category{cat}
					}

					posts, err := env.client().Blogs.List(c.Context)
					if err != nil {
						return outputError(err)
					}
					out := make([]blog.Post, 0, len(posts))
					for _, cat := range categories {
						out = append(out, blog.Filter(posts, cat, c.String("query"))...)
					}
					return outputJSON(c, out)
				},
			},
			{
				Name:      "show",
				Usage:     "Show one post",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "html", Usage: "Print the rendered HTML instead of JSON"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return outputError(errors.NewInvalidRequest("exactly one post id is required"))
					}
					p, err := env.client().Blogs.Get(c.Context, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					if !c.Bool("html") {
						return outputJSON(c, p)
					}
					html, err := markdown.Render(p.Content)
					if err != nil {
						return outputError(errors.NewInternal(err))
					}
					_, err = fmt.Fprintln(c.App.Writer, html)
					return err
				},
			},
		},
	}
}

// cvCmd groups the CV commands.
func cvCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "cv",
		Usage: "Read or check the CV document",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the stored CV",
				Action: func(c *cli.Context) error {
					doc, err := env.client().CV.Get(c.Context)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, cv.Normalize(*doc))
				},
			},
			{
				Name:      "validate",
				Usage:     "Check a CV JSON document against the schema (file argument or stdin)",
				ArgsUsage: "[file]",
				Action: func(c *cli.Context) error {
					data, err := readInput(c, env.stdin)
					if err != nil {
						return outputError(err)
					}
					if err := cv.ValidateJSON(data); err != nil {
						return outputError(err)
					}
					return outputJSON(c, map[string]any{"valid": true})
				},
			},
		},
	}
}

// renderCmd renders Markdown the way posts are rendered.
func renderCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render Markdown to HTML (file argument or stdin)",
		ArgsUsage: "[file]",
		Action: func(c *cli.Context) error {
			data, err := readInput(c, env.stdin)
			if err != nil {
				return outputError(err)
			}
			html, err := markdown.Render(string(data))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			_, err = fmt.Fprint(c.App.Writer, html)
			return err
		},
	}
}

// configCmd prints the effective configuration with secrets masked.
func configCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprint(c.App.Writer, env.cfg.String())
			return err
		},
	}
}

// Helper functions

// outputJSON writes v as indented JSON to the app's writer.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var fErr *errors.FolioError
	if stderrors.As(err, &fErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", fErr.Code, fErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readInput reads the file named by the first argument, or stdin when there is none.
func readInput(c *cli.Context, stdin io.Reader) ([]byte, error) {
	if c.NArg() > 0 {
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		return data, nil
	}
	if f, ok := stdin.(*os.File); ok && !stdinHasData(f) {
		return nil, errors.NewInvalidRequest("input must be a file argument or piped via stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.NewInvalidRequest("input is empty")
	}
	return data, nil
}

// stdinHasData returns true if f has piped data (not a terminal).
func stdinHasData(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
