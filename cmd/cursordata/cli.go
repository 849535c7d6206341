package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/cursordata/internal/client"
	"github.com/hpungsan/cursordata/internal/config"
	"github.com/hpungsan/cursordata/internal/decode"
	"github.com/hpungsan/cursordata/internal/errors"
	"github.com/hpungsan/cursordata/internal/export"
	"github.com/hpungsan/cursordata/internal/query"
	"github.com/hpungsan/cursordata/internal/store"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(c *client.Client, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "cursordata",
		Usage:   "Read-only explorer for the Cursor state database",
		Version: Version,
		Commands: []*cli.Command{
			infoCmd(c),
			getCmd(c),
			keysCmd(c),
			conversationsCmd(c, cfg),
			checkpointsCmd(c, cfg),
			composersCmd(c, cfg),
			contextsCmd(c, cfg),
			trackingCmd(c, cfg),
			sessionsCmd(c, cfg),
			statsCmd(c),
			exportCmd(c, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// limitOr substitutes the configured default when no limit was given.
func limitOr(cfg *config.Config, n int) int {
	if n != 0 {
		return n
	}
	if cfg != nil {
		return cfg.DefaultLimit
	}
	return 0
}

// infoCmd creates the info command.
func infoCmd(c *client.Client) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show database path, row counts, and last modification time",
		Action: func(ctx *cli.Context) error {
			info, err := c.Info()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(info)
		},
	}
}

// getCmd creates the get command.
func getCmd(c *client.Client) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a single value by exact key",
		ArgsUsage: "<key>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "table", Aliases: []string{"t"}, Value: store.TableItem, Usage: "Table to read: ItemTable or cursorDiskKV"},
			&cli.BoolFlag{Name: "raw", Usage: "Print the stored bytes without typed decoding"},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("key argument is required"))
			}
			key := ctx.Args().First()
			table := ctx.String("table")

			if ctx.Bool("raw") {
				data, found, err := c.Raw(table, key)
				if err != nil {
					return outputError(err)
				}
				if !found {
					return outputError(errors.NewNotFound(key))
				}
				fmt.Println(string(data))
				return nil
			}

			if err := store.ValidateTable(table); err != nil {
				return outputError(err)
			}

			var value any
			var found bool
			var err error
			if table == store.TableKV {
				value, found, err = c.Entry(key)
			} else {
				var raw []byte
				raw, found, err = c.Value(key)
				if found {
					value = decode.Value(raw)
				}
			}
			if err != nil {
				return outputError(err)
			}
			if !found {
				return outputError(errors.NewNotFound(key))
			}
			return outputJSON(value)
		},
	}
}

// keysCmd creates the keys command.
func keysCmd(c *client.Client) *cli.Command {
	return &cli.Command{
		Name:      "keys",
		Usage:     "List keys matching a SQL LIKE pattern",
		ArgsUsage: "<pattern>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "table", Aliases: []string{"t"}, Value: store.TableItem, Usage: "Table to search: ItemTable or cursorDiskKV"},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("pattern argument is required"))
			}
			pattern := ctx.Args().First()
			table := ctx.String("table")

			if err := store.ValidateTable(table); err != nil {
				return outputError(err)
			}
			keys, err := c.SearchKeys(table, pattern)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"table":   table,
				"pattern": pattern,
				"keys":    keys,
				"count":   len(keys),
			})
		},
	}
}

// conversationsCmd creates the conversations command.
func conversationsCmd(c *client.Client, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "conversations",
		Usage: "List conversation summaries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bubble", Aliases: []string{"b"}, Usage: "Only conversations in this bubble"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Only conversations generated by this model"},
			&cli.BoolFlag{Name: "agentic", Usage: "Only agentic (or, with =false, non-agentic) conversations"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum rows to fetch (default from config)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Rows to skip"},
		},
		Action: func(ctx *cli.Context) error {
			q := c.Query().Conversations().
				Limit(limitOr(cfg, ctx.Int("limit"))).
				Offset(ctx.Int("offset"))
			if b := ctx.String("bubble"); b != "" {
				q = q.ForBubble(b)
			}
			crit := query.ConversationCriteria{ModelName: ctx.String("model")}
			if ctx.IsSet("agentic") {
				agentic := ctx.Bool("agentic")
				crit.IsAgentic = &agentic
			}

			conversations, err := q.Where(crit).Execute()
			if err != nil {
				return outputError(err)
			}
			items := export.Summarize(conversations.Items())
			return outputJSON(map[string]any{
				"items": items,
				"count": len(items),
			})
		},
	}
}

// checkpointsCmd creates the checkpoints command.
func checkpointsCmd(c *client.Client, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "checkpoints",
		Usage: "List file-state checkpoints",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bubble", Aliases: []string{"b"}, Usage: "Only checkpoints in this bubble"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum rows to fetch (default from config)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Rows to skip"},
		},
		Action: func(ctx *cli.Context) error {
			q := c.Query().Checkpoints().
				Limit(limitOr(cfg, ctx.Int("limit"))).
				Offset(ctx.Int("offset"))
			if b := ctx.String("bubble"); b != "" {
				q = q.ForBubble(b)
			}

			checkpoints, err := q.Execute()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"items": checkpoints,
				"count": len(checkpoints),
			})
		},
	}
}

// composersCmd creates the composers command.
func composersCmd(c *client.Client, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "composers",
		Usage: "List composer sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "composer", Usage: "Exact composer id to fetch"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum rows to fetch (default from config)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Rows to skip"},
		},
		Action: func(ctx *cli.Context) error {
			q := c.Query().Composers().
				Limit(limitOr(cfg, ctx.Int("limit"))).
				Offset(ctx.Int("offset"))
			if id := ctx.String("composer"); id != "" {
				q = q.ForComposer(id)
			}

			composers, err := q.Execute()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"items": composers,
				"count": len(composers),
			})
		},
	}
}

// contextsCmd creates the contexts command.
func contextsCmd(c *client.Client, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "contexts",
		Usage: "List message request context snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bubble", Aliases: []string{"b"}, Usage: "Only contexts in this bubble"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum rows to fetch (default from config)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Rows to skip"},
		},
		Action: func(ctx *cli.Context) error {
			q := c.Query().RequestContexts().
				Limit(limitOr(cfg, ctx.Int("limit"))).
				Offset(ctx.Int("offset"))
			if b := ctx.String("bubble"); b != "" {
				q = q.ForBubble(b)
			}

			contexts, err := q.Execute()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"items": contexts,
				"count": len(contexts),
			})
		},
	}
}

// trackingCmd creates the tracking command.
func trackingCmd(c *client.Client, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "tracking",
		Usage: "List code-tracking entries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Only entries recorded from this source"},
			&cli.StringFlag{Name: "ext", Aliases: []string{"e"}, Usage: "Only entries for files with this extension"},
			&cli.StringFlag{Name: "composer", Usage: "Only entries attributed to this composer"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum entries in the page (default from config)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Entries to skip"},
		},
		Action: func(ctx *cli.Context) error {
			entries, err := c.Query().TrackingEntries().
				Limit(limitOr(cfg, ctx.Int("limit"))).
				Offset(ctx.Int("offset")).
				Where(query.TrackingCriteria{
					Source:        ctx.String("source"),
					FileExtension: ctx.String("ext"),
					ComposerID:    ctx.String("composer"),
				}).
				Execute()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"items": entries.Items(),
				"count": entries.Len(),
			})
		},
	}
}

// sessionsCmd creates the sessions command.
func sessionsCmd(c *client.Client, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "List composer sessions derived from code-tracking entries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ext", Aliases: []string{"e"}, Usage: "Only sessions that touched files with this extension"},
			&cli.IntFlag{Name: "min-files", Usage: "Only sessions that modified at least this many files"},
			&cli.IntFlag{Name: "max-files", Usage: "Only sessions that modified at most this many files"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum sessions in the page (default from config)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Sessions to skip"},
		},
		Action: func(ctx *cli.Context) error {
			crit := query.SessionCriteria{FileExtension: ctx.String("ext")}
			if ctx.IsSet("min-files") {
				minFiles := ctx.Int("min-files")
				crit.MinFiles = &minFiles
			}
			if ctx.IsSet("max-files") {
				maxFiles := ctx.Int("max-files")
				crit.MaxFiles = &maxFiles
			}

			sessions, err := c.Query().ComposerSessions().
				Limit(limitOr(cfg, ctx.Int("limit"))).
				Offset(ctx.Int("offset")).
				Where(crit).
				Execute()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"items": sessions.Items(),
				"count": sessions.Len(),
			})
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(c *client.Client) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Aggregate code-tracking activity",
		Action: func(ctx *cli.Context) error {
			stats, err := c.UsageStats()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(stats)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(c *client.Client, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export one bubble's conversations as a transcript file",
		ArgsUsage: "<bubble-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "Output file path (default: <export-dir>/<bubble-id>.<ext>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "Output format: json|markdown|html"},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("bubble-id argument is required"))
			}
			bubbleID := ctx.Args().First()

			conversations, err := c.Query().Conversations().ForBubble(bubbleID).Execute()
			if err != nil {
				return outputError(err)
			}
			if conversations.Len() == 0 {
				return outputError(errors.NewNotFound(bubbleID))
			}

			title := "Session " + bubbleID
			format := ctx.String("format")

			var data []byte
			var ext string
			switch format {
			case "json":
				data, err = export.JSON(conversations.Items())
				ext = ".json"
			case "markdown", "md":
				data = []byte(export.Markdown(title, conversations.Items()))
				ext = ".md"
			case "html":
				data, err = export.HTML(title, conversations.Items())
				ext = ".html"
			default:
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown format: %s", format)))
			}
			if err != nil {
				return outputError(err)
			}

			out := ctx.String("out")
			if out == "" {
				dir := "."
				if cfg != nil && cfg.ExportDir != "" {
					dir = cfg.ExportDir
				}
				out = filepath.Join(dir, bubbleID+ext)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return outputError(errors.NewInternal(err))
			}

			return outputJSON(map[string]any{
				"path":          out,
				"format":        format,
				"conversations": conversations.Len(),
			})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if dataErr, ok := err.(*errors.DataError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", dataErr.Code, dataErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
