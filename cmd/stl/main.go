package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stashline/internal/app"
	"stashline/internal/config"
	"stashline/internal/db"
	"stashline/internal/domain"
	"stashline/internal/engine"
	"stashline/internal/repo"
	"stashline/internal/resolve"
)

var rootCmd = &cobra.Command{
	Use:   "stl",
	Short: "Stashline CLI",
	Long: `Stashline tracks quest, hideout and barter progress and tells you what to keep.
Core concepts:
- Catalog: the quest, hideout and item data (catalog.json, optionally .zst) the tracker reads but never edits.
- Snapshot: your progress, stored in .stashline/stashline.db; every command loads it, changes it and writes it back in one transaction.
- Tracked/untracked: untracked quests and modules drop out of needs and allocation.
- Allocation: 'stl add 3 bolts' fills found-in-raid quest slots (with --fir), then collect objectives, then hideout modules, then barters.
- Barters: your own trades; they always count towards needs.
- Event log: every change, view with 'stl log tail'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := db.EnsureWorkspace(viper.GetString("workspace")); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(err))
	}
}

func initConfig() {
	viper.SetEnvPrefix("STASHLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("catalog", "", "catalog document (overrides catalog.path)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "skip confirmation prompts")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("yes", rootCmd.PersistentFlags().Lookup("yes"))
}

func registerCommands() {
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(completeCmd())
	rootCmd.AddCommand(incompleteCmd())
	rootCmd.AddCommand(trackCmd(true))
	rootCmd.AddCommand(trackCmd(false))
	rootCmd.AddCommand(allocateCmd(false))
	rootCmd.AddCommand(allocateCmd(true))
	rootCmd.AddCommand(barterCmd())
	rootCmd.AddCommand(needsCmd())
	rootCmd.AddCommand(requiresCmd())
	rootCmd.AddCommand(findCmd())
	rootCmd.AddCommand(levelCmd())
	rootCmd.AddCommand(questsCmd())
	rootCmd.AddCommand(hideoutCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(logCmd())
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show workspace status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				st, err := e.Status(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(st)
				}
				catalogVersion := st.CatalogVersion
				if e.Catalog.IsEmpty() {
					catalogVersion = "none loaded"
				}
				fmt.Println(titleStyle.Render("Stashline"))
				fmt.Printf("Catalog: %s\n", catalogVersion)
				fmt.Printf("Level:   %d\n", st.Level)
				fmt.Printf("Quests:  %d/%d complete\n", st.QuestsDone, st.Quests)
				fmt.Printf("Hideout: %d/%d complete\n", st.ModulesDone, st.Modules)
				fmt.Printf("Barters: %d\n", st.Barters)
				fmt.Printf("Updated: %s (%d events)\n", st.UpdatedAt, st.Events)
				return nil
			})
		},
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect workspace config",
		Long:  "Config lives in stashline.yml at the workspace root: catalog path, logging and search behaviour. A missing file means defaults.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	cfg.AddCommand(configInitCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(c *app.Context) error {
				return printJSONOrTable(map[string]any{
					"file":         config.Path(c.Workspace),
					"found":        c.ConfigFound,
					"catalog_path": c.CatalogPath,
					"config":       c.Config,
				})
			})
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate stashline.yml or another config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if len(args) == 1 {
				path = args[0]
			}
			_, err := config.FromFile(path)
			if len(args) == 0 && errors.Is(err, fs.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printOK(map[string]any{"message": "config OK"})
			}
			fmt.Println("config OK")
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default stashline.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			return printMessage(fmt.Sprintf("wrote %s", path), map[string]any{"path": path})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func resetCmd() *cobra.Command {
	var wipe bool
	cmd := &cobra.Command{
		Use:     "reset [quests|hideout|barters|all]",
		Aliases: []string{"refresh"},
		Short:   "Rebuild progress from the catalog",
		Long: `Re-materializes catalog templates into your snapshot. Counters, status and
tracking carry forward where the quest or module still exists. With --wipe,
progress in scope is discarded instead: barters are deleted and a full wipe
also resets your level.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := domain.ParseScope(firstArg(args))
			if err != nil {
				return err
			}
			if wipe {
				ok, err := confirm(fmt.Sprintf("Discard all %s progress?", scope))
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("aborted")
				}
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rebuild := e.Refresh
				if wipe {
					rebuild = e.Reset
				}
				rep, err := rebuild(ctx, scope)
				if err != nil {
					return err
				}
				msg := fmt.Sprintf("%d quests, %d modules, %d barters", rep.Quests, rep.Modules, rep.Barters)
				if wipe {
					msg = "wiped " + string(scope) + ": " + msg
				} else if rep.Dropped > 0 {
					msg += fmt.Sprintf(" (%d collected units no longer needed)", rep.Dropped)
				}
				return printMessage(msg, rep)
			})
		},
	}
	cmd.Flags().BoolVar(&wipe, "wipe", false, "discard progress instead of carrying it forward")
	return cmd
}

func completeCmd() *cobra.Command {
	var recursive bool
	var pick int
	cmd := &cobra.Command{
		Use:   "complete <quest|module> <name...>",
		Short: "Mark a quest or module complete",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := refFromArgs(args, pick)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var res engine.StatusResult
				if recursive {
					res, err = e.CompleteRecursive(ctx, ref)
				} else {
					res, err = e.Complete(ctx, ref)
				}
				if err != nil {
					return err
				}
				return printStatusResult(res, "complete")
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "also complete every prerequisite")
	cmd.Flags().IntVar(&pick, "pick", 0, "choose among ambiguous matches (1-based)")
	return cmd
}

func incompleteCmd() *cobra.Command {
	var pick int
	cmd := &cobra.Command{
		Use:   "incomplete <quest|module> <name...>",
		Short: "Reopen a quest or module",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := refFromArgs(args, pick)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.Incomplete(ctx, ref)
				if err != nil {
					return err
				}
				return printStatusResult(res, "incomplete")
			})
		},
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "choose among ambiguous matches (1-based)")
	return cmd
}

func trackCmd(tracked bool) *cobra.Command {
	use, short := "track", "Include a quest or module in needs"
	if !tracked {
		use, short = "untrack", "Exclude a quest or module from needs"
	}
	var pick int
	cmd := &cobra.Command{
		Use:   use + " <quest|module> <name...>",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := refFromArgs(args, pick)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				op := e.Untrack
				if tracked {
					op = e.Track
				}
				res, err := op(ctx, ref)
				if err != nil {
					return err
				}
				return printStatusResult(res, use+"ed")
			})
		},
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "choose among ambiguous matches (1-based)")
	return cmd
}

func allocateCmd(retract bool) *cobra.Command {
	use, short := "add", "Record collected items"
	if retract {
		use, short = "remove", "Take back previously recorded items"
	}
	var fir bool
	var pick int
	cmd := &cobra.Command{
		Use:   use + " <quantity> <item...>",
		Short: short,
		Long:  "Quantities accept 3, x3 or 3x. Found-in-raid units (--fir) go to find objectives first.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.AllocateOptions{
				Item:        engine.Ref{Kind: domain.KindItem, Query: strings.Join(args[1:], " "), Pick: pick},
				Quantity:    args[0],
				FoundInRaid: fir,
				Retract:     retract,
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.Allocate(ctx, opts)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(res)
				}
				verb := "added"
				if retract {
					verb = "removed"
				}
				fmt.Printf("%s %d %s\n", verb, abs(res.Applied), res.Item.Name)
				for _, t := range res.Touched {
					fmt.Printf("  %s %-28s %+d\n", kindStyle.Render(string(t.Kind)), t.Name, t.Delta)
				}
				if res.Remainder != 0 {
					fmt.Println(mutedStyle.Render(fmt.Sprintf("%d not needed", abs(res.Remainder))))
				}
				if !retract && res.Open > 0 {
					fmt.Println(mutedStyle.Render(fmt.Sprintf("%d still needed", res.Open)))
				}
				return nil
			})
		},
	}
	if !retract {
		cmd.Flags().BoolVar(&fir, "fir", false, "items are found in raid")
	} else {
		cmd.Flags().BoolVar(&fir, "fir", false, "also take back from find objectives")
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "choose among ambiguous item matches (1-based)")
	return cmd
}

func barterCmd() *cobra.Command {
	b := &cobra.Command{
		Use:   "barter",
		Short: "Manage user-defined barters",
		Long:  "Barters are trades you plan to make. Items given count towards needs; items received are informational.",
	}
	b.AddCommand(barterAddCmd())
	b.AddCommand(barterRemoveCmd())
	b.AddCommand(barterResetCmd())
	b.AddCommand(barterListCmd())
	return b
}

func barterAddCmd() *cobra.Command {
	var give, receive, picks []string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Define a barter",
		Long: `Item tokens are "<qty> <item>" or "<item>=<qty>", e.g. --give "2 Bolts" --give "Salewa=1" --receive GPU.
When an item name is ambiguous, choose a match with --pick-item "<item>=<n>".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pick, err := parseItemPicks(picks)
			if err != nil {
				return err
			}
			def := engine.BarterDefinition{Name: strings.Join(args, " "), Give: give, Receive: receive, Pick: pick}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				b, err := e.DefineBarter(ctx, def)
				if err != nil {
					return err
				}
				return printMessage(fmt.Sprintf("defined barter %s (%d to give, %d to receive)", b.Name, len(b.Require), len(b.Receive)), b)
			})
		},
	}
	cmd.Flags().StringArrayVar(&give, "give", nil, "item token to give (repeatable)")
	cmd.Flags().StringArrayVar(&receive, "receive", nil, "item token to receive (repeatable)")
	cmd.Flags().StringArrayVar(&picks, "pick-item", nil, "choose among ambiguous item matches, as <item>=<n> (repeatable)")
	return cmd
}

// parseItemPicks reads "<item>=<n>" flags; the last '=' separates the index.
func parseItemPicks(values []string) (map[string]int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(values))
	for _, v := range values {
		i := strings.LastIndex(v, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid --pick-item %q: want <item>=<n>", v)
		}
		n, err := strconv.Atoi(strings.TrimSpace(v[i+1:]))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid --pick-item %q: index must be a positive number", v)
		}
		out[strings.TrimSpace(v[:i])] = n
	}
	return out, nil
}

func barterRemoveCmd() *cobra.Command {
	var pick int
	cmd := &cobra.Command{
		Use:   "remove <name...>",
		Short: "Delete a barter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				c, err := e.RemoveBarter(ctx, engine.Ref{Query: strings.Join(args, " "), Pick: pick})
				if err != nil {
					return err
				}
				return printMessage("removed barter "+c.Name, c)
			})
		},
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "choose among ambiguous matches (1-based)")
	return cmd
}

func barterResetCmd() *cobra.Command {
	var pick int
	cmd := &cobra.Command{
		Use:   "reset <name...>",
		Short: "Zero the collected counters of a barter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.ResetBarterProgress(ctx, engine.Ref{Query: strings.Join(args, " "), Pick: pick})
				if err != nil {
					return err
				}
				return printMessage(fmt.Sprintf("reset %s (%d units released)", res.Name, res.Released), res)
			})
		},
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "choose among ambiguous matches (1-based)")
	return cmd
}

func barterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List barters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rows, err := e.ListBarters(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(rows)
				}
				renderBarters(rows)
				return nil
			})
		},
	}
}

func needsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "needs [quests|hideout|barters|all]",
		Short: "Show outstanding item quantities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := domain.ParseScope(firstArg(args))
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rows, err := e.Needs(ctx, scope)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(rows)
				}
				renderNeeds(rows)
				return nil
			})
		},
	}
}

func requiresCmd() *cobra.Command {
	var pick int
	cmd := &cobra.Command{
		Use:   "requires <item...>",
		Short: "Show what still needs an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.Requiring(ctx, engine.Ref{Query: strings.Join(args, " "), Pick: pick})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(res)
				}
				renderRequirers(res)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "choose among ambiguous matches (1-based)")
	return cmd
}

func findCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "find <quest|module|barter|item> <query...>",
		Short: "Search entities by name",
		Long:  "Modes: exact (default), prefix, contains. Contains scans everything and asks first unless --yes or search.confirm_contains is off.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}
			m, err := resolve.ParseMode(mode)
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if m == resolve.ContainsFuzzy && e.Config.Search.ConfirmContains {
					ok, err := confirm(fmt.Sprintf("Substring search scans every %s. Continue?", kind))
					if err != nil {
						return err
					}
					if !ok {
						return errors.New("aborted")
					}
				}
				match, err := e.Resolve(ctx, kind, query, m)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(match)
				}
				renderCandidates(match.Candidates)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "exact", "match mode: exact, prefix, contains")
	return cmd
}

func levelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level [n|+n|-n]",
		Short: "Show or set your level",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if len(args) == 0 {
					snap, err := e.LoadSnapshot(ctx)
					if err != nil {
						return err
					}
					return printMessage(fmt.Sprintf("level %d", snap.Level), map[string]int{"level": snap.Level})
				}
				res, err := e.SetLevel(ctx, args[0])
				if err != nil {
					return err
				}
				return printMessage(fmt.Sprintf("level %d -> %d", res.Previous, res.Level), res)
			})
		},
	}
}

func questsCmd() *cobra.Command {
	q := &cobra.Command{Use: "quests", Short: "Quest progress"}
	var f engine.QuestFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rows, err := e.ListQuests(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(rows)
				}
				renderQuests(rows)
				return nil
			})
		},
	}
	list.Flags().BoolVar(&f.All, "all", false, "include complete and untracked quests")
	list.Flags().BoolVar(&f.Available, "available", false, "only quests you can start now")
	list.Flags().BoolVar(&f.Kappa, "kappa", false, "only quests required for Kappa")
	list.Flags().StringVar(&f.Trader, "trader", "", "quest giver (id or name)")
	list.Flags().StringVar(&f.Map, "map", "", "objective location (id or name)")
	q.AddCommand(list)
	return q
}

func hideoutCmd() *cobra.Command {
	h := &cobra.Command{Use: "hideout", Short: "Hideout progress"}
	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List hideout modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rows, err := e.ListHideout(ctx, all)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(rows)
				}
				renderModules(rows)
				return nil
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include complete and untracked modules")
	h.AddCommand(list)
	return h
}

func snapshotCmd() *cobra.Command {
	s := &cobra.Command{
		Use:   "snapshot",
		Short: "Move the progress snapshot in and out",
		Long:  "Files ending in .zst are zstd-compressed.",
	}
	s.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write the snapshot document to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := e.Export(ctx, args[0]); err != nil {
					return err
				}
				return printMessage("exported to "+args[0], map[string]string{"path": args[0]})
			})
		},
	})
	s.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace the snapshot with a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm("Replace the current snapshot?")
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("aborted")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				snap, err := e.Import(ctx, args[0])
				if err != nil {
					return err
				}
				return printMessage(fmt.Sprintf("imported %d quests, %d modules, %d barters", len(snap.Quests), len(snap.Hideout), len(snap.Barters)), snap)
			})
		},
	})
	return s
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "Every change to your snapshot: allocations, completions, barters, resets and imports.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var f repo.EventFilters
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				evts, err := e.RecentEvents(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printOK(evts)
				}
				renderEvents(evts)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&f.Limit, "n", 20, "number of events")
	cmd.Flags().StringVar(&f.Type, "type", "", "event type filter")
	cmd.Flags().StringVar(&f.EntityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&f.EntityID, "entity-id", "", "entity id")
	cmd.Flags().Int64Var(&f.Cursor, "before", 0, "only events older than this id")
	return cmd
}

// --- helpers ---

func withApp(fn func(*app.Context) error) error {
	c, err := app.Open(app.Options{
		Workspace:   viper.GetString("workspace"),
		CatalogPath: viper.GetString("catalog"),
		LogLevel:    viper.GetString("log-level"),
	})
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return withApp(func(c *app.Context) error {
		return fn(ctx, c.Engine)
	})
}

func refFromArgs(args []string, pick int) (engine.Ref, error) {
	kind, err := domain.ParseKind(args[0])
	if err != nil {
		return engine.Ref{}, err
	}
	return engine.Ref{Kind: kind, Query: strings.Join(args[1:], " "), Pick: pick}, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// confirm asks on stdin unless --yes is set. JSON mode never prompts.
func confirm(question string) (bool, error) {
	if viper.GetBool("yes") {
		return true, nil
	}
	if viper.GetBool("json") {
		return false, errors.New("confirmation required; pass --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
