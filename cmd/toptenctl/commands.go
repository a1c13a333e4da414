package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/toptenapp/topten-server/internal/config"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/service"
	"github.com/toptenapp/topten-server/internal/store"
)

type rootOptions struct {
	dataPath string
	seedPath string
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "toptenctl",
		Short: "Inspect a TopTen data directory",
		Long: `toptenctl reads the TopTen database without a running server.

The database is opened read-only except by "cache purge", which needs
the server stopped.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.dataPath, "data-path", "", "Data directory (default: $DATA_PATH or ~/TopTen/data)")
	root.PersistentFlags().StringVar(&opts.seedPath, "seed-path", "", "Seed override file, if the server uses one")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a table")

	root.AddCommand(
		newListsCmd(opts),
		newRankingsCmd(opts),
		newScoresCmd(opts),
		newKeysCmd(opts),
		newCacheCmd(opts),
	)
	return root
}

func newListsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show the saved lists in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := opts.openStore(true)
			if err != nil {
				return err
			}
			defer st.Close()

			lists, err := st.GetLists(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), lists)
			}

			tw := newTable(cmd.OutOrStdout(), "ID", "CATEGORY", "ITEMS", "TITLE")
			for _, l := range lists {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.ID, l.Category, len(l.Items), l.Title)
			}
			return tw.Flush()
		},
	}
}

func newRankingsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rankings",
		Short: "Show the user's progress on each community list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := opts.communityService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			type row struct {
				ID     string `json:"id"`
				State  string `json:"state"`
				Filled int    `json:"filled"`
				Title  string `json:"title"`
			}
			var rows []row
			for _, l := range svc.Lists() {
				state, err := svc.State(l.ID)
				if err != nil {
					return err
				}
				r, err := svc.Ranking(l.ID)
				if err != nil {
					return err
				}
				rows = append(rows, row{ID: l.ID, State: string(state), Filled: r.FilledCount(), Title: l.Title})
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "STATE", "FILLED", "TITLE")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.State, r.Filled, r.Title)
			}
			return tw.Flush()
		},
	}
}

func newScoresCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scores <community-list-id>",
		Short: "Show live scores for a community list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.communityService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ranked, err := svc.RankedItems(args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), ranked)
			}

			tw := newTable(cmd.OutOrStdout(), "RANK", "SCORE", "ID", "TITLE")
			for _, it := range ranked {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", it.Rank, it.Score, it.ID, it.Title)
			}
			return tw.Flush()
		},
	}
}

func newKeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys [prefix]",
		Short: "List stored keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore(true)
			if err != nil {
				return err
			}
			defer st.Close()

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			keys, err := st.Keys(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), keys)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(keys, "\n"))
			return err
		},
	}
}

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Manage the suggestion cache",
	}
	cache.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop every cached suggestion result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := opts.openStore(false)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.PurgeSuggestionCache(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged %d cached results\n", n)
			return err
		},
	})
	return cache
}

// config resolves paths the same way the server does.
func (o *rootOptions) config() (*config.Config, error) {
	var args []string
	if o.dataPath != "" {
		args = append(args, "-data-path", o.dataPath)
	}
	if o.seedPath != "" {
		args = append(args, "-seed-path", o.seedPath)
	}
	return config.LoadConfig(args)
}

func (o *rootOptions) openStore(readOnly bool) (*store.Store, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	if readOnly {
		return store.OpenReadOnly(dbPath, logger.Discard())
	}
	return store.New(dbPath, logger.Discard())
}

// communityService loads rankings against the seed catalog. Nothing is written back.
func (o *rootOptions) communityService(ctx context.Context) (*service.CommunityService, func(), error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}

	var sd *seed.Seed
	if cfg.Data.SeedPath != "" {
		sd, err = seed.LoadFile(cfg.Data.SeedPath)
	} else {
		sd, err = seed.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	st, err := store.OpenReadOnly(filepath.Join(cfg.Data.BasePath, "db"), logger.Discard())
	if err != nil {
		return nil, nil, err
	}

	svc := service.NewCommunityService(st, nil, sd, logger.Discard())
	if err := svc.Load(ctx); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return svc, func() { _ = st.Close() }, nil
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
