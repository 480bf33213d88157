// Command jpathq is a small inspection CLI over jpathcache: run a
// query against a JSON file, or pre-warm the array cache for one, and
// print the result as JSON. It has no serve subcommand — the package
// has no network surface and jpathq does not add one.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkendall/jpathcache"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "jpathq",
		Short: "Inspect JSON files with jpathcache's query engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file (JPATHCACHE_* env vars always override)")

	root.AddCommand(newQueryCmd(), newCacheCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadAndApplyConfig() {
	cfg, err := jpathcache.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "jpathq: config:", err)
		return
	}
	jpathcache.ApplyConfig(cfg)
}

func newQueryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "query <file> <path>",
		Short: "Run a path query against a JSON file and print the results",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadAndApplyConfig()
			h, err := jpathcache.GetOrCreate(args[0])
			if err != nil {
				return err
			}
			results := h.Query(args[1], jpathcache.WithLimit(limit))
			return printJSON(cmd, results)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", -1, "maximum number of results, -1 for unlimited")
	return cmd
}

func newCacheCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "cache <file> <array-path>",
		Short: "Materialize an array path into the in-memory cache and print it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadAndApplyConfig()
			h, err := jpathcache.GetOrCreate(args[0])
			if err != nil {
				return err
			}
			cached, ok := h.CacheArray(args[1], key)
			if !ok {
				return fmt.Errorf("jpathq: %s produced nothing cacheable", args[1])
			}
			return printJSON(cmd, cached)
		},
	}
	cmd.Flags().StringVar(&key, "as", "", "cache alias (defaults to the array path itself)")
	return cmd
}

func printJSON(cmd *cobra.Command, values []jpathcache.Value) error {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = jpathcache.ToInterface(v)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
