package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	spritesort "github.com/anatolykoptev/go-spritesort"
)

func newRulesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective classification table, highest priority first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			rules, err := toRules(cfg.Rules)
			if err != nil {
				return err
			}
			if rules == nil {
				rules = spritesort.DefaultRules
			}

			w := cmd.OutOrStdout()
			for i, r := range rules {
				fmt.Fprintf(w, "%d. %s: %s\n", i+1, r.Category, strings.Join(r.Attributes, ", "))
			}
			fmt.Fprintf(w, "fallback: %s\n", spritesort.Unclassified)
			return nil
		},
	}
}
