package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
)

// NewResolveCommand prints the reaction tree of a compound
func NewResolveCommand() *cobra.Command {
	var (
		amount    int
		useColors bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <compound>",
		Short: "Show the reaction tree of a compound",
		Long: `Resolve a compound down to raw minerals.

Prints the dependency tree with the tier of every intermediate, the
post-order synthesis chain and the raw material bill for --amount units.

Examples:
  colony resolve OH
  colony resolve XKHO2 --amount 3000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := compound.NewDefaultResolver()
			product := compound.Compound(args[0])

			tree, err := resolver.Tree(product)
			if err != nil {
				return err
			}
			chain, err := resolver.Chain(product)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			formatter := NewTreeFormatter(resolver, useColors)
			fmt.Fprint(out, formatter.FormatTree(tree))
			fmt.Fprintln(out, formatter.FormatTreeSummary(tree))

			if len(chain) > 0 {
				fmt.Fprintln(out, "\nSynthesis order:")
				for i, c := range chain {
					tier, _ := resolver.Tier(c)
					fmt.Fprintf(out, "  %d. %s (T%d)\n", i+1, c, tier)
				}
			}

			if amount > 0 {
				req, err := resolver.RawRequirements(product, amount)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprint(out, formatter.FormatRequirements(amount, product, req))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 1000, "Units to compute the raw material bill for (0 to skip)")
	cmd.Flags().BoolVar(&useColors, "color", false, "Colorize tiers")

	return cmd
}
