package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"persistence"
)

func newRootCmd(stdout io.Writer) *cobra.Command {
	var chain bool

	cmd := &cobra.Command{
		Use:           "persistence-check <number>...",
		Short:         "Evaluate the multiplicative persistence of the given numbers",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				n, err := persistence.Parse(arg)
				if err != nil {
					return err
				}
				if err := describe(stdout, n, chain); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&chain, "chain", false, "print every intermediate product")
	cmd.SetOut(stdout)
	return cmd
}

// describe prints one line per number:
//
//	<n> steps=<p> admissible=<bool> [prefix=<class> next=<candidate>]
func describe(w io.Writer, n *persistence.Number, chain bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s steps=%d admissible=%t", n, persistence.Persistence(n), persistence.IsAdmissible(n))

	if persistence.IsCandidate(n) {
		p, err := persistence.Classify(n)
		if err != nil {
			return fmt.Errorf("classify %s: %w", n, err)
		}
		next := n.Copy()
		persistence.Next(next)
		fmt.Fprintf(&b, " prefix=%s next=%s", p, next)
	}
	fmt.Fprintln(w, b.String())

	if chain {
		for _, v := range persistence.PersistenceChain(n)[1:] {
			fmt.Fprintf(w, "  -> %s\n", v)
		}
	}
	return nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
