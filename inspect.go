package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/rfielding/zfsearch/verifier"
	"github.com/rfielding/zfsearch/wff"
)

func parseIndex(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("not a non-negative integer: %q", s)
	}
	return v, nil
}

func (a *app) checkCmd() *cobra.Command {
	var claim string
	cmd := &cobra.Command{
		Use:   "check <index>",
		Short: "Verify one witness against ¬(v0 = v0) or another claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			claimed := wff.Target()
			if claim != "" {
				if claimed, err = parseIndex(claim); err != nil {
					return err
				}
			}
			m := verifier.New()
			ok := m.Verify(claimed, w)
			out := cmd.OutOrStdout()
			st := newStyles(out)
			fmt.Fprintf(out, "%s %s\n", st.title.Render("claim:"), wff.Format(claimed))
			fmt.Fprintf(out, "%s %s (%d steps)\n", st.title.Render("verdict:"), st.verdict(ok), m.Steps())
			if err := m.Err(); err != nil {
				fmt.Fprintf(out, "%s %v\n", st.title.Render("reason:"), err)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, wff.ParseWitness(w))
			return nil
		},
	}
	cmd.Flags().StringVar(&claim, "claim", "", "encoded formula to check instead of ¬(v0 = v0)")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var (
		dot bool
		out string
	)
	cmd := &cobra.Command{
		Use:   "decode <index>",
		Short: "Decode a witness index into its proof tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			p := wff.ParseWitness(w)
			if out != "" {
				if err := SaveGraphviz(p, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
				return nil
			}
			if dot {
				fmt.Fprint(cmd.OutOrStdout(), ProofGraphviz(p))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dot, "dot", false, "print Graphviz DOT instead of text")
	cmd.Flags().StringVar(&out, "out", "", "write Graphviz DOT to this file")
	return cmd
}

var errSampleRejected = errors.New("a sample proof was rejected")

func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Verify a few hand-built proofs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	}
}

func runDemo(w io.Writer) error {
	st := newStyles(w)
	m := verifier.New()
	failed := false
	for _, s := range samples() {
		ok := m.Verify(s.Claim, s.Witness)
		fmt.Fprintf(w, "%s %s\n", st.title.Render(s.Name+":"), wff.Format(s.Claim))
		fmt.Fprintf(w, "  %s %s\n", st.verdict(ok), st.dim.Render(fmt.Sprintf("%d steps", m.Steps())))
		if !ok {
			failed = true
			fmt.Fprintf(w, "  %v\n", m.Err())
		}
	}
	if failed {
		return errSampleRejected
	}
	return nil
}
