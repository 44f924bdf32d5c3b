package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/scopecrawl/internal/policy"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [url...]",
		Short: "Check whether URLs may enter the crawl frontier",
		Long: `Check evaluates each URL against the admissibility policy and prints
one line per URL: ADMIT <url>, or REJECT <rule> <url> naming the first rule
that failed.

URLs are read from the arguments, or one per line from standard input when
no argument is given. Blank lines are skipped.

Examples:
  scopecrawl check http://www.ics.uci.edu/about
  scopecrawl check --rejected-only < frontier.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	cmd.Flags().Bool("rejected-only", false, "Print rejected URLs only")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	newLogger(cmd, cfg)

	p, err := newPolicy(cfg)
	if err != nil {
		return err
	}

	rejectedOnly, err := cmd.Flags().GetBool("rejected-only")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		for _, u := range args {
			writeVerdict(out, u, p.Check(u), rejectedOnly)
		}
		return nil
	}
	return checkLines(cmd.InOrStdin(), out, p, rejectedOnly)
}

// checkLines checks every non-blank line of r.
func checkLines(r io.Reader, w io.Writer, p *policy.Policy, rejectedOnly bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		u := strings.TrimSpace(scanner.Text())
		if u == "" {
			continue
		}
		writeVerdict(w, u, p.Check(u), rejectedOnly)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read URLs: %w", err)
	}
	return nil
}

func writeVerdict(w io.Writer, u string, v policy.Verdict, rejectedOnly bool) {
	if v.Admitted {
		if !rejectedOnly {
			fmt.Fprintf(w, "ADMIT %s\n", u)
		}
		return
	}
	fmt.Fprintf(w, "REJECT %s %s\n", v.Rule, u)
}
