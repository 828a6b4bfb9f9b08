package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/shadow/internal/config"
	"github.com/vango-dev/shadow/pkg/dom"
	"github.com/vango-dev/shadow/pkg/layout"
	"github.com/vango-dev/shadow/pkg/render"
	"github.com/vango-dev/shadow/pkg/script"
)

func replayCmd(load loadFunc) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Apply a batch script and print the resulting commits",
		Long: `Replay decodes a YAML or JSON batch script, applies every batch to a
fresh tree and prints the render operations each batch committed.

Use "-" to read the script from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			s, err := readScript(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			commits, err := replay(cfg, s, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(commits)
			}
			printCommits(cmd.OutOrStdout(), s, commits)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print commits as JSON")

	return cmd
}

func readScript(path string, stdin io.Reader) (*script.Script, error) {
	if path == "-" {
		return script.Decode(stdin)
	}
	return script.Load(path)
}

// replay applies s to a new manager configured from cfg and returns every
// commit. Per-op logs go to logw.
func replay(cfg *config.Config, s *script.Script, logw io.Writer) ([]render.Commit, error) {
	logger := cfg.Log.Logger(logw)
	rec := render.NewRecorder()
	backend := render.NewLogging(rec, logger)

	m := dom.NewManager(cfg.Root.ID, backend,
		dom.WithLayouter(layout.New()),
		dom.WithLogger(logger))
	if cfg.Root.Width > 0 || cfg.Root.Height > 0 {
		m.SetRootSize(cfg.Root.Width, cfg.Root.Height)
	}

	if err := script.Replay(m, s, nil); err != nil {
		return nil, err
	}
	return rec.Commits(), nil
}

func printCommits(w io.Writer, s *script.Script, commits []render.Commit) {
	for i, c := range commits {
		name := ""
		if i < len(s.Batches) && s.Batches[i].Name != "" {
			name = " " + s.Batches[i].Name
		}
		fmt.Fprintf(w, "commit %d%s\n", c.Seq, name)
		if len(c.Ops) == 0 {
			fmt.Fprintln(w, "  (empty)")
		}
		for _, op := range c.Ops {
			ids := make([]string, len(op.Nodes))
			for j, n := range op.Nodes {
				ids[j] = fmt.Sprint(n.ID)
			}
			fmt.Fprintf(w, "  %-13s %s\n", op.Kind, strings.Join(ids, " "))
		}
	}
	fmt.Fprintf(w, "%d batches replayed\n", len(commits))
}
