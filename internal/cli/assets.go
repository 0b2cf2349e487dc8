package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/notify"
	"github.com/splatview/splatview/internal/state"
)

const (
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

// newAssetsCmd creates the 'assets' command.
func newAssetsCmd() *cobra.Command {
	var (
		search   string
		selectID string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List and search the model catalog",
		Long: `List the models available in the viewer sidebar.

--search filters by a case-insensitive substring of the model name and
highlights the matching part. --select marks one model as active.

Examples:
  splatview assets
  splatview assets --search roi
  splatview assets --select 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			log := GetLogger().Named("assets")

			var sink notify.Sink = notify.NewLogSink(log)
			if GetConfig().Notifications.Enabled {
				sink = notify.MultiSink{sink, notify.SinkFunc(func(n notify.Notification) {
					fmt.Fprintf(out, "%s: %s\n", n.Title, n.Description)
				})}
			}

			list := state.NewAssetListState(models.DefaultAssets(), nil, sink)
			list.SetQuery(search)

			if selectID != "" {
				if _, ok := list.Select(selectID); !ok {
					return fmt.Errorf("no model with id %q", selectID)
				}
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list.Filtered())
			}
			return printAssets(out, list, isTerminalWriter(out))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter models by name")
	cmd.Flags().StringVar(&selectID, "select", "", "Select the model with this id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

// printAssets writes one line per filtered asset with the query highlighted.
// The selected asset is marked with '*'.
func printAssets(out io.Writer, list *state.AssetListState, ansi bool) error {
	items := list.Filtered()
	if len(items) == 0 {
		_, err := fmt.Fprintf(out, "No models match %q\n", list.GetQuery())
		return err
	}

	selected, _ := list.Selected()
	for _, a := range items {
		mark := " "
		if a.ID == selected.ID {
			mark = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %-3s %s\n", mark, a.ID, renderSegments(list.HighlightSegments(a.Name), ansi)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "\n%d of %d models\n", len(items), list.Count())
	return err
}

// renderSegments joins highlight segments, marking matches in bold on a
// terminal and in brackets otherwise.
func renderSegments(segments []state.Segment, ansi bool) string {
	var b strings.Builder
	for _, seg := range segments {
		switch {
		case !seg.Match:
			b.WriteString(seg.Text)
		case ansi:
			b.WriteString(ansiBold + seg.Text + ansiReset)
		default:
			b.WriteString("[" + seg.Text + "]")
		}
	}
	return b.String()
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
