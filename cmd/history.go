package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/locale"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse, export and clear the chat history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				listDays(cmd.OutOrStdout(), paletteFor(a.Settings.Get().Theme), a)
				return nil
			})
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all local chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				cleared, err := a.ClearHistory(confirmer(newPrompter(cmd), yes))
				if err := report(cmd, err, a.Language()); err != nil {
					return err
				}
				if cleared {
					success(cmd, "Chat history cleared")
				}
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	var remoteYes bool
	remoteClearCmd := &cobra.Command{
		Use:   "remote-clear",
		Short: "Delete the chat history stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				if !confirmer(newPrompter(cmd), remoteYes)(app.HistoryClearPrompt) {
					return nil
				}
				if err := a.ClearRemoteHistory(cmd.Context()); err != nil {
					return report(cmd, err, a.Language())
				}
				success(cmd, "Server chat history cleared")
				return nil
			})
		},
	}
	remoteClearCmd.Flags().BoolVarP(&remoteYes, "yes", "y", false, "do not ask for confirmation")

	historyCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List chat days, most recent first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(cmd, func(a *app.App) error {
					listDays(cmd.OutOrStdout(), paletteFor(a.Settings.Get().Theme), a)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <day>",
			Short: "Show the messages of one day (YYYY-MM-DD)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(cmd, func(a *app.App) error {
					err := showDay(cmd.OutOrStdout(), paletteFor(a.Settings.Get().Theme), a, args[0])
					return report(cmd, err, a.Language())
				})
			},
		},
		&cobra.Command{
			Use:   "export [file]",
			Short: "Export the chat history as JSON (\"-\" for stdout)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				file := ""
				if len(args) == 1 {
					file = args[0]
				}
				return opts.withApp(cmd, func(a *app.App) error {
					name, err := exportHistory(cmd.OutOrStdout(), a, file)
					if err != nil {
						return report(cmd, err, a.Language())
					}
					if file != "-" {
						success(cmd, "Chat history exported to "+name)
					}
					return nil
				})
			},
		},
		clearCmd,
		&cobra.Command{
			Use:   "remote",
			Short: "Show the chat history stored on the server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(cmd, func(a *app.App) error {
					entries, err := a.RemoteHistory(cmd.Context())
					if err != nil {
						return report(cmd, err, a.Language())
					}
					printRemote(cmd.OutOrStdout(), paletteFor(a.Settings.Get().Theme), entries)
					return nil
				})
			},
		},
		remoteClearCmd,
	)
	return historyCmd
}

func listDays(w io.Writer, p palette, a *app.App) {
	if a.History.Len() == 0 {
		fmt.Fprintln(w, locale.For(a.Language()).NoChatHistory)
		return
	}
	now := time.Now().In(a.History.Location())
	for g := range a.History.GroupByDay() {
		fmt.Fprintf(w, "%s  %s  %s\n",
			p.title.Render(history.DayLabel(g.Date, now)),
			p.dim.Render(fmt.Sprintf("%s, %d messages", g.Key, len(g.Messages))),
			history.Preview(g.Messages))
	}
}

func showDay(w io.Writer, p palette, a *app.App, day string) error {
	group, ok := a.History.Day(day)
	if !ok {
		return apperr.Invalid("day", "No chat history for "+day)
	}
	printMessages(w, p, group.Messages)
	return nil
}

// exportHistory writes the export document to file, or to w when file is
// "-". An empty file name uses the dated default. It returns where the
// export went.
func exportHistory(w io.Writer, a *app.App, file string) (string, error) {
	doc, err := a.Export()
	if err != nil {
		return "", err
	}
	if file == "-" {
		return "stdout", history.WriteExport(w, doc)
	}
	if file == "" {
		file = history.ExportFilename(doc.ExportedAt)
	}

	f, err := os.Create(file)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := history.WriteExport(f, doc); err != nil {
		f.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	return file, f.Close()
}

func printRemote(w io.Writer, p palette, entries []api.RemoteEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No chat history on the server")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s\n", p.user.Render("You"), p.dim.Render(e.Timestamp))
		fmt.Fprintln(w, e.Message)
		fmt.Fprintf(w, "%s %s\n", p.assistant.Render(assistantName), p.dim.Render(e.Language))
		fmt.Fprintln(w, e.Response)
		fmt.Fprintln(w)
	}
}
