package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/assistant"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/locale"
	"github.com/aravindadityxa/nayamai/notify"
	"github.com/aravindadityxa/nayamai/settings"
)

// recentOnStart is how many past messages the chat shows when it opens.
const recentOnStart = 10

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message...]",
		Short: "Ask the assistant a question, or start chat mode without arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runREPL(cmd, opts)
			}
			return opts.withApp(cmd, func(a *app.App) error {
				return sendOnce(cmd, a, strings.Join(args, " "))
			})
		},
	}
}

func sendOnce(cmd *cobra.Command, a *app.App, text string) error {
	reply, err := a.Assistant.Send(cmd.Context(), text)
	if err != nil {
		return report(cmd, err, a.Language())
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Message.Content)
	if reply.Degraded {
		slog.Warn("assistant reply degraded", "error", reply.Cause)
		return &reportedError{err: reply.Cause}
	}
	return report(cmd, errors.Join(reply.Warnings...), a.Language())
}

type repl struct {
	cmd    *cobra.Command
	app    *app.App
	p      *prompter
	out    io.Writer
	center *notify.Center
}

func runREPL(cmd *cobra.Command, opts *rootOptions) error {
	s, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.app.Start(); err != nil {
		slog.Warn("failed to watch for external changes", "error", err)
	}

	r := &repl{
		cmd:    cmd,
		app:    s.app,
		p:      newPrompter(cmd),
		out:    cmd.OutOrStdout(),
		center: notify.NewCenter(notify.NewTerminal(cmd.ErrOrStderr())),
	}
	defer r.center.Stop()

	if _, _, err := r.app.Assistant.Greet(); err != nil {
		r.notify(err)
	}
	r.header(opts.displayVersion())
	r.recent(recentOnStart)

	for {
		line, err := r.p.Line("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := r.command(line); quit {
				return nil
			}
			continue
		}
		r.send(line)
	}
}

func (r *repl) palette() palette {
	return paletteFor(r.app.Settings.Get().Theme)
}

func (r *repl) texts() locale.Strings {
	return locale.For(r.app.Language())
}

func (r *repl) notify(err error) {
	r.center.Show(notify.FromError(err, r.app.Language()))
}

func (r *repl) header(version string) {
	p := r.palette()
	fmt.Fprintf(r.out, "%s %s\n", p.title.Render(assistantName), p.dim.Render(version))
	fmt.Fprintln(r.out, p.dim.Render(r.texts().Placeholder+"  (/help for commands)"))
	fmt.Fprintln(r.out)
}

func (r *repl) recent(n int) {
	msgs := r.app.History.Messages()
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	p := r.palette()
	for _, m := range msgs {
		printMessage(r.out, p, m)
	}
}

func (r *repl) send(text string) {
	p := r.palette()
	fmt.Fprintln(r.out, p.dim.Render("..."))

	reply, err := r.app.Assistant.Send(r.cmd.Context(), text)
	if err != nil {
		r.notify(err)
		return
	}
	printMessage(r.out, p, reply.Message)
	if reply.Degraded {
		slog.Warn("assistant reply degraded", "error", reply.Cause)
	}
	if len(reply.Warnings) > 0 {
		r.notify(errors.Join(reply.Warnings...))
	}
}

const replHelp = `Commands:
  /clear               clear the conversation
  /history [day]       list chat days, or show one day (YYYY-MM-DD)
  /export [file]       export the chat history as JSON
  /theme [light|dark]  show, toggle or set the theme
  /lang [code]         show or set the language
  /nearby <lat> <lon>  list hospitals near a position
  /login               log in
  /logout              log out
  /whoami              show the current session
  /quit                leave chat mode`

// command runs a slash command and reports whether chat mode should end.
func (r *repl) command(line string) bool {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	ctx := r.cmd.Context()

	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, replHelp)
	case "/clear":
		cleared, err := r.app.ClearChat(r.p.Confirm)
		if err != nil {
			r.notify(err)
		}
		if cleared {
			r.recent(1)
		}
	case "/history":
		if len(args) > 0 {
			r.notifyErr(showDay(r.out, r.palette(), r.app, args[0]))
			return false
		}
		listDays(r.out, r.palette(), r.app)
	case "/export":
		file := ""
		if len(args) > 0 {
			file = args[0]
		}
		name, err := exportHistory(r.out, r.app, file)
		if err != nil {
			r.notify(err)
			return false
		}
		r.center.Show(notify.Success("Chat history exported to " + name))
	case "/theme":
		var err error
		if len(args) == 0 {
			_, err = r.app.Settings.ToggleTheme()
		} else {
			err = r.app.Settings.SetTheme(settings.Theme(args[0]))
		}
		r.notifyErr(err)
		fmt.Fprintln(r.out, "Theme:", r.app.Settings.Get().Theme)
	case "/lang":
		if len(args) == 0 {
			printLanguages(r.out, r.palette(), r.app.Language())
			return false
		}
		if err := r.app.SetLanguage(locale.Language(args[0])); err != nil {
			r.notify(err)
			return false
		}
		r.recent(1)
	case "/nearby":
		r.nearby(args)
	case "/login":
		sess, err := loginFlow(ctx, r.app, r.p, "", "")
		if err != nil {
			r.notify(err)
			return false
		}
		r.center.Show(notify.Success("Logged in as " + sess.User.Email))
	case "/logout":
		done, err := r.app.Auth.Logout(r.p.Confirm)
		r.notifyErr(err)
		if done {
			r.center.Show(notify.Success("Logged out"))
		}
	case "/whoami":
		printSession(r.out, r.app)
	default:
		r.center.Show(notify.Info("Unknown command " + name + ", try /help"))
	}
	return false
}

func (r *repl) notifyErr(err error) {
	if err != nil {
		r.notify(err)
	}
}

func (r *repl) nearby(args []string) {
	if len(args) != 2 {
		// Without coordinates this surfaces the missing geolocation notice.
		_, err := r.app.Assistant.Nearby(r.cmd.Context())
		r.notifyErr(err)
		return
	}
	lat, latErr := strconv.ParseFloat(args[0], 64)
	lon, lonErr := strconv.ParseFloat(args[1], 64)
	if latErr != nil || lonErr != nil {
		r.center.Show(notify.Warning("Usage: /nearby <lat> <lon>"))
		return
	}
	result, err := r.app.Assistant.NearbyAt(r.cmd.Context(), assistant.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		r.notify(err)
		return
	}
	printHospitals(r.out, r.palette(), r.texts(), result)
}

func printMessages(w io.Writer, p palette, msgs []history.Message) {
	for _, m := range msgs {
		printMessage(w, p, m)
	}
}
