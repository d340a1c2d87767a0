package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/locale"
	"github.com/aravindadityxa/nayamai/settings"
)

func newThemeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(settings.ThemeLight), string(settings.ThemeDark), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				var err error
				switch {
				case len(args) == 0:
				case args[0] == "toggle":
					_, err = a.Settings.ToggleTheme()
				default:
					err = a.Settings.SetTheme(settings.Theme(args[0]))
				}
				if err := report(cmd, err, a.Language()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Theme:", a.Settings.Get().Theme)
				return nil
			})
		},
	}
}

func newLanguageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "language [code]",
		Aliases: []string{"lang"},
		Short:   "Show or change the chat language",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				p := paletteFor(a.Settings.Get().Theme)
				if len(args) == 0 {
					printLanguages(cmd.OutOrStdout(), p, a.Language())
					return nil
				}
				if err := report(cmd, a.SetLanguage(locale.Language(args[0])), a.Language()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Language:", a.Language().Name())
				return nil
			})
		},
	}
}

// printLanguages lists the selectable languages, marking current.
func printLanguages(w io.Writer, p palette, current locale.Language) {
	options := append([]locale.Language{locale.Auto}, locale.All...)
	for _, l := range options {
		marker := "  "
		if l == current {
			marker = p.assistant.Render("*") + " "
		}
		fmt.Fprintf(w, "%s%-5s %s\n", marker, l, l.Name())
	}
}
