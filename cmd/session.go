package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/auth"
	"github.com/aravindadityxa/nayamai/locale"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, lang string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your NAYAM AI account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				sess, err := loginFlow(cmd.Context(), a, newPrompter(cmd), email, locale.Language(lang))
				if err != nil && sess.User == nil {
					return report(cmd, err, a.Language())
				}
				success(cmd, "Logged in as "+sess.User.Email)
				return report(cmd, err, a.Language())
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "switch to this language after login")
	return cmd
}

// loginFlow prompts for what is missing and logs in. The returned session
// is set whenever the login itself succeeded, even if err carries a
// persistence warning.
func loginFlow(ctx context.Context, a *app.App, p *prompter, email string, lang locale.Language) (auth.Session, error) {
	email, err := orPrompt(p, email, "Email: ")
	if err != nil {
		return auth.Session{}, err
	}
	password, err := p.Password("Password: ")
	if err != nil {
		return auth.Session{}, err
	}
	return a.Login(ctx, auth.Credentials{
		Email:             email,
		Password:          password,
		PreferredLanguage: lang,
	})
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var email, lang string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a NAYAM AI account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				p := newPrompter(cmd)
				email, err := orPrompt(p, email, "Email: ")
				if err != nil {
					return err
				}
				password, err := p.Password("Password: ")
				if err != nil {
					return err
				}
				preferred := a.Language()
				if lang != "" {
					preferred = locale.Language(lang)
				}
				if err := a.Auth.Register(cmd.Context(), email, password, preferred); err != nil {
					return report(cmd, err, a.Language())
				}
				success(cmd, "Registration successful! Please login.")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "preferred language (default: current language)")
	return cmd
}

func newResetPasswordCmd(opts *rootOptions) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password with your security answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				err := resetFlow(cmd.Context(), a.Auth.NewReset(), newPrompter(cmd), email)
				if err != nil {
					return report(cmd, err, a.Language())
				}
				success(cmd, "Password reset successful! Please login with your new password.")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	return cmd
}

func resetFlow(ctx context.Context, reset *auth.Reset, p *prompter, email string) error {
	email, err := orPrompt(p, email, "Email: ")
	if err != nil {
		return err
	}
	questions, err := reset.RequestQuestions(ctx, email)
	if err != nil {
		return err
	}

	var answers auth.Answers
	if answers.PetName, err = p.Line(question(questions, 0) + " "); err != nil {
		return err
	}
	if answers.BirthCity, err = p.Line(question(questions, 1) + " "); err != nil {
		return err
	}
	newPassword, err := p.Password("New password: ")
	if err != nil {
		return err
	}
	confirm, err := p.Password("Confirm password: ")
	if err != nil {
		return err
	}
	return reset.Submit(ctx, answers, newPassword, confirm)
}

func question(questions []string, i int) string {
	if i < len(questions) {
		return questions[i]
	}
	return auth.DefaultQuestions[i]
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				if !a.Auth.Authenticated() {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				done, err := a.Auth.Logout(confirmer(newPrompter(cmd), yes))
				if done {
					success(cmd, "Logged out")
				}
				return report(cmd, err, a.Language())
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				printSession(cmd.OutOrStdout(), a)
				return nil
			})
		},
	}
}

func printSession(w io.Writer, a *app.App) {
	sess := a.Auth.Session()
	if sess.State() != auth.Authenticated {
		fmt.Fprintln(w, "Not logged in")
		return
	}
	fmt.Fprintf(w, "Logged in as %s (preferred language: %s)\n", sess.User.Email, sess.User.PreferredLanguage.Name())
}
