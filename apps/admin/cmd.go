package main

import (
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/hackadmin/apps"
	"github.com/trezcool/hackadmin/apps/shared"
	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/auth"
	"github.com/trezcool/hackadmin/core/dashboard"
	apisvc "github.com/trezcool/hackadmin/services/api"
	"github.com/trezcool/hackadmin/storage/session"
)

var readPasswordFunc = term.ReadPassword // mockable

type commandLine struct {
	conf       *core.Config
	logger     *cliLogger
	client     *apisvc.Client
	dash       *dashboard.Dashboard
	guard      *auth.Guard
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer

	// flags
	format  string
	verbose bool
}

func newCommandLine(conf *core.Config, logger core.Logger, reg prometheus.Registerer, out io.Writer) *commandLine {
	cli := &commandLine{conf: conf, out: out}
	cli.logger = &cliLogger{Logger: logger, verbose: &cli.verbose}
	if logger == nil {
		cli.logger.Logger = core.NopLogger{}
	}

	cli.client = apisvc.NewClientFromConfig(conf, cli.logger, reg)
	svcs := dashboard.NewServices(cli.client, cli.logger)
	cli.dash = dashboard.New(svcs, cli.logger)
	cli.guard = auth.NewGuard(auth.GuardOptions{
		Auth:    svcs.Auth,
		Storage: session.NewFileStorageFromConfig(conf),
		Client:  cli.client,
		Logger:  cli.logger,
	})
	cli.guard.Register(cli.dash)
	cli.validate, cli.translator = shared.NewValidator(conf)
	return cli
}

// run executes the command line args, args[0] being the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args[1:])
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	return root.Execute()
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administration console of the hackathon platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch cli.format {
			case formatTable, formatJSON, formatYAML:
			default:
				return apps.NewArgumentError(fmt.Sprintf("unknown output format %q", cli.format))
			}
			return cli.guard.Restore()
		},
	}
	root.PersistentFlags().StringVarP(&cli.format, "output", "o", formatTable, "output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "log every API request")

	root.AddCommand(
		cli.loginCmd(),
		cli.logoutCmd(),
		cli.whoamiCmd(),
		cli.registerCmd(),
		cli.statusCmd(),
		cli.classementCmd(),
		cli.etudiantsCmd(),
	)
	root.AddCommand(cli.entityCmds()...)
	return root
}

// authed gates run behind a valid session.
func (cli *commandLine) authed(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if _, err := cli.guard.Require(); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

func (cli *commandLine) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a platform admin. The password is prompted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := cli.promptPassword("Password: ")
			if err != nil {
				return err
			}
			creds := auth.Credentials{Email: email, Password: pwd}
			if err = creds.Validate(cli.validate); err != nil {
				return err
			}
			sess, err := cli.guard.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Logged in as %s\n", sess.Admin.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (cli *commandLine) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := cli.guard.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cli.out, "Logged out")
			return nil
		},
	}
}

func (cli *commandLine) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in admin",
		Args:  cobra.NoArgs,
		RunE: cli.authed(func(*cobra.Command, []string) error {
			sess := cli.guard.Session()
			fmt.Fprintf(cli.out, "%s <%s>\n", sess.Admin.Nom, sess.Admin.Email)
			if exp := cli.guard.ExpiresAt(); !exp.IsZero() {
				fmt.Fprintf(cli.out, "session expires at %s\n", exp.Format(time.RFC3339))
			}
			return nil
		}),
	}
}

func (cli *commandLine) registerCmd() *cobra.Command {
	var na auth.NewAdmin
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new platform admin. The password is prompted.",
		Args:  cobra.NoArgs,
		RunE: cli.authed(func(cmd *cobra.Command, _ []string) error {
			var err error
			if na.Password, err = cli.promptPassword("Password: "); err != nil {
				return err
			}
			if na.PasswordConfirm, err = cli.promptPassword("Confirm password: "); err != nil {
				return err
			}
			if err = na.Validate(cli.validate); err != nil {
				return err
			}
			adm, err := cli.dash.Services().Auth.Register(cmd.Context(), na)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Registered %s\n", adm.Email)
			return nil
		}),
	}
	cmd.Flags().StringVar(&na.Nom, "nom", "", "admin name")
	cmd.Flags().StringVar(&na.Email, "email", "", "admin email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (cli *commandLine) promptPassword(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", apps.NewArgumentError("empty password")
	}
	return string(pwd), nil
}

// printError prints err and, for validation failures, one line per field.
func printError(w io.Writer, err error, translator ut.Translator) {
	flds := core.FieldMessages(err, translator)
	msg := core.Message(err)
	if _, isAPI := core.AsAPIError(err); !isAPI && len(flds) > 0 {
		msg = "validation failed"
	}
	fmt.Fprintf(w, "error: %s\n", msg)
	for _, f := range flds {
		fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Error)
	}
	if core.IsServerError(err) {
		fmt.Fprintln(w, "the platform failed to answer, try again later")
	}
}

// cliLogger drops debug and info messages unless --verbose is set.
type cliLogger struct {
	core.Logger
	verbose *bool
}

func (l *cliLogger) Debug(msg string, args ...interface{}) {
	if *l.verbose {
		l.Logger.Debug(msg, args...)
	}
}

func (l *cliLogger) Info(msg string, args ...interface{}) {
	if *l.verbose {
		l.Logger.Info(msg, args...)
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
