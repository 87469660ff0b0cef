// Command gami is a command-line wrapper around the gami package,
// grounded on Asterisk/CLI.py's command_line/show_actions/execute_action
// trio and restructured around cobra the way the rest of this module's
// dependency stack is pulled from the wider example corpus.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeansch/gami"
	"github.com/jeansch/gami/config"
)

// Exit codes mirror SPEC_FULL.md's C11 contract: 0 success, 1 argument
// error, 2 action failure, 3 communication/transport error.
const (
	exitOK               = 0
	exitArgumentError    = 1
	exitActionFailure    = 2
	exitCommunicationErr = 3
)

var (
	flagConfig string
	flagHost   string
	flagPort   int
	flagUser   string
	flagSecret string
)

func main() {
	root := &cobra.Command{
		Use:           "gami",
		Short:         "Command-line wrapper around the Asterisk Manager Interface",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return usage(cmd, os.Stdout)
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to py-asterisk.conf (default: search standard locations)")
	root.PersistentFlags().StringVar(&flagHost, "host", "", "override configured AMI host")
	root.PersistentFlags().IntVar(&flagPort, "port", 0, "override configured AMI port")
	root.PersistentFlags().StringVar(&flagUser, "user", "", "override configured AMI username")
	root.PersistentFlags().StringVar(&flagSecret, "secret", "", "override configured AMI secret")

	root.AddCommand(actionsCmd(), actionCmd(), commandCmd(), helpCmd(), usageCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// usage prints the command's top-level help, matching the original's
// usage() text.
func usage(cmd *cobra.Command, w *os.File) error {
	fmt.Fprintln(w, "Command-line wrapper around the Asterisk Manager API.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  gami actions")
	fmt.Fprintln(w, "      Show available actions and their arguments.")
	fmt.Fprintln(w, "  gami action <API action> [key=value ...] [--key=value ...]")
	fmt.Fprintln(w, "      Execute the specified action.")
	fmt.Fprintln(w, "  gami command \"<console command>\"")
	fmt.Fprintln(w, "      Execute the specified Asterisk console command.")
	fmt.Fprintln(w, "  gami help <action>")
	fmt.Fprintln(w, "      Show one action's arguments and description.")
	fmt.Fprintln(w, "  gami usage")
	fmt.Fprintln(w, "      Display this message.")
	return nil
}

func usageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Display command-line usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return usage(cmd, os.Stdout)
		},
	}
}

// actionsCmd corresponds to show_actions(): it lists every catalogued
// action and its one-line usage/doc, without needing a live session.
func actionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "Show available actions and their arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Supported actions and their arguments.")
			fmt.Println("======================================")
			fmt.Println()
			for _, d := range gami.Catalog {
				fmt.Println("   Action:", d.Name)
				fmt.Println("Arguments:", d.Usage)
				fmt.Println("           ", d.Doc)
				fmt.Println()
			}
			return nil
		},
	}
}

// helpCmd shows a single action's descriptor, corresponding to looking
// up one entry of show_actions()'s listing.
func helpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help <action>",
		Short: "Show one action's arguments and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := gami.Describe(args[0])
			if !ok {
				return &argumentError{msg: fmt.Sprintf("unknown action %q", args[0])}
			}
			fmt.Println("   Action:", d.Name)
			fmt.Println("Arguments:", d.Usage)
			fmt.Println("           ", d.Doc)
			return nil
		},
	}
}

// actionCmd corresponds to execute_action(): it sends a raw action built
// from the action name and key=value or --key=value header arguments,
// then prints the response. Positional arguments are not mapped onto the
// action's parameters and a bare "--" is not a separator: buildHeaders
// rejects every argument that is not key=value.
func actionCmd() *cobra.Command {
	// DisableFlagParsing: "--key=value" tokens here are action headers,
	// not gami flags, so connection overrides like --host must precede
	// the "action" subcommand on the command line.
	cmd := &cobra.Command{
		Use:                "action <name> [args...] [--key=value ...]",
		Short:              "Execute the specified action",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			headers, err := buildHeaders(name, args[1:])
			if err != nil {
				return err
			}

			sess, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			p, err := sess.Do(name, headers)
			if err != nil {
				return err
			}
			for _, k := range p.Keys() {
				v, _ := p.Get(k)
				fmt.Printf("%s: %s\n", k, v)
			}
			return nil
		},
	}
	return cmd
}

// commandCmd corresponds to execute_action('command', ...): it always
// calls the Command action and prints the console output lines.
func commandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "command <console-cmd>",
		Short: "Execute the specified Asterisk console command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			lines, err := sess.Command(args[0])
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(lines, "\n"))
			return nil
		},
	}
}

// buildHeaders turns a CLI action's trailing arguments into ordered
// header pairs: bare "key=value" or "--key=value" tokens become headers
// verbatim; anything else is rejected rather than guessed at, since a
// typed action's positional signature cannot be recovered from the
// static Catalog alone.
func buildHeaders(name string, args []string) ([][2]string, error) {
	var headers [][2]string
	for _, arg := range args {
		arg = strings.TrimPrefix(arg, "--")
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, &argumentError{msg: fmt.Sprintf("%s: argument %q is not key=value", name, arg)}
		}
		headers = append(headers, [2]string{key, value})
	}
	return headers, nil
}

// connect loads connection parameters (config file plus flag
// overrides) and dials a Session.
func connect(ctx context.Context) (*gami.Session, error) {
	conn, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagHost != "" {
		conn.Host = flagHost
	}
	if flagPort != 0 {
		conn.Port = flagPort
	}
	if flagUser != "" {
		conn.Username = flagUser
	}
	if flagSecret != "" {
		conn.Secret = flagSecret
	}
	return gami.Dial(ctx, conn.Addr(), conn.Username, conn.Secret, true)
}

// argumentError reports a malformed command line, distinct from a PBX
// action failure or a transport failure, per exit code 1.
type argumentError struct {
	msg string
}

func (e *argumentError) Error() string { return e.msg }

// exitCodeFor maps an error to the documented exit code: argument errors
// are caught before any write to the wire, action failures are reported
// by the PBX, and CommunicationError, ErrGoneAway, ErrTimeout and
// ErrTransportClosed are communication/transport problems. Any other
// error gets the argument-error code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}

	var argErr *argumentError
	if errors.As(err, &argErr) {
		return exitArgumentError
	}

	var actionFailed *gami.ActionFailedError
	var commErr *gami.CommunicationError
	switch {
	case errors.As(err, &actionFailed):
		return exitActionFailure
	case errors.As(err, &commErr):
		return exitCommunicationErr
	case errors.Is(err, gami.ErrPermissionDenied):
		return exitActionFailure
	case errors.Is(err, gami.ErrGoneAway), errors.Is(err, gami.ErrTimeout), errors.Is(err, gami.ErrTransportClosed):
		return exitCommunicationErr
	}
	// Anything unrecognized (missing args, unknown subcommand/action,
	// bad config) is cobra/argument-level, not a PBX or transport fault.
	return exitArgumentError
}
