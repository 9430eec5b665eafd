package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Atrate/certumctl/internal/config"
	ctlerr "github.com/Atrate/certumctl/internal/errors"
	"github.com/Atrate/certumctl/internal/osprobe"
	"github.com/Atrate/certumctl/internal/readiness"
	"github.com/Atrate/certumctl/internal/sysmgr"
)

// Style definitions using lipgloss
var (
	// Theme colors
	primaryColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF4B4B")
	warningColor = lipgloss.Color("#FFA500")
	infoColor    = lipgloss.Color("#3B82F6")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(infoColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Underline(true)
)

// cliOptions holds the few flags the tool parses. The card operations
// themselves are driven entirely by the interactive menu.
type cliOptions struct {
	Verbose  bool
	Language string
}

// NewRootCmd creates the root command with Cobra/Fang integration.
// Invoking certumctl with no arguments starts the interactive flow.
func NewRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:          "certumctl",
		Short:        T("root_short"),
		Long:         titleStyle.Render("certumctl") + " - " + T("root_long"),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(opts)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, T("flag_verbose_help"))
	rootCmd.PersistentFlags().StringVar(&opts.Language, "lang", "", T("flag_lang_help"))

	rootCmd.AddCommand(
		newCheckCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// newCheckCmd creates the check subcommand: probe and verify only,
// never remediate. Intended for provisioning scripts.
func newCheckCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: T("check_short"),
		Long:  T("check_long"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts)
		},
	}
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: T("version_short"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Println(config.Version)
				return nil
			}
			fmt.Printf("%s %s (commit %s, built %s)\n",
				config.ClientName, config.Version, config.GitCommit, config.BuildTime)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show short version only")
	return cmd
}

// newLogger returns the verbose diagnostics logger, or a discard logger
// when verbose output is off.
func newLogger(opts *cliOptions) *log.Logger {
	if opts.Verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// runInteractive drives the full flow: environment preparation, then
// the guarded operation loop.
func runInteractive(opts *cliOptions) error {
	initI18n(opts.Language)
	logger := newLogger(opts)
	prompter := newPrompter()

	env, err := prepareEnvironment(prompter, logger)
	if err != nil {
		return err
	}

	return runMenuLoop(env)
}

// runCheck resolves the profile for the current host and reports the
// readiness of every precondition without remediating anything.
// Unsatisfied preconditions yield the requirements exit code.
func runCheck(opts *cliOptions) error {
	initI18n(opts.Language)
	logger := newLogger(opts)

	ident, err := osprobe.ReadIdentity(config.OSReleasePath)
	if err != nil {
		return err
	}
	profile, ok := osprobe.Resolve(ident)
	if !ok {
		fmt.Println(errorStyle.Render(T("unsupported_os_warning", ident.ID, ident.VersionID)))
		return ctlerr.NewFatalSetup("check", fmt.Errorf("unsupported OS %s %s", ident.ID, ident.VersionID),
			T("unsupported_os_context"))
	}
	fmt.Println(headerStyle.Render(T("check_header")))
	fmt.Println(successStyle.Render("✓ " + profile.Name))

	checker := readiness.NewChecker(profile, sysmgr.New(logger), logger)
	satisfied := true

	if missing := checker.VerifyTools(requiredTools(profile)); len(missing) > 0 {
		satisfied = false
		fmt.Println(errorStyle.Render(T("check_tools_missing", missing)))
	} else {
		fmt.Println(successStyle.Render("✓ " + T("check_tools_ok")))
	}

	if missing, perr := checker.VerifyPackages(); perr != nil || len(missing) > 0 {
		satisfied = false
		fmt.Println(errorStyle.Render(T("check_packages_missing", missing)))
	} else {
		fmt.Println(successStyle.Render("✓ " + T("check_packages_ok")))
	}

	if _, paths, lerr := vendorLibraryPaths(); lerr != nil {
		return lerr
	} else if missing := checker.VerifyLibraries(paths); len(missing) > 0 {
		satisfied = false
		fmt.Println(errorStyle.Render(T("check_libs_missing", missing)))
	} else {
		fmt.Println(successStyle.Render("✓ " + T("check_libs_ok")))
	}

	if checker.VerifyService() {
		fmt.Println(successStyle.Render("✓ " + T("check_service_ok", profile.Service)))
	} else {
		satisfied = false
		fmt.Println(errorStyle.Render(T("check_service_stopped", profile.Service)))
	}

	if !satisfied {
		return &ctlerr.CtlError{
			Op:       "check",
			Code:     ctlerr.CodeDeclinedRemediation,
			Err:      fmt.Errorf("environment requirements not satisfied"),
			ExitCode: config.ExitRequirements,
		}
	}
	fmt.Println(successStyle.Render(T("check_all_ok")))
	return nil
}

// ExecuteWithFang runs the CLI with Fang enhancements.
func ExecuteWithFang(ctx context.Context) error {
	// Initialize i18n early so command help renders localized.
	initI18nForCLI(os.Args)

	rootCmd := NewRootCmd()

	return fang.Execute(ctx, rootCmd)
}
