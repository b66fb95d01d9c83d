package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/patchpick/patchpick/internal/config"
	"github.com/patchpick/patchpick/internal/inspect"
	"github.com/patchpick/patchpick/internal/logging"
	"github.com/patchpick/patchpick/internal/session"
	"github.com/patchpick/patchpick/internal/tui"
	"github.com/patchpick/patchpick/pkg/unidiff"
)

const version = "0.1.0"

// usageError marks errors that should exit with the usage code instead of
// the runtime-failure code.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

// Run executes the patchpick command line using the provided arguments.
// It returns a POSIX-style exit code: 0 on success, 1 on runtime failures,
// 2 on usage errors.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine, but other errors should be surfaced to help with debugging.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
			return 1
		}
	}

	var exitCode int
	root := &cobra.Command{
		Use:     "patchpick <patch-file>",
		Short:   "Pick hunks from a unified diff into a new patch",
		Long:    "patchpick parses a unified diff, lets you pick hunks interactively\nor from the command line, and writes only the picked hunks to a new patch.",
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runRoot(cmd, args[0], stdout)
			exitCode = code
			return err
		},
	}
	root.Flags().StringP("output", "o", "", "path of the filtered patch to write")
	root.Flags().Bool("list", false, "print the hunks and exit without writing")
	root.Flags().String("select", "", "mark these 1-based hunks (e.g. \"1,3-5\"), write once and exit")
	root.Flags().String("config", "", "TOML config file")
	root.Flags().Bool("no-resume", false, "ignore a saved selection sidecar")
	root.Flags().Bool("no-color", false, "disable colored output")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	if args == nil {
		// cobra falls back to os.Args when no argument slice is set.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "patchpick: %v\n", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(stderr, "see 'patchpick --help'")
			return 2
		}
		return 1
	}
	return exitCode
}

// runRoot loads the patch and dispatches to the list, select or interactive
// mode. The returned int is only meaningful when err is nil.
func runRoot(cmd *cobra.Command, inputPath string, stdout io.Writer) (int, error) {
	flags := cmd.Flags()
	outputPath, err := flags.GetString("output")
	if err != nil {
		return 0, fmt.Errorf("failed to get output flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return 0, fmt.Errorf("failed to get config flag: %w", err)
	}
	listOnly, err := flags.GetBool("list")
	if err != nil {
		return 0, fmt.Errorf("failed to get list flag: %w", err)
	}
	selectSpec, err := flags.GetString("select")
	if err != nil {
		return 0, fmt.Errorf("failed to get select flag: %w", err)
	}
	noResume, err := flags.GetBool("no-resume")
	if err != nil {
		return 0, fmt.Errorf("failed to get no-resume flag: %w", err)
	}
	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return 0, fmt.Errorf("failed to get no-color flag: %w", err)
	}

	opts := config.Default()
	if configPath == "" {
		configPath = os.Getenv("PATCHPICK_CONFIG")
	}
	if configPath != "" {
		if err := opts.ApplyFile(configPath); err != nil {
			return 0, err
		}
	}
	opts.ApplyEnv(os.Getenv)
	opts.InputPath = inputPath
	if outputPath != "" {
		opts.OutputPath = outputPath
	}
	if noColor {
		opts.NoColor = true
	}
	if noResume {
		opts.Resume = false
	}
	if err := opts.Validate(); err != nil {
		return 0, usageError{err}
	}

	var logger logging.Logger = &logging.NoOpLogger{}
	if opts.LogPath != "" {
		fileLogger, closeLog, err := logging.NewFileLogger(logging.ParseLevel(opts.LogLevel), opts.LogPath)
		if err != nil {
			return 0, fmt.Errorf("open log %s: %w", opts.LogPath, err)
		}
		defer func() { _ = closeLog() }()
		logger = fileLogger
	}

	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", opts.InputPath, err)
	}
	raw := string(data)
	text := unidiff.Normalize(raw)
	files, hunks := unidiff.Parse(text)
	if len(hunks) == 0 {
		return 0, fmt.Errorf("no hunks found in %s", opts.InputPath)
	}
	report := inspect.Scan(raw, files, hunks)
	logger.Info("patch loaded",
		logging.Field("input", opts.InputPath),
		logging.Field("files", report.Files),
		logging.Field("hunks", report.Hunks),
	)

	store := session.NewStore(opts.OutputPath, text)
	sess := session.New(files, hunks, session.Options{
		OutputPath: opts.OutputPath,
		Logger:     logger,
		Store:      store,
	})
	if opts.Resume {
		snap, ok, err := store.Load()
		switch {
		case err != nil:
			logger.Warn("sidecar ignored", logging.Field("error", err))
		case ok:
			sess.Restore(snap)
		}
	}

	if listOnly {
		writeHunkList(stdout, sess, report, opts.NoColor)
		return 0, nil
	}

	if selectSpec != "" {
		positions, err := parseSelectSpec(selectSpec, sess.Len())
		if err != nil {
			return 0, usageError{err}
		}
		if err := sess.SetMarks(positions); err != nil {
			return 0, usageError{err}
		}
		if err := sess.Save(); err != nil {
			return 0, err
		}
		fmt.Fprintf(stdout, "Saved %d selected hunk(s) → %s\n", sess.SelectedCount(), sess.OutputPath())
		return 0, nil
	}

	code := tui.Run(cmd.Context(), tui.Options{
		Session:      sess,
		InputPath:    opts.InputPath,
		Summary:      inspect.FormatSummary(report),
		Theme:        opts.Theme,
		TickInterval: opts.TickInterval,
		NoColor:      opts.NoColor,
		Logger:       logger,
	})
	return code, nil
}

// writeHunkList prints every hunk grouped under its file label, with the
// 1-based index used by --select and the current mark.
func writeHunkList(w io.Writer, sess *session.Session, report inspect.Report, noColor bool) {
	if noColor {
		color.NoColor = true
	}
	heading := color.New(color.Bold)
	picked := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	lastFile := -1
	for pos := 0; pos < sess.Len(); pos++ {
		hunk := sess.HunkAt(pos)
		if hunk.File != lastFile {
			heading.Fprintln(w, sess.LabelAt(pos))
			lastFile = hunk.File
		}
		if hunk.Marked {
			picked.Fprintf(w, "  %3d [x] %s\n", pos+1, hunk.Preview)
		} else {
			fmt.Fprintf(w, "  %3d [ ] %s\n", pos+1, hunk.Preview)
		}
	}
	for _, line := range report.SummaryLines() {
		dim.Fprintln(w, line)
	}
}
