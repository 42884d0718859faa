// Command filesniff identifies files by their content and validates them
// against size limits and a MIME allow-list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/gobeaver/filesniff"
	"github.com/gobeaver/filesniff/filevalidator"
	"github.com/gobeaver/filesniff/scanner"
)

const usage = `usage: filesniff <command> [flags] [args]

Commands:
  detect FILE...     print the detected type of each file
  validate FILE...   validate files against size limits and allowed types
  scan DIR           validate every file under a directory
  watch DIR          validate files under a directory as they change
  signatures         list the known signatures

Defaults are read from FILESNIFF_* environment variables (BEAVER_ prefix).
`

// errInvalid marks a run where at least one file failed
var errInvalid = errors.New("one or more files are invalid")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := filesniff.GetConfig()
	if err != nil {
		fmt.Fprintf(stderr, "filesniff: load config: %v\n", err)
		return 2
	}

	cli := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	var cmdErr error
	switch args[0] {
	case "detect":
		cmdErr = cli.detect(ctx, args[1:])
	case "validate":
		cmdErr = cli.validate(ctx, args[1:])
	case "scan":
		cmdErr = cli.scan(ctx, args[1:])
	case "watch":
		cmdErr = cli.watch(ctx, args[1:])
	case "signatures":
		cmdErr = cli.signatures(args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "filesniff: unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case cmdErr == nil:
		return 0
	case errors.Is(cmdErr, errInvalid):
		return 1
	case errors.Is(cmdErr, flag.ErrHelp):
		return 0
	default:
		fmt.Fprintf(stderr, "filesniff: %v\n", cmdErr)
		return 2
	}
}

type app struct {
	cfg    *filesniff.Config
	stdout io.Writer
	stderr io.Writer
}

// baseFlags registers the flags every command accepts.
func (a *app) baseFlags(fs *flag.FlagSet) {
	fs.IntVar(&a.cfg.WindowSize, "window", a.cfg.WindowSize, "bytes read from each end of a file")
	fs.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format: text, json")
}

// commonFlags registers the flags shared by the validating commands.
func (a *app) commonFlags(fs *flag.FlagSet) {
	a.baseFlags(fs)
	fs.StringVar(&a.cfg.AllowedMimeTypes, "allow", a.cfg.AllowedMimeTypes, "comma-separated allowed MIME types (empty allows all)")
	fs.Int64Var(&a.cfg.MaxFileSize, "max", a.cfg.MaxFileSize, "maximum file size in bytes (0 disables)")
	fs.Int64Var(&a.cfg.MinFileSize, "min", a.cfg.MinFileSize, "minimum file size in bytes")
	fs.BoolVar(&a.cfg.EarlyExit, "early", a.cfg.EarlyExit, "skip detection for files outside the size limits")
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	a.commonFlags(fs)
	return fs
}

// components builds the detector and validator from the effective config.
func (a *app) components() (*filesniff.Detector, *filevalidator.Validator, error) {
	logger := a.cfg.NewLogger(a.stderr)
	detector, err := filesniff.New(a.cfg, filesniff.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	validator := filevalidator.FromConfig(a.cfg).
		WithDetector(detector).
		WithLogger(logger).
		Build()
	return detector, validator, nil
}

func (a *app) detect(ctx context.Context, args []string) error {
	fs := a.newFlagSet("detect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("detect: no files given")
	}
	detector, _, err := a.components()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	failed := false
	for _, path := range fs.Args() {
		ft, err := detectFile(ctx, detector, path)
		switch {
		case err == nil:
			fmt.Fprintf(tw, "%s\t%s\t%s\n", path, ft.MIME, ft.Extension)
		case errors.Is(err, filesniff.ErrUnknownFileType):
			failed = true
			fmt.Fprintf(tw, "%s\tunknown\t%v\n", path, err)
		default:
			// I/O failures and cancellation abort the run
			tw.Flush()
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed {
		return errInvalid
	}
	return nil
}

func detectFile(ctx context.Context, d *filesniff.Detector, path string) (filesniff.FileType, error) {
	f, err := os.Open(path)
	if err != nil {
		return filesniff.FileType{}, err
	}
	defer f.Close()
	return d.DetectReader(ctx, path, f)
}

func (a *app) validate(ctx context.Context, args []string) error {
	fs := a.newFlagSet("validate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("validate: no files given")
	}
	_, validator, err := a.components()
	if err != nil {
		return err
	}

	result := &filevalidator.ValidationResult{}
	for _, path := range fs.Args() {
		r, err := filevalidator.ValidateLocalFile(ctx, validator, path, a.cfg.EarlyExit)
		if err != nil {
			return err
		}
		result.Merge(r)
	}

	for _, f := range result.InvalidFiles {
		fmt.Fprintf(a.stdout, "%s\t%s\n", f.FileName, f.Errors)
	}
	fmt.Fprintln(a.stdout, result.Summary())
	if result.HasFailed() {
		return errInvalid
	}
	return nil
}

func (a *app) newScanner(fs *flag.FlagSet, args []string) (*scanner.Scanner, string, error) {
	fs.StringVar(&a.cfg.ScanInclude, "include", a.cfg.ScanInclude, "comma-separated glob patterns to include")
	fs.StringVar(&a.cfg.ScanExclude, "exclude", a.cfg.ScanExclude, "comma-separated glob patterns to exclude")
	fs.IntVar(&a.cfg.ScanWorkers, "workers", a.cfg.ScanWorkers, "files validated concurrently")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	if fs.NArg() != 1 {
		return nil, "", fmt.Errorf("%s: exactly one directory required", fs.Name())
	}
	_, validator, err := a.components()
	if err != nil {
		return nil, "", err
	}
	s, err := scanner.New(validator,
		scanner.WithInclude(filesniff.SplitList(a.cfg.ScanInclude)...),
		scanner.WithExclude(filesniff.SplitList(a.cfg.ScanExclude)...),
		scanner.WithWorkers(a.cfg.ScanWorkers),
		scanner.WithEarlyExit(a.cfg.EarlyExit),
		scanner.WithLogger(a.cfg.NewLogger(a.stderr)),
	)
	if err != nil {
		return nil, "", err
	}
	return s, fs.Arg(0), nil
}

func (a *app) scan(ctx context.Context, args []string) error {
	s, root, err := a.newScanner(a.newFlagSet("scan"), args)
	if err != nil {
		return err
	}
	reports, err := s.Scan(ctx, root)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	failed := false
	for _, r := range reports {
		writeReport(tw, r)
		failed = failed || !r.Valid()
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for sum, paths := range scanner.Duplicates(reports) {
		fmt.Fprintf(a.stdout, "duplicate %s: %v\n", scanner.FormatFingerprint(sum), paths)
	}
	if failed {
		return errInvalid
	}
	return nil
}

func (a *app) watch(ctx context.Context, args []string) error {
	s, root, err := a.newScanner(a.newFlagSet("watch"), args)
	if err != nil {
		return err
	}
	return s.Watch(ctx, root, func(r scanner.Report) {
		writeReport(a.stdout, r)
	})
}

func writeReport(w io.Writer, r scanner.Report) {
	status := "ok"
	switch {
	case r.Err != nil:
		status = "error: " + r.Err.Error()
	case !r.Valid():
		status = r.Errors.String()
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		r.Path,
		filevalidator.FormatSizeReadable(r.Size),
		r.Type,
		scanner.FormatFingerprint(r.Fingerprint),
		status)
}

func (a *app) signatures(args []string) error {
	fs := flag.NewFlagSet("signatures", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	a.baseFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errors.New("signatures: takes no arguments")
	}
	detector, _, err := a.components()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXTENSION\tMIME\tHEADERS\tTRAILERS\tCONTENT")
	for _, sig := range detector.Table().Signatures() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			sig.Extension, sig.MIMEType, len(sig.Headers), len(sig.Trailers), sig.ContentSniffTarget)
	}
	return tw.Flush()
}
