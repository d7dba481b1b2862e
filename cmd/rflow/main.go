// Command rflow is the riverflow CLI entry point.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/mattn/go-isatty"

	"github.com/thomasrohde/riverflow/pkg/config"
	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/evaluator"
	"github.com/thomasrohde/riverflow/pkg/help"
	"github.com/thomasrohde/riverflow/pkg/runtime"
)

const usage = `usage: rflow <command> [options]
commands: run, check, fmt, ast, trace, repl, help, config`

// cli carries the process streams so commands can be driven from tests.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	pretty bool
}

func main() {
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(c.main(os.Args[1:]))
}

// main dispatches args[0] as the subcommand; args[0] also serves as argv[0]
// for getopt.
func (c *cli) main(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(c.stderr, usage)
		return runtime.ExitUsage
	}

	if code := c.loadConfig(); code != runtime.ExitOK {
		return code
	}

	switch args[0] {
	case "run":
		return c.cmdRun(args)
	case "check":
		return c.cmdCheck(args)
	case "fmt":
		return c.cmdFmt(args)
	case "ast":
		return c.cmdAst(args)
	case "trace":
		return c.cmdTrace(args)
	case "repl":
		return c.cmdRepl(args)
	case "help", "--help", "-h":
		return c.cmdHelp(args)
	case "config":
		return c.cmdConfig()
	default:
		fmt.Fprintf(c.stderr, "Unknown command: %s\n%s\n", args[0], usage)
		return runtime.ExitUsage
	}
}

func (c *cli) loadConfig() int {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		c.cfg = config.Default()
		c.pretty = true
		c.report(diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), nil, "fix or remove the config file"))
		return runtime.ExitConfig
	}
	c.cfg = cfg
	c.pretty = cfg.Pretty
	c.setColor(false)
	return runtime.ExitOK
}

func (c *cli) setColor(disabled bool) {
	tty := false
	if f, ok := c.stderr.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	diagnostics.SetColor(!disabled && c.cfg.UseColor(tty))
}

// parseFlags runs getopt over args and returns the remaining operands.
func (c *cli) parseFlags(args []string, optstring string, handle func(opt rune, value string)) ([]string, bool) {
	opts, optind, err := getopt.Getopts(args, optstring)
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EUsage, err.Error(), nil, ""))
		return nil, false
	}
	for _, opt := range opts {
		handle(opt.Option, opt.Value)
	}
	return args[optind:], true
}

func (c *cli) usageError(text string) int {
	c.report(diagnostics.MakeDiag(diagnostics.EUsage, "usage: "+text, nil, ""))
	return runtime.ExitUsage
}

func (c *cli) report(diags ...diagnostics.Diagnostic) {
	fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(diags, c.pretty))
}

// reportError prints err as diagnostics and maps it to an exit code.
func (c *cli) reportError(err error) int {
	var diagErr *runtime.DiagnosticError
	var rtErr *evaluator.RuntimeError
	switch {
	case errors.As(err, &diagErr):
		c.report(diagErr.Diagnostics...)
	case errors.As(err, &rtErr):
		c.report(rtErr.Diagnostic())
	default:
		c.report(diagnostics.MakeDiag(diagnostics.EIO, err.Error(), nil, ""))
	}
	return runtime.ExitCode(err)
}

func (c *cli) cmdRun(args []string) int {
	jsonValues := c.cfg.JSON
	tracePath := c.cfg.Trace
	noColor := false
	rest, ok := c.parseFlags(args, "pjCt:", func(opt rune, value string) {
		switch opt {
		case 'p':
			c.pretty = true
		case 'j':
			jsonValues = true
		case 'C':
			noColor = true
		case 't':
			tracePath = value
		}
	})
	if !ok {
		return runtime.ExitUsage
	}
	c.setColor(noColor)
	if len(rest) != 1 {
		return c.usageError("rflow run [-p] [-j] [-C] [-t trace.jsonl] <file|->")
	}

	source, filename, code := c.readSource(rest[0])
	if code != runtime.ExitOK {
		return code
	}

	opts := []runtime.Option{
		runtime.WithOutput(c.stdout),
		runtime.WithJSONValues(jsonValues),
	}
	var traceFile *os.File
	var traceErr error
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot create trace file: %s", tracePath), nil, ""))
			return runtime.ExitIOErr
		}
		traceFile = f
		enc := json.NewEncoder(f)
		opts = append(opts, runtime.WithTrace(func(ev evaluator.TraceEvent) {
			// First failure wins.
			if traceErr == nil {
				traceErr = enc.Encode(ev)
			}
		}))
	}

	_, runErr := runtime.New(opts...).Run(source, filename)
	if traceFile != nil {
		if err := traceFile.Close(); err != nil && traceErr == nil {
			traceErr = err
		}
	}

	code = runtime.ExitOK
	if runErr != nil {
		code = c.reportError(runErr)
	}
	if traceErr != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot write trace file %s: %s", tracePath, traceErr), nil, ""))
		if code == runtime.ExitOK {
			code = runtime.ExitIOErr
		}
	}
	return code
}

func (c *cli) cmdCheck(args []string) int {
	noColor := false
	rest, ok := c.parseFlags(args, "pC", func(opt rune, _ string) {
		switch opt {
		case 'p':
			c.pretty = true
		case 'C':
			noColor = true
		}
	})
	if !ok {
		return runtime.ExitUsage
	}
	c.setColor(noColor)
	if len(rest) != 1 {
		return c.usageError("rflow check [-p] [-C] <file|->")
	}

	source, filename, code := c.readSource(rest[0])
	if code != runtime.ExitOK {
		return code
	}

	diags := runtime.New().Check(source, filename)
	if len(diags) > 0 {
		c.report(diags...)
		return runtime.CheckExitCode(diags)
	}

	if c.pretty {
		fmt.Fprintln(c.stdout, "No errors found.")
	} else {
		fmt.Fprintln(c.stdout, "[]")
	}
	return runtime.ExitOK
}

func (c *cli) cmdFmt(args []string) int {
	write := false
	rest, ok := c.parseFlags(args, "w", func(opt rune, _ string) {
		if opt == 'w' {
			write = true
		}
	})
	if !ok {
		return runtime.ExitUsage
	}
	if len(rest) != 1 {
		return c.usageError("rflow fmt [-w] <file>")
	}

	file := rest[0]
	source, filename, code := c.readSource(file)
	if code != runtime.ExitOK {
		return code
	}

	formatted, err := runtime.New().Format(source, filename)
	if err != nil {
		return c.reportError(err)
	}

	if write && file != "-" {
		if err := os.WriteFile(file, []byte(formatted), 0o644); err != nil {
			c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot write file: %s", file), nil, ""))
			return runtime.ExitIOErr
		}
		return runtime.ExitOK
	}
	fmt.Fprint(c.stdout, formatted)
	return runtime.ExitOK
}

func (c *cli) cmdAst(args []string) int {
	if len(args) != 2 {
		return c.usageError("rflow ast <file|->")
	}
	source, filename, code := c.readSource(args[1])
	if code != runtime.ExitOK {
		return code
	}
	dump, err := runtime.New().Dump(source, filename)
	if err != nil {
		return c.reportError(err)
	}
	fmt.Fprint(c.stdout, dump)
	return runtime.ExitOK
}

func (c *cli) cmdTrace(args []string) int {
	jsonOutput := false
	rest, ok := c.parseFlags(args, "j", func(opt rune, _ string) {
		if opt == 'j' {
			jsonOutput = true
		}
	})
	if !ok {
		return runtime.ExitUsage
	}
	if len(rest) != 1 {
		return c.usageError("rflow trace [-j] <file.jsonl>")
	}

	f, err := os.Open(rest[0])
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", rest[0]), nil, ""))
		return runtime.ExitNoInput
	}
	defer f.Close()

	summary, err := computeTraceSummary(f)
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("error reading %s: %s", rest[0], err), nil, ""))
		return runtime.ExitIOErr
	}
	if jsonOutput {
		b, _ := json.Marshal(summary)
		fmt.Fprintln(c.stdout, string(b))
	} else {
		printTraceSummaryText(c.stdout, summary)
	}
	return runtime.ExitOK
}

func (c *cli) cmdHelp(args []string) int {
	if len(args) < 2 {
		fmt.Fprint(c.stdout, help.QUICKREF)
		return runtime.ExitOK
	}
	_, content, err := help.MatchTopic(args[1])
	if err != nil {
		fmt.Fprintf(c.stderr, "%s\nAvailable topics: %s\n", err, strings.Join(help.TopicList, ", "))
		return runtime.ExitUsage
	}
	fmt.Fprint(c.stdout, content)
	return runtime.ExitOK
}

func (c *cli) cmdConfig() int {
	out, err := c.cfg.Marshal()
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), nil, ""))
		return runtime.ExitConfig
	}
	if c.cfg.Source != "" {
		fmt.Fprintf(c.stdout, "# %s\n", c.cfg.Source)
	} else {
		fmt.Fprintln(c.stdout, "# defaults")
	}
	c.stdout.Write(out)
	return runtime.ExitOK
}

func (c *cli) readSource(file string) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("error reading stdin: %s", err), nil, ""))
			return "", "", runtime.ExitNoInput
		}
		return string(data), "<stdin>", runtime.ExitOK
	}

	source, err := os.ReadFile(file)
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, ""))
		return "", "", runtime.ExitNoInput
	}
	return string(source), file, runtime.ExitOK
}
