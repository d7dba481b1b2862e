package main

import (
	"bufio"
	"fmt"

	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/runtime"
)

const prompt = "> "

// cmdRepl reads one chunk of source per line and runs it against globals
// shared by the whole session. Errors are reported and the session goes on.
func (c *cli) cmdRepl(args []string) int {
	jsonValues := c.cfg.JSON
	rest, ok := c.parseFlags(args, "j", func(opt rune, _ string) {
		if opt == 'j' {
			jsonValues = true
		}
	})
	if !ok {
		return runtime.ExitUsage
	}
	if len(rest) != 0 {
		return c.usageError("rflow repl [-j]")
	}

	rt := runtime.New(runtime.WithOutput(c.stdout), runtime.WithJSONValues(jsonValues))
	session := rt.NewSession("repl")

	scanner := bufio.NewScanner(c.stdin)
	fmt.Fprint(c.stdout, prompt)
	for scanner.Scan() {
		if err := session.Eval(scanner.Text()); err != nil {
			c.reportError(err)
		}
		fmt.Fprint(c.stdout, prompt)
	}
	fmt.Fprintln(c.stdout)
	if err := scanner.Err(); err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("error reading input: %s", err), nil, ""))
		return runtime.ExitIOErr
	}
	return runtime.ExitOK
}
