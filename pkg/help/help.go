// Package help holds the reference text printed by `rflow help`.
package help

import (
	"fmt"
	"sort"
	"strings"
)

// Version is the language reference version.
const Version = "v0.1"

// QUICKREF is printed by `rflow help` with no topic.
var QUICKREF = `riverflow ` + Version + ` quick reference

  var x = 1;            declare (shadows in the current block)
  x = 2;                assign an existing binding
  print expr;           print one line
  { ... }               block with its own scope
  // comment            to end of line

  peak ^ tail           synthesize a 10-day flow distribution
  flow # rain           scale a flow by rain and the baseline
  flow << flow          add two flows day by day
  [a, b, ...]           distribution literal

Topics: syntax, types, flow, operators, diagnostics, config, examples
Run 'rflow help <topic>' for details.
`

// TopicList is the display order of help topics.
var TopicList = []string{"syntax", "types", "flow", "operators", "diagnostics", "config", "examples"}

// Topics maps topic names to their text.
var Topics = map[string]string{
	"syntax": `SYNTAX

program     = declaration* EOF
declaration = "var" IDENT ( "=" expression )? ";" | statement
statement   = "print" expression ";" | "{" declaration* "}" | expression ";"
expression  = IDENT "=" expression | equality
equality    = comparison ( ( "==" | "!=" ) comparison )*
comparison  = flow ( ( ">" | ">=" | "<" | "<=" ) flow )*
flow        = term ( "<<" term )*
term        = factor ( ( "+" | "-" ) factor )*
factor      = synthesis ( ( "*" | "/" | "#" ) synthesis )*
synthesis   = unary ( "^" unary )*
unary       = ( "!" | "-" ) unary | primary
primary     = NUMBER | STRING | "true" | "false" | "nil" | IDENT
            | "(" expression ")" | "[" ( expression ( "," expression )* )? "]"

Binary operators are left-associative; assignment is right-associative.
Strings have no escapes and may span lines. Numbers are decimal: 12, 0.5.
`,

	"types": `TYPES

nil       absence of a value; prints as nil
boolean   true, false
number    64-bit float; integral values print without a fraction
string    "text"; + concatenates two strings
flow      fixed-length list of numbers, one per day; prints as [a, b, ...]

Only nil and false are falsy. == never converts between types; flows are
equal when they have the same days.
`,

	"flow": `FLOW DISTRIBUTIONS

peak ^ tail
  Builds a 10-day Gaussian centred on day 'peak' with width 'tail'.
  Weights are normalized to sum to 1, then each day is rounded to 0.01.
  A tail of 0 yields NaN days.

flow # rain
  Scales a 10-day flow: day[i] = round2(flow[i] * rain * baseline[i]).
  baseline = [11.4, 0, 0.4, 0, 0, 2, 0.2, 0.2, 0.2, 0]

a << b
  Adds two flows of equal length day by day, rounding each day to 0.01.

Example: (2 ^ 1) # 10 << (5 ^ 2) # 4
`,

	"operators": "OPERATORS\n\n" + OperatorIndex(),

	"diagnostics": `DIAGNOSTICS

E_LEX        unexpected character or unterminated string      exit 65
E_PARSE      malformed program; all parse errors are listed    exit 65
E_UNDEFINED  read or assignment of an unbound variable         exit 70
E_TYPE       operand of the wrong type                         exit 70
E_SHAPE      flow lengths do not fit the operator              exit 70
E_IO         input cannot be read (66) or output written (74)
E_CONFIG     malformed config file                             exit 78
E_USAGE      bad command line                                  exit 64

'rflow check' reports E_LEX and E_PARSE only; the other codes appear
when the program runs. Use -p (or pretty: true in config) for
human-readable output, otherwise diagnostics are JSON.
`,

	"config": `CONFIG

rflow reads the first of:
  ./.rflow.yaml
  ~/.rflow/config.yaml

pretty: true      human-readable diagnostics
color: auto       auto | always | never
trace: ""         default NDJSON trace file for 'rflow run'
json: false       print values as JSON

Command-line flags override config. 'rflow config' shows the result.
`,

	"examples": `EXAMPLES

var x = 10;
{
  var x = 20;
}
print x;                        // 10

var upstream = (2 ^ 1) # 10;
var local = (5 ^ 2) # 4;
print upstream << local;

print [0, 0, 0, 0, 0, 0, 0, 0, 0, 0];
`,
}

type operator struct {
	symbol string
	left   string
	right  string
	result string
}

var operators = []operator{
	{"-", "", "number", "number"},
	{"!", "", "any", "boolean"},
	{"+", "number|string", "same", "number|string"},
	{"- * /", "number", "number", "number"},
	{"< <= > >=", "number", "number", "boolean"},
	{"== !=", "any", "any", "boolean"},
	{"^", "number", "number", "flow"},
	{"#", "flow", "number", "flow"},
	{"<<", "flow", "flow", "flow"},
}

// OperatorIndex returns a table of operators and their operand types.
func OperatorIndex() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-15s %-8s %s\n", "operator", "left", "right", "result")
	for _, op := range operators {
		left := op.left
		if left == "" {
			left = "(unary)"
		}
		fmt.Fprintf(&b, "%-12s %-15s %-8s %s\n", op.symbol, left, op.right, op.result)
	}
	fmt.Fprintf(&b, "\nTotal: %d\n", len(operators))
	return b.String()
}

// MatchTopic resolves an exact topic name or a unique prefix of one.
func MatchTopic(query string) (string, string, error) {
	if content, ok := Topics[query]; ok {
		return query, content, nil
	}

	var matches []string
	for name := range Topics {
		if query != "" && strings.HasPrefix(name, query) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", fmt.Errorf("unknown help topic %q", query)
	default:
		return "", "", fmt.Errorf("ambiguous help topic %q: %s", query, strings.Join(matches, ", "))
	}
}
