package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thomasrohde/riverflow/internal/testutil"
	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/evaluator"
	"github.com/thomasrohde/riverflow/pkg/runtime"
)

func TestConformance(t *testing.T) {
	diagnostics.SetColor(false)

	dirs, err := testutil.ListScenarios(testutil.ScenariosDir)
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(dirs) == 0 {
		t.Fatal("no scenarios found")
	}

	for _, dir := range dirs {
		dir := dir
		t.Run(filepath.Base(dir), func(t *testing.T) {
			scenario, err := testutil.LoadScenario(dir)
			if err != nil {
				t.Fatalf("failed to load scenario: %v", err)
			}

			source, filename, err := testutil.ReadProgramFile(dir, scenario.Cmd)
			if err != nil {
				t.Fatalf("failed to read program file: %v", err)
			}

			pretty := false
			jsonValues := false
			for _, arg := range scenario.Cmd[1:] {
				switch arg {
				case "-p":
					pretty = true
				case "-j":
					jsonValues = true
				}
			}

			switch scenario.Cmd[0] {
			case "run":
				runRunScenario(t, source, filename, scenario, pretty, jsonValues)
			case "check":
				runCheckScenario(t, source, filename, scenario, pretty)
			default:
				t.Skipf("unsupported command: %s", scenario.Cmd[0])
			}
		})
	}
}

func runRunScenario(t *testing.T, source, filename string, scenario *testutil.Scenario, pretty, jsonValues bool) {
	t.Helper()

	var stdout bytes.Buffer
	rt := runtime.New(runtime.WithOutput(&stdout), runtime.WithJSONValues(jsonValues))
	_, err := rt.Run(source, filename)

	var diags []diagnostics.Diagnostic
	if err != nil {
		diags = diagnosticsOf(t, err)
	}
	checkExitCode(t, runtime.ExitCode(err), scenario)
	checkStdoutExpectations(t, stdout.String(), scenario)
	checkStderrExpectations(t, diags, scenario, pretty)
}

func runCheckScenario(t *testing.T, source, filename string, scenario *testutil.Scenario, pretty bool) {
	t.Helper()

	diags := runtime.New().Check(source, filename)
	checkExitCode(t, runtime.CheckExitCode(diags), scenario)

	stdout := ""
	if len(diags) == 0 {
		stdout = "[]\n"
		if pretty {
			stdout = "No errors found.\n"
		}
	}
	checkStdoutExpectations(t, stdout, scenario)
	checkStderrExpectations(t, diags, scenario, pretty)
}

func diagnosticsOf(t *testing.T, err error) []diagnostics.Diagnostic {
	t.Helper()
	var diagErr *runtime.DiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.Diagnostics
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return []diagnostics.Diagnostic{rtErr.Diagnostic()}
	}
	t.Fatalf("unexpected error type %T: %v", err, err)
	return nil
}

func checkExitCode(t *testing.T, got int, scenario *testutil.Scenario) {
	t.Helper()
	if got != scenario.Expect.ExitCode {
		t.Errorf("exit code: got %d, want %d", got, scenario.Expect.ExitCode)
	}
}

func checkStdoutExpectations(t *testing.T, stdout string, scenario *testutil.Scenario) {
	t.Helper()
	if want := scenario.Expect.StdoutText; want != nil && stdout != *want {
		t.Errorf("stdout:\n  got:  %q\n  want: %q", stdout, *want)
	}
	if want := scenario.Expect.StdoutContains; want != "" && !strings.Contains(stdout, want) {
		t.Errorf("stdout should contain %q, got: %q", want, stdout)
	}
}

func checkStderrExpectations(t *testing.T, diags []diagnostics.Diagnostic, scenario *testutil.Scenario, pretty bool) {
	t.Helper()

	stderr := ""
	if len(diags) > 0 {
		stderr = diagnostics.FormatDiagnostics(diags, pretty)
	}
	if want := scenario.Expect.StderrContains; want != "" && !strings.Contains(stderr, want) {
		t.Errorf("stderr should contain %q, got: %s", want, stderr)
	}

	if len(scenario.Expect.StderrJSONSubset) == 0 {
		return
	}
	actual, _ := normalize(t, diags).([]any)
	for _, want := range scenario.Expect.StderrJSONSubset {
		expected := normalize(t, want)
		found := false
		for _, got := range actual {
			if isSubset(expected, got) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("stderr JSON subset not found: %v in %v", expected, actual)
		}
	}
}

// normalize round-trips v through JSON so YAML integers and Go structs
// compare as the generic values encoding/json produces.
func normalize(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal %v: %v", v, err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("failed to unmarshal %s: %v", b, err)
	}
	return out
}

// isSubset checks if expected is a subset of actual.
func isSubset(expected, actual any) bool {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for k, ev := range e {
			av, exists := a[k]
			if !exists || !isSubset(ev, av) {
				return false
			}
		}
		return true

	case []any:
		a, ok := actual.([]any)
		if !ok || len(e) > len(a) {
			return false
		}
		for i, ev := range e {
			if !isSubset(ev, a[i]) {
				return false
			}
		}
		return true

	default:
		return expected == actual
	}
}
