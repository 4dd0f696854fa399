package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// ── Unified output helpers ────────────────────────────────────────────────────
// Commands with a JSON contract keep stdout pure: exactly one JSON document
// per invocation, printed by printJSON. Human-facing status lines go to
// stderr.
//
// Icon semantics:
//   ✓  success
//   ✗  error / failure
//   ~  neutral info / state change

// printJSON writes v to stdout as a single compact JSON line. This is the
// frozen output path for resolve/inspect/caches; formatting must not vary
// between invocations.
func printJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot marshal output: %w", err)
	}
	_, err = os.Stdout.Write(append(b, '\n'))
	return err
}

// printOK prints a success line to stderr.
func printOK(msg string) {
	fmt.Fprintf(os.Stderr, "  ✓  %s\n", msg)
}

// printInfo prints a neutral informational line to stderr.
func printInfo(msg string) {
	fmt.Fprintf(os.Stderr, "  ~  %s\n", msg)
}
