package domain

import (
	"fmt"

	"hotsplit.dev/pkg/hotsplit/pkg/patchtext"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// synthesizeMain renders the main module: everything outside the entry call
// is dropped, the call wrapper is replaced by a default export taking the
// accessor object, and free references inside the argument are rewritten.
func synthesizeMain(src string, ep entryPoint, bindings m.Bindings, localsName string) (string, error) {
	buf := patchtext.New(src)

	callStart, callEnd := ep.call.Bounds()
	argStart, argEnd := ep.arg.Bounds()

	if callStart > 0 {
		if err := buf.Remove(0, callStart); err != nil {
			return "", fmt.Errorf("failed to drop leading source: %w", err)
		}
	}

	if callEnd < len(src) {
		if err := buf.Remove(callEnd, len(src)); err != nil {
			return "", fmt.Errorf("failed to drop trailing source: %w", err)
		}
	}

	if err := buf.Replace(callStart, argStart, "export default ("+localsName+") => "); err != nil {
		return "", fmt.Errorf("failed to rewrite call wrapper: %w", err)
	}

	if argEnd < callEnd {
		if err := buf.Remove(argEnd, callEnd); err != nil {
			return "", fmt.Errorf("failed to drop remaining arguments: %w", err)
		}
	}

	if err := rewriteEntryArg(buf, src, ep.arg, bindings, localsName); err != nil {
		return "", err
	}

	buf.Append(";\n")

	return buf.Render(), nil
}
