package domain

import (
	"fmt"
	"strings"

	"hotsplit.dev/pkg/hotsplit/pkg/patchtext"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// synthesizeLocals renders the locals module: the original source with the
// entry statement removed and the sealed accessor-object export appended.
func synthesizeLocals(src string, ep entryPoint, bindings m.Bindings) (string, error) {
	buf := patchtext.New(src)

	start, end := ep.stmt.Bounds()
	if err := buf.Remove(start, end); err != nil {
		return "", fmt.Errorf("failed to drop entry statement: %w", err)
	}

	buf.Append(localsExport(bindings))

	return buf.Render(), nil
}

// localsExport builds the accessor-object export. Readonly bindings become
// plain properties; mutable ones become getter/setter pairs so the main
// module observes and performs reassignment through the object.
func localsExport(bindings m.Bindings) string {
	var b strings.Builder

	b.WriteString("\nexport default Object.seal({\n")

	for _, bd := range bindings {
		key := accessorKey(bd.Name)

		if bd.Mutable {
			fmt.Fprintf(&b, "  get %s() { return %s; },\n", key, bd.Name)
			fmt.Fprintf(&b, "  set %s(v) { %s = v; },\n", key, bd.Name)
		} else {
			fmt.Fprintf(&b, "  %s: %s,\n", key, bd.Name)
		}
	}

	b.WriteString("});\n")

	return b.String()
}

// accessorKey quotes binding names that are not plain identifiers, such as
// property-path targets.
func accessorKey(name string) string {
	if isIdentName(name) {
		return name
	}

	return `"` + name + `"`
}

func isIdentName(name string) bool {
	if name == "" {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]

		alpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
		if alpha {
			continue
		}

		if i > 0 && c >= '0' && c <= '9' {
			continue
		}

		return false
	}

	return true
}
