package domain

import (
	"hotsplit.dev/pkg/hotsplit/internal/script"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// extractBindings collects the top-level names that the locals module will
// expose, in declaration order. The entry statement itself and the entry
// identifier's own import are excluded; type-only imports contribute nothing.
func extractBindings(src string, prog *script.Program, ep entryPoint, entry string) (m.Bindings, error) {
	ex := &extractor{src: src, entry: entry}

	for _, s := range prog.Stmts {
		if s == script.Stmt(ep.stmt) {
			continue
		}

		if err := ex.stmt(s); err != nil {
			return nil, err
		}
	}

	return ex.bindings, nil
}

type extractor struct {
	src      string
	entry    string
	bindings m.Bindings
}

// add records a binding. Repeated names coexist, mirroring redeclaration in
// the locals module's own scope; the later accessor wins at runtime.
func (ex *extractor) add(name string, mutable bool) {
	ex.bindings = append(ex.bindings, m.Binding{Name: name, Mutable: mutable})
}

func (ex *extractor) stmt(s script.Stmt) error {
	switch d := s.(type) {
	case *script.ImportDecl:
		ex.importDecl(d)
	case *script.VarDecl:
		return ex.varDecl(d)
	case *script.FuncDecl:
		ex.add(d.Name.Name, false)
	case *script.ClassDecl:
		if d.Name != "" {
			ex.add(d.Name, false)
		}
	case *script.ExportDecl:
		if d.Decl != nil {
			return ex.stmt(d.Decl)
		}
	}

	return nil
}

func (ex *extractor) importDecl(d *script.ImportDecl) {
	if d.TypeOnly {
		return
	}

	locals := make([]string, 0, len(d.Named)+2)

	if d.Default != "" {
		locals = append(locals, d.Default)
	}

	if d.Namespace != "" {
		locals = append(locals, d.Namespace)
	}

	for _, spec := range d.Named {
		locals = append(locals, spec.Local)
	}

	for _, name := range locals {
		if name == ex.entry {
			continue
		}

		ex.add(name, false)
	}
}

func (ex *extractor) varDecl(d *script.VarDecl) error {
	mutable := d.Kw != "const"

	for _, decl := range d.Decls {
		if err := ex.target(decl.Target, mutable); err != nil {
			return err
		}
	}

	return nil
}

func (ex *extractor) target(p script.Pattern, mutable bool) error {
	switch t := p.(type) {
	case *script.Ident:
		ex.add(t.Name, mutable)
	case *script.MemberExpr:
		// Property-path targets are captured under their literal spelling;
		// the accessor key carries the dots.
		start, end := t.Bounds()
		ex.add(ex.src[start:end], mutable)
	case *script.ObjectPat:
		return ex.objectPat(t, mutable)
	case *script.ArrayPat:
		// Array destructuring contributes no bindings.
		return nil
	default:
		return unsupportedBindingShape(ex.src, p, p.Kind())
	}

	return nil
}

// objectPat names each entry after the source property key, not the rename
// target, so the accessor object mirrors the destructured shape.
func (ex *extractor) objectPat(p *script.ObjectPat, mutable bool) error {
	for _, prop := range p.Props {
		if prop.Rest != nil {
			id, ok := prop.Rest.(*script.Ident)
			if !ok {
				return unsupportedBindingShape(ex.src, prop.Rest, "non-identifier rest target")
			}

			ex.add(id.Name, mutable)

			continue
		}

		if prop.Computed {
			return unsupportedBindingShape(ex.src, prop.Key, "computed destructuring key")
		}

		key, ok := prop.Key.(*script.Ident)
		if !ok {
			return unsupportedBindingShape(ex.src, prop.Key, "non-identifier destructuring key")
		}

		ex.add(key.Name, mutable)
	}

	return nil
}
