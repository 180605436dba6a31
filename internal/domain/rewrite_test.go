package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotsplit.dev/pkg/hotsplit/internal/adapter"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

func mainOf(t *testing.T, src string) string {
	t.Helper()

	sp := NewSplitter(adapter.NewLocalScriptFileAdapter())

	split, err := sp.Split(context.Background(), m.Script{Path: "app.ts", Source: src})
	require.NoError(t, err)

	return split.Main.Source
}

func TestRewriteInitializerReadsOuterBinding(t *testing.T) {
	main := mainOf(t, `let x = 1;
app(() => {
  let x = x + 1;
  return x;
});
`)

	assert.Contains(t, main, "let x = (locals.x) + 1;")
	assert.Contains(t, main, "return x;")
	assert.NotContains(t, main, "return (locals.x);")
}

func TestRewriteParameterShadowing(t *testing.T) {
	main := mainOf(t, `let x = 1;
let y = 2;
app((x) => x + y);
`)

	assert.Contains(t, main, "x + (locals.y)")
	assert.NotContains(t, main, "(locals.x)")
}

func TestRewriteDefaultParamSeesOuter(t *testing.T) {
	main := mainOf(t, `const base = 10;
app((n = base) => n);
`)

	assert.Contains(t, main, "(n = (locals.base)) => n")
}

func TestRewriteNestedFunctionShadowing(t *testing.T) {
	main := mainOf(t, `const v = 1;
app(() => {
  const inner = (v) => v * 2;
  return inner(v);
});
`)

	assert.Contains(t, main, "(v) => v * 2")
	assert.Contains(t, main, "inner((locals.v))")
}

func TestRewriteForOfTargetScopedToBody(t *testing.T) {
	main := mainOf(t, `const item = 0;
const items = [];
app(() => {
  for (const item of items) {
    push(item);
  }
  return item;
});
`)

	assert.Contains(t, main, "of (locals.items)")
	assert.Contains(t, main, "push(item);")
	assert.Contains(t, main, "return (locals.item);")
}

func TestRewriteForInTargetScopedToBody(t *testing.T) {
	main := mainOf(t, `const key = "";
const table = {};
app(() => {
  for (const key in table) {
    visit(key);
  }
  return key;
});
`)

	assert.Contains(t, main, "in (locals.table)")
	assert.Contains(t, main, "visit(key);")
	assert.Contains(t, main, "return (locals.key);")
}

func TestRewriteCatchParamScopedToCatchBody(t *testing.T) {
	main := mainOf(t, `const err = null;
app(() => {
  try {
    risky();
  } catch (err) {
    report(err);
  }
  return err;
});
`)

	assert.Contains(t, main, "report(err);")
	assert.Contains(t, main, "return (locals.err);")
}

func TestRewriteBlockScopeDoesNotLeak(t *testing.T) {
	main := mainOf(t, `const v = 1;
app(() => {
  {
    let v = 2;
    use(v);
  }
  return v;
});
`)

	assert.Contains(t, main, "use(v);")
	assert.Contains(t, main, "return (locals.v);")
}

func TestRewriteHoistedFunctionDeclaration(t *testing.T) {
	main := mainOf(t, `const helper = 1;
app(() => {
  return helper();
  function helper() {}
});
`)

	assert.Contains(t, main, "return helper();")
	assert.NotContains(t, main, "(locals.helper)")
}

func TestRewriteShorthandProperty(t *testing.T) {
	main := mainOf(t, `const size = 10;
app(() => ({ size }));
`)

	assert.Contains(t, main, "({ size: (locals.size) })")
}

func TestRewriteShorthandShadowedUntouched(t *testing.T) {
	main := mainOf(t, `const size = 10;
app((size) => ({ size }));
`)

	assert.Contains(t, main, "({ size })")
	assert.NotContains(t, main, "locals.size")
}

func TestRewriteDestructuringAssignmentTarget(t *testing.T) {
	main := mainOf(t, `let count = 0;
app((src) => {
  ({ count } = src);
});
`)

	assert.Contains(t, main, "({ count: (locals.count) } = src)")
}

func TestRewriteMemberPropertyNotSubstituted(t *testing.T) {
	main := mainOf(t, `const mode = "fast";
app((obj) => obj.mode + mode);
`)

	assert.Contains(t, main, "obj.mode + (locals.mode)")
}

func TestRewriteObjectKeysNotSubstituted(t *testing.T) {
	main := mainOf(t, `const mode = "fast";
app(() => ({ mode: mode, [mode]: 1 }));
`)

	assert.Contains(t, main, "mode: (locals.mode)")
	assert.Contains(t, main, "[(locals.mode)]: 1")
}

func TestRewriteTemplateInterpolation(t *testing.T) {
	main := mainOf(t, "const who = \"dev\";\napp(() => `hi ${who}!`);\n")

	assert.Contains(t, main, "`hi ${(locals.who)}!`")
}

func TestRewriteUpdateAndCompoundAssign(t *testing.T) {
	main := mainOf(t, `let n = 0;
app(() => {
  n++;
  n += 2;
});
`)

	assert.Contains(t, main, "(locals.n)++")
	assert.Contains(t, main, "(locals.n) += 2")
}

func TestRewriteTypeOnlyNamesUntouched(t *testing.T) {
	main := mainOf(t, `import type { Config } from "./types";
const limit = 5;
app((c: Config): number => limit);
`)

	assert.Contains(t, main, "(c: Config): number => (locals.limit)")
}

func TestRewriteFunctionTypedBindings(t *testing.T) {
	main := mainOf(t, `let log: (msg: string) => void = noop;
app((done: () => void) => {
  log("ready");
  done();
});
`)

	assert.Contains(t, main, "(done: () => void) =>")
	assert.Contains(t, main, `(locals.log)("ready")`)
	assert.Contains(t, main, "done();")
	assert.NotContains(t, main, "locals.done")
}

func TestRewriteSwitchSharesOneScope(t *testing.T) {
	main := mainOf(t, `const flag = 1;
app((mode) => {
  switch (mode) {
  case 1:
    let flag = 2;
    return flag;
  default:
    return flag;
  }
});
`)

	assert.Contains(t, main, "let flag = 2;")
	assert.NotContains(t, main, "(locals.flag)")
}
