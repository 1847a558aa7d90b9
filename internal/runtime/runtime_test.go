package runtime

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/syntax"
)

const testSource = "a = 1\n# note"

// newTestSession returns a session over testSource:
//
//	module
//	  assignment
//	    identifier "a"
//	    number "1"
//	  comment "# note"
func newTestSession(t *testing.T) *arbor.Session {
	t.Helper()
	root := syntax.Branch("module",
		syntax.Branch("assignment",
			syntax.Leaf("identifier", 0, 1),
			syntax.Leaf("number", 4, 5),
		),
		syntax.Leaf("comment", 6, 12),
	)
	s := arbor.NewSession(syntax.NewStaticTree("python", []byte(testSource), root))
	t.Cleanup(func() { s.Close() })
	return s
}

func runSession(t *testing.T, script string) (*arbor.Session, string) {
	t.Helper()
	s := newTestSession(t)
	var out bytes.Buffer
	rt := NewRuntime(s, "", WithOutput(&out))
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
	return s, out.String()
}

// --- Session host functions ---

func TestRunSource_Navigation(t *testing.T) {
	t.Parallel()

	s, _ := runSession(t, `
c := cursor()
assert(c["id"] == "/", 'expected root, got {c["id"]}')
assert(c["kind"] == "module")

c = move_down()
assert(c["id"] == "/0", 'expected /0, got {c["id"]}')
c = move_down()
assert(c["kind"] == "identifier")
assert(c["leaf"])
assert(c["text"] == "a")

c = move_right()
assert(c["id"] == "/0/1")
c = move_right()
assert(c["id"] == "/0/1", "move_right at last sibling is a no-op")

c = move_left()
c = move_left()
assert(c["id"] == "/0", "move_left at first child falls back to parent")

c = move_up()
assert(c["id"] == "/")
`)
	assert.Equal(t, syntax.ID("/"), s.Cursor().ID())
}

func TestRunSource_NodeMapFields(t *testing.T) {
	t.Parallel()

	runSession(t, `
assert(jump("/1"))
c := cursor()
assert(c["kind"] == "comment")
assert(c["depth"] == 1)
assert(c["start_row"] == 1)
assert(c["start_col"] == 0)
assert(c["end_row"] == 1)
assert(c["end_col"] == 6)
assert(c["child_count"] == 0)
assert(c["named"])
assert(c["text"] == "# note")
`)
}

func TestRunSource_FoldAndPosition(t *testing.T) {
	t.Parallel()

	s, _ := runSession(t, `
move_down()
toggle_fold()
assert(len(rows()) == 3, 'expected 3 rows, got {len(rows())}')
assert(position() == 1)

c := move_down()
assert(c["id"] == "/0", "move_down on a folded node is a no-op")

expand_all()
assert(len(rows()) == 5)

collapse_all()
assert(len(rows()) == 3)
assert(stats()["collapsed"] == 1)
`)
	assert.Equal(t, 1, s.Collapsed().Len())
}

func TestRunSource_JumpReveals(t *testing.T) {
	t.Parallel()

	runSession(t, `
collapse_all()
assert(jump("/0/1"))
assert(position() == 3, 'expected 3, got {position()}')
assert(!jump("/7"))
assert(!jump("not-an-id"))
`)
}

func TestRunSource_SelectionAndDetails(t *testing.T) {
	t.Parallel()

	runSession(t, `
assert(selection() == nil)
assert(details() == nil)

jump("/0")
toggle_select()
sel := selection()
assert(sel["id"] == "/0")

d := details()
assert(d["kind"] == "assignment")
assert(d["span"] == "[0:0 - 0:5]", 'got {d["span"]}')
assert(d["text"] == "a = 1")

r := rows()
assert(r[1]["selected"])
assert(r[1]["cursor"])

toggle_select()
assert(selection() == nil)
`)
}

func TestRunSource_Viewport(t *testing.T) {
	t.Parallel()

	runSession(t, `
jump("/1")
off := follow(3)
assert(off == 4, 'expected 4, got {off}')
assert(offset() == 4)

window := rows(3)
assert(len(window) == 1)
assert(window[0]["id"] == "/1")

scroll_up()
assert(offset() == 3)
scroll_down()
assert(offset() == 4)
`)
}

func TestRunSource_Stats(t *testing.T) {
	t.Parallel()

	runSession(t, `
st := stats()
assert(st["nodes"] == 5)
assert(st["visible"] == 5)
assert(st["max_depth"] == 2)
assert(st["errors"] == 0)
assert(source() == "a = 1\n# note")
assert(collapse_kind("assignment") == 1)
`)
}

func TestRunSource_EchoRows(t *testing.T) {
	t.Parallel()

	_, out := runSession(t, `
for _, row := range rows() {
    echo(row["line"])
}
echo("done", 2)
`)
	assert.Equal(t,
		"> [-] module [0:0..1:6] 2 \n"+
			"    [-] assignment [0:0..0:5] 2 \n"+
			"          identifier [0:0..0:1] 0 \"a\"\n"+
			"          number [0:4..0:5] 0 \"1\"\n"+
			"        comment [1:0..1:6] 0 \"# note\"\n"+
			"done 2\n",
		out)
}

func TestRunSource_QueryUnsupportedOnStaticTree(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	rt := NewRuntime(s, "", WithOutput(&bytes.Buffer{}))
	err := rt.RunSource(context.Background(), `query("(comment) @c")`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not support queries")
}

func TestRunSource_ArgumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
	}{
		{"jump without args", `jump()`},
		{"jump with int", `jump(1)`},
		{"follow with string", `follow("3")`},
		{"move with args", `move_down(1)`},
		{"rows with two args", `rows(1, 2)`},
		{"collapse_kind with int", `collapse_kind(1)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSession(t)
			rt := NewRuntime(s, "", WithOutput(&bytes.Buffer{}))
			assert.Error(t, rt.RunSource(context.Background(), tt.script, nil))
		})
	}
}

func TestRunSource_NoSession(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	rt := NewRuntime(nil, "", WithOutput(&out))
	require.NoError(t, rt.RunSource(context.Background(), `echo("hi")`, nil))
	assert.Equal(t, "hi\n", out.String())

	err := rt.RunSource(context.Background(), `cursor()`, nil)
	assert.Error(t, err)
}

func TestRunSource_ExtraGlobals(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	rt := NewRuntime(nil, "", WithOutput(&out))
	err := rt.RunSource(context.Background(), `echo(file_path)`, map[string]any{
		"file_path": "demo.py",
	})
	require.NoError(t, err)
	assert.Equal(t, "demo.py\n", out.String())
}

// --- Script loading ---

func TestRunScript_LoadsFile(t *testing.T) {
	dir := t.TempDir()

	scriptPath := filepath.Join(dir, "test.risor")
	if err := os.WriteFile(scriptPath, []byte(`result := 1 + 1`), 0644); err != nil {
		t.Fatalf("writing script: %v", err)
	}

	rt := NewRuntime(nil, dir)
	ctx := context.Background()

	err := rt.RunScript(ctx, "test.risor", nil)
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
}

func TestRunScript_MissingFile(t *testing.T) {
	rt := NewRuntime(nil, t.TempDir())
	ctx := context.Background()

	err := rt.RunScript(ctx, "nonexistent.risor", nil)
	if err == nil {
		t.Fatal("expected error for missing script, got nil")
	}
}

func TestLoadScript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.risor")
	content := `x := 42`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing: %v", err)
	}

	rt := NewRuntime(nil, dir)
	got, err := rt.LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if got != content {
		t.Errorf("LoadScript = %q, want %q", got, content)
	}
}

func TestBuiltinScriptPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "outline.risor", BuiltinScriptPath("outline"))
	assert.Equal(t, "outline.risor", BuiltinScriptPath("outline.risor"))
}

// --- fs.FS-based script loading tests ---

func TestLoadScript_FromFSFS(t *testing.T) {
	t.Parallel()

	content := `x := 42`
	mapFS := fstest.MapFS{
		"outline.risor": &fstest.MapFile{Data: []byte(content)},
	}

	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))

	got, err := rt.LoadScript("outline.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLoadScript_FromFSFS_NotFound(t *testing.T) {
	t.Parallel()

	mapFS := fstest.MapFS{}
	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))

	_, err := rt.LoadScript("nonexistent.risor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from fs")
}

func TestLoadScript_FromFSFS_StripsLeadingSeparator(t *testing.T) {
	t.Parallel()

	content := `y := 99`
	mapFS := fstest.MapFS{
		"lib/outline.risor": &fstest.MapFile{Data: []byte(content)},
	}

	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))

	got, err := rt.LoadScript("/lib/outline.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestRunScript_FromFSFS(t *testing.T) {
	mapFS := fstest.MapFS{
		"test.risor": &fstest.MapFile{Data: []byte(`result := 1 + 1`)},
	}

	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))
	err := rt.RunScript(context.Background(), "test.risor", nil)
	require.NoError(t, err)
}

// --- Importer wiring tests ---

func TestImport_FSImporter(t *testing.T) {
	// Risor's FSImporter resolves "lib_helpers" by trying name + ".risor",
	// so the file must be at the flat path "lib_helpers.risor" in the FS.
	mapFS := fstest.MapFS{
		"lib_helpers.risor": &fstest.MapFile{Data: []byte(`
func greet(name) {
	return "hello " + name
}
`)},
	}

	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))

	script := `
import lib_helpers

msg := lib_helpers.greet("world")
assert(msg == "hello world", 'expected "hello world", got ' + msg)
`
	err := rt.RunSource(context.Background(), script, nil)
	require.NoError(t, err)
}

func TestImport_LocalImporter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math_utils.risor"), []byte(`
func double(x) {
	return x * 2
}
`), 0644))

	rt := NewRuntime(nil, dir)

	script := `
import math_utils

result := math_utils.double(21)
assert(result == 42, 'expected 42, got {result}')
`
	err := rt.RunSource(context.Background(), script, nil)
	require.NoError(t, err)
}

func TestImport_GlobalsAvailableInImportedModules(t *testing.T) {
	// Imported modules compile against the host globals, so a helper
	// module can drive the session.
	mapFS := fstest.MapFS{
		"walker.risor": &fstest.MapFile{Data: []byte(`
func first_leaf() {
	c := cursor()
	for !c["leaf"] {
		c = move_down()
	}
	log.Info("found " + c["kind"])
	return c
}
`)},
	}

	s := newTestSession(t)
	rt := NewRuntime(s, "", WithRuntimeFS(mapFS))

	script := `
import walker
leaf := walker.first_leaf()
assert(leaf["id"] == "/0/0", 'got {leaf["id"]}')
`
	err := rt.RunSource(context.Background(), script, nil)
	require.NoError(t, err)
}

func TestNewRuntime_Defaults(t *testing.T) {
	t.Parallel()

	rt := NewRuntime(nil, "/some/dir")
	require.NotNil(t, rt)
	assert.Nil(t, rt.fsys)
	assert.Nil(t, rt.session)
	assert.Equal(t, "/some/dir", rt.scriptsDir)
	assert.NotNil(t, rt.out)
	assert.NotNil(t, rt.log)
}
