package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/store"
)

const sampleDoc = `{
	"id": "sample",
	"current_link_type": "linear",
	"nodes": [
		{"id": "a", "scene_position": {"x": 0, "y": 0}, "caption": "Noise", "category": "Generator",
		 "ports": [{"id": "out", "caption": "out", "direction": "out", "data_type": "float"}]},
		{"id": "b", "scene_position": {"x": 300, "y": 0}, "caption": "Preview", "category": "Debug",
		 "ports": [{"id": "in", "caption": "in", "direction": "in", "data_type": "float"}]}
	],
	"links": [{"node_out_id": "a", "port_out_id": "out", "node_in_id": "b", "port_in_id": "in"}],
	"groups": [{"caption": "inputs", "position": {"x": -20, "y": -40}, "width": 200, "height": 200}],
	"comments": [{"comment_text": "first line\nsecond", "position": {"x": 0, "y": 300}}]
}`

const brokenLinkDoc = `{
	"nodes": [{"id": "a", "caption": "A", "ports": [{"id": "out", "direction": "out", "data_type": "float"}]}],
	"links": [{"node_out_id": "a", "port_out_id": "out", "node_in_id": "zz", "port_in_id": "in"}]
}`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the CLI with args and returns the command output. Status
// lines are discarded.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := stdout
	stdout = io.Discard
	t.Cleanup(func() { stdout = prev })

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidate(t *testing.T) {
	good := writeDoc(t, "good.json", sampleDoc)
	broken := writeDoc(t, "broken.json", brokenLinkDoc)
	garbage := writeDoc(t, "garbage.json", "not json")

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"valid", []string{"validate", good}, ""},
		{"skipped link is lenient", []string{"validate", broken}, ""},
		{"skipped link strict", []string{"validate", "--strict", broken}, errors.ErrCodeInvalidDocument},
		{"not json", []string{"validate", garbage}, errors.ErrCodeInvalidDocument},
		{"missing file", []string{"validate", filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestDot(t *testing.T) {
	path := writeDoc(t, "g.json", sampleDoc)

	out, err := execute(t, "dot", "--label", "demo", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"digraph root {", `label="demo";`, `"a" -> "b"`, `"a" [label="Noise(a)"];`} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}

	file := filepath.Join(t.TempDir(), "g.dot")
	if _, err := execute(t, "dot", "-o", file, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph root {") {
		t.Errorf("dot file = %q", data)
	}
}

func TestLayout(t *testing.T) {
	path := writeDoc(t, "g.json", sampleDoc)
	out, err := execute(t, "layout", path)
	if err != nil {
		t.Fatal(err)
	}
	if n := gjson.Get(out, "nodes.#").Int(); n != 2 {
		t.Errorf("nodes = %d", n)
	}
	if lt := gjson.Get(out, "links.0.type").String(); lt != "linear" {
		t.Errorf("link type = %q", lt)
	}
	if gjson.Get(out, "groups.0.caption").String() != "inputs" {
		t.Errorf("groups = %s", gjson.Get(out, "groups"))
	}
}

func TestLayoutStyle(t *testing.T) {
	path := writeDoc(t, "g.json", sampleDoc)
	styleFile := writeDoc(t, "style.toml", "[node]\nunknown_key = 1\n")
	if _, err := execute(t, "layout", "--style", styleFile, path); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("unknown style key: error = %v", err)
	}
}

func TestRoute(t *testing.T) {
	out, err := execute(t, "route", "0", "0", "100", "50")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), "M 0 0 C 50 0 50 50 100 50"; got != want {
		t.Errorf("route = %q, want %q", got, want)
	}

	if _, err := execute(t, "route", "--type", "zigzag", "0", "0", "1", "1"); !errors.Is(err, errors.ErrCodeInvalidLinkType) {
		t.Errorf("bad type: error = %v", err)
	}
	if _, err := execute(t, "route", "0", "0", "x", "1"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad coordinate: error = %v", err)
	}
}

func TestStyle(t *testing.T) {
	out, err := execute(t, "style")
	if err != nil {
		t.Fatal(err)
	}
	for _, table := range []string{"[node]", "[link]", "[group]", "[comment]"} {
		if !strings.Contains(out, table) {
			t.Errorf("style output missing %s", table)
		}
	}

	// The printed style must load back.
	path := writeDoc(t, "style.toml", out)
	again, err := execute(t, "style", "--from", path)
	if err != nil {
		t.Fatal(err)
	}
	if again != out {
		t.Error("style round trip changed the output")
	}
}

func TestStoreCommands(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, "g.json", sampleDoc)

	if _, err := execute(t, "store", "--store-dir", dir, "put", "--id", "demo", path); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "store", "--store-dir", dir, "put", path); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "store", "--store-dir", dir, "list")
	if err != nil {
		t.Fatal(err)
	}
	if out != "demo\nsample\n" {
		t.Errorf("list = %q", out)
	}

	out, err = execute(t, "store", "--store-dir", dir, "get", "demo")
	if err != nil {
		t.Fatal(err)
	}
	if gjson.Get(out, "id").String() != "demo" || gjson.Get(out, "nodes.#").Int() != 2 {
		t.Errorf("get = %s", out)
	}

	if _, err := execute(t, "store", "--store-dir", dir, "delete", "demo"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "store", "--store-dir", dir, "get", "demo"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("get after delete: error = %v", err)
	}
	if _, err := execute(t, "store", "--store", "tape", "list"); err == nil {
		t.Error("unknown store kind: expected error")
	}
}

func TestStoreFlagsEnv(t *testing.T) {
	t.Setenv("NODEGRAPH_STORE", "redis")
	t.Setenv("NODEGRAPH_REDIS_ADDR", "cache:6380")
	t.Setenv("NODEGRAPH_STORE_DIR", "/srv/graphs")

	cfg := (&storeFlags{}).config()
	if cfg.Kind != store.KindRedis || cfg.RedisAddr != "cache:6380" || cfg.Dir != "/srv/graphs" {
		t.Errorf("config = %+v", cfg)
	}

	cfg = (&storeFlags{kind: "file", redisAddr: "other:1"}).config()
	if cfg.Kind != store.KindFile || cfg.RedisAddr != "other:1" {
		t.Errorf("flags should win over env: %+v", cfg)
	}
}

func TestRenderFromCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := writeDoc(t, "g.json", sampleDoc)

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash([]byte(sampleDoc)), cache.ArtifactKeyOpts{Format: "svg"})
	if err := fc.Set(context.Background(), key, []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(t.TempDir(), "out.svg")
	if _, err := execute(t, "render", "-o", output, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg>cached</svg>" {
		t.Errorf("render output = %q", data)
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	dir := strings.TrimSpace(out)
	if filepath.Base(dir) != appName {
		t.Errorf("cache path = %q", dir)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = fc.Set(context.Background(), "artifact:x", []byte("x"), 0)
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := fc.Get(context.Background(), "artifact:x"); ok {
		t.Error("cache clear left an entry")
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the command name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell: expected error")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "graphs/a.json", "graphs/a.svg"},
		{"", "noext", "noext.svg"},
		{"x.svg", "graphs/a.json", "x.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, ".svg"); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}
