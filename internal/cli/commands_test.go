package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/charmbracelet/log"

	jerrors "github.com/matzehuels/jyotish/pkg/errors"
)

var birthArgs = []string{"--date", "1990-02-05", "--time", "14:30", "--tz", "UTC", "--lat", "28.61", "--lon", "77.21"}

// execute runs the root command in an isolated environment and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)

	var out, logs bytes.Buffer
	c := New(&logs, log.WarnLevel)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func birth(cmd string, extra ...string) []string {
	args := append([]string{cmd}, birthArgs...)
	return append(args, extra...)
}

func TestChartCommandJSON(t *testing.T) {
	out, err := execute(t, birth("chart", "--no-cache", "-o", "json")...)
	if err != nil {
		t.Fatalf("chart error: %v", err)
	}

	var got struct {
		Positions []map[string]any `json:"positions"`
		Houses    []map[string]any `json:"houses"`
		Dasha     []map[string]any `json:"dasha"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got.Positions) != 9 {
		t.Errorf("positions = %d, want 9", len(got.Positions))
	}
	if len(got.Houses) != 12 {
		t.Errorf("houses = %d, want 12", len(got.Houses))
	}
	if len(got.Dasha) != 9 {
		t.Errorf("mahadashas = %d, want 9", len(got.Dasha))
	}
}

func TestChartCommandSections(t *testing.T) {
	out, err := execute(t, birth("chart", "--no-cache", "-o", "json", "--sections", "panchanga")...)
	if err != nil {
		t.Fatalf("chart error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if _, ok := got["panchanga"]; !ok {
		t.Error("requested panchanga section missing")
	}
	for _, key := range []string{"dasha", "yogas", "strengths", "divisional"} {
		if _, ok := got[key]; ok {
			t.Errorf("section %q should be omitted", key)
		}
	}
}

func TestChartCommandTable(t *testing.T) {
	out, err := execute(t, birth("chart", "--no-cache")...)
	if err != nil {
		t.Fatalf("chart error: %v", err)
	}
	for _, want := range []string{"Ascendant", "Positions", "Houses", "Aspects", "Saturn"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}

func TestSectionCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"varga", birth("varga", "--charts", "D9"), []string{"Navamsa", "Vargottama"}},
		{"dasha", birth("dasha", "--depth", "2"), []string{"Vimshottari Dasha", "Antardasha"}},
		{"strength", birth("strength"), []string{"Shadbala", "Bhava Bala", "Ashtakavarga"}},
		{"yoga", birth("yoga"), []string{"Yoga"}},
		{"panchanga", birth("panchanga"), []string{"Tithi", "Nakshatra", "Karana", "Vaara"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append(tt.args, "--no-cache")...)
			if err != nil {
				t.Fatalf("%s error: %v", tt.name, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestVargaCommandYAML(t *testing.T) {
	out, err := execute(t, birth("varga", "--no-cache", "--charts", "D9,D10", "-o", "yaml")...)
	if err != nil {
		t.Fatalf("varga error: %v", err)
	}

	var got struct {
		Charts map[string]any `yaml:"charts"`
	}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(got.Charts) != 2 || got.Charts["D9"] == nil || got.Charts["D10"] == nil {
		t.Errorf("charts = %v, want D9 and D10", got.Charts)
	}
}

func TestAspectsCommandWritesDOT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aspects.dot")
	if _, err := execute(t, birth("aspects", "--no-cache", "-f", "dot", "-o", path)...); err != nil {
		t.Fatalf("aspects error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("output should be DOT source, got %.40q", data)
	}
}

func TestAspectsCommandRejectsFormat(t *testing.T) {
	if _, err := execute(t, birth("aspects", "--no-cache", "-f", "gif")...); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestCommandValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code jerrors.Code
	}{
		{"ayanamsa", birth("chart", "--ayanamsa", "tropical"), jerrors.ErrCodeInvalidOption},
		{"house system", birth("chart", "--houses", "placidus"), jerrors.ErrCodeInvalidOption},
		{"depth", birth("dasha", "--depth", "7"), jerrors.ErrCodeInvalidOption},
		{"chart id", birth("varga", "--charts", "D61"), jerrors.ErrCodeInvalidOption},
		{"timezone", []string{"chart", "--date", "1990-02-05", "--tz", "Mars/Olympus", "--lat", "0", "--lon", "0"}, jerrors.ErrCodeInvalidTimezone},
		{"latitude", []string{"chart", "--date", "1990-02-05", "--tz", "UTC", "--lat", "91", "--lon", "0"}, jerrors.ErrCodeInvalidCoordinates},
		{"date", []string{"chart", "--date", "1990-13-40", "--tz", "UTC", "--lat", "0", "--lon", "0"}, jerrors.ErrCodeInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(tt.args, "--no-cache")...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := jerrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestCommandRequiresBirthData(t *testing.T) {
	_, err := execute(t, "chart", "--tz", "UTC", "--lat", "0", "--lon", "0")
	if err == nil || !strings.Contains(err.Error(), "date") {
		t.Errorf("error = %v, want missing --date", err)
	}
}

func TestCommandRejectsOutputFormat(t *testing.T) {
	if _, err := execute(t, birth("chart", "--no-cache", "-o", "xml")...); err == nil {
		t.Error("expected error for unsupported output format")
	}
}

func TestChartCommandCachesResults(t *testing.T) {
	dir := isolate(t)
	cacheDir := filepath.Join(dir, "charts")
	t.Setenv("JYOTISH_CACHE_DIR", cacheDir)

	run := func() string {
		var out bytes.Buffer
		c := New(&bytes.Buffer{}, log.WarnLevel)
		root := c.RootCommand()
		root.SetOut(&out)
		root.SetArgs(birth("chart"))
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("chart error: %v", err)
		}
		return out.String()
	}

	if out := run(); strings.Contains(out, "cached") {
		t.Errorf("first run should compute:\n%s", out)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache dir should hold entries (err: %v)", err)
	}
	if out := run(); !strings.Contains(out, "cached") {
		t.Errorf("second run should be served from cache:\n%s", out)
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want, _ := cacheDir()
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestConfigFlagAppliesDefaults(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "ayanamsa = \"raman\"\n[cache]\nbackend = \"none\"\n")

	var out bytes.Buffer
	c := New(&bytes.Buffer{}, log.WarnLevel)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetArgs(append([]string{"--config", path}, birth("chart", "-o", "json", "--sections", "")...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("chart error: %v", err)
	}

	var got struct {
		Context struct {
			AyanamsaMode string `json:"ayanamsa_mode"`
		} `json:"context"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Context.AyanamsaMode != "raman" {
		t.Errorf("ayanamsa_mode = %q, want raman from config", got.Context.AyanamsaMode)
	}
}

func TestCacheClearCommand(t *testing.T) {
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	dir, _ := cacheDir()
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should exist after clear: %v", err)
	}
}

func TestFlagCompletion(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		exclude string
	}{
		{"houses", []string{"__complete", "chart", "--houses", ""}, []string{"whole_sign", "equal", "sripati"}, ""},
		{"ayanamsa", []string{"__complete", "dasha", "--ayanamsa", ""}, []string{"lahiri", "fagan_bradley"}, ""},
		{"output", []string{"__complete", "yoga", "-o", ""}, []string{"table", "json", "yaml"}, ""},
		{"chart charts", []string{"__complete", "chart", "--charts", ""}, []string{"D9\tNavamsa", "D60"}, "all\t"},
		{"varga charts", []string{"__complete", "varga", "--charts", ""}, []string{"all\t", "D10\tDasamsa"}, ""},
		{"sections", []string{"__complete", "chart", "--sections", ""}, []string{"divisional", "panchanga"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("completion error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("completions missing %q:\n%s", want, out)
				}
			}
			if tt.exclude != "" && strings.Contains(out, tt.exclude) {
				t.Errorf("completions should not offer %q:\n%s", tt.exclude, out)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "jyotish") {
		t.Error("bash completion should reference the jyotish command")
	}
}
