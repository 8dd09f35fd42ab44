package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/hyprswitch/internal/types"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
switch:
  switchType: workspace
  sortRecent: true
  filterSameMonitor: true
  ignoreWorkspaces: [scratch]
gui:
  showTitle: false
  sizeFactor: 4.5
  workspacesPerRow: 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Switch.SwitchType != types.SwitchWorkspace {
		t.Errorf("expected workspace switch type, got %s", cfg.Switch.SwitchType)
	}
	if !cfg.Switch.SortRecent || !cfg.Switch.FilterSameMonitor {
		t.Error("expected sortRecent and filterSameMonitor to be set")
	}
	if len(cfg.Switch.IgnoreWorkspaces) != 1 || cfg.Switch.IgnoreWorkspaces[0] != "scratch" {
		t.Errorf("unexpected ignoreWorkspaces: %v", cfg.Switch.IgnoreWorkspaces)
	}
	if cfg.Gui.ShowTitle {
		t.Error("expected showTitle false")
	}
	if cfg.Gui.SizeFactor != 4.5 || cfg.Gui.WorkspacesPerRow != 3 {
		t.Errorf("unexpected gui config: %+v", cfg.Gui)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeTemp(t, "config.json", `{
  "switch": {"switchType": "monitor"},
  "gui": {"showTitle": true, "sizeFactor": 6, "workspacesPerRow": 5}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Switch.SwitchType != types.SwitchMonitor {
		t.Errorf("expected monitor switch type, got %s", cfg.Switch.SwitchType)
	}
}

func TestLoad_InvalidSwitchType(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
switch:
  switchType: nonsense
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown switch type")
	}
}

func TestLoad_InvalidGui(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
gui:
  sizeFactor: -1
  workspacesPerRow: 5
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative sizeFactor")
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "config.toml", `switchType = "client"`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Switch.SwitchType != types.SwitchClient {
		t.Errorf("default switch type should be client, got %s", cfg.Switch.SwitchType)
	}
	if cfg.Gui.SizeFactor != 6 || cfg.Gui.WorkspacesPerRow != 5 || !cfg.Gui.ShowTitle {
		t.Errorf("unexpected gui defaults: %+v", cfg.Gui)
	}
}
