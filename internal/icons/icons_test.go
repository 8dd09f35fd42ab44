package icons

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeDesktopFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write desktop file: %v", err)
	}
}

func setupApplications(t *testing.T) string {
	t.Helper()
	dataHome := t.TempDir()
	apps := filepath.Join(dataHome, "applications")
	if err := os.MkdirAll(apps, 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_DATA_DIRS", "/nonexistent")
	return apps
}

func TestParseDesktopFile(t *testing.T) {
	apps := setupApplications(t)
	writeDesktopFile(t, apps, "firefox.desktop", `[Desktop Entry]
Name=Firefox
Icon=firefox
Exec=/usr/lib/firefox/firefox %u
StartupWMClass=firefox

[Desktop Action new-window]
Name=New Window
Icon=should-be-ignored
`)

	df, err := parseDesktopFile(filepath.Join(apps, "firefox.desktop"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if df.Name != "Firefox" || df.Icon != "firefox" || df.StartupWMClass != "firefox" {
		t.Errorf("unexpected entry: %+v", df)
	}
}

func TestParseDesktopFile_ActionSectionDoesNotLeak(t *testing.T) {
	apps := setupApplications(t)
	writeDesktopFile(t, apps, "term.desktop", `[Desktop Entry]
Name=Terminal
Icon=terminal

[Desktop Action other]
Icon=other-icon
`)

	df, err := parseDesktopFile(filepath.Join(apps, "term.desktop"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if df.Icon != "terminal" {
		t.Errorf("icon from action section leaked: %q", df.Icon)
	}
}

func TestIconName_MatchOrder(t *testing.T) {
	apps := setupApplications(t)
	writeDesktopFile(t, apps, "a.desktop", `[Desktop Entry]
Name=Foot
Icon=foot-icon
Exec=foot
`)
	writeDesktopFile(t, apps, "b.desktop", `[Desktop Entry]
Name=Code Editor
Icon=code-icon
StartupWMClass=code-oss
Exec=/usr/bin/code-oss --wayland
`)

	m, err := IconName("foot")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if m.Icon != "foot-icon" || m.Kind != MatchName {
		t.Errorf("expected name match, got %+v", m)
	}

	m, err = IconName("code-oss")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if m.Icon != "code-icon" || m.Kind != MatchStartupWMClass {
		t.Errorf("expected StartupWMClass match, got %+v", m)
	}
}

func TestIconName_ExecFallback(t *testing.T) {
	apps := setupApplications(t)
	writeDesktopFile(t, apps, "mpv.desktop", `[Desktop Entry]
Name=Media Player
Icon=mpv-icon
Exec=/usr/bin/mpv --player-operation-mode=pseudo-gui %U
`)

	m, err := IconName("mpv")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if m.Icon != "mpv-icon" || m.Kind != MatchExec {
		t.Errorf("expected exec match, got %+v", m)
	}
}

func TestIconName_NoMatch(t *testing.T) {
	setupApplications(t)
	if _, err := IconName("definitely-not-installed"); err == nil {
		t.Fatal("expected error for unmatched class")
	}
}

func setupThemeIcons(t *testing.T, names ...string) {
	t.Helper()
	dataHome := t.TempDir()
	apps := filepath.Join(dataHome, "icons", "hicolor", "48x48", "apps")
	if err := os.MkdirAll(apps, 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_DATA_HOME", dataHome)
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(apps, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestThemeHasIcon(t *testing.T) {
	setupThemeIcons(t, "my-test-app.png", "readme.txt")

	if !ThemeHasIcon("my-test-app") {
		t.Error("installed icon not found")
	}
	if ThemeHasIcon("readme") {
		t.Error("non-icon file extension must not count as an icon")
	}
	if ThemeHasIcon("definitely-not-an-icon-name") {
		t.Error("missing icon reported as present")
	}
}

func TestThemeIcons_ListsInstalledNames(t *testing.T) {
	setupThemeIcons(t, "my-test-app.png", "my-other-app.svg", "my-test-app.svg")

	names := ThemeIcons()
	got := make(map[string]bool, len(names))
	for _, name := range names {
		got[name] = true
	}
	if !got["my-test-app"] || !got["my-other-app"] {
		t.Errorf("installed icons missing from listing: %v", names)
	}

	count := 0
	for _, name := range names {
		if name == "my-test-app" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("icon names must be deduplicated across formats, saw %d entries", count)
	}
	if !sort.StringsAreSorted(names) {
		t.Error("listing should be sorted")
	}
}

func TestDesktopFiles_EarlierDirWins(t *testing.T) {
	dataHome := t.TempDir()
	userApps := filepath.Join(dataHome, "applications")
	systemData := t.TempDir()
	systemApps := filepath.Join(systemData, "applications")
	for _, dir := range []string{userApps, systemApps} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_DATA_DIRS", systemData)

	writeDesktopFile(t, userApps, "app.desktop", "[Desktop Entry]\nName=User\nIcon=user-icon\n")
	writeDesktopFile(t, systemApps, "app.desktop", "[Desktop Entry]\nName=System\nIcon=system-icon\n")

	files := DesktopFiles()
	if len(files) != 1 {
		t.Fatalf("expected collision to collapse to 1 entry, got %d", len(files))
	}
	if files[0].Name != "User" {
		t.Errorf("user entry should shadow the system one, got %+v", files[0])
	}
}
