// Package icons resolves window classes to freedesktop icon names by
// scanning .desktop entries, for GUI frontends and for the icon debug
// command. All lookups are read-only and rebuilt per call.
package icons

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yourusername/hyprswitch/internal/logging"
)

// MatchKind records which desktop entry field matched a class
type MatchKind string

const (
	MatchName           MatchKind = "name"
	MatchStartupWMClass MatchKind = "startupWMClass"
	MatchExec           MatchKind = "exec"
)

// DesktopFile is one parsed application entry
type DesktopFile struct {
	Path           string
	Name           string
	Icon           string
	StartupWMClass string
	Exec           string
}

// Match is the result of resolving a class against the desktop database
type Match struct {
	Icon string
	Kind MatchKind
	Path string
}

// applicationDirs lists the XDG locations holding .desktop files, most
// specific first.
func applicationDirs() []string {
	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}
	return dirs
}

// DesktopFiles parses every application entry visible in the XDG data dirs.
// Entries from earlier (more specific) directories win on name collisions.
func DesktopFiles() []DesktopFile {
	seen := make(map[string]bool)
	var files []DesktopFile

	for _, dir := range applicationDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".desktop") {
				continue
			}
			if seen[entry.Name()] {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			df, err := parseDesktopFile(path)
			if err != nil {
				logging.Debug().Err(err).Str("path", path).Msg("skipping desktop file")
				continue
			}
			seen[entry.Name()] = true
			files = append(files, df)
		}
	}
	return files
}

// IconName resolves a window class to an icon name via the desktop database.
// Match order: entry name, StartupWMClass, then the Exec binary.
func IconName(class string) (Match, error) {
	files := DesktopFiles()
	lower := strings.ToLower(class)

	for _, df := range files {
		if strings.ToLower(df.Name) == lower && df.Icon != "" {
			return Match{Icon: df.Icon, Kind: MatchName, Path: df.Path}, nil
		}
	}
	for _, df := range files {
		if strings.ToLower(df.StartupWMClass) == lower && df.Icon != "" {
			return Match{Icon: df.Icon, Kind: MatchStartupWMClass, Path: df.Path}, nil
		}
	}
	for _, df := range files {
		if df.Icon == "" || df.Exec == "" {
			continue
		}
		if strings.Contains(strings.ToLower(execBinary(df.Exec)), lower) {
			return Match{Icon: df.Icon, Kind: MatchExec, Path: df.Path}, nil
		}
	}
	return Match{}, fmt.Errorf("no desktop entry matches class %q", class)
}

// themeRoots lists the directories searched for theme icons, most specific
// first.
func themeRoots() []string {
	var roots []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		roots = append(roots, filepath.Join(dataHome, "icons"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".icons"))
	}
	return append(roots, "/usr/share/icons/hicolor", "/usr/share/icons", "/usr/share/pixmaps")
}

func isIconFile(name string) bool {
	switch filepath.Ext(name) {
	case ".png", ".svg", ".xpm":
		return true
	}
	return false
}

// ThemeHasIcon checks the hicolor theme and pixmaps for an icon by name.
// It is a cheap approximation of a full theme lookup, good enough to tell
// the user whether a name will render.
func ThemeHasIcon(name string) bool {
	for _, root := range themeRoots() {
		found := false
		filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			base := d.Name()
			if isIconFile(base) && strings.TrimSuffix(base, filepath.Ext(base)) == name {
				found = true
				return filepath.SkipAll
			}
			return nil
		})
		if found {
			return true
		}
	}
	return false
}

// ThemeIcons enumerates every icon name visible in the theme directories,
// sorted and deduplicated across sizes and roots.
func ThemeIcons() []string {
	seen := make(map[string]bool)
	var names []string

	for _, root := range themeRoots() {
		filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			base := d.Name()
			if !isIconFile(base) {
				return nil
			}
			name := strings.TrimSuffix(base, filepath.Ext(base))
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			return nil
		})
	}

	sort.Strings(names)
	return names
}

// parseDesktopFile reads the [Desktop Entry] section of a .desktop file
func parseDesktopFile(path string) (DesktopFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return DesktopFile{}, err
	}
	defer f.Close()

	df := DesktopFile{Path: path}
	inEntry := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			if df.Name == "" {
				df.Name = strings.TrimSpace(value)
			}
		case "Icon":
			df.Icon = strings.TrimSpace(value)
		case "StartupWMClass":
			df.StartupWMClass = strings.TrimSpace(value)
		case "Exec":
			df.Exec = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return DesktopFile{}, err
	}
	if df.Name == "" {
		return DesktopFile{}, fmt.Errorf("desktop file %s has no Name", path)
	}
	return df, nil
}

// execBinary strips arguments and field codes from an Exec line
func execBinary(exec string) string {
	fields := strings.Fields(exec)
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}
