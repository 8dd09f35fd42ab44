package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yourusername/hyprswitch/internal/config"
	"github.com/yourusername/hyprswitch/internal/daemon"
	"github.com/yourusername/hyprswitch/internal/engine"
	"github.com/yourusername/hyprswitch/internal/hypr"
	"github.com/yourusername/hyprswitch/internal/icons"
	"github.com/yourusername/hyprswitch/internal/ipc"
	"github.com/yourusername/hyprswitch/internal/logging"
	"github.com/yourusername/hyprswitch/internal/notify"
	"github.com/yourusername/hyprswitch/internal/output"
	"github.com/yourusername/hyprswitch/internal/types"
)

var (
	socketPath string
	configPath string
	timeout    time.Duration
	jsonOutput bool
	noColor    bool
	debugMode  bool
	dryRun     bool

	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)

	// Navigation flags shared by dispatch and simple
	flagReverse       bool
	flagOffset        int
	flagSwitchType    string
	flagSameWorkspace bool
	flagSameMonitor   bool

	// Session display flags
	flagShowTitle        bool
	flagSizeFactor       float64
	flagWorkspacesPerRow int
	flagCustomCSS        string

	// Snapshot flags for simple and gui
	flagSortRecent       bool
	flagIncludeSpecial   bool
	flagIgnoreWorkspaces []string
	flagIgnoreMonitors   []string

	flagKill bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "hyprswitch",
	Short: "Window, workspace and monitor switcher for Hyprland",
	Long: `hyprswitch cycles focus between windows, workspaces or monitors on
Hyprland. It runs as a daemon holding an interactive switch session behind a
keyboard submap, or as a one-shot command that moves focus immediately.`,
	Version: "0.1.0",
}

// daemonCmd runs the long-lived process behind the IPC socket
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the switch daemon",
	Long: `Starts the daemon serving switch commands on a Unix socket. Keybinds
then talk to it via init, dispatch and close. A daemon that is already
running on the socket is left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			printError(fmt.Sprintf("Failed to load config: %v", err))
			return err
		}

		hyprClient, err := hypr.NewClient()
		if err != nil {
			printError(fmt.Sprintf("Hyprland not detected: %v", err))
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if version, err := hyprClient.CheckVersion(ctx); err != nil {
			logging.Warn().Err(err).Msg("could not query compositor version")
		} else {
			logging.Info().Str("version", version).Str("socket", hyprClient.SocketPath()).Msg("compositor detected")
		}

		d := daemon.New(cfg, hyprClient, hypr.NewApplier(hyprClient, dryRun))
		if err := d.Run(ctx, socketPath); err != nil {
			if errors.Is(err, ipc.ErrAlreadyRunning) {
				printWarn("Daemon already running")
				return nil
			}
			printError(fmt.Sprintf("Daemon failed: %v", err))
			return err
		}
		return nil
	},
}

// initCmd opens an interactive switch session with the daemon's stored config
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Open a switch session",
	Long: `Opens an interactive switch session: the daemon engages its keyboard
submap and subsequent dispatch commands only move the selection. The session
ends with close. Requires a running daemon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := ipc.NewClient(socketPath, timeout)
		defer c.Close()

		err := c.Init(context.Background(), ipc.InitParams{Gui: guiConfigFromFlags()})
		return reportSessionResult(err, "Switch session opened")
	},
}

// guiCmd opens a session with a full per-session configuration
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open a switch session with explicit configuration",
	Long: `Like init, but ships a complete switch configuration for this session
instead of using the daemon's stored one. A dead daemon raises a desktop
notification, since this command usually runs from a silent keybind.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ipc.DaemonRunning(socketPath) {
			notify.Errorf("hyprswitch daemon not running, start it with 'hyprswitch daemon'")
			printWarn("Daemon not running")
			return nil
		}

		cfg, err := switchConfigFromFlags()
		if err != nil {
			printError(err.Error())
			return err
		}

		c := ipc.NewClient(socketPath, timeout)
		defer c.Close()

		err = c.GuiInit(context.Background(), ipc.GuiInitParams{Config: cfg, Gui: guiConfigFromFlags()})
		return reportSessionResult(err, "Switch session opened")
	},
}

// dispatchCmd advances the selection by one step
var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Advance the selection by one step",
	Long: `Sends one navigation step to the daemon. Inside a session this moves
the highlighted selection; outside, the daemon switches focus immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := ipc.NewClient(socketPath, timeout)
		defer c.Close()

		switchType, err := parseSwitchTypeFlag()
		if err != nil {
			printError(err.Error())
			return err
		}

		result, err := c.Dispatch(context.Background(), ipc.DispatchParams{
			SwitchType: switchType,
			Command:    types.NewCommand(flagReverse, flagOffset, flagSameWorkspace, flagSameMonitor),
		})
		if err != nil {
			if errors.Is(err, ipc.ErrNotRunning) {
				printWarn("Daemon not running, use 'hyprswitch simple' for daemonless switching")
				return nil
			}
			if errors.Is(err, ipc.ErrNoCandidates) {
				printWarn("Nothing to switch to")
				return nil
			}
			printError(fmt.Sprintf("Dispatch failed: %v", err))
			return err
		}

		if jsonOutput {
			return output.PrintJSON(result)
		}
		if result.Applied {
			successColor.Printf("✓ Switched to %s\n", result.Target)
		} else {
			fmt.Printf("Selection: %s\n", result.Target)
		}
		return nil
	},
}

// closeCmd ends the session, applying or discarding the selection
var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "End the switch session",
	Long: `Ends the interactive session and releases the keyboard submap. The
last selection is applied unless --kill discards it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := ipc.NewClient(socketPath, timeout)
		defer c.Close()

		err := c.CloseSession(context.Background(), flagKill)
		switch {
		case err == nil:
			successColor.Println("✓ Switch session closed")
			return nil
		case errors.Is(err, ipc.ErrNotRunning):
			printWarn("Daemon not running")
			return nil
		case errors.Is(err, ipc.ErrNotActive):
			printWarn("No switch session active")
			return nil
		default:
			printError(fmt.Sprintf("Close failed: %v", err))
			return err
		}
	},
}

// simpleCmd switches focus without a daemon
var simpleCmd = &cobra.Command{
	Use:   "simple",
	Short: "Switch focus immediately, without the daemon",
	Long: `Queries Hyprland, resolves the next target and focuses it in one
shot. No daemon, no session, no submap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := switchConfigFromFlags()
		if err != nil {
			printError(err.Error())
			return err
		}

		hyprClient, err := hypr.NewClient()
		if err != nil {
			printError(fmt.Sprintf("Hyprland not detected: %v", err))
			return err
		}

		ctx := context.Background()
		data, ids, err := hyprClient.CollectData(ctx, hypr.CollectOptions{
			SortRecent:               cfg.SortRecent,
			IncludeSpecialWorkspaces: cfg.IncludeSpecialWorkspaces,
			IgnoreWorkspaces:         cfg.IgnoreWorkspaces,
			IgnoreMonitors:           cfg.IgnoreMonitors,
		})
		if err != nil {
			printError(fmt.Sprintf("Failed to query compositor: %v", err))
			return err
		}

		current := currentActive(cfg.SwitchType, ids)
		step := types.NewCommand(flagReverse, flagOffset, flagSameWorkspace || cfg.FilterSameWorkspace, flagSameMonitor || cfg.FilterSameMonitor)
		target, err := engine.FindNext(cfg.SwitchType, step, data, current)
		if err != nil {
			if errors.Is(err, engine.ErrNoCandidates) {
				printWarn("Nothing to switch to")
				return nil
			}
			printError(fmt.Sprintf("Failed to resolve target: %v", err))
			return err
		}

		applier := hypr.NewApplier(hyprClient, dryRun)
		if err := applier.SwitchTo(ctx, target, data); err != nil {
			printError(fmt.Sprintf("Failed to switch: %v", err))
			return err
		}

		if jsonOutput {
			return output.PrintJSON(target)
		}
		successColor.Printf("✓ Switched to %s\n", target)
		return nil
	},
}

// listCmd groups the listing subcommands
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List windows, workspaces or monitors",
}

var listClientsCmd = &cobra.Command{
	Use:     "clients",
	Aliases: []string{"windows"},
	Short:   "List windows in cycling order",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, ids, err := collectForListing()
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.PrintJSON(data.Clients)
		}
		output.PrintClientsTable(data.Clients, ids.ClientAddress)
		return nil
	},
}

var listWorkspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List workspaces in cycling order",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, ids, err := collectForListing()
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.PrintJSON(data.Workspaces)
		}
		output.PrintWorkspacesTable(data.Workspaces, ids.WorkspaceID, ids.HasWorkspace)
		return nil
	},
}

var listMonitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List monitors in cycling order",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _, err := collectForListing()
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.PrintJSON(data.Monitors)
		}
		output.PrintMonitorsTable(data.Monitors)
		return nil
	},
}

var (
	iconDesktopFiles bool
	iconListTheme    bool
)

// iconCmd debugs window class to icon resolution
var iconCmd = &cobra.Command{
	Use:   "icon [class]",
	Short: "Resolve a window class to an icon name",
	Long: `Looks a window class up in the desktop entry database and reports
which icon it maps to, for debugging themes and GUI frontends. With
--desktop-files it dumps the parsed database, with --list the icon names
visible in the installed themes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if iconListTheme {
			names := icons.ThemeIcons()
			if jsonOutput {
				return output.PrintJSON(names)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		}

		if iconDesktopFiles {
			files := icons.DesktopFiles()
			if jsonOutput {
				return output.PrintJSON(files)
			}
			for _, df := range files {
				fmt.Printf("%s -> %s (%s)\n", df.Name, df.Icon, df.Path)
			}
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("expected a window class argument")
		}
		class := args[0]

		match, err := icons.IconName(class)
		if err != nil {
			printError(err.Error())
			return err
		}
		if jsonOutput {
			return output.PrintJSON(match)
		}

		fmt.Printf("Class %q resolves to icon %q (matched by %s)\n", class, match.Icon, match.Kind)
		fmt.Printf("Desktop file: %s\n", match.Path)
		if icons.ThemeHasIcon(match.Icon) {
			successColor.Println("✓ Icon present in theme")
		} else {
			printWarn(fmt.Sprintf("Icon %q not found in the installed themes", match.Icon))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Daemon socket path (default: $XDG_RUNTIME_DIR/hyprswitch/daemon.sock)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", fmt.Sprintf("Config file path (default: %s)", config.GetConfigPath()))
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", ipc.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Log focus changes instead of executing them")

	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(simpleCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(iconCmd)

	listCmd.AddCommand(listClientsCmd)
	listCmd.AddCommand(listWorkspacesCmd)
	listCmd.AddCommand(listMonitorsCmd)

	for _, cmd := range []*cobra.Command{dispatchCmd, simpleCmd} {
		cmd.Flags().BoolVarP(&flagReverse, "reverse", "r", false, "Step backward instead of forward")
		cmd.Flags().IntVarP(&flagOffset, "offset", "o", 1, "Number of positions to step")
		cmd.Flags().StringVar(&flagSwitchType, "switch-type", "", "What to cycle: client, workspace or monitor")
		cmd.Flags().BoolVar(&flagSameWorkspace, "same-workspace", false, "Only cycle windows on the current workspace")
		cmd.Flags().BoolVar(&flagSameMonitor, "same-monitor", false, "Only cycle candidates on the focused monitor")
	}

	for _, cmd := range []*cobra.Command{initCmd, guiCmd} {
		cmd.Flags().BoolVar(&flagShowTitle, "show-title", true, "Show window titles in the session UI")
		cmd.Flags().Float64Var(&flagSizeFactor, "size-factor", 6, "UI scale factor")
		cmd.Flags().IntVar(&flagWorkspacesPerRow, "workspaces-per-row", 5, "Workspaces per row in the session UI")
		cmd.Flags().StringVar(&flagCustomCSS, "custom-css", "", "Path to a custom stylesheet for the session UI")
	}

	for _, cmd := range []*cobra.Command{guiCmd, simpleCmd, listCmd} {
		cmd.PersistentFlags().BoolVar(&flagSortRecent, "sort-recent", false, "Order windows by focus recency")
		cmd.PersistentFlags().BoolVar(&flagIncludeSpecial, "include-special", false, "Include special (scratchpad) workspaces")
		cmd.PersistentFlags().StringSliceVar(&flagIgnoreWorkspaces, "ignore-workspace", nil, "Workspace names to exclude (repeatable)")
		cmd.PersistentFlags().StringSliceVar(&flagIgnoreMonitors, "ignore-monitor", nil, "Monitor names to exclude (repeatable)")
	}
	guiCmd.Flags().StringVar(&flagSwitchType, "switch-type", "", "What to cycle: client, workspace or monitor")
	guiCmd.Flags().BoolVar(&flagSameWorkspace, "same-workspace", false, "Only cycle windows on the current workspace")
	guiCmd.Flags().BoolVar(&flagSameMonitor, "same-monitor", false, "Only cycle candidates on the focused monitor")

	closeCmd.Flags().BoolVar(&flagKill, "kill", false, "Discard the pending selection instead of applying it")
	iconCmd.Flags().BoolVar(&iconDesktopFiles, "desktop-files", false, "Dump the parsed desktop entry database")
	iconCmd.Flags().BoolVar(&iconListTheme, "list", false, "List icon names visible in the installed themes")

	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
		if debugMode {
			logging.SetDebug(true)
		}
	})
}

func main() {
	logging.Init()
	defer logging.Close()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Helper functions

// switchConfigFromFlags starts from the stored config and applies explicit
// command-line overrides.
func switchConfigFromFlags() (config.Config, error) {
	file, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := file.Switch

	if flagSwitchType != "" {
		st, err := types.ParseSwitchType(flagSwitchType)
		if err != nil {
			return config.Config{}, err
		}
		cfg.SwitchType = st
	}
	if flagSortRecent {
		cfg.SortRecent = true
	}
	if flagIncludeSpecial {
		cfg.IncludeSpecialWorkspaces = true
	}
	if len(flagIgnoreWorkspaces) > 0 {
		cfg.IgnoreWorkspaces = flagIgnoreWorkspaces
	}
	if len(flagIgnoreMonitors) > 0 {
		cfg.IgnoreMonitors = flagIgnoreMonitors
	}
	return cfg, nil
}

func guiConfigFromFlags() config.GuiConfig {
	return config.GuiConfig{
		ShowTitle:        flagShowTitle,
		SizeFactor:       flagSizeFactor,
		WorkspacesPerRow: flagWorkspacesPerRow,
		CustomCSS:        flagCustomCSS,
	}
}

func parseSwitchTypeFlag() (types.SwitchType, error) {
	if flagSwitchType == "" {
		return "", nil
	}
	return types.ParseSwitchType(flagSwitchType)
}

func currentActive(switchType types.SwitchType, ids hypr.ActiveIDs) types.Active {
	switch switchType {
	case types.SwitchWorkspace:
		if ids.HasWorkspace {
			return types.ActiveWorkspace(ids.WorkspaceID)
		}
	case types.SwitchMonitor:
		if ids.HasMonitor {
			return types.ActiveMonitor(ids.MonitorID)
		}
	default:
		if ids.ClientAddress != "" {
			return types.ActiveClient(ids.ClientAddress)
		}
	}
	return types.ActiveUnknown()
}

func collectForListing() (*hypr.ClientsData, hypr.ActiveIDs, error) {
	hyprClient, err := hypr.NewClient()
	if err != nil {
		printError(fmt.Sprintf("Hyprland not detected: %v", err))
		return nil, hypr.ActiveIDs{}, err
	}
	data, ids, err := hyprClient.CollectData(context.Background(), hypr.CollectOptions{
		SortRecent:               flagSortRecent,
		IncludeSpecialWorkspaces: flagIncludeSpecial,
		IgnoreWorkspaces:         flagIgnoreWorkspaces,
		IgnoreMonitors:           flagIgnoreMonitors,
	})
	if err != nil {
		printError(fmt.Sprintf("Failed to query compositor: %v", err))
		return nil, hypr.ActiveIDs{}, err
	}
	return data, ids, nil
}

// reportSessionResult folds the shared init/guiInit outcomes: racing key
// presses and a dead daemon are warnings, not failures.
func reportSessionResult(err error, success string) error {
	switch {
	case err == nil:
		successColor.Printf("✓ %s\n", success)
		return nil
	case errors.Is(err, ipc.ErrAlreadyActive):
		printWarn("Switch session already active")
		return nil
	case errors.Is(err, ipc.ErrNotRunning):
		printWarn("Daemon not running, start it with 'hyprswitch daemon'")
		return nil
	default:
		printError(fmt.Sprintf("Failed to open session: %v", err))
		return err
	}
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}

func printWarn(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, msg)
	} else {
		warnColor.Fprintln(os.Stderr, msg)
	}
}
