package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pleimann/ir2hid/internal/config"
	"github.com/pleimann/ir2hid/internal/display"
	"github.com/pleimann/ir2hid/internal/engine"
	"github.com/pleimann/ir2hid/internal/event"
	"github.com/pleimann/ir2hid/internal/gesture"
	"github.com/pleimann/ir2hid/internal/hid"
	"github.com/pleimann/ir2hid/internal/irsource"
	"github.com/pleimann/ir2hid/internal/table"
	"github.com/pleimann/ir2hid/internal/ui"
)

const Version = "0.1.0"

// exitRetryInterval paces retries of the exit event while the queue is full
const exitRetryInterval = 10 * time.Millisecond

func main() {
	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list-devices":
			runListDevices(os.Args[2:])
			return
		case "set-device", "select-device":
			runSetDevice(os.Args[2:])
			return
		case "check-table":
			runCheckTable(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	// Main command flags
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	headless := flag.Bool("headless", false, "log translations instead of showing the status screen")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg, *verbose, !*headless)
	if err != nil {
		ui.PrintFatalError("Failed to open log file", err.Error())
		os.Exit(1)
	}
	defer closeLog()

	logger.Debug("loaded configuration",
		"path", *configPath,
		"source", cfg.Source.Kind,
		"backend", cfg.HID.Backend,
		"table", cfg.Table.Path)

	app, err := newApp(cfg, logger)
	if err != nil {
		ui.PrintFatalError("Failed to initialize", err.Error())
		os.Exit(1)
	}

	if err := app.Run(!*headless); err != nil {
		ui.PrintFatalError("Application error", err.Error())
		os.Exit(1)
	}

	logger.Debug("shutdown complete")
}

func printUsage() {
	ui.PrintUsage(Version)
}

// newLogger builds the process logger. While the status screen owns the
// terminal, logs go to the configured file or nowhere.
func newLogger(cfg *config.Config, verbose, interactive bool) (*slog.Logger, func(), error) {
	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// runListDevices handles the list-devices subcommand
func runListDevices(args []string) {
	fs := flag.NewFlagSet("list-devices", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	devices, err := hid.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	uiDevices := make([]ui.DeviceInfo, len(devices))
	for i, d := range devices {
		uiDevices[i] = ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
		}
	}
	markConfiguredBridge(*configPath, uiDevices)
	ui.PrintDeviceList(uiDevices)
}

// markConfiguredBridge flags the bridge board named in the config, if any
func markConfiguredBridge(configPath string, devices []ui.DeviceInfo) {
	if !config.Exists(configPath) {
		return
	}
	cfg, err := config.Load(configPath)
	if err != nil || cfg.HID.Backend != config.BackendBridge {
		return
	}
	ui.MarkConfigured(devices, cfg.HID.VendorID, cfg.HID.ProductID)
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = func() {
		ui.PrintSetDeviceUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()

	var vendorID, productID uint16

	if len(remaining) >= 2 {
		vid, err := parseID(remaining[0])
		if err != nil {
			ui.PrintFatalError("Invalid vendor_id", fmt.Sprintf("%q: %v", remaining[0], err))
			os.Exit(1)
		}
		pid, err := parseID(remaining[1])
		if err != nil {
			ui.PrintFatalError("Invalid product_id", fmt.Sprintf("%q: %v", remaining[1], err))
			os.Exit(1)
		}
		vendorID = vid
		productID = pid
	} else if len(remaining) == 1 {
		ui.PrintFatalError("Invalid arguments", "Both vendor_id and product_id must be provided, or neither")
		os.Exit(1)
	} else {
		device, err := selectDevice(*configPath)
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		vendorID = device.VendorID
		productID = device.ProductID
	}

	if config.Exists(*configPath) {
		if err := config.UpdateDeviceIDs(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to update config", err.Error())
			os.Exit(1)
		}
		ui.PrintBridgeSaved(*configPath, vendorID, productID, false)
	} else {
		if err := config.CreateDefaultConfig(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
		ui.PrintBridgeSaved(*configPath, vendorID, productID, true)
	}
}

// runCheckTable handles the check-table subcommand
func runCheckTable(args []string) {
	fs := flag.NewFlagSet("check-table", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = func() {
		ui.PrintCheckTableUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	var path string
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			ui.PrintFatalError("Failed to load config", err.Error())
			os.Exit(1)
		}
		path = cfg.Table.Path
	}

	t, rejected, err := table.Load(path)
	if err != nil {
		ui.PrintFatalError("Failed to load mapping table", err.Error())
		os.Exit(1)
	}

	ui.PrintTableReport(path, t, rejected)
	if len(rejected) > 0 {
		os.Exit(1)
	}
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	var val uint64
	var err error

	if strings.HasPrefix(strings.ToLower(s), "0x") {
		val, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		val, err = strconv.ParseUint(s, 10, 16)
	}

	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

// selectDevice displays an interactive device selection menu using huh
func selectDevice(configPath string) (*ui.DeviceInfo, error) {
	devices, err := hid.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no HID devices found")
	}

	// Deduplicate devices by vendor/product ID
	seen := make(map[uint32]bool)
	var unique []ui.DeviceInfo

	for _, d := range devices {
		key := uint32(d.VendorID)<<16 | uint32(d.ProductID)
		if seen[key] {
			continue
		}
		seen[key] = true

		// Skip devices with no vendor/product ID
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}

		unique = append(unique, ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
		})
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	markConfiguredBridge(configPath, unique)
	return ui.SelectDevice(unique)
}

type App struct {
	config  *config.Config
	logger  *slog.Logger
	queue   *event.Queue
	state   *display.State
	engine  *engine.Engine
	source  irsource.Source
	bridge  *hid.Bridge
	gadget  *hid.Gadget
	watcher *table.Watcher
	mirror  *display.Mirror
}

func newApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
		queue:  event.NewQueue(cfg.Queue.Capacity),
		state:  display.NewState(),
	}

	var transport hid.Transport
	switch cfg.HID.Backend {
	case config.BackendGadget:
		gadget, err := hid.NewGadget(cfg.HID.GadgetPath, cfg.HID.UDCState)
		if err != nil {
			return nil, fmt.Errorf("failed to open USB gadget: %w", err)
		}
		app.gadget = gadget
		transport = gadget
	case config.BackendBridge:
		bridge, err := hid.NewBridge(cfg.HID.VendorID, cfg.HID.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to open HID bridge: %w", err)
		}
		app.bridge = bridge
		transport = bridge
	default:
		logger.Warn("no HID backend, key presses will not be sent")
		transport = hid.None{}
	}

	switch cfg.Source.Kind {
	case config.SourceReplay:
		app.source = irsource.NewReplay(cfg.Source.ReplayPath, logger.With("component", "replay"))
	default:
		app.source = irsource.NewLIRC(cfg.Source.Device, logger.With("component", "lirc"))
	}

	if app.bridge != nil && cfg.HID.MirrorDisplay {
		app.mirror = display.NewMirror(app.state, app.bridge,
			cfg.Display.Width, cfg.Display.Height,
			time.Duration(cfg.Display.UpdateIntervalMs)*time.Millisecond,
			logger.With("component", "mirror"))
	}

	opts := engine.Options{
		TablePath: cfg.Table.Path,
		Cooldown:  cfg.Cooldown(),
	}
	if app.mirror != nil {
		opts.OnExit = app.mirror.Stop
	}
	dispatcher := hid.NewDispatcher(transport, logger.With("component", "hid"))
	app.engine = engine.New(opts, app.queue, dispatcher, app.state, logger)

	if cfg.Table.Watch {
		w, err := table.NewWatcher(cfg.Table.Path, func() {
			if !app.queue.TryPush(event.TableChanged()) {
				logger.Debug("table change dropped, queue full")
			}
		}, logger.With("component", "watcher"))
		if err != nil {
			dispatcher.Close()
			return nil, fmt.Errorf("failed to watch mapping table: %w", err)
		}
		app.watcher = w
	}

	return app, nil
}

// Run starts the producers, then runs the engine until the exit key. With
// interactive set the status screen takes over the terminal.
func (a *App) Run(interactive bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A missing or broken table is reported on the display; keep going
	_ = a.engine.Load()

	go a.readSignals(ctx)
	go a.tick(ctx)
	go a.handleSignals(ctx)
	if a.bridge != nil {
		go a.readButtons(ctx)
	}
	if a.gadget != nil {
		go a.gadget.Watch(ctx, time.Duration(a.config.HID.HostPollMs)*time.Millisecond)
	}
	if a.watcher != nil {
		a.watcher.Start()
	}
	if a.mirror != nil {
		a.mirror.Start(ctx)
	}

	var err error
	if interactive {
		err = a.runInteractive(ctx)
	} else {
		go a.logStatus(ctx)
		err = a.engine.Run()
	}

	a.shutdown(cancel)
	return err
}

func (a *App) runInteractive(ctx context.Context) error {
	monitor := ui.NewMonitor(a.state, a.queue.TryPush, a.config.Display.Width, a.config.Display.Height)
	p := tea.NewProgram(monitor, tea.WithAltScreen(), tea.WithoutSignalHandler())

	done := make(chan error, 1)
	go func() {
		done <- a.engine.Run()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		// No terminal to draw on; end the session the normal way
		a.logger.Error("status screen failed", "err", err)
		a.pushExit(ctx)
	}
	return <-done
}

func (a *App) readSignals(ctx context.Context) {
	err := a.source.Run(ctx, func(s event.Signal) {
		if !a.queue.TryPush(event.IRSignal(s)) {
			a.logger.Debug("signal dropped, queue full", "signal", s.Signature)
		}
	})
	if err != nil && ctx.Err() == nil {
		a.logger.Error("infrared source stopped", "err", err)
	}
}

func (a *App) tick(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(a.config.Display.RefreshMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.queue.TryPush(event.Tick())
		}
	}
}

// handleSignals turns SIGINT and SIGTERM into the exit key
func (a *App) handleSignals(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
	case sig := <-sigChan:
		a.logger.Debug("received shutdown signal", "signal", sig)
		a.pushExit(ctx)
	}
}

func (a *App) pushExit(ctx context.Context) {
	a.queue.PushKey(ctx, event.Exit().Key, exitRetryInterval)
}

func (a *App) readButtons(ctx context.Context) {
	detector := gesture.NewDetector(a.config.ButtonKeys(),
		time.Duration(a.config.HID.LongPressThresholdMs)*time.Millisecond,
		time.Duration(a.config.HID.RepeatIntervalMs)*time.Millisecond,
		func(in event.KeyInput) {
			if !a.queue.PushKey(ctx, in, exitRetryInterval) {
				a.logger.Debug("button dropped, queue full", "key", in.Key)
			}
		})
	defer detector.Stop()

	events := make(chan hid.Event, 16)
	poll := time.Duration(a.config.HID.PollIntervalMs) * time.Millisecond

	go func() {
		err := a.bridge.ReadEvents(ctx, events, poll)
		if err != nil && ctx.Err() == nil && !errors.Is(err, hid.ErrDeviceClosed) {
			a.logger.Error("bridge button read failed", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			detector.ProcessEvent(ev)
		}
	}
}

// logStatus writes each status change to the log in headless mode
func (a *App) logStatus(ctx context.Context) {
	changed := a.state.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			snap := a.state.Snapshot()
			if snap.HasSignal {
				a.logger.Info(strings.TrimSpace(snap.Protocol+" "+snap.Address+" "+snap.Command),
					"connected", snap.Connected)
			} else {
				a.logger.Info("waiting for IR", "connected", snap.Connected)
			}
		}
	}
}

func (a *App) shutdown(cancel context.CancelFunc) {
	a.logger.Debug("shutting down", "dropped", a.queue.Dropped())
	cancel()
	if a.watcher != nil {
		a.watcher.Stop()
	}
}
