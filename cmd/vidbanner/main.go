// Package main provides the CLI entry point for vidbanner.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/vidbanner/pkg/adapters/filepublisher"
	"github.com/user/vidbanner/pkg/adapters/ggrenderer"
	"github.com/user/vidbanner/pkg/adapters/hotkeys"
	"github.com/user/vidbanner/pkg/adapters/keyinput"
	"github.com/user/vidbanner/pkg/adapters/logger"
	"github.com/user/vidbanner/pkg/adapters/nulloutput"
	"github.com/user/vidbanner/pkg/adapters/osfilesystem"
	"github.com/user/vidbanner/pkg/adapters/smartsource"
	"github.com/user/vidbanner/pkg/adapters/subcues"
	"github.com/user/vidbanner/pkg/adapters/systemclock"
	"github.com/user/vidbanner/pkg/config"
	"github.com/user/vidbanner/pkg/control"
	"github.com/user/vidbanner/pkg/cues"
	"github.com/user/vidbanner/pkg/pacer"
	"github.com/user/vidbanner/pkg/playback"
	"github.com/user/vidbanner/pkg/ports"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Play    PlayCmd    `cmd:"" default:"withargs" help:"Play a video into the banner image."`
	Probe   ProbeCmd   `cmd:"" help:"Print video metadata and subtitle count without playing."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// SourceFlags are shared by play and probe.
type SourceFlags struct {
	Config     string  `short:"c" type:"existingfile" help:"YAML configuration file."`
	Subtitles  *string `short:"s" help:"Subtitle file (.srt, .ssa, .ass, .vtt)."`
	Encoding   *string `short:"e" help:"Subtitle file encoding (default: cp1251)."`
	Backend    *string `short:"b" help:"Frame decoding backend (auto, opencv, ffmpeg)."`
	FFmpegPath *string `help:"Path to the ffmpeg binary."`
}

// PlayCmd defines the play subcommand.
type PlayCmd struct {
	Video string `arg:"" optional:"" help:"Video file to play (overrides the config file)."`

	SourceFlags `embed:""`

	// Output image
	Output     *string `short:"o" help:"Published image path (.png, .jpg)."`
	Width      *int    `short:"W" help:"Output image width (default: 64)."`
	Height     *int    `short:"H" help:"Output image height (default: 64)."`
	Fit        *string `help:"How frames map to the output size (stretch, contain)."`
	Background *string `help:"Letterbox color for fit=contain (hex, e.g., #000000)."`

	// Pacing
	IntervalMs *int `short:"i" help:"Sample interval in milliseconds (default: 50)."`

	// Control surface
	ToggleKey *string `help:"Global hotkey that starts and stops playback (default: -)."`
	ResetKey  *string `help:"Global hotkey that rewinds to 0 (default: =)."`

	// Output channel
	Token  *string `help:"Trigger token pasted after every frame (default: @banner vid)."`
	DryRun bool    `short:"n" help:"Log trigger and cue keystrokes instead of sending them."`

	// Logging options
	LogLevel *string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool    `short:"Q" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Video string `arg:"" optional:"" help:"Video file to inspect."`

	SourceFlags `embed:""`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("vidbanner"),
		kong.Description(l10n.T("Play a video as a small, periodically refreshed image with subtitles typed into a chat.")),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the play command.
func (cmd *PlayCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create logger
	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()

	fs := osfilesystem.New()
	if err := checkInputs(fs, cfg); err != nil {
		return err
	}
	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if err := fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	source, video, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer source.Close()

	index, err := loadCues(cfg, log)
	if err != nil {
		return err
	}

	clock := systemclock.New()
	renderer := ggrenderer.New()
	publisher := filepublisher.New(fs, renderer, clock, log, cfg.ToPublisherOptions())

	var output ports.OutputChannel
	if cmd.DryRun {
		log.Info("Dry run: keystrokes are logged, not sent")
		output = nulloutput.New(cfg.Output.Token, log)
	} else {
		output = keyinput.New(clock, cfg.ToKeyInputOptions())
	}

	state := playback.NewState()
	surface := control.NewSurface(state, log)
	keys := hotkeys.New()
	if err := surface.Attach(keys, cfg.ToKeys()); err != nil {
		return err
	}

	loop := pacer.New(source, index, publisher, output, renderer, clock, state, video, cfg.ToPacerConfig(), log)

	log.Info("Publishing %dx%d frames to %s every %d ms", cfg.Width, cfg.Height, cfg.OutputPath, cfg.IntervalMs)
	log.Info("Press %s to start or stop playback, %s to reset to 0 second.", cfg.Keys.Toggle, cfg.Keys.Reset)

	hookErr := make(chan error, 1)
	go func() {
		hookErr <- keys.Run(ctx)
	}()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	select {
	case err = <-loopErr:
		cancel()
		<-hookErr
	case err = <-hookErr:
		cancel()
		<-loopErr
	}

	if errors.Is(err, context.Canceled) {
		log.Info("Stopped")
		return nil
	}
	return err
}

// buildConfig loads the config file, if any, and applies CLI overrides.
func (cmd *PlayCmd) buildConfig() (config.Config, error) {
	cfg, err := cmd.SourceFlags.load(cmd.Video)
	if err != nil {
		return cfg, err
	}

	if cmd.Output != nil {
		cfg.OutputPath = *cmd.Output
	}
	if cmd.Width != nil {
		cfg.Width = *cmd.Width
	}
	if cmd.Height != nil {
		cfg.Height = *cmd.Height
	}
	if cmd.Fit != nil {
		cfg.Fit = *cmd.Fit
	}
	if cmd.Background != nil {
		cfg.Background = *cmd.Background
	}
	if cmd.IntervalMs != nil {
		cfg.IntervalMs = *cmd.IntervalMs
	}
	if cmd.ToggleKey != nil {
		cfg.Keys.Toggle = *cmd.ToggleKey
	}
	if cmd.ResetKey != nil {
		cfg.Keys.Reset = *cmd.ResetKey
	}
	if cmd.Token != nil {
		cfg.Output.Token = *cmd.Token
	}
	if cmd.LogLevel != nil && *cmd.LogLevel != "" {
		cfg.LogLevel = *cmd.LogLevel
	}

	return cfg, nil
}

// load reads the config file and applies the source overrides.
func (f SourceFlags) load(video string) (config.Config, error) {
	cfg := config.Defaults()
	if f.Config != "" {
		loaded, err := config.LoadFromFile(f.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if video != "" {
		cfg.VideoPath = video
	}
	if f.Subtitles != nil {
		cfg.SubtitlePath = *f.Subtitles
	}
	if f.Encoding != nil {
		cfg.SubtitleEncoding = *f.Encoding
	}
	if f.Backend != nil && *f.Backend != "" {
		cfg.Backend = *f.Backend
	}
	if f.FFmpegPath != nil {
		cfg.FFmpegPath = *f.FFmpegPath
	}
	return cfg, nil
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	cfg, err := cmd.SourceFlags.load(cmd.Video)
	if err != nil {
		return err
	}
	if cfg.VideoPath == "" {
		return errors.New(l10n.T("video path is required"))
	}

	log := logger.NewConsole(ports.LevelWarn)
	if err := checkInputs(osfilesystem.New(), cfg); err != nil {
		return err
	}

	source, video, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer source.Close()

	index, err := subcues.Load(cfg.SubtitlePath, cfg.SubtitleEncoding)
	if err != nil {
		return err
	}

	fmt.Println(l10n.F("Frame rate: %.3f fps", video.FrameRate))
	fmt.Println(l10n.F("Frame count: %.0f", video.FrameCount))
	fmt.Println(l10n.F("Duration: %.2f second", video.Duration.Seconds()))
	fmt.Println(l10n.F("Subtitle cues: %d", index.Len()))
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("vidbanner (Go) version %s", version))
	return nil
}

// checkInputs fails fast when the video or a configured subtitle file is missing.
func checkInputs(fs ports.FileSystem, cfg config.Config) error {
	if ok, err := fs.Exists(cfg.VideoPath); err != nil || !ok {
		return errors.New(l10n.F("Video not found: %s", cfg.VideoPath))
	}
	if cfg.SubtitlePath != "" {
		if ok, err := fs.Exists(cfg.SubtitlePath); err != nil || !ok {
			return errors.New(l10n.F("Subtitles not found: %s", cfg.SubtitlePath))
		}
	}
	return nil
}

// openVideo is replaced in tests.
var openVideo = smartsource.Open

// openSource opens the video with the configured backend and derives its descriptor.
func openSource(cfg config.Config, log ports.Logger) (ports.FrameSource, playback.Descriptor, error) {
	backend, err := smartsource.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, playback.Descriptor{}, err
	}

	source, info, err := openVideo(cfg.VideoPath, smartsource.Options{
		Backend:    backend,
		FFmpegPath: cfg.FFmpegPath,
		Logger:     log,
	})
	if err != nil {
		return nil, playback.Descriptor{}, fmt.Errorf("open video: %w", err)
	}
	if info.Fallback != nil {
		log.Warn("OpenCV unavailable, using ffmpeg: %s", info.Fallback)
	}

	video, err := playback.NewDescriptor(source.Info())
	if err != nil {
		source.Close()
		return nil, playback.Descriptor{}, fmt.Errorf("%s: %w", l10n.T("Can't get video info"), err)
	}

	log.Info("Opened %s with %s backend: %.2f fps, %.0f frames, %.2f second",
		cfg.VideoPath, info.Backend, video.FrameRate, video.FrameCount, video.Duration.Seconds())
	return source, video, nil
}

func loadCues(cfg config.Config, log ports.Logger) (*cues.Index, error) {
	index, err := subcues.Load(cfg.SubtitlePath, cfg.SubtitleEncoding)
	if err != nil {
		return nil, fmt.Errorf("load subtitles: %w", err)
	}
	if cfg.SubtitlePath != "" {
		log.Info("Loaded %d subtitle cues", index.Len())
	}
	return index, nil
}
