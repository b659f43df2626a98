package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alkime/notes/internal/audio"
	"github.com/alkime/notes/internal/keyring"
	"github.com/alkime/notes/internal/logger"
	"github.com/alkime/notes/internal/speech"
	"github.com/alkime/notes/internal/store"
	"github.com/alkime/notes/internal/tui"
	"github.com/alkime/notes/internal/workdir"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the notes command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	Board BoardCmd `cmd:"" default:"withargs" help:"Launch the notes board"`

	// Subcommands
	Devices DevicesCmd `cmd:"" help:"List available audio devices"`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration"`
}

// BoardCmd is the default command that runs the TUI.
type BoardCmd struct {
	Lang            string        `flag:"" env:"NOTES_LANG" default:"pt-BR" help:"Recognition language (BCP-47 tag, empty to auto-detect)"`
	DB              string        `flag:"" env:"NOTES_DB" optional:"" help:"SQLite database path (default: ~/Documents/Alkime/Notes/notes.db)"`
	Memory          bool          `flag:"" help:"Keep notes in memory only"`
	Fake            bool          `flag:"" help:"Use a scripted recognizer instead of the microphone"`
	OpenAIAPIKey    string        `flag:"" env:"OPENAI_API_KEY" help:"OpenAI API key for Whisper transcription"`
	DeepgramAPIKey  string        `flag:"" env:"DEEPGRAM_API_KEY" help:"Deepgram API key for streaming transcription"`
	NoSpeechTimeout time.Duration `flag:"" default:"8s" help:"End a recording when nothing is heard for this long"`
	Debug           bool          `flag:"" help:"Write debug records to the log file"`
}

// Run executes the board command.
func (c *BoardCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workdir.Prep(); err != nil {
		return fmt.Errorf("failed to prepare working directory: %w", err)
	}

	logPath, err := workdir.FilePath(workdir.LogFile)
	if err != nil {
		return fmt.Errorf("failed to determine log path: %w", err)
	}

	_, logFile, err := logger.SetupFileLogger(logPath, c.Debug)
	if err != nil {
		return err
	}
	defer logFile.Close()

	speechCfg := speech.DefaultConfig()
	speechCfg.Lang = c.Lang
	if err := speechCfg.Validate(); err != nil {
		return fmt.Errorf("invalid --lang: %w", err)
	}

	notes, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer notes.Close()

	recognizer := c.recognizer()
	slog.Info("Starting notes board",
		"lang", speechCfg.Lang,
		"speechAvailable", recognizer.Available(),
		"memory", c.Memory,
	)

	p := tea.NewProgram(tui.New(tui.Config{
		Store:      notes,
		Recognizer: recognizer,
		Speech:     speechCfg,
		Cancel:     cancel,
	}), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	return nil
}

func (c *BoardCmd) openStore(ctx context.Context) (store.Store, error) {
	if c.Memory {
		return store.NewMemory(), nil
	}

	path := c.DB
	if path == "" {
		var err error
		if path, err = workdir.FilePath(workdir.DBFile); err != nil {
			return nil, fmt.Errorf("failed to determine database path: %w", err)
		}
	}

	notes, err := store.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes database: %w", err)
	}

	return notes, nil
}

// recognizer resolves API keys (flags and environment first, then the
// keychain) and picks a backend.
func (c *BoardCmd) recognizer() speech.Recognizer {
	if c.Fake {
		return demoRecognizer()
	}

	keys := speech.Keys{
		OpenAI:   keyring.Lookup(keyring.OpenAI, c.OpenAIAPIKey),
		Deepgram: keyring.Lookup(keyring.Deepgram, c.DeepgramAPIKey),
	}
	if keys.OpenAI == "" && keys.Deepgram == "" {
		slog.Warn("no speech API key configured, recording disabled")
	}

	return speech.Select(keys, speech.WithNoSpeechTimeout(c.NoSpeechTimeout))
}

// demoRecognizer dictates a fixed sentence, word by word.
func demoRecognizer() *speech.Fake {
	words := strings.Fields("buy milk and call the plumber before friday")

	var script []speech.Event
	for i := range words {
		interim := strings.Join(words[:i+1], " ")
		script = append(script, speech.Event{Results: []speech.Result{{
			Alternatives: []speech.Alternative{{Transcript: interim, Confidence: 0.8}},
			IsFinal:      i == len(words)-1,
		}}})
	}

	fake := speech.NewFake(script...)
	fake.Delay = 300 * time.Millisecond

	return fake
}

// DevicesCmd lists available audio devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run() error {
	slog.Info("Enumerating audio devices...")

	adev := audio.NewDevice(nil)
	devices, err := adev.EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Audio Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formatCount", dev.FormatCount,
			"formats", dev.Formats,
		)
	}

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store an API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"openai,deepgram" help:"Service name (openai or deepgram)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	anySet := false

	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
			anySet = true
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
		}
	}

	if !anySet {
		fmt.Println("\nRecording needs one key. Run 'notes config set-key <service> <key>' to configure.")
	}

	return nil
}

func main() {
	// CLI output logger; the board swaps in a file logger.
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("notes"),
		kong.Description("Notes board with live dictation."),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
