// Package config holds the assistant's settings, loaded from a TOML file and
// overridden by the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"kay/internal/ipc"
)

// Capture sources.
const (
	SourceMic     = "mic"
	SourceTrigger = "trigger"
	SourceText    = "text"
	SourceFile    = "file"
	SourceBus     = "bus"
)

// Speech-to-text backends.
const (
	STTWhisper    = "whisper"
	STTWhisperCLI = "whisper-cli"
	STTOpenAI     = "openai"
)

// Voice backends.
const (
	VoiceEspeak  = "espeak"
	VoiceOpenAI  = "openai"
	VoiceConsole = "console"
)

type Config struct {
	// Name is how the assistant introduces itself.
	Name string `toml:"name"`
	// User is greeted by name when set.
	User string `toml:"user"`
	// Greeting replaces the default greeting when set.
	Greeting string `toml:"greeting"`

	Source string `toml:"source"`
	Log    string `toml:"log"`
	Proxy  string `toml:"proxy"`
	Socket string `toml:"socket"`

	STT   STTConfig   `toml:"stt"`
	Voice VoiceConfig `toml:"voice"`
	Cue   CueConfig   `toml:"cue"`
	Duck  DuckConfig  `toml:"duck"`
	Bus   BusConfig   `toml:"bus"`

	// OpenAIKey is only read from the environment.
	OpenAIKey string `toml:"-"`
}

type STTConfig struct {
	Backend  string `toml:"backend"`
	Model    string `toml:"model"`
	Exec     string `toml:"exec"`
	Language string `toml:"language"`
	Threads  int    `toml:"threads"`
	// OpenAIModel is the transcription model for the openai backend.
	OpenAIModel string `toml:"openai_model"`
}

type VoiceConfig struct {
	Backend string `toml:"backend"`
	// Espeak voice name, e.g. "en" or "en-us".
	Espeak string `toml:"espeak"`
	// Rate in words per minute.
	Rate        int    `toml:"rate"`
	OpenAIModel string `toml:"openai_model"`
	OpenAIVoice string `toml:"openai_voice"`
}

type CueConfig struct {
	Sound  string `toml:"sound"`
	Notify bool   `toml:"notify"`
}

type DuckConfig struct {
	Enabled bool     `toml:"enabled"`
	Factor  float64  `toml:"factor"`
	Fade    Duration `toml:"fade"`
}

type BusConfig struct {
	URL       string   `toml:"url"`
	Shard     string   `toml:"shard"`
	Reconnect Duration `toml:"reconnect"`
}

// Duration reads TOML strings like "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() Config {
	return Config{
		Name:   "Kay",
		Source: SourceMic,
		Log:    "info",
		Socket: ipc.DefaultSocketPath,
		STT: STTConfig{
			Backend:     STTWhisper,
			Model:       "third_party/whisper.cpp/models/ggml-base.en.bin",
			Exec:        "whisper-cli",
			Language:    "en",
			OpenAIModel: "whisper-1",
		},
		Voice: VoiceConfig{
			Backend:     VoiceEspeak,
			Espeak:      "en",
			Rate:        175,
			OpenAIModel: "tts-1",
			OpenAIVoice: "onyx",
		},
		Cue: CueConfig{
			Sound: "beep.mp3",
		},
		Duck: DuckConfig{
			Factor: 0.3,
			Fade:   Duration{300 * time.Millisecond},
		},
		Bus: BusConfig{
			URL:       "ws://localhost:8092/ws",
			Shard:     "kay",
			Reconnect: Duration{time.Second},
		},
	}
}

// DefaultPath returns ~/.config/kay/config.toml (or the platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kay", "config.toml")
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv() {
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")

	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.User, "KAY_USER")
	set(&c.Source, "KAY_SOURCE")
	set(&c.Log, "KAY_LOG")
	set(&c.Proxy, "KAY_PROXY")
	set(&c.Socket, "KAY_SOCKET")
	set(&c.STT.Backend, "KAY_STT")
	set(&c.STT.Model, "KAY_WHISPER_MODEL")
	set(&c.STT.Language, "KAY_LANGUAGE")
	set(&c.Voice.Backend, "KAY_VOICE")
	set(&c.Voice.Espeak, "KAY_ESPEAK_VOICE")
	set(&c.Bus.URL, "KAY_BUS_URL")

	if v, err := strconv.Atoi(os.Getenv("KAY_RATE")); err == nil {
		c.Voice.Rate = v
	}
}

func (c *Config) Validate() error {
	if !oneOf(c.Source, SourceMic, SourceTrigger, SourceText, SourceFile, SourceBus) {
		return fmt.Errorf("unknown source %q", c.Source)
	}
	if !oneOf(c.STT.Backend, STTWhisper, STTWhisperCLI, STTOpenAI) {
		return fmt.Errorf("unknown speech-to-text backend %q", c.STT.Backend)
	}
	if !oneOf(c.Voice.Backend, VoiceEspeak, VoiceOpenAI, VoiceConsole) {
		return fmt.Errorf("unknown voice backend %q", c.Voice.Backend)
	}
	if c.Voice.Rate <= 0 {
		return fmt.Errorf("voice rate must be positive, got %d", c.Voice.Rate)
	}
	if c.Duck.Factor < 0 {
		return fmt.Errorf("duck factor must not be negative, got %g", c.Duck.Factor)
	}

	if c.OpenAIKey == "" && ((c.NeedsSTT() && c.STT.Backend == STTOpenAI) || c.Voice.Backend == VoiceOpenAI) {
		return errors.New("OPENAI_API_KEY not set")
	}

	return nil
}

// NeedsSTT reports whether the selected source produces audio.
func (c *Config) NeedsSTT() bool {
	return oneOf(c.Source, SourceMic, SourceTrigger, SourceFile)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
