package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"kay/internal/action"
	"kay/internal/audio"
	"kay/internal/bus"
	"kay/internal/config"
	"kay/internal/duck"
	"kay/internal/fsops"
	"kay/internal/ipc"
	"kay/internal/kay"
	"kay/internal/listen"
	"kay/internal/notify"
	"kay/internal/proxy"
	"kay/internal/tts"
	"kay/pkg/audioconv"
	"kay/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type flags struct {
	config string
	env    string
	log    string
	source string
	stt    string
	voice  string
	proxy  string
	socket string
	bus    string
	user   string
	cue    string
	duck   bool
}

func main() {
	var f flags
	cli.StringVarP(&f.config, "config", "c", config.DefaultPath(), "Config file path")
	cli.StringVarP(&f.env, "env", "e", ".env", "Env file path")
	cli.StringVarP(&f.log, "log", "l", "info", "Log level")
	cli.StringVarP(&f.source, "source", "s", config.SourceMic, "Command source: mic, trigger, text, file or bus")
	cli.StringVar(&f.stt, "stt", config.STTWhisper, "Speech-to-text backend: whisper, whisper-cli or openai")
	cli.StringVar(&f.voice, "voice", config.VoiceEspeak, "Voice backend: espeak, openai or console")
	cli.StringVarP(&f.proxy, "proxy", "p", "", "Socks proxy address for OpenAI calls")
	cli.StringVar(&f.socket, "socket", ipc.DefaultSocketPath, "Control socket path for the trigger source")
	cli.StringVarP(&f.bus, "bus", "u", "", "Url of hub for the bus source")
	cli.StringVar(&f.user, "user", "", "Name to greet")
	cli.StringVar(&f.cue, "cue", "", "Sound played before listening")
	cli.BoolVar(&f.duck, "duck", false, "Lower other applications while listening")
	cli.Parse()

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[cfg.Log],
	})))

	log.Info("Booting up", "source", cfg.Source, "stt", cfg.STT.Backend, "voice", cfg.Voice.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, cli.Args()); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Kay stopped", "err", err)
		os.Exit(1)
	}

	log.Info("Goodbye")
}

// loadConfig layers defaults, the TOML file, the environment and the flags
// the user actually set.
func loadConfig(f flags) (config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return cfg, err
	}

	if err := godotenv.Load(f.env); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read env file %s: %w", f.env, err)
	}
	cfg.ApplyEnv()

	override := func(name string, dst *string, v string) {
		if cli.CommandLine.Changed(name) {
			*dst = v
		}
	}
	override("log", &cfg.Log, f.log)
	override("source", &cfg.Source, f.source)
	override("stt", &cfg.STT.Backend, f.stt)
	override("voice", &cfg.Voice.Backend, f.voice)
	override("proxy", &cfg.Proxy, f.proxy)
	override("socket", &cfg.Socket, f.socket)
	override("bus", &cfg.Bus.URL, f.bus)
	override("user", &cfg.User, f.user)
	override("cue", &cfg.Cue.Sound, f.cue)
	if cli.CommandLine.Changed("duck") {
		cfg.Duck.Enabled = f.duck
	}

	if _, ok := logLevelMap[cfg.Log]; !ok {
		return cfg, fmt.Errorf("unknown log level %q", cfg.Log)
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, args []string) error {
	var httpClient *http.Client
	if cfg.Proxy != "" {
		c, err := proxy.NewSocksClient(cfg.Proxy)
		if err != nil {
			return fmt.Errorf("dial socks proxy: %w", err)
		}
		httpClient = c
		log.Debug("Loaded proxy", "proxy", cfg.Proxy)
	}

	voice := newVoice(cfg, httpClient)
	echo := &kay.Echo{W: os.Stdout, Name: cfg.Name, Next: voice}

	var (
		capturer    kay.Capturer
		announcer   kay.Announcer = echo
		transcriber listen.Transcriber
	)

	if cfg.NeedsSTT() {
		tr, closeFn, err := newTranscriber(cfg, httpClient)
		if err != nil {
			return err
		}
		defer closeFn()
		transcriber = tr
		log.Debug("Loaded speech-to-text", "backend", cfg.STT.Backend)
	}

	switch cfg.Source {
	case config.SourceText:
		capturer = listen.NewLines(os.Stdin, os.Stdout)

	case config.SourceFile:
		if len(args) == 0 {
			return errors.New("file source needs audio files as arguments")
		}
		capturer = &listen.Files{
			Paths:       args,
			Decode:      audioconv.Decode,
			Transcriber: transcriber,
			Announcer:   announcer,
		}

	case config.SourceMic, config.SourceTrigger:
		mic, closeFn, err := newMic(ctx, cfg, transcriber, announcer)
		if err != nil {
			return err
		}
		defer closeFn()

		if cfg.Source == config.SourceMic {
			capturer = mic
			break
		}

		requests := make(chan ipc.ControlMessage)
		srv, err := ipc.StartServer(cfg.Socket, func(msg ipc.ControlMessage) {
			select {
			case requests <- msg:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return fmt.Errorf("start control socket: %w", err)
		}
		defer srv.Close()
		log.Info("Waiting for kay-ctl", "socket", cfg.Socket)

		capturer = &listen.Trigger{Requests: requests, Mic: mic}

	case config.SourceBus:
		b, err := bus.Dial(ctx, cfg.Bus.URL, cfg.Bus.Shard, cfg.Bus.Reconnect.Duration)
		if err != nil {
			return fmt.Errorf("dial bus: %w", err)
		}
		defer b.Close()
		log.Info("Connected to hub", "url", cfg.Bus.URL, "shard", cfg.Bus.Shard)

		capturer = b
		announcer = kay.Fanout{echo, b}
	}

	k := kay.New(capturer, announcer, action.NewDispatcher(fsops.New()))
	k.Greeting = cfg.Greeting
	if k.Greeting == "" {
		k.Greeting = action.Greeting(cfg.Name, cfg.User)
	}

	log.Info("Boot up - successful")

	return k.Run(ctx)
}

func newVoice(cfg config.Config, httpClient *http.Client) kay.Announcer {
	switch cfg.Voice.Backend {
	case config.VoiceEspeak:
		return tts.NewEspeak(cfg.Voice.Espeak, cfg.Voice.Rate)
	case config.VoiceOpenAI:
		return tts.NewOpenAI(cfg.OpenAIKey, httpClient, cfg.Voice.OpenAIModel, cfg.Voice.OpenAIVoice)
	default:
		return nil
	}
}

func newTranscriber(cfg config.Config, httpClient *http.Client) (listen.Transcriber, func(), error) {
	switch cfg.STT.Backend {
	case config.STTOpenAI:
		return stt.NewOpenAI(cfg.OpenAIKey, httpClient, cfg.STT.OpenAIModel, cfg.STT.Language), func() {}, nil
	case config.STTWhisperCLI:
		return stt.NewCLI(cfg.STT.Exec, cfg.STT.Model, cfg.STT.Language), func() {}, nil
	default:
		w, err := stt.NewWhisper(cfg.STT.Model, stt.Options{
			Language: cfg.STT.Language,
			Threads:  cfg.STT.Threads,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init whisper: %w", err)
		}
		return w, func() { w.Close() }, nil
	}
}

func newMic(ctx context.Context, cfg config.Config, tr listen.Transcriber, a kay.Announcer) (*listen.Mic, func(), error) {
	rec := audio.NewRecorder(audio.RecordOptions{})
	if err := rec.Init(); err != nil {
		return nil, nil, fmt.Errorf("init audio: %w", err)
	}
	log.Debug("Loaded recorder")

	mic := &listen.Mic{
		Recorder:    rec,
		Transcriber: tr,
		Announcer:   a,
	}

	if cfg.Cue.Sound != "" || cfg.Cue.Notify {
		mic.Cue = func() error {
			return notify.Listening(ctx, cfg.Cue.Sound, cfg.Cue.Notify)
		}
	}

	if cfg.Duck.Enabled {
		mic.Ducker = duck.New([]string{cfg.Name, "kay"}, 10)
		mic.DuckOptions = listen.DuckOptions{Factor: cfg.Duck.Factor, Fade: cfg.Duck.Fade.Duration}
	}

	return mic, rec.Close, nil
}
