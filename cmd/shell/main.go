package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/config"
	"github.com/domino14/connect4/shell"
)

var (
	GitVersion string
)

//go:embed connect4.txt
var connect4banner string

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)
	fmt.Println(connect4banner)
	if GitVersion != "" {
		fmt.Println("version", GitVersion)
	}

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}
	setupLogger(cfg.GetBool(config.ConfigDebug))
	log.Debug().Str("exec-path", exPath).Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	if path := cfg.GetString(config.ConfigCPUProfile); path != "" {
		stop, err := startCPUProfile(path)
		if err != nil {
			log.Fatal().Err(err).Msg("could-not-start-cpu-profile")
		}
		defer stop()
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal...")
		close(done)
	}()

	sc, err := shell.NewShellController(cfg, exPath, GitVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-start-shell")
	}
	if line := strings.TrimSpace(strings.Join(cfg.Args, " ")); line == "" {
		go sc.Loop(sig)
	} else {
		// one-shot mode: run the command, then quit.
		sc.Execute(sig, line)
		select {
		case sig <- syscall.SIGINT:
		default:
		}
	}
	<-done

	if path := cfg.GetString(config.ConfigMemProfile); path != "" {
		if err := writeMemProfile(path); err != nil {
			log.Err(err).Msg("could-not-write-memory-profile")
		}
	}
	sc.Cleanup()
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("%-5s", i))
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
}

func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote-memory-profile")
	return nil
}
