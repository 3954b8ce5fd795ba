package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/coastersim/cache"
	"github.com/oomph-ac/coastersim/export"
	"github.com/oomph-ac/coastersim/node"
	"github.com/oomph-ac/coastersim/oerror"
	"github.com/oomph-ac/coastersim/property"
	"github.com/oomph-ac/coastersim/scene"
	"github.com/oomph-ac/coastersim/settings"
	"github.com/oomph-ac/coastersim/worker"
	"github.com/sirupsen/logrus"
)

// The following program builds every scene file passed and writes the points of each track next to it.
func main() {
	configPath := flag.String("config", "config.toml", "path of the settings file, created with defaults if missing")
	outDir := flag.String("out", "", "directory to write tracks to, overriding the settings")
	verbose := flag.Bool("v", false, "log every built node")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	if flag.NArg() == 0 {
		fmt.Println("Usage: coastersim [-config path] [-out dir] [-v] <scene.toml>...")
		os.Exit(2)
	}

	s, err := readSettings(*configPath)
	if err != nil {
		log.Fatalf("unable to read settings: %v", err)
	}
	if *outDir != "" {
		s.Output.Dir = *outDir
	}
	lvl, _ := s.LogLevel()
	if *verbose {
		lvl = logrus.DebugLevel
	}
	log.SetLevel(lvl)

	if s.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: s.Sentry.DSN, Environment: s.Sentry.Environment}); err != nil {
			log.Fatalf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 2)
	}

	if s.StatsView.Enabled {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(s.StatsView.Addr))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	if failed := run(s, log, flag.Args()); failed > 0 {
		log.Errorf("%d of %d scenes failed", failed, flag.NArg())
		sentry.Flush(time.Second * 2)
		os.Exit(1)
	}
}

// readSettings loads the settings file at path, creating it with the default settings first if it does
// not exist yet.
func readSettings(path string) (settings.Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := settings.SaveDefault(path); err != nil {
			return settings.Settings{}, err
		}
	}
	return settings.Load(path)
}

// run builds every scene on a worker pool and returns the amount that failed.
func run(s settings.Settings, log *logrus.Logger, paths []string) int {
	energy, err := s.EnergyMode()
	if err != nil {
		log.Errorf("invalid settings: %v", err)
		return len(paths)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := cache.New()
	go c.Run(ctx, time.Minute)

	env := scene.Env{
		Store:   property.NewStore(),
		Cache:   c,
		Options: node.Options{Energy: energy},
		Log:     log,
	}

	var failed atomic.Int64
	pool := worker.New(s.Workers)
	defer pool.Close()
	for _, path := range paths {
		pool.Submit(func() {
			if err := buildScene(path, s, env); err != nil {
				failed.Add(1)
				log.WithField("file", path).Errorf("unable to build scene: %v", err)
			}
		})
	}
	crashed := pool.Wait()

	hits, misses := c.Stats()
	log.Debugf("build cache: %d hits, %d misses", hits, misses)
	return int(failed.Load()) + crashed
}

func buildScene(path string, s settings.Settings, env scene.Env) error {
	sc, err := scene.Load(path)
	if err != nil {
		return err
	}
	track, err := sc.Build(env)
	if err != nil {
		return err
	}
	defer track.Close()

	dir := s.Output.Dir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return oerror.New("error creating output directory: %w", err)
	}
	out := filepath.Join(dir, sc.Name+".csv")
	if err := writeFile(out, func(f *os.File) error { return export.WriteCSV(f, track.Points) }); err != nil {
		return err
	}
	if s.Output.Vertices {
		vs := export.Vertices(track.Points, 0)
		if err := writeFile(filepath.Join(dir, sc.Name+".bin"), func(f *os.File) error { return export.WriteVertices(f, vs) }); err != nil {
			return err
		}
	}
	env.Log.WithFields(track.Summary().Fields()).WithField("file", out).Infof("built %s", sc.Name)
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return oerror.New("error creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return oerror.New("error closing %s: %w", path, err)
	}
	return nil
}
