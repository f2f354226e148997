package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/a-bouts/nav-viewer/api"
	"github.com/a-bouts/nav-viewer/catalog"
	"github.com/a-bouts/nav-viewer/land"
	"github.com/a-bouts/nav-viewer/playback"
	"github.com/a-bouts/nav-viewer/xmpp"
)

type options struct {
	listen           string
	polarDir         string
	gribDir          string
	landFile         string
	refresh          uint64
	cacheSize        int
	playbackInterval time.Duration
	cpuprofile       bool
	debug            bool
	logFile          string
	mqttBroker       string
	mqttTopic        string
	xmpp             xmpp.Config
}

func parseOptions(args []string) (options, error) {
	var o options

	fs := flag.NewFlagSet("nav-viewer", flag.ContinueOnError)
	fs.StringVar(&o.listen, "listen", ":8888", "http listen address")
	fs.StringVar(&o.polarDir, "polar-dir", "polars", "directory of the polar files")
	fs.StringVar(&o.gribDir, "grib-dir", "grib-data", "directory of the grib files")
	fs.StringVar(&o.landFile, "land-file", "", "land mask checking the race plans")
	fs.Uint64Var(&o.refresh, "refresh", 15, "seconds between two scans of the directories, 0 to scan once")
	fs.IntVar(&o.cacheSize, "cache-size", 32, "number of polars and grib summaries kept in memory")
	fs.DurationVar(&o.playbackInterval, "playback-interval", 500*time.Millisecond, "interval between two playback frames")
	fs.BoolVar(&o.cpuprofile, "cpuprofile", false, "profile the computations")
	fs.BoolVar(&o.debug, "debug", false, "debug logs")
	fs.StringVar(&o.logFile, "log-file", "", "also log to this rotated file")
	fs.StringVar(&o.mqttBroker, "mqtt-broker", "", "also publish the playback frames to this broker")
	fs.StringVar(&o.mqttTopic, "mqtt-topic", "nav-viewer/playback", "topic of the playback frames")
	fs.StringVar(&o.xmpp.Host, "xmpp-host", "", "")
	fs.StringVar(&o.xmpp.Jid, "xmpp-jid", "", "")
	fs.StringVar(&o.xmpp.Password, "xmpp-password", "", "")
	fs.StringVar(&o.xmpp.To, "xmpp-to", "", "")

	if err := ff.Parse(fs, args, ff.WithEnvVarNoPrefix()); err != nil {
		return o, err
	}
	if o.cacheSize <= 0 {
		return o, fmt.Errorf("invalid cache-size: %d", o.cacheSize)
	}
	return o, nil
}

func watch(ctx context.Context, c *catalog.Catalog, every uint64) error {
	if every == 0 {
		return c.Refresh()
	}
	return c.Watch(ctx, every)
}

func run(ctx context.Context, o options) error {
	for _, dir := range []string{o.polarDir, o.gribDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	polars := catalog.New(o.polarDir, ".csv", ".pol", ".txt", ".json")
	gribs := catalog.New(o.gribDir, ".grb", ".grb2")

	c := api.Config{
		CpuProfile: o.cpuprofile,
		Polars:     polars,
		Gribs:      gribs,
		Notifier:   xmpp.Xmpp{Config: o.xmpp},
		CacheSize:  o.cacheSize,
		Interval:   o.playbackInterval,
	}

	if o.landFile != "" {
		log.Infof("Load lands from %s", o.landFile)
		l, err := land.Load(o.landFile)
		if err != nil {
			return err
		}
		c.Land = l
	}

	if o.mqttBroker != "" {
		m, err := playback.NewMQTT(o.mqttBroker, "nav-viewer", o.mqttTopic)
		if err != nil {
			return err
		}
		defer m.Close()
		c.Mqtt = m
	}

	router, err := api.InitServer(c)
	if err != nil {
		return err
	}

	accessLog := log.StandardLogger().WriterLevel(log.InfoLevel)
	defer accessLog.Close()

	srv := &http.Server{
		Addr:              o.listen,
		Handler:           api.Handler(router, accessLog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watch(ctx, polars, o.refresh) })
	g.Go(func() error { return watch(ctx, gribs, o.refresh) })
	g.Go(func() error {
		log.Infof("Start server on %s", o.listen)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Stop server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	o, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logFile := setupLogger(o.debug, o.logFile)
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o); err != nil {
		log.Fatal(err)
	}
}
