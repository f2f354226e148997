package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogger logs to stderr, and to a rotated file when file is set
func setupLogger(debug bool, file string) io.Closer {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if file == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil)
	}

	w := &lumberjack.Logger{
		Filename: file,
		MaxSize:  64, // MB
		MaxAge:   14,
		Compress: true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, w))
	return w
}
