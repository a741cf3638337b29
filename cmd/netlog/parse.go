package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mariasu11/netlog/internal/config"
	"github.com/mariasu11/netlog/pkg/luascript"
	"github.com/mariasu11/netlog/pkg/models"
	"github.com/mariasu11/netlog/pkg/parser"
	"github.com/mariasu11/netlog/pkg/worker"
)

var (
	parseCmd = &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse raw log files into structured records",
		Long: `Parse reads raw network device logs from the given files (or stdin when
no files are given), normalizes each recognized line into a structured record,
and writes the records to stdout. Files are processed concurrently.`,
		Run: runParse,
	}
)

func init() {
	rootCmd.AddCommand(parseCmd)

	// Parse command flags
	parseCmd.Flags().StringP("device-type", "t", "auto", "Device type (auto, cisco-ios, cisco-ios-xe, cisco-nx-os, cisco-asa, generic-syslog)")
	parseCmd.Flags().IntP("workers", "w", 4, "Number of worker goroutines for processing")
	parseCmd.Flags().StringP("output", "o", "json", "Output format (json, table)")

	// Bind flags to viper
	viper.BindPFlag("parse.device-type", parseCmd.Flags().Lookup("device-type"))
	viper.BindPFlag("parse.workers", parseCmd.Flags().Lookup("workers"))
	viper.BindPFlag("parse.output", parseCmd.Flags().Lookup("output"))
}

func runParse(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Resolve an explicit device type up front so a typo fails fast
	var pinnedType models.DeviceType
	pinned := cfg.Parse.DeviceType != "" && cfg.Parse.DeviceType != "auto"
	if pinned {
		pinnedType, err = models.ParseDeviceType(cfg.Parse.DeviceType)
		if err != nil {
			logger.Error("Unknown device type", "device_type", cfg.Parse.DeviceType)
			os.Exit(1)
		}
	}

	out := newRecordWriter(os.Stdout, cfg.Parse.Output)

	// Stdin is a single sequential stream
	if len(args) == 0 {
		session := newParseSession(cfg, pinned, pinnedType, logger)
		parsed, skipped := session.parseStream(os.Stdin, out)
		session.close()
		logger.Info("Parse complete", "source", "stdin", "parsed", parsed, "skipped", skipped)
		return
	}

	// Create worker pool for concurrent file processing
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wp := worker.NewPool(cfg.Parse.Workers)
	wp.Start(ctx)

	var wg sync.WaitGroup
	var totalParsed, totalSkipped int64
	var totals sync.Mutex

	for _, path := range args {
		path := path
		wg.Add(1)
		submitted := wp.Submit(func() {
			defer wg.Done()

			f, err := os.Open(path)
			if err != nil {
				logger.Error("Failed to open log file", "path", path, "error", err)
				return
			}
			defer f.Close()

			// Each job owns its parsers; script engines are not safe to
			// share across goroutines
			session := newParseSession(cfg, pinned, pinnedType, logger)
			parsed, skipped := session.parseStream(f, out)
			session.close()

			totals.Lock()
			totalParsed += int64(parsed)
			totalSkipped += int64(skipped)
			totals.Unlock()

			logger.Info("Parsed file", "path", path, "parsed", parsed, "skipped", skipped)
		})
		if !submitted {
			logger.Error("Work queue full, skipping file", "path", path)
			wg.Done()
		}
	}

	wg.Wait()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	wp.Stop(shutdownCtx)

	logger.Info("Parse complete", "files", len(args), "parsed", totalParsed, "skipped", totalSkipped)
}

// parseSession bundles the parser sources one goroutine uses
type parseSession struct {
	factory    *parser.Factory
	registry   *parser.Registry
	pinned     parser.Parser
	usePinned  bool
	deviceType models.DeviceType
}

func newParseSession(cfg *config.Config, pinned bool, pinnedType models.DeviceType, logger hclog.Logger) *parseSession {
	s := &parseSession{
		factory:    parser.NewFactory(logger),
		registry:   parser.NewRegistry(logger),
		usePinned:  pinned,
		deviceType: pinnedType,
	}

	if pinned {
		s.pinned = s.factory.CreateParser(pinnedType)
		if s.pinned == nil {
			logger.Error("No parser available for device type", "device_type", pinnedType.String())
			os.Exit(1)
		}
		return s
	}

	// Auto-detection also considers user-authored scripts
	if cfg.Scripts.Directory != "" {
		if err := luascript.LoadDirectory(s.registry, cfg.Scripts.Directory, cfg.Scripts.Enabled, logger); err != nil {
			logger.Warn("Failed to load parser scripts", "directory", cfg.Scripts.Directory, "error", err)
		}
	}
	return s
}

func (s *parseSession) parseStream(r io.Reader, out *recordWriter) (parsed, skipped int) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var record *models.LogRecord
		if s.usePinned {
			record = s.pinned.Parse(line)
		} else if p := parser.Detect(s.factory, s.registry, line); p != nil {
			record = p.Parse(line)
		}

		if record == nil {
			skipped++
			continue
		}
		out.write(record)
		parsed++
	}
	return parsed, skipped
}

func (s *parseSession) close() {
	for _, name := range s.registry.Names() {
		if p, err := s.registry.Get(name); err == nil {
			if closer, ok := p.(interface{ Close() }); ok {
				closer.Close()
			}
		}
	}
}

// recordWriter serializes record output across goroutines
type recordWriter struct {
	mu     sync.Mutex
	w      io.Writer
	format string
}

func newRecordWriter(w io.Writer, format string) *recordWriter {
	return &recordWriter{w: w, format: format}
}

func (rw *recordWriter) write(record *models.LogRecord) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.format == "table" {
		fmt.Fprintln(rw.w, record.String())
		return
	}
	if err := json.NewEncoder(rw.w).Encode(record); err != nil {
		logger.Error("Failed to encode record", "error", err)
	}
}
