package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/brightwood/dbcdata/internal/dbcschemas"
	"github.com/brightwood/dbcdata/pkg/dbc"
	"github.com/brightwood/dbcdata/pkg/dbcconfig"
	"github.com/brightwood/dbcdata/pkg/dbcmetrics"
	"github.com/brightwood/dbcdata/pkg/dbcsource"
	"github.com/brightwood/dbcdata/pkg/logging"
	"github.com/brightwood/dbcdata/pkg/stream"
)

func main() {
	files := flag.String("files", "", "comma-separated list of table file paths")
	schemaName := flag.String("schema", "creature", "builtin schema to decode against: creature or item")
	format := flag.String("format", "json", "output format: json or csv")
	mmapFlag := flag.Bool("mmap", false, "open inputs with memory-mapped I/O instead of buffered file reads")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address while decoding")
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	configPath := flag.String("config", "", "optional YAML config file (see pkg/dbcconfig); explicit flags above override it")
	flag.Parse()

	var cfg *dbcconfig.Config
	if *configPath != "" {
		var err error
		cfg, err = dbcconfig.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	explicit := explicitFlags()
	if cfg != nil {
		if !explicit["log-level"] {
			*logLevel = cfg.LogLevel
		}
		if !explicit["metrics-addr"] {
			*metricsAddr = cfg.MetricsAddr
		}
		if !explicit["format"] {
			*format = cfg.OutputFormat
		}
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(*logLevel))
	metrics := dbcmetrics.DefaultRegistry()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server stopped", logging.Error(err))
			}
		}()
		logger.Info("serving metrics", logging.String("addr", *metricsAddr))
	}

	schemaName2, err := dbcschemas.Resolve(*schemaName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var paths []string
	for _, p := range strings.Split(*files, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no input files given (-files)")
		os.Exit(1)
	}

	opts := dbc.DefaultOptions()
	if cfg != nil {
		opts.Strict = cfg.Strict
		if mask, ok := parseLoadMask(cfg.DefaultLoadMask); ok {
			opts.LoadMask = mask
		}
	}

	ctx := context.Background()
	outputs := make([]string, len(paths))

	group, gctx := errgroup.WithContext(ctx)
	if cfg != nil && cfg.Concurrency > 0 {
		group.SetLimit(cfg.Concurrency)
	}
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			out, err := dumpOne(gctx, path, schemaName2, *format, *mmapFlag, opts, logger, metrics)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logger.Error("dump failed", logging.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, out := range outputs {
		fmt.Println(out)
	}
}

func dumpOne(ctx context.Context, path, schemaName, format string, useMmap bool, opts dbc.Options, logger logging.Logger, metrics *dbcmetrics.Registry) (string, error) {
	var src stream.Source
	var err error
	if useMmap {
		src, err = dbcsource.FromMapped(path)
	} else {
		src, err = dbcsource.FromFile(path)
	}
	if err != nil {
		return "", err
	}
	defer src.Close()

	switch schemaName {
	case "creature":
		f, err := dbc.OpenWithLogger[dbcschemas.CreatureRow](src, opts, logger, metrics)
		if err != nil {
			return "", err
		}
		rows, err := collectRows(f)
		if err != nil {
			return "", err
		}
		return encodeRows(rows, format, creatureHeader, creatureRecord)
	case "item":
		f, err := dbc.OpenWithLogger[dbcschemas.ItemSparseRow](src, opts, logger, metrics)
		if err != nil {
			return "", err
		}
		rows, err := collectRows(f)
		if err != nil {
			return "", err
		}
		return encodeRows(rows, format, itemHeader, itemRecord)
	default:
		return "", fmt.Errorf("unreachable: unknown schema %q", schemaName)
	}
}

// explicitFlags reports which flags were actually passed on the command
// line, so a loaded config file only fills in the ones the caller left
// at their default.
func explicitFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// parseLoadMask translates a config file's default_load_mask segment
// names into a dbc.LoadMask. An unrecognized name is ignored rather
// than rejected outright, since a config shared across tool versions
// may name a segment this build doesn't know about yet.
func parseLoadMask(names []string) (dbc.LoadMask, bool) {
	if len(names) == 0 {
		return 0, false
	}
	var mask dbc.LoadMask
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "offsetmap":
			mask |= dbc.OptOffsetMap
		case "indextable":
			mask |= dbc.OptIndexTable
		case "copytable":
			mask |= dbc.OptCopyTable
		case "palette":
			mask |= dbc.OptPalette
		case "commondata":
			mask |= dbc.OptCommonData
		case "relationship":
			mask |= dbc.OptRelationship
		}
	}
	return mask, true
}

func collectRows[T any](f *dbc.File[T]) ([]T, error) {
	it := f.Records()
	var rows []T
	for it.Next() {
		rows = append(rows, it.Record())
	}
	return rows, it.Err()
}

func creatureHeader() []string { return []string{"id", "name", "level", "health", "mana", "faction", "flags"} }

func creatureRecord(r dbcschemas.CreatureRow) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10), r.Name,
		strconv.Itoa(int(r.Level)), strconv.Itoa(int(r.HealthBase)), strconv.Itoa(int(r.ManaBase)),
		strconv.FormatUint(uint64(r.Faction), 10), strconv.FormatUint(uint64(r.Flags), 10),
	}
}

func itemHeader() []string {
	return []string{"id", "name", "description", "quality", "item_level", "required_level"}
}

func itemRecord(r dbcschemas.ItemSparseRow) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10), r.Name, r.Description,
		strconv.Itoa(int(r.Quality)), strconv.Itoa(int(r.ItemLevel)), strconv.Itoa(int(r.RequiredLvl)),
	}
}

func encodeRows[T any](rows []T, format string, header func() []string, toRow func(T) []string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "csv":
		var sb strings.Builder
		w := csv.NewWriter(&sb)
		if err := w.Write(header()); err != nil {
			return "", err
		}
		for _, r := range rows {
			if err := w.Write(toRow(r)); err != nil {
				return "", err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", err
		}
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or csv)", format)
	}
}
