// Package etl bulk loads the TheLook CSV exports into the dataset tables.
package etl

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	DefaultDataDir   = "data/raw"
	DefaultBatchSize = 1000
)

// containerDataDir is preferred over the default when it exists.
var containerDataDir = "/data/raw"

type Options struct {
	DataDir   string
	BatchSize int
}

// Skip reasons reported in Result.Reason.
const (
	ReasonFileMissing    = "file not found"
	ReasonFileEmpty      = "file is empty"
	ReasonNoKnownColumns = "no known columns"
)

// Result summarises one table load. UnknownStatuses counts status cells outside the order
// lifecycle; they load unchanged.
type Result struct {
	Table           string   `json:"table"`
	File            string   `json:"file"`
	Skipped         bool     `json:"skipped"`
	Reason          string   `json:"reason,omitempty"`
	Rows            int      `json:"rows"`
	Columns         []string `json:"columns"`
	MissingColumns  []string `json:"missing_columns,omitempty"`
	CoercedCells    int      `json:"coerced_cells"`
	UnknownStatuses int      `json:"unknown_statuses"`
}

// Store is the database surface the loader writes through.
type Store interface {
	AutoMigrate(ctx context.Context) error
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Loader struct {
	store     Store
	dataDir   string
	batchSize int
	logg      *logger.Logger
}

func NewLoader(store Store, opts Options, logg *logger.Logger) *Loader {
	if logg == nil {
		logg = logger.Nop()
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Loader{
		store:     store,
		dataDir:   ResolveDataDir(opts.DataDir),
		batchSize: batch,
		logg:      logg,
	}
}

// ResolveDataDir returns the container mount when the default directory is requested and
// the mount exists.
func ResolveDataDir(configured string) string {
	configured = strings.TrimSpace(configured)
	if configured == "" || configured == DefaultDataDir {
		if info, err := os.Stat(containerDataDir); err == nil && info.IsDir() {
			return containerDataDir
		}
		return DefaultDataDir
	}
	return configured
}

func (l *Loader) DataDir() string {
	return l.dataDir
}

// Run creates missing tables and loads users, products, orders and order items in that order.
// A failing table does not stop the others; every failure is returned combined.
func (l *Loader) Run(ctx context.Context) ([]Result, error) {
	info, err := os.Stat(l.dataDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data directory %s does not exist", l.dataDir)
	}
	if err := l.store.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	results := make([]Result, 0, len(tableDefs))
	var errs error
	for _, def := range tableDefs {
		res, err := l.loadTable(ctx, def)
		results = append(results, res)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("load %s: %w", def.table, err))
		}
	}
	return results, errs
}

func (l *Loader) loadTable(ctx context.Context, def tableDef) (Result, error) {
	path := filepath.Join(l.dataDir, def.file)
	res := Result{Table: def.table, File: path, Columns: []string{}}
	ctx = l.logg.WithFields(ctx, map[string]any{"table": def.table, "file": path})

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		res.Skipped, res.Reason = true, ReasonFileMissing
		l.logg.Warn(ctx, "etl.file_missing")
		return res, nil
	}
	if err != nil {
		return res, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		res.Skipped, res.Reason = true, ReasonFileEmpty
		l.logg.Warn(ctx, "etl.file_empty")
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("reading header: %w", err)
	}

	plan := buildPlan(def, header)
	res.Columns = plan.names()
	res.MissingColumns = plan.missing
	if len(plan.missing) > 0 {
		l.logg.Warn(l.logg.WithField(ctx, "missing_columns", plan.missing), "etl.columns_missing")
	}
	if len(plan.cols) == 0 {
		res.Skipped, res.Reason = true, ReasonNoKnownColumns
		l.logg.Warn(ctx, "etl.no_known_columns")
		return res, nil
	}

	err = l.store.WithTx(ctx, func(tx *gorm.DB) error {
		batch := make([]map[string]any, 0, l.batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := tx.Table(def.table).CreateInBatches(batch, l.batchSize).Error; err != nil {
				return err
			}
			res.Rows += len(batch)
			batch = make([]map[string]any, 0, l.batchSize)
			return nil
		}

		line := 1
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			line++
			if err != nil {
				return fmt.Errorf("reading line %d: %w", line, err)
			}
			row, stats := plan.row(record)
			res.CoercedCells += stats.coerced
			res.UnknownStatuses += stats.unknownStatus
			batch = append(batch, row)
			if len(batch) >= l.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})
	if err != nil {
		res.Rows = 0
		return res, err
	}

	if res.UnknownStatuses > 0 {
		l.logg.Warn(l.logg.WithField(ctx, "unknown_statuses", res.UnknownStatuses), "etl.unknown_status")
	}
	if res.CoercedCells > 0 {
		l.logg.Warn(l.logg.WithField(ctx, "coerced_cells", res.CoercedCells), "etl.cells_coerced")
	}
	l.logg.Info(l.logg.WithField(ctx, "rows", res.Rows), "etl.table_loaded")
	return res, nil
}

type plannedColumn struct {
	column
	index int
}

type columnPlan struct {
	cols    []plannedColumn
	missing []string
}

// buildPlan matches lowercased headers to the table whitelist; unknown headers are dropped.
func buildPlan(def tableDef, header []string) columnPlan {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}
	for source, target := range def.aliases {
		if _, hasTarget := positions[target]; hasTarget {
			continue
		}
		if idx, ok := positions[source]; ok {
			positions[target] = idx
		}
	}

	plan := columnPlan{}
	for _, col := range def.columns {
		idx, ok := positions[col.name]
		if !ok {
			plan.missing = append(plan.missing, col.name)
			continue
		}
		plan.cols = append(plan.cols, plannedColumn{column: col, index: idx})
	}
	return plan
}

func (p columnPlan) names() []string {
	out := make([]string, 0, len(p.cols))
	for _, c := range p.cols {
		out = append(out, c.name)
	}
	return out
}

type rowStats struct {
	coerced       int
	unknownStatus int
}

func (p columnPlan) row(record []string) (map[string]any, rowStats) {
	row := make(map[string]any, len(p.cols))
	var stats rowStats
	for _, c := range p.cols {
		raw := ""
		if c.index < len(record) {
			raw = record[c.index]
		}
		value, ok := parseCell(c.kind, raw)
		if !ok {
			stats.coerced++
		}
		if c.kind == kindStatus && value != nil && !knownStatus(value.(string)) {
			stats.unknownStatus++
		}
		row[c.name] = value
	}
	return row, stats
}
