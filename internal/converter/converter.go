// =============================================================================
// CSV to Inventory Converter - Converter Module
// =============================================================================
//
// This module contains the conversion pipeline for one input file.
//
// CONVERSION PIPELINE:
//   1. Open the row source (CSV, or XLSX by extension)
//   2. Check the header row and report missing/duplicate columns
//   3. Normalize every row in order; rejected rows are counted and skipped
//   4. Fail if no row was accepted
//   5. Render the inventory and vars artifacts
//   6. Write both artifacts (skipped in dry-run mode)
//
// CONCURRENCY:
//   None. Rows are processed sequentially and node numbering depends on
//   processing order.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/csv-to-inventory/internal/config"
	"github.com/ginjaninja78/csv-to-inventory/internal/csvparser"
	"github.com/ginjaninja78/csv-to-inventory/internal/inventory"
	"github.com/ginjaninja78/csv-to-inventory/internal/normalizer"
	"github.com/ginjaninja78/csv-to-inventory/internal/types"
	"github.com/ginjaninja78/csv-to-inventory/internal/validation"
	"github.com/ginjaninja78/csv-to-inventory/internal/xlsxparser"
	"github.com/ginjaninja78/csv-to-inventory/pkg/utils"
)

// =============================================================================
// ERROR CLASSES
// =============================================================================

// Every failure returned by Run wraps exactly one of these.
var (
	// ErrInputMissing means the input file does not exist.
	ErrInputMissing = errors.New("input file does not exist")

	// ErrInputInvalid means the input is empty, has no header or cannot be parsed.
	ErrInputInvalid = errors.New("input file is empty or invalid")

	// ErrNoValidServers means every row was rejected (or there were no rows).
	ErrNoValidServers = errors.New("no valid servers found in input file")

	// ErrWriteFailed means an artifact could not be written.
	ErrWriteFailed = errors.New("failed to write artifact")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting one file.
type Result struct {
	// InputPath is the path to the source file.
	InputPath string

	// InventoryPath and VarsPath are the artifact destinations.
	InventoryPath string
	VarsPath      string

	// Written is false in dry-run mode or when Run failed before writing.
	Written bool

	// Headers is the header row of the source.
	Headers []string

	// Findings are the header check results.
	Findings []validation.Finding

	// Records are the accepted server records in processing order.
	Records []types.ServerRecord

	// Rejections are the rejected rows in processing order.
	Rejections []*normalizer.RejectionError

	// Inventory and Vars hold the rendered artifacts.
	Inventory []byte
	Vars      []byte

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsProcessed is the number of data rows read.
	RowsProcessed int

	// Accepted is the number of rows that became server records.
	Accepted int

	// Rejected is the number of rows skipped by the normalizer.
	Rejected int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// ROW SOURCES
// =============================================================================

// RowSource streams raw rows. Implemented by csvparser.StreamingParser and
// xlsxparser.SheetParser.
type RowSource interface {
	Headers() []string
	Next() bool
	Row() types.RawRow
	RowNumber() int
	Err() error
	Close() error
}

// OpenSource opens the input file as a row source. Files ending in .xlsx
// or .xlsm are read as workbooks; everything else as CSV.
//
// RETURNS:
//   - The row source.
//   - An error wrapping ErrInputMissing or ErrInputInvalid.
func OpenSource(path string, settings config.CSVSettings) (RowSource, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputInvalid, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputInvalid, path)
	}

	var src RowSource
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		src, err = xlsxparser.Open(path)
	default:
		src, err = csvparser.NewStreamingParser(path, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputInvalid, err)
	}
	return src, nil
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single input file.
type Converter struct {
	// inputPath is the path to the source file.
	inputPath string

	// config is the main application configuration.
	config *config.MainConfig

	// logger receives structured progress and rejection reports.
	logger *slog.Logger

	// dryRun renders the artifacts without writing them.
	dryRun bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithDryRun renders the artifacts without writing them.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) { c.dryRun = dryRun }
}

// New creates a new Converter instance.
func New(inputPath string, cfg *config.MainConfig, opts ...Option) *Converter {
	c := &Converter{
		inputPath: inputPath,
		config:    cfg,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// run_id ties together the log lines of one invocation. It never
	// reaches the artifacts.
	c.logger = c.logger.With("run_id", uuid.New().String())
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// RETURNS:
//   - The Result; it is never nil and carries partial statistics on failure.
//   - An error wrapping one of the Err* classes above.
func (c *Converter) Run() (*Result, error) {
	startTime := time.Now()
	result := &Result{
		InputPath:     c.inputPath,
		InventoryPath: c.config.InventoryPath,
		VarsPath:      c.config.VarsPath,
	}

	// =========================================================================
	// STEP 1: OPEN SOURCE
	// =========================================================================

	c.logger.Info("processing input", "path", c.inputPath)

	src, err := OpenSource(c.inputPath, c.config.CSVSettings)
	if err != nil {
		return result, err
	}
	defer src.Close()

	result.Headers = src.Headers()
	if sheet, ok := src.(*xlsxparser.SheetParser); ok {
		c.logger.Info("reading workbook sheet", "sheet", sheet.SheetName())
	}
	c.logger.Debug("found columns", "columns", strings.Join(result.Headers, ", "))

	// =========================================================================
	// STEP 2: CHECK HEADERS
	// =========================================================================

	result.Findings = validation.CheckHeaders(result.Headers)
	for _, f := range result.Findings {
		c.logger.Warn("header check", "field", f.Field, "finding", f.String())
	}

	// =========================================================================
	// STEP 3: NORMALIZE ROWS
	// =========================================================================

	records, rejections, rows, err := Collect(src)
	result.Records = records
	result.Rejections = rejections
	result.Stats.RowsProcessed = rows
	result.Stats.Accepted = len(records)
	result.Stats.Rejected = len(rejections)
	for _, rej := range rejections {
		c.logger.Warn("row rejected", "row", rej.Row, "reason", rej.Reason)
	}
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrInputInvalid, err)
	}

	c.logger.Info("rows processed",
		"rows", rows, "accepted", len(records), "rejected", len(rejections))

	// =========================================================================
	// STEP 4: REQUIRE AT LEAST ONE SERVER
	// =========================================================================

	if len(records) == 0 {
		if validation.HasErrors(result.Findings) {
			return result, fmt.Errorf("%w: no column matches an IP alias", ErrNoValidServers)
		}
		return result, fmt.Errorf("%w (%d rows read, %d rejected)", ErrNoValidServers, rows, len(rejections))
	}

	// =========================================================================
	// STEP 5: RENDER ARTIFACTS
	// =========================================================================

	result.Inventory = inventory.RenderInventory(records, inventory.OptionsFromConfig(c.config))
	result.Vars = inventory.RenderVars(c.config.Vars)

	// =========================================================================
	// STEP 6: WRITE ARTIFACTS
	// =========================================================================

	if c.dryRun {
		c.logger.Info("dry run, artifacts not written")
		result.Stats.ProcessingTime = time.Since(startTime)
		return result, nil
	}

	if err := c.writeOutput(result); err != nil {
		return result, err
	}
	result.Written = true
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info("artifacts written",
		"inventory", result.InventoryPath, "vars", result.VarsPath,
		"servers", len(records), "elapsed", result.Stats.ProcessingTime)

	return result, nil
}

// Collect normalizes every row of a source, in order.
//
// RETURNS:
//   - The accepted records and the rejections, both in source order.
//   - The number of data rows read.
//   - The source's read error, if any. Rows read before the error are kept.
func Collect(src RowSource) ([]types.ServerRecord, []*normalizer.RejectionError, int, error) {
	var records []types.ServerRecord
	var rejections []*normalizer.RejectionError
	rows := 0

	for src.Next() {
		rows++
		record, err := normalizer.Normalize(src.Row(), src.RowNumber())
		if err != nil {
			var rej *normalizer.RejectionError
			if errors.As(err, &rej) {
				rejections = append(rejections, rej)
				continue
			}
			return records, rejections, rows, err
		}
		records = append(records, record)
	}

	return records, rejections, rows, src.Err()
}

// writeOutput writes both artifacts atomically.
func (c *Converter) writeOutput(result *Result) error {
	if err := utils.EnsureParentDirs(result.InventoryPath, result.VarsPath); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if err := utils.WriteFileAtomic(result.InventoryPath, result.Inventory, 0644); err != nil {
		return fmt.Errorf("%w: inventory: %v", ErrWriteFailed, err)
	}
	c.logger.Debug("inventory written", "path", result.InventoryPath, "bytes", len(result.Inventory))

	if err := utils.WriteFileAtomic(result.VarsPath, result.Vars, 0644); err != nil {
		return fmt.Errorf("%w: vars: %v", ErrWriteFailed, err)
	}
	c.logger.Debug("vars written", "path", result.VarsPath, "bytes", len(result.Vars))

	return nil
}
