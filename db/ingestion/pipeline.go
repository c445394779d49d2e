// Package ingestion imports customs open-data files into the rate store
// and writes the directory and trade-agreement side files.
// Strictly separated from lookups: read → normalize → store
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tolltariff/db"
	"tolltariff/internal/errors"
	"tolltariff/internal/logging"
)

// Kind names an importer
type Kind string

const (
	KindStructure  Kind = "structure"
	KindDuty       Kind = "duty"
	KindFees       Kind = "fees"
	KindLandgroups Kind = "landgroups"
	KindFTA        Kind = "fta"
)

// Result summarizes one import run
type Result struct {
	RunID      uuid.UUID `json:"run_id"`
	Kind       Kind      `json:"kind"`
	Source     string    `json:"source"`
	Hash       string    `json:"hash"`
	Output     string    `json:"output,omitempty"`
	Processed  int       `json:"processed"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Pipeline runs importers against a store
type Pipeline struct {
	store  db.Writer
	logger *zap.Logger
}

// NewPipeline creates a new ingestion pipeline. store may be nil for the
// importers that only write side files.
func NewPipeline(store db.Writer) *Pipeline {
	return &Pipeline{
		store:  store,
		logger: logging.Named("ingestion"),
	}
}

// WithLogger replaces the pipeline logger
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	p.logger = logger
	return p
}

func (p *Pipeline) requireStore() error {
	if p.store == nil {
		return errors.New(errors.TypeConfig, "import requires a rate store")
	}
	return nil
}

// run holds per-import state
type run struct {
	result *Result
	logger *zap.Logger
	total  int
	step   int
}

func (p *Pipeline) begin(kind Kind, source string, data []byte) *run {
	id := uuid.New()
	res := &Result{
		RunID:     id,
		Kind:      kind,
		Source:    source,
		Hash:      contentHash(data),
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With(
		zap.String("run_id", id.String()),
		zap.String("kind", string(kind)),
	)
	logger.Info("import started", zap.String("source", source), zap.String("hash", res.Hash))
	return &run{result: res, logger: logger}
}

// expect sets the item total; progress is logged about 20 times per run
func (r *run) expect(total int) {
	r.total = total
	r.step = total / 20
	if r.step < 1 {
		r.step = 1
	}
}

func (r *run) tick() {
	r.result.Processed++
	n := r.result.Processed
	if n%r.step == 0 || n == r.total {
		r.logger.Info("import progress",
			zap.Int("processed", n),
			zap.Int("total", r.total),
			zap.Int("added", r.result.Added),
		)
	}
}

func (r *run) finish() *Result {
	r.result.FinishedAt = time.Now().UTC()
	r.logger.Info("import finished",
		zap.Int("added", r.result.Added),
		zap.Int("updated", r.result.Updated),
		zap.Int("skipped", r.result.Skipped),
		zap.Duration("elapsed", r.result.FinishedAt.Sub(r.result.StartedAt)),
	)
	return r.result
}

func (r *run) fail(err error) error {
	r.logger.Error("import failed", zap.Error(err))
	return err
}

// contentHash fingerprints a source file for the run log
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Input("source file not found").WithContext("path", path)
		}
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read %s", path)
	}
	return data, nil
}

func decodeSource(path string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Parsing("invalid source file", err).WithContext("path", path)
	}
	return nil
}

// writeJSON writes v indented, creating parent directories
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(errors.TypeConfig, err, "failed to create %s", filepath.Dir(path))
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Internal("failed to encode output", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(errors.TypeConfig, err, "failed to write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(errors.TypeConfig, err, "failed to write %s", path)
	}
	return nil
}

// checkContext stops long imports on cancellation
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.TypeInternal, "import cancelled", err)
	}
	return nil
}
