package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/bft-labs/tweetsim/internal/domain"
)

const indent = "    "

var batchFilePattern = regexp.MustCompile(`^batch([0-9]+)\.json$`)

// BatchDir implements ports.BatchWriter and ports.BatchReader over a
// directory of batch<N>.json files.
type BatchDir struct {
	dir       string
	createDir bool
}

// Option configures a BatchDir.
type Option func(*BatchDir)

// CreateDir makes WriteBatch create the directory when it is missing.
// By default the directory must already exist.
func CreateDir() Option {
	return func(d *BatchDir) {
		d.createDir = true
	}
}

// NewBatchDir creates a BatchDir rooted at dir.
func NewBatchDir(dir string, opts ...Option) *BatchDir {
	d := &BatchDir{dir: dir}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dir returns the directory the batches live in.
func (d *BatchDir) Dir() string {
	return d.dir
}

// Path returns the full path of the artifact for batch number n.
func (d *BatchDir) Path(n int) string {
	return filepath.Join(d.dir, domain.BatchFileName(n))
}

// WriteBatch writes the batch as a pretty-printed JSON array.
// Uses atomic write (write to temp file, then rename) so readers never see
// a half-written batch.
func (d *BatchDir) WriteBatch(ctx context.Context, b domain.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.ensureDir(); err != nil {
		return err
	}

	data, err := EncodeBatch(b)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrIO, b.FileName(), err)
	}

	path := d.Path(b.Number)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	return nil
}

func (d *BatchDir) ensureDir() error {
	if d.createDir {
		if err := os.MkdirAll(d.dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrIO, err)
		}
		return nil
	}
	fi, err := os.Stat(d.dir)
	if err != nil {
		return fmt.Errorf("%w: output location: %v", domain.ErrIO, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: output location %s is not a directory", domain.ErrIO, d.dir)
	}
	return nil
}

// PruneBatches removes every batch<N>.json with N > keep, so the directory
// holds exactly one run after a shorter run overwrote a longer one.
func (d *BatchDir) PruneBatches(ctx context.Context, keep int) error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := batchFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n <= keep {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(filepath.Join(d.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", domain.ErrIO, err)
		}
	}
	return nil
}

// ReadBatches loads every batch<N>.json in the directory ordered by N.
// Files that do not follow the naming scheme are ignored.
func (d *BatchDir) ReadBatches(ctx context.Context) ([]domain.Batch, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	var batches []domain.Batch
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := batchFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrIO, e.Name(), err)
		}
		data, err := os.ReadFile(filepath.Join(d.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
		}
		b, err := DecodeBatch(n, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrIO, e.Name(), err)
		}
		batches = append(batches, b)
	}

	sort.Slice(batches, func(i, j int) bool {
		return batches[i].Number < batches[j].Number
	})
	return batches, nil
}

// EncodeBatch renders the tweets of b as a JSON array indented with four
// spaces. HTML characters are written as-is.
func EncodeBatch(b domain.Batch) ([]byte, error) {
	tweets := b.Tweets
	if tweets == nil {
		tweets = []domain.Tweet{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(tweets); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBatch parses a JSON array of tweets as batch number n.
func DecodeBatch(n int, data []byte) (domain.Batch, error) {
	var tweets []domain.Tweet
	if err := json.Unmarshal(data, &tweets); err != nil {
		return domain.Batch{}, err
	}
	return domain.Batch{Number: n, Tweets: tweets}, nil
}
