package fvecmat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/fvecmat/internal/fs"
	"github.com/hupe1980/fvecmat/internal/seekbuf"
	"github.com/hupe1980/fvecmat/mat5"
	"github.com/hupe1980/fvecmat/model"
)

type state uint8

const (
	stateOpen state = iota
	stateBroken
	stateClosed
)

// stageCapacity fits the pair of a vector with a few hundred nonzeros.
const stageCapacity = 4096

// Session is an open container file.
//
// Between Open and Close the file is not a valid MAT-file: the outer size
// field and the column count hold zeros until Close patches them.
// A Session is not safe for concurrent use.
type Session struct {
	opts   options
	path   string
	logger *Logger

	file   fs.File
	w      *mat5.Writer
	stage  *seekbuf.Buffer
	sw     *mat5.Writer
	layout mat5.Layout

	bytes    uint64
	elements uint32
	state    state
	tally    tally
	progress *rate.Sometimes
}

// Open creates (or truncates) the file at path and writes the preamble and
// the header of the outer cell array.
//
// Invalid options are reported as *ErrConfiguration before the file is
// touched. A file that cannot be created yields ErrSinkUnavailable.
func Open(ctx context.Context, path string, optFns ...Option) (s *Session, err error) {
	o := applyOptions(optFns)
	logger := o.logger.WithPath(path)
	start := time.Now()

	defer func() {
		o.metricsCollector.RecordOpen(time.Since(start), err)
		logger.LogOpen(ctx, o.bits, err)
	}()

	if err = o.validate(); err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	f, err := o.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}

	s = &Session{
		opts:   o,
		path:   path,
		logger: logger,
		file:   f,
		w:      mat5.NewWriter(f, 0),
		tally:  newTally(),
	}
	if o.buffered {
		s.stage = seekbuf.New(stageCapacity)
		s.sw = mat5.NewWriter(s.stage, 0)
	}
	if o.progressInterval > 0 {
		s.progress = &rate.Sometimes{Interval: o.progressInterval}
	}

	if err = s.writeHeader(); err != nil {
		_ = f.Close()
		_ = o.fs.Remove(path)
		return nil, err
	}

	return s, nil
}

func (s *Session) writeHeader() error {
	if _, err := mat5.WritePreamble(s.w, s.opts.description); err != nil {
		if errors.Is(err, mat5.ErrHeaderSize) {
			return fmt.Errorf("%w: %w", ErrHeaderConstruction, err)
		}
		return &ErrIO{Op: "write preamble", Path: s.path, cause: err}
	}

	layout, err := mat5.WriteCellHeader(s.w)
	if err != nil {
		return &ErrIO{Op: "write header", Path: s.path, cause: err}
	}
	if !layout.Fixed() {
		return fmt.Errorf("%w: summary fields at %#x and %#x", ErrHeaderConstruction, layout.BytesField, layout.CountField)
	}

	s.layout = layout
	s.bytes = uint64(layout.HeaderBytes)
	return nil
}

// Path returns the path of the container file.
func (s *Session) Path() string { return s.path }

// Layout returns the offsets of the summary fields recorded during Open.
func (s *Session) Layout() mat5.Layout { return s.layout }

// Write appends one string/vector element pair per vector, in order.
//
// The whole block is validated first; an invalid vector is reported as
// *ErrInvalidVector and nothing of the block is written. Cancellation of ctx
// is checked before each pair. A Write canceled before its first pair leaves
// the session usable; one canceled after that has appended part of the block
// and breaks the session. Any I/O error breaks the session too: further
// writes return ErrSessionBroken and the file must be discarded.
func (s *Session) Write(ctx context.Context, vecs []model.FeatureVector) (err error) {
	switch s.state {
	case stateClosed:
		return ErrClosed
	case stateBroken:
		return ErrSessionBroken
	}

	var (
		start   = time.Now()
		written int
		n       int
	)

	defer func() {
		s.opts.metricsCollector.RecordWrite(written, n, time.Since(start), err)
		s.logger.LogWrite(ctx, written, n, err)
	}()

	if err = s.check(vecs); err != nil {
		return err
	}

	for i := range vecs {
		if err = ctx.Err(); err != nil {
			if written > 0 {
				s.state = stateBroken
			}
			return err
		}

		v := &vecs[i]
		m, werr := s.writePair(v)
		if werr != nil {
			s.state = stateBroken
			err = &ErrIO{Op: "write", Path: s.path, cause: werr}
			return err
		}

		s.bytes += uint64(m)
		s.elements++
		s.tally.observe(v)
		written++
		n += m
	}

	if s.progress != nil {
		s.progress.Do(func() {
			s.logger.LogProgress(ctx, s.Stats())
		})
	}

	return nil
}

// check validates a block and makes sure the outer size field can hold it.
func (s *Session) check(vecs []model.FeatureVector) error {
	size := s.bytes
	for i := range vecs {
		v := &vecs[i]
		if err := mat5.CheckSparse(v.Dim, v.Val, s.opts.indexPolicy); err != nil {
			return &ErrInvalidVector{Index: i, Src: v.Src, cause: err}
		}
		size += uint64(mat5.CharSize(len(v.Src)) + mat5.SparseSize(len(v.Dim)))
	}
	if size > math.MaxUint32 {
		return fmt.Errorf("%w: %d payload bytes", ErrContainerFull, size)
	}
	return nil
}

func (s *Session) writePair(v *model.FeatureVector) (int, error) {
	if !s.opts.buffered {
		n := mat5.WriteChar(s.w, v.Src)
		n += mat5.WriteSparse(s.w, s.opts.bits, v.Dim, v.Val)
		return n, s.w.Err()
	}

	s.stage.Reset()
	s.sw.Reset(s.stage, s.w.Offset())

	n := mat5.WriteChar(s.sw, v.Src)
	n += mat5.WriteSparse(s.sw, s.opts.bits, v.Dim, v.Val)
	if err := s.sw.Err(); err != nil {
		return n, err
	}

	s.w.WriteBytes(s.stage.Bytes())
	return n, s.w.Err()
}

// Stats returns the running totals of the session.
func (s *Session) Stats() Stats {
	return Stats{
		Vectors:      s.elements,
		Elements:     2 * uint64(s.elements),
		PayloadBytes: s.bytes,
		NonZeros:     s.tally.nonzeros,
		DistinctDims: s.tally.dims.GetCardinality(),
		MaxIndex:     s.tally.maxIndex,
	}
}

// Close patches the outer size field and the column count, syncs and
// closes the file and uploads it when a store is configured.
//
// Close on a closed session is a no-op. Close on a broken session releases
// the file without patching and returns ErrSessionBroken.
func (s *Session) Close() error {
	return s.CloseContext(context.Background())
}

// CloseContext is like Close; ctx bounds the upload.
func (s *Session) CloseContext(ctx context.Context) (err error) {
	if s == nil || s.state == stateClosed {
		return nil
	}

	if s.state == stateBroken {
		s.state = stateClosed
		return errors.Join(ErrSessionBroken, s.file.Close())
	}

	s.state = stateClosed
	start := time.Now()

	defer func() {
		s.opts.metricsCollector.RecordClose(s.bytes, s.elements, time.Since(start), err)
		s.logger.LogClose(ctx, s.Stats(), err)
	}()

	s.w.PatchUint32At(s.layout.BytesField, uint32(s.bytes))
	s.w.PatchUint32At(s.layout.CountField, s.elements)
	if err = s.w.Err(); err != nil {
		_ = s.file.Close()
		return &ErrIO{Op: "patch", Path: s.path, cause: err}
	}

	if err = s.file.Sync(); err != nil {
		_ = s.file.Close()
		return &ErrIO{Op: "sync", Path: s.path, cause: err}
	}

	if err = s.file.Close(); err != nil {
		return &ErrIO{Op: "close", Path: s.path, cause: err}
	}

	if s.opts.store != nil {
		return s.upload(ctx)
	}

	return nil
}

func (s *Session) upload(ctx context.Context) (err error) {
	if s.opts.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.uploadTimeout)
		defer cancel()
	}

	var size int64
	start := time.Now()

	defer func() {
		s.opts.metricsCollector.RecordUpload(size, time.Since(start), err)
		s.logger.LogUpload(ctx, s.opts.storeName, size, err)
	}()

	f, err := s.opts.fs.OpenFile(s.path, os.O_RDONLY, 0)
	if err != nil {
		return &ErrIO{Op: "open spool", Path: s.path, cause: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return &ErrIO{Op: "stat spool", Path: s.path, cause: err}
	}
	size = fi.Size()

	if err = s.opts.store.Put(ctx, s.opts.storeName, f, size); err != nil {
		return fmt.Errorf("upload %s: %w", s.opts.storeName, err)
	}
	return nil
}
