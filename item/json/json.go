// Package json provides ItemReader and ItemWriter implementations that
// stream a top-level JSON array, one element per item, via encoding/json.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sboussekeyt/gobatch/batch"
)

// Reader streams the elements of a top-level JSON array from an
// io.Reader, one item per Read call, without holding the whole array in
// memory.
type Reader[T any] struct {
	Source io.Reader

	dec *json.Decoder
}

func NewReader[T any](source io.Reader) *Reader[T] {
	return &Reader[T]{Source: source}
}

func (r *Reader[T]) Open(context.Context) error {
	r.dec = json.NewDecoder(r.Source)
	tok, err := r.dec.Token()
	if err != nil {
		return fmt.Errorf(`json: reading opening delimiter: %w`, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf(`json: expected array, got %v`, tok)
	}
	return nil
}

func (r *Reader[T]) Close(context.Context) error {
	if closer, ok := r.Source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (r *Reader[T]) Read(context.Context) (item T, done bool, err error) {
	if !r.dec.More() {
		// consume the closing ']' so a subsequent Open/reuse sees a clean stream
		_, _ = r.dec.Token()
		return item, true, nil
	}
	if err := r.dec.Decode(&item); err != nil {
		return item, false, err
	}
	return item, false, nil
}

// Writer streams items as elements of a top-level JSON array, writing the
// opening '[' in Open and the closing ']' in Close.
type Writer[T any] struct {
	Target io.Writer

	enc       *json.Encoder
	wroteItem bool
}

func NewWriter[T any](target io.Writer) *Writer[T] {
	return &Writer[T]{Target: target}
}

func (w *Writer[T]) Open(context.Context) error {
	if _, err := w.Target.Write([]byte(`[`)); err != nil {
		return err
	}
	w.enc = json.NewEncoder(w.Target)
	return nil
}

func (w *Writer[T]) Close(context.Context) error {
	if _, err := w.Target.Write([]byte(`]`)); err != nil {
		return err
	}
	if closer, ok := w.Target.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (w *Writer[T]) Write(_ context.Context, chunk []T) error {
	for _, item := range chunk {
		if w.wroteItem {
			if _, err := w.Target.Write([]byte(`,`)); err != nil {
				return err
			}
		}
		encoded, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if _, err := w.Target.Write(encoded); err != nil {
			return err
		}
		w.wroteItem = true
	}
	return nil
}

var (
	_ batch.ItemReader[struct{}] = (*Reader[struct{}])(nil)
	_ batch.ItemWriter[struct{}] = (*Writer[struct{}])(nil)
	_ batch.ItemStreamOpener     = (*Reader[struct{}])(nil)
	_ batch.ItemStreamCloser     = (*Reader[struct{}])(nil)
	_ batch.ItemStreamOpener     = (*Writer[struct{}])(nil)
	_ batch.ItemStreamCloser     = (*Writer[struct{}])(nil)
)
