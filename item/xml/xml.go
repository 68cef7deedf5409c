// Package xml provides ItemReader and ItemWriter implementations that
// stream repeating child elements of an XML document via encoding/xml,
// relying on encoding/xml's own struct-tag support for attributes and
// nested elements.
package xml

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/sboussekeyt/gobatch/batch"
)

// Reader streams every element named Tag found anywhere in the document,
// decoding each into a value of T via xml.Decoder.DecodeElement.
type Reader[T any] struct {
	Source io.Reader
	Tag    string

	dec *xml.Decoder
}

func NewReader[T any](source io.Reader, tag string) *Reader[T] {
	return &Reader[T]{Source: source, Tag: tag}
}

func (r *Reader[T]) Open(context.Context) error {
	r.dec = xml.NewDecoder(r.Source)
	return nil
}

func (r *Reader[T]) Close(context.Context) error {
	if closer, ok := r.Source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (r *Reader[T]) Read(context.Context) (item T, done bool, err error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return item, true, nil
		}
		if err != nil {
			return item, false, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != r.Tag {
			continue
		}

		if err := r.dec.DecodeElement(&item, &start); err != nil {
			return item, false, err
		}
		return item, false, nil
	}
}

// Writer wraps each Write call's items in ItemTag elements nested inside
// a single RootTag element opened in Open and closed in Close.
type Writer[T any] struct {
	Target  io.Writer
	RootTag string
	ItemTag string

	enc *xml.Encoder
}

func NewWriter[T any](target io.Writer, rootTag, itemTag string) *Writer[T] {
	return &Writer[T]{Target: target, RootTag: rootTag, ItemTag: itemTag}
}

func (w *Writer[T]) Open(context.Context) error {
	if _, err := fmt.Fprintf(w.Target, `<%s>`, w.RootTag); err != nil {
		return err
	}
	w.enc = xml.NewEncoder(w.Target)
	return nil
}

func (w *Writer[T]) Close(context.Context) error {
	if err := w.enc.Flush(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.Target, `</%s>`, w.RootTag); err != nil {
		return err
	}
	if closer, ok := w.Target.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (w *Writer[T]) Write(_ context.Context, chunk []T) error {
	for _, item := range chunk {
		if err := w.enc.EncodeElement(item, xml.StartElement{Name: xml.Name{Local: w.ItemTag}}); err != nil {
			return err
		}
	}
	return w.enc.Flush()
}

var (
	_ batch.ItemReader[struct{}] = (*Reader[struct{}])(nil)
	_ batch.ItemWriter[struct{}] = (*Writer[struct{}])(nil)
	_ batch.ItemStreamOpener     = (*Reader[struct{}])(nil)
	_ batch.ItemStreamCloser     = (*Reader[struct{}])(nil)
	_ batch.ItemStreamOpener     = (*Writer[struct{}])(nil)
	_ batch.ItemStreamCloser     = (*Writer[struct{}])(nil)
)
