package batch

import (
	"context"
	"errors"
	"testing"
)

func TestStep_csvToJSON_success(t *testing.T) {
	reader := &sliceReader[int]{items: []int{1, 2, 3, 4, 5}}
	writer := &collectingWriter[int]{}

	step, err := NewStepBuilder[int](`csv-to-json`).
		Reader(reader).
		Writer(writer).
		ChunkSize(3).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec, err := step.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if exec.Status != StatusSuccess {
		t.Fatalf(`status = %s`, exec.Status)
	}
	if exec.ReadCount != 5 || exec.WriteCount != 5 {
		t.Fatalf(`read=%d write=%d`, exec.ReadCount, exec.WriteCount)
	}
	if exec.ReadSkipCount != 0 || exec.ProcessSkipCount != 0 || exec.WriteSkipCount != 0 {
		t.Fatalf(`unexpected skips: %+v`, exec)
	}
	if len(writer.chunks) != 2 || len(writer.chunks[0]) != 3 || len(writer.chunks[1]) != 2 {
		t.Fatalf(`unexpected chunking: %v`, writer.chunks)
	}
}

func TestStep_badRowAtFirst_tolerated(t *testing.T) {
	reader := &sliceReader[int]{
		items:  []int{1, 2, 3, 4, 5},
		failAt: map[int]error{0: errBadRow},
	}
	writer := &collectingWriter[int]{}

	step, err := NewStepBuilder[int](`csv-to-json`).
		Reader(reader).
		Writer(writer).
		ChunkSize(3).
		SkipLimit(1).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec, err := step.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if exec.Status != StatusSuccess {
		t.Fatalf(`status = %s`, exec.Status)
	}
	if exec.ReadCount != 4 || exec.WriteCount != 4 {
		t.Fatalf(`read=%d write=%d`, exec.ReadCount, exec.WriteCount)
	}
	if exec.ReadSkipCount != 1 {
		t.Fatalf(`read skip = %d`, exec.ReadSkipCount)
	}
}

func TestStep_badRowAtEnd_fatal(t *testing.T) {
	reader := &sliceReader[int]{
		items:  []int{1, 2, 3, 4, 5},
		failAt: map[int]error{4: errBadRow},
	}
	writer := &collectingWriter[int]{}

	step, err := NewStepBuilder[int](`csv-to-json`).
		Reader(reader).
		Writer(writer).
		ChunkSize(3).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec, err := step.Execute(context.Background())
	if err == nil {
		t.Fatal(`expected error`)
	}
	var readErr *ReaderError
	if !errors.As(err, &readErr) {
		t.Fatalf(`expected *ReaderError, got %T: %v`, err, err)
	}
	if exec.Status != StatusFailed {
		t.Fatalf(`status = %s`, exec.Status)
	}
	if exec.ReadCount != 4 || exec.WriteCount != 3 {
		t.Fatalf(`read=%d write=%d`, exec.ReadCount, exec.WriteCount)
	}
	if exec.ReadErrorCount != 1 {
		t.Fatalf(`read error count = %d`, exec.ReadErrorCount)
	}
}

func TestStep_identityPassthrough(t *testing.T) {
	reader := &sliceReader[int]{items: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
	writer := &collectingWriter[int]{}

	step, err := NewStepBuilder[int](`identity`).
		Reader(reader).
		Writer(writer).
		ChunkSize(4).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec, err := step.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if exec.ReadCount != 10 || exec.WriteCount != 10 {
		t.Fatalf(`read=%d write=%d`, exec.ReadCount, exec.WriteCount)
	}
	if len(writer.chunks) != 3 || len(writer.chunks[0]) != 4 || len(writer.chunks[1]) != 4 || len(writer.chunks[2]) != 2 {
		t.Fatalf(`unexpected chunking: %v`, writer.chunks)
	}
}

func TestStep_processorFiltersHalf(t *testing.T) {
	reader := &sliceReader[int]{items: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
	writer := &collectingWriter[int]{}
	processor := &filterEvenProcessor[int]{}

	step, err := NewTypedStepBuilder[int, int](`filter`, processor).
		Reader(reader).
		Writer(writer).
		ChunkSize(3).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec, err := step.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if exec.WriteCount != 5 {
		t.Fatalf(`write count = %d`, exec.WriteCount)
	}
	if exec.ProcessSkipCount != 0 {
		t.Fatalf(`process skip count = %d (filter is not a failure)`, exec.ProcessSkipCount)
	}
	if len(writer.chunks) != 2 || len(writer.chunks[0]) != 3 || len(writer.chunks[1]) != 2 {
		t.Fatalf(`unexpected chunking: %v`, writer.chunks)
	}
}

func TestStep_writerFailsOneChunk_tolerated(t *testing.T) {
	items := make([]int, 10)
	for i := range items {
		items[i] = i
	}
	reader := &sliceReader[int]{items: items}
	writer := &collectingWriter[int]{failAt: map[int]error{1: errors.New(`disk full`)}}

	step, err := NewStepBuilder[int](`unreliable-writer`).
		Reader(reader).
		Writer(writer).
		ChunkSize(3).
		SkipLimit(5).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec, err := step.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if exec.Status != StatusSuccess {
		t.Fatalf(`status = %s`, exec.Status)
	}
	if exec.WriteSkipCount != 3 {
		t.Fatalf(`write skip count = %d`, exec.WriteSkipCount)
	}
	if exec.WriteCount != 7 {
		t.Fatalf(`write count = %d`, exec.WriteCount)
	}
}

func TestStep_writerOpenCloseLifecycle(t *testing.T) {
	for _, tc := range [...]struct {
		name    string
		failAt  map[int]error
		skip    int
		wantErr bool
	}{
		{name: `success`},
		{name: `fatal write`, failAt: map[int]error{0: errors.New(`boom`)}, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			reader := &sliceReader[int]{items: []int{1, 2, 3}}
			writer := &collectingWriter[int]{failAt: tc.failAt}

			step, err := NewStepBuilder[int](`lifecycle`).
				Reader(reader).
				Writer(writer).
				ChunkSize(3).
				SkipLimit(tc.skip).
				Build()
			if err != nil {
				t.Fatal(err)
			}

			_, err = step.Execute(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf(`err = %v, wantErr = %v`, err, tc.wantErr)
			}
			if !reader.opened || !reader.closed {
				t.Fatalf(`reader open/close: opened=%v closed=%v`, reader.opened, reader.closed)
			}
			if !writer.opened || !writer.closed {
				t.Fatalf(`writer open/close: opened=%v closed=%v`, writer.opened, writer.closed)
			}
		})
	}
}

func TestStep_stopViaContextCancellation(t *testing.T) {
	items := make([]int, 20)
	reader := &sliceReader[int]{items: items}
	writer := &collectingWriter[int]{}

	step, err := NewStepBuilder[int](`cancelable`).
		Reader(reader).
		Writer(writer).
		ChunkSize(2).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // canceled before the first chunk boundary check

	exec, err := step.Execute(ctx)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf(`err = %v`, err)
	}
	if exec.Status != StatusStopped {
		t.Fatalf(`status = %s`, exec.Status)
	}
	if !writer.closed {
		t.Fatal(`expected writer Close on stop`)
	}
}

func TestStep_openFailure(t *testing.T) {
	reader := &sliceReader[int]{items: []int{1}, openErr: errors.New(`connect failed`)}
	writer := &collectingWriter[int]{}

	step, err := NewStepBuilder[int](`open-fail`).
		Reader(reader).
		Writer(writer).
		ChunkSize(3).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec, err := step.Execute(context.Background())
	if err == nil {
		t.Fatal(`expected error`)
	}
	if exec.Status != StatusFailed {
		t.Fatalf(`status = %s`, exec.Status)
	}
	if writer.opened {
		t.Fatal(`writer should not be opened after reader open failure`)
	}
}

func TestStep_writerOpenFailureClosesAlreadyOpenedReader(t *testing.T) {
	reader := &sliceReader[int]{items: []int{1}}
	writer := &collectingWriter[int]{openErr: errors.New(`connect failed`)}

	step, err := NewStepBuilder[int](`writer-open-fail`).
		Reader(reader).
		Writer(writer).
		ChunkSize(3).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec, err := step.Execute(context.Background())
	if err == nil {
		t.Fatal(`expected error`)
	}
	if exec.Status != StatusFailed {
		t.Fatalf(`status = %s`, exec.Status)
	}
	if !reader.opened {
		t.Fatal(`reader should have been opened before writer open was attempted`)
	}
	if !reader.closed {
		t.Fatal(`reader should be closed after writer open failure, to avoid leaking its resource`)
	}
}
