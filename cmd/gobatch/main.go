// Command gobatch runs one of a small set of built-in batch pipelines,
// logging structured step/job events to stderr via stumpy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/sboussekeyt/gobatch/batch"
	"github.com/sboussekeyt/gobatch/item/csv"
	"github.com/sboussekeyt/gobatch/item/fake"
	itemjson "github.com/sboussekeyt/gobatch/item/json"
)

func main() {
	var (
		pipeline  = flag.String(`pipeline`, `fake-to-csv`, `pipeline to run: fake-to-csv, csv-to-json`)
		count     = flag.Int(`count`, 10, `number of synthetic records (fake-to-csv only)`)
		chunkSize = flag.Int(`chunk-size`, 5, `items per chunk`)
		skipLimit = flag.Int(`skip-limit`, 0, `tolerated read+process+write failures`)
		input     = flag.String(`input`, ``, `input file path (csv-to-json only; empty reads stdin)`)
		output    = flag.String(`output`, ``, `output file path (empty writes stdout)`)
	)
	flag.Parse()

	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
	).Logger()

	var err error
	switch *pipeline {
	case `fake-to-csv`:
		err = runFakeToCSV(logger, *count, *chunkSize, *skipLimit, *output)
	case `csv-to-json`:
		err = runCSVToJSON(logger, *chunkSize, *skipLimit, *input, *output)
	default:
		fmt.Fprintf(os.Stderr, "unknown pipeline %q\n", *pipeline)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runFakeToCSV(logger *logiface.Logger[logiface.Event], count, chunkSize, skipLimit int, outputPath string) error {
	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	step, err := batch.NewStepBuilder[fake.Person](`fake-to-csv`).
		Reader(fake.NewPersonReader(count, 0)).
		Writer(csv.NewWriter[fake.Person](out)).
		ChunkSize(chunkSize).
		SkipLimit(skipLimit).
		Logger(logger).
		Build()
	if err != nil {
		return err
	}

	_, err = batch.RunJob(context.Background(), `fake-to-csv`, step)
	return err
}

func runCSVToJSON(logger *logiface.Logger[logiface.Event], chunkSize, skipLimit int, inputPath, outputPath string) error {
	in, closeIn, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	step, err := batch.NewStepBuilder[csvRow](`csv-to-json`).
		Reader(csv.NewReader[csvRow](in)).
		Writer(itemjson.NewWriter[csvRow](out)).
		ChunkSize(chunkSize).
		SkipLimit(skipLimit).
		Logger(logger).
		Build()
	if err != nil {
		return err
	}

	_, err = batch.RunJob(context.Background(), `csv-to-json`, step)
	return err
}

type csvRow struct {
	Year        int    `csv:"year" json:"year"`
	Make        string `csv:"make" json:"make"`
	Model       string `csv:"model" json:"model"`
	Description string `csv:"description" json:"description"`
}

func openInput(path string) (*os.File, func(), error) {
	if path == `` {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == `` {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
