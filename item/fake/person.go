// Package fake generates synthetic Person records for exercising a
// pipeline without external input, deterministic given a seed.
package fake

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/sboussekeyt/gobatch/batch"
)

// Person is a synthetic record produced by PersonReader.
type Person struct {
	FirstName string `csv:"first_name"`
	LastName  string `csv:"last_name"`
	Title     string `csv:"title"`
	Email     string `csv:"email"`
}

var (
	firstNames = [...]string{`Alice`, `Bob`, `Carol`, `Dave`, `Erin`, `Frank`, `Grace`, `Heidi`, `Ivan`, `Judy`}
	lastNames  = [...]string{`Smith`, `Johnson`, `Williams`, `Brown`, `Jones`, `Garcia`, `Miller`, `Davis`, `Lopez`, `Wilson`}
	titles     = [...]string{`Engineer`, `Manager`, `Analyst`, `Director`, `Technician`}
)

// PersonReader emits NumberOfItems synthetic Person records, then reports
// exhaustion. It never fails: ReaderError is not produced by this reader.
type PersonReader struct {
	NumberOfItems int
	Seed          uint64

	rng   *rand.Rand
	count int
}

// NewPersonReader builds a reader emitting n items. If seed is non-zero,
// generation is deterministic across runs.
func NewPersonReader(n int, seed uint64) *PersonReader {
	return &PersonReader{NumberOfItems: n, Seed: seed}
}

func (r *PersonReader) Open(context.Context) error {
	if r.Seed != 0 {
		r.rng = rand.New(rand.NewPCG(r.Seed, r.Seed))
	} else {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return nil
}

func (r *PersonReader) Read(context.Context) (item Person, done bool, err error) {
	if r.count >= r.NumberOfItems {
		return item, true, nil
	}
	r.count++

	first := firstNames[r.rng.IntN(len(firstNames))]
	last := lastNames[r.rng.IntN(len(lastNames))]
	item = Person{
		FirstName: first,
		LastName:  last,
		Title:     titles[r.rng.IntN(len(titles))],
		Email:     fmt.Sprintf(`%s.%s@example.test`, lower(first), lower(last)),
	}
	return item, false, nil
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

var (
	_ batch.ItemReader[Person] = (*PersonReader)(nil)
	_ batch.ItemStreamOpener   = (*PersonReader)(nil)
)
