package fake

import (
	"context"
	"testing"
)

func TestPersonReader_emitsExactCount(t *testing.T) {
	r := NewPersonReader(5, 42)
	ctx := context.Background()

	if err := r.Open(ctx); err != nil {
		t.Fatal(err)
	}

	var people []Person
	for {
		item, done, err := r.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if done {
			break
		}
		people = append(people, item)
	}

	if len(people) != 5 {
		t.Fatalf(`got %d people, want 5`, len(people))
	}
	for _, p := range people {
		if p.FirstName == `` || p.LastName == `` || p.Email == `` {
			t.Fatalf(`incomplete person: %+v`, p)
		}
	}
}

func TestPersonReader_deterministicWithSeed(t *testing.T) {
	ctx := context.Background()

	r1 := NewPersonReader(3, 7)
	r1.Open(ctx)
	var out1 []Person
	for {
		item, done, _ := r1.Read(ctx)
		if done {
			break
		}
		out1 = append(out1, item)
	}

	r2 := NewPersonReader(3, 7)
	r2.Open(ctx)
	var out2 []Person
	for {
		item, done, _ := r2.Read(ctx)
		if done {
			break
		}
		out2 = append(out2, item)
	}

	if len(out1) != len(out2) {
		t.Fatalf(`length mismatch: %d vs %d`, len(out1), len(out2))
	}
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Fatalf(`seeded reader diverged at %d: %+v vs %+v`, i, out1[i], out2[i])
		}
	}
}
