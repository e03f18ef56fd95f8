// Package partition splits per-class file lists into train, validation and
// test subsets. Splits depend only on the set of names, the quota and the
// seed: input order is normalized with a natural sort before shuffling.
package partition

import (
	"math/rand/v2"
	"slices"
)

// Quota holds the number of files assigned to each split.
type Quota struct {
	Train      int `json:"train"`
	Validation int `json:"validation"`
	Test       int `json:"test"`
}

// Total returns the number of files the quota can hold.
func (q Quota) Total() int {
	return q.Train + q.Validation + q.Test
}

// PerClass divides a global quota evenly between numClasses, rounding
// each split down.
func (q Quota) PerClass(numClasses int) Quota {
	if numClasses <= 0 {
		return Quota{}
	}
	return Quota{
		Train:      q.Train / numClasses,
		Validation: q.Validation / numClasses,
		Test:       q.Test / numClasses,
	}
}

// Split is the assignment of one class's files to the three subsets.
type Split struct {
	Train      []string
	Validation []string
	Test       []string
}

// Len returns the number of assigned files.
func (s Split) Len() int {
	return len(s.Train) + len(s.Validation) + len(s.Test)
}

// Partitioner produces reproducible splits from a fixed seed.
type Partitioner struct {
	seed uint64
}

// New creates a Partitioner that shuffles with seed.
func New(seed uint64) *Partitioner {
	return &Partitioner{seed: seed}
}

// Seed returns the shuffle seed.
func (p *Partitioner) Seed() uint64 {
	return p.seed
}

// Split naturally sorts a copy of files, shuffles it with a generator
// freshly seeded for this call and slices it sequentially by quota. Files
// beyond q.Total() are dropped; a short list shrinks the later subsets.
// files is not modified.
func (p *Partitioner) Split(files []string, q Quota) Split {
	names := slices.Clone(files)
	NaturalSort(names)

	rng := rand.New(rand.NewPCG(p.seed, p.seed))
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	trainEnd := clamp(q.Train, len(names))
	valEnd := clamp(trainEnd+q.Validation, len(names))
	testEnd := clamp(valEnd+q.Test, len(names))

	return Split{
		Train:      names[:trainEnd:trainEnd],
		Validation: names[trainEnd:valEnd:valEnd],
		Test:       names[valEnd:testEnd:testEnd],
	}
}

func clamp(n, limit int) int {
	return max(0, min(n, limit))
}
