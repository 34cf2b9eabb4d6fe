// Package id provides the generators of the unique identifiers attached to
// events and compounds.
package id

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator can generate IDs.
type Generator interface {
	// Generate an ID
	Generate() string
}

var (
	generatorMutex        sync.Mutex
	generatorInstantiated bool
	generator             Generator
)

// UseParallelIDGenerator configures the package-level generator to produce
// globally unique IDs. The sequential generator is used otherwise. The IDs generated will not be deterministic anymore.
func UseParallelIDGenerator() {
	mustSetGenerator(NewParallelGenerator())
}

func mustSetGenerator(g Generator) {
	generatorMutex.Lock()
	defer generatorMutex.Unlock()

	if generatorInstantiated {
		log.Panic("cannot change id generator type after using it")
	}

	generator = g
	generatorInstantiated = true
}

// Get returns the package-level generator.
func Get() Generator {
	generatorMutex.Lock()
	defer generatorMutex.Unlock()

	if !generatorInstantiated {
		generator = NewSequentialGenerator()
		generatorInstantiated = true
	}

	return generator
}

// Generate returns a new ID from the package-level generator.
func Generate() string {
	return Get().Generate()
}

// NewSequentialGenerator creates a generator that counts up from 1.
func NewSequentialGenerator() Generator {
	return &sequentialGenerator{}
}

// NewParallelGenerator creates a generator backed by xid.
func NewParallelGenerator() Generator {
	return parallelGenerator{}
}

type sequentialGenerator struct {
	nextID uint64
}

func (g *sequentialGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)

	return strconv.FormatUint(idNumber, 10)
}

type parallelGenerator struct{}

func (parallelGenerator) Generate() string {
	return xid.New().String()
}
