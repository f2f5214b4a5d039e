// Package identifier generates record identifiers in the UUID version 4 shape.
package identifier

import (
	crand "crypto/rand"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator returns a new unique identifier on every call.
type Generator interface {
	New() string
}

// UUIDGenerator formats random bytes from its source as a version 4 UUID.
type UUIDGenerator struct {
	source io.Reader
}

// NewFast returns a generator backed by a seeded math/rand source. Identifiers
// only need to be unique within one user's data, so a non-cryptographic source
// is enough.
func NewFast() *UUIDGenerator {
	return &UUIDGenerator{source: newFastSource()}
}

func newFastSource() io.Reader {
	return &lockedReader{r: rand.New(rand.NewSource(time.Now().UnixNano()))} //nolint:gosec // ids are not secrets
}

// fallback serves generators whose own source fails.
var fallback = newFastSource()

// NewSecure returns a generator backed by crypto/rand.
func NewSecure() *UUIDGenerator {
	return &UUIDGenerator{source: crand.Reader}
}

// NewFromReader returns a generator reading from r. Tests use it with a fixed
// seed to get repeatable identifiers.
func NewFromReader(r io.Reader) *UUIDGenerator {
	return &UUIDGenerator{source: &lockedReader{r: r}}
}

func (g *UUIDGenerator) New() string {
	id, err := uuid.NewRandomFromReader(g.source)
	if err != nil {
		// a broken source must not block writes; math/rand reads never fail
		id = uuid.Must(uuid.NewRandomFromReader(fallback))
	}
	return id.String()
}

// lockedReader serialises reads from a source that is not safe for
// concurrent use.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
