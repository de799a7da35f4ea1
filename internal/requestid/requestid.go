// Package requestid generates client-side request identities.
//
// An identity is minted once per user action and reused for every retry of that
// action, which lets the server recognise replays. Format:
//
//	20240115123045123456_1f0c9a7e4b2d
//
// A UTC timestamp with microseconds, an underscore, and 12 hex characters taken
// from a random (v4) UUID.
package requestid

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	timestampLayout = "20060102150405.000000"
	suffixLen       = 12
)

// Generator mints request identities.
type Generator struct {
	clock clockwork.Clock
}

// NewGenerator creates a Generator. A nil clock uses the real clock.
func NewGenerator(clock clockwork.Clock) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{clock: clock}
}

// New returns a fresh identity.
func (g *Generator) New() string {
	ts := strings.Replace(g.clock.Now().UTC().Format(timestampLayout), ".", "", 1)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	return ts + "_" + suffix
}

var defaultGenerator = NewGenerator(nil)

// New returns a fresh identity using the real clock.
func New() string {
	return defaultGenerator.New()
}
