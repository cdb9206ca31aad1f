// Package vennsync keeps Venn diagrams embedded in a document synchronized with
// the tabular ranges they were generated from.
package vennsync

import (
	"time"

	"go.uber.org/zap"

	"github.com/ukaji3/vennsync/pkg/vennsync/index"
	"github.com/ukaji3/vennsync/pkg/vennsync/partition"
)

// Options configures the synchronization engine.
type Options struct {
	// LabelFormat is the region label template ({number}, {percent}, {logic}).
	// Empty means partition.DefaultFormat.
	LabelFormat string
	// Palette overrides the default diagram colors.
	Palette []string
	// CacheTTL is how long the binding index of a document stays cached.
	// Zero means index.DefaultTTL.
	CacheTTL time.Duration
	// Logger receives progress and failure reports. Nil discards them.
	Logger *zap.Logger
	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns default engine options.
func DefaultOptions() Options {
	return Options{
		LabelFormat: partition.DefaultFormat,
		CacheTTL:    index.DefaultTTL,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
