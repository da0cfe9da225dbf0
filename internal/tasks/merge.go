package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/services"
	"github.com/desertthunder/vinlylog/internal/shared"
)

// mergeAttempts bounds the optimistic retry loop in [MergeEngine.Apply].
const mergeAttempts = 3

// errUnchanged is returned by a Mutator to signal that the document needs
// no write. Apply treats it as success and skips the store call.
var errUnchanged = errors.New("document unchanged")

// Mutator applies an in-place change to a freshly fetched document.
// Returning an error aborts the cycle before anything is written.
type Mutator func(doc *models.Document) error

// MergeEngine serializes writes to the shared document. Each Apply call is
// a full fetch-mutate-store cycle: the remote API holds one JSON blob with
// no version token, so the engine re-fetches just before storing and
// restarts the cycle when another client got there first.
type MergeEngine struct {
	store  services.DocumentStore
	logger *log.Logger

	mu sync.Mutex
}

// NewMergeEngine creates a merge engine over the given document store.
func NewMergeEngine(store services.DocumentStore, logger *log.Logger) *MergeEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MergeEngine{store: store, logger: shared.WithLogger(logger, "component", "merge")}
}

// Apply runs mutate against the latest document and stores the result.
// Overlapping calls from the same process queue behind a mutex. A remote
// change observed between fetch and store restarts the cycle; after
// mergeAttempts failed cycles the call fails with [shared.ErrMergeConflict].
// The returned document is the state that was written (or fetched, when the
// mutator reported no change).
func (e *MergeEngine) Apply(ctx context.Context, mutate Mutator) (*models.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for attempt := 1; attempt <= mergeAttempts; attempt++ {
		doc, err := e.store.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		base := doc.UpdatedAt

		if err := mutate(doc); err != nil {
			if errors.Is(err, errUnchanged) {
				return doc, nil
			}
			return nil, err
		}
		doc.UpdatedAt = nextTimestamp(base)

		latest, err := e.store.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		if latest.UpdatedAt != base {
			e.logger.Warn("remote document changed during merge, retrying", "attempt", attempt, "base", base, "latest", latest.UpdatedAt)
			continue
		}

		if err := e.store.Store(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	return nil, fmt.Errorf("%w: document kept changing across %d attempts", shared.ErrMergeConflict, mergeAttempts)
}

// nextTimestamp returns the current timestamp, bumped by a millisecond when
// the clock has not advanced past prev. Keeps updatedAt strictly increasing
// across consecutive writes.
func nextTimestamp(prev string) string {
	now := models.Timestamp()
	if now > prev {
		return now
	}
	t, err := time.Parse(models.TimeLayout, prev)
	if err != nil {
		return now
	}
	return t.Add(time.Millisecond).UTC().Format(models.TimeLayout)
}
