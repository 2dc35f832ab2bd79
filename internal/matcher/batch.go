package matcher

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// FileResult holds the outcome of matching one screenshot file.
type FileResult struct {
	Path    string
	Results []Result
	Err     error
}

// Batch matches every path and returns one FileResult per path, in input
// order. At most workers files are matched at once; workers < 1 means one.
//
// A file that fails to load or match records its error in the FileResult and
// does not stop the batch. The returned error is non-nil only when ctx is
// cancelled, in which case files not yet started are left with ctx's error.
func (m *Matcher) Batch(ctx context.Context, paths []string, workers int) ([]FileResult, error) {
	if workers < 1 {
		workers = 1
	}

	m.logger.Info("starting batch match",
		"files", len(paths),
		"workers", workers,
	)
	start := time.Now()

	out := make([]FileResult, len(paths))
	for i, p := range paths {
		out[i].Path = p
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return err
			}

			results, err := m.MatchFile(path)
			out[i].Results = results
			out[i].Err = err
			if err != nil {
				m.logger.Warn("match failed", "file", path, "error", err)
			}
			return nil
		})
	}

	err := g.Wait()

	m.logger.Info("batch match complete",
		"files", len(paths),
		"duration", time.Since(start),
	)
	return out, err
}
