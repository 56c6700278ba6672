package downloader

import (
	"context"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rutube-cli/rutube/log"
	"github.com/rutube-cli/rutube/source"
)

// Pipeline orchestrates fetching all segments of a rendition and writing them
// to a sink in strict playlist order. With workers > 0 segments are fetched
// in parallel by a bounded pool while a single writer emits bytes in
// ascending segment index; concurrency never reorders or interleaves output.
//
// Any segment that exhausts its retry budget aborts the whole download.
// Partially written output is not rolled back; the caller owns cleanup of a
// truncated file.
type Pipeline struct {
	Fetcher   *Fetcher
	Sequencer *Sequencer
}

// NewPipeline returns a Pipeline with the production fetch policy.
func NewPipeline() *Pipeline {
	fetcher := NewFetcher()
	return &Pipeline{
		Fetcher:   fetcher,
		Sequencer: &Sequencer{Fetcher: fetcher},
	}
}

// indexedSegment is one fetched payload tagged with its playlist position.
type indexedSegment struct {
	index int
	data  []byte
}

type segmentJob struct {
	index int
	uri   string
}

// Download fetches every segment of the rendition and writes them to sink in
// playlist order. workers == 0 downloads sequentially. onProgress, when not
// nil, is invoked once per fetched segment; under concurrency ticks may occur
// out of write order.
func (p *Pipeline) Download(ctx context.Context, r *source.Rendition, sink io.Writer, workers int, onProgress func()) error {
	segments, err := p.Sequencer.Segments(ctx, r)
	if err != nil {
		return err
	}

	log.Infof("downloading %s: %d segments, %d workers", r, len(segments), workers)

	if workers <= 0 {
		return p.sequential(ctx, r, segments, sink, onProgress)
	}
	return p.concurrent(ctx, r, segments, sink, workers, onProgress)
}

// fetchSegment resolves a segment's effective URI against the reserve base
// first and the primary base second. Reserve-first ordering is intentional
// and replicated from the platform's own client behavior.
func (p *Pipeline) fetchSegment(ctx context.Context, r *source.Rendition, uri string) ([]byte, error) {
	if reserve, ok := r.ReserveURI.Get(); ok {
		data, err := p.Fetcher.Fetch(ctx, MakeSegmentURI(reserve, uri))
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return p.Fetcher.Fetch(ctx, MakeSegmentURI(r.PrimaryURI, uri))
}

func (p *Pipeline) sequential(ctx context.Context, r *source.Rendition, segments []string, sink io.Writer, onProgress func()) error {
	for _, uri := range segments {
		data, err := p.fetchSegment(ctx, r, uri)
		if err != nil {
			return err
		}
		if _, err := sink.Write(data); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress()
		}
	}
	return nil
}

// concurrent runs a bounded fetch pool and a single ordered writer. The
// writer blocks on the results channel until the next expected index becomes
// available; there is no polling and no termination flag. Results that arrive
// ahead of order wait in a pending buffer keyed by index.
func (p *Pipeline) concurrent(ctx context.Context, r *source.Rendition, segments []string, sink io.Writer, workers int, onProgress func()) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan segmentJob)
	results := make(chan indexedSegment, workers)

	g.Go(func() error {
		defer close(jobs)
		for i, uri := range segments {
			select {
			case jobs <- segmentJob{index: i, uri: uri}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// The closer goroutine shuts the results channel once every fetch worker
	// has exited, which is the writer's only termination signal.
	var fetchers sync.WaitGroup
	fetchers.Add(workers)
	go func() {
		fetchers.Wait()
		close(results)
	}()

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			defer fetchers.Done()
			for job := range jobs {
				data, err := p.fetchSegment(gctx, r, job.uri)
				if err != nil {
					return err
				}
				if onProgress != nil {
					onProgress()
				}
				// Plain send: the writer drains until the channel closes, so a
				// completed segment is never dropped during shutdown.
				results <- indexedSegment{index: job.index, data: data}
			}
			return nil
		})
	}

	// The writer keeps draining until the results channel closes even after a
	// failure, so workers never block on a send during shutdown and every
	// in-order segment fetched before the abort still reaches the sink.
	var writeErr error
	g.Go(func() error {
		next := 0
		pending := make(map[int][]byte, workers)
		for res := range results {
			if writeErr != nil {
				continue
			}
			pending[res.index] = res.data
			for {
				data, ok := pending[next]
				if !ok {
					break
				}
				if _, err := sink.Write(data); err != nil {
					writeErr = err
					cancel()
					break
				}
				delete(pending, next)
				next++
			}
		}
		return nil
	})

	err := g.Wait()
	if writeErr != nil {
		return writeErr
	}
	return err
}

// DownloadDirect fetches a non-segmented yappy video in a single request.
// No retry: the direct link either serves or it does not.
func (p *Pipeline) DownloadDirect(ctx context.Context, y *source.YappyVideo, sink io.Writer, onProgress func()) error {
	body, status, err := p.Fetcher.fetchOnce(ctx, y.Link)
	if err != nil {
		return err
	}
	if !success(status) {
		return &UnavailableError{URL: y.Link, Status: status}
	}
	if onProgress != nil {
		onProgress()
	}
	if _, err := sink.Write(body); err != nil {
		return err
	}
	if onProgress != nil {
		onProgress()
	}
	return nil
}
