package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollins476ad/imgfetch/download"
	"github.com/ccollins476ad/imgfetch/stats"
)

// session feeds urls through a single store, one at a time, and reports each
// outcome as it completes.
type session struct {
	s   *download.Store
	rec *stats.Recorder
	out io.Writer
}

func newSession(s *download.Store, rec *stats.Recorder, out io.Writer) *session {
	return &session{
		s:   s,
		rec: rec,
		out: out,
	}
}

// processURL downloads a single url and prints its outcome. A failure never
// affects later urls.
func (ss *session) processURL(ctx context.Context, u string) download.Outcome {
	o := ss.s.Process(ctx, u)
	ss.rec.Observe(o)
	fmt.Fprintln(ss.out, o)
	return o
}

// processURLs calls processURL() for each url in the given slice, in order.
func (ss *session) processURLs(ctx context.Context, urls []string) {
	for _, u := range urls {
		ss.processURL(ctx, u)
	}
}

// run executes an imgfetch session with the given configuration.
func run(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	s := download.NewStore(cfg.DestDir)
	s.Timeout = cfg.Timeout
	s.MaxSize = cfg.MaxSize

	ss := newSession(s, stats.NewRecorder(), out)

	switch {
	case len(cfg.URLs) > 0:
		ss.processURLs(ctx, cfg.URLs)

	case cfg.Input != "":
		urls, err := readURLFile(cfg.Input)
		if err != nil {
			return err
		}
		ss.processURLs(ctx, urls)

	default:
		fmt.Fprintf(out, "Saving images to %s\n", s.DestDir())
		fmt.Fprintf(out, "Enter image urls separated by spaces; %q or a blank line to finish.\n", sentinel)

		err := promptURLs(in, out, func(u string) {
			ss.processURL(ctx, u)
		})
		if err != nil {
			return fmt.Errorf("failed to read urls: %w", err)
		}
	}

	fmt.Fprintln(out, ss.rec.Summary())

	if cfg.MetricsFile != "" {
		err := ss.rec.WriteTextfile(cfg.MetricsFile)
		if err != nil {
			return fmt.Errorf("failed to write metrics file: path=%s err=%w", cfg.MetricsFile, err)
		}
	}

	return nil
}
