package weathericons

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bodgit/weathericons/bitmap"
	"github.com/bodgit/weathericons/header"
	"github.com/bodgit/weathericons/weather"
)

// Source image extensions, in order of preference
var extensions = []string{".png", ".bmp", ".webp", ".jpg", ".jpeg", ".gif"}

type job struct {
	index int
	icon  weather.Icon
}

type outcome struct {
	index  int
	entry  header.Entry
	cached bool
	err    error
}

func locate(dir string, icon weather.Icon) (string, error) {
	for _, ext := range extensions {
		file := filepath.Join(dir, icon.Source+ext)
		info, err := os.Stat(file)
		switch {
		case err == nil && info.Mode().IsRegular():
			return file, nil
		case err != nil && !os.IsNotExist(err):
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSourceNotFound, filepath.Join(dir, icon.Source+extensions[0]))
}

// The cache key for an auto threshold is -1 as the real threshold isn't
// known until the image is decoded
func (g *Generator) cacheConfig() bitmap.Config {
	cfg := g.encoder.Config()
	if g.opts.AutoThreshold {
		cfg.Threshold = -1
	}
	return cfg
}

func (g *Generator) encodeIcon(dir string, icon weather.Icon) (bitmap.Bitmap, bool, error) {
	file, err := locate(dir, icon)
	if err != nil {
		return nil, false, err
	}

	b, err := os.ReadFile(file)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", bitmap.ErrDecode, err)
	}
	h := sha1.Sum(b)
	sha := fmt.Sprintf("%X", h[:])

	if g.opts.Cache != nil {
		bm, err := g.opts.Cache.Lookup(sha, g.cacheConfig())
		if err != nil {
			return nil, false, err
		}
		if bm != nil {
			return bm, true, nil
		}
	}

	m, err := bitmap.ReadImage(bytes.NewReader(b))
	if err != nil {
		return nil, false, err
	}

	encoder := g.encoder
	if g.opts.AutoThreshold {
		cfg := encoder.Config()
		cfg.Threshold = bitmap.AutoThreshold(m)
		if encoder, err = bitmap.NewEncoder(cfg); err != nil {
			return nil, false, err
		}
		g.logger.Printf("Using threshold %d for \"%s\"\n", cfg.Threshold, file)
	}

	bm, err := encoder.Encode(m)
	if err != nil {
		return nil, false, err
	}

	if g.opts.Cache != nil {
		if err := g.opts.Cache.Store(sha, g.cacheConfig(), bm); err != nil {
			return nil, false, err
		}
	}

	g.logger.Printf("Converted \"%s\" -> %s\n", file, icon.Symbol)

	return bm, false, nil
}

func (g *Generator) queueIcons(ctx context.Context) (<-chan job, <-chan error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, icon := range g.opts.Icons {
			select {
			case out <- job{index: i, icon: icon}:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

func (g *Generator) iconWorker(ctx context.Context, dir string, in <-chan job, out chan<- outcome) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			start := time.Now()
			bm, cached, err := g.encodeIcon(dir, j.icon)

			// A missing or broken source only loses that icon
			if err != nil && !errors.Is(err, ErrSourceNotFound) && !errors.Is(err, bitmap.ErrDecode) {
				errc <- fmt.Errorf("%s: %w", j.icon.Name, err)
				return
			}

			if g.opts.Metrics != nil && err == nil && !cached {
				g.opts.Metrics.EncodeDuration.Observe(time.Since(start).Seconds())
			}

			o := outcome{
				index:  j.index,
				entry:  header.Entry{Icon: j.icon, Bitmap: bm},
				cached: cached,
			}
			if err != nil {
				o.err = fmt.Errorf("%s: %w", j.icon.Name, err)
			}

			select {
			case out <- o:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (g *Generator) record(o outcome) {
	m := g.opts.Metrics
	if m == nil {
		return
	}
	switch {
	case errors.Is(o.err, ErrSourceNotFound):
		m.IconsMissing.Inc()
	case o.err != nil:
		m.IconsFailed.Inc()
	default:
		m.IconsEncoded.Inc()
		m.BitmapBytes.Add(float64(len(o.entry.Bitmap)))
	}
	if g.opts.Cache != nil && o.err == nil {
		if o.cached {
			m.Cache.WithLabelValues("hit").Inc()
		} else {
			m.Cache.WithLabelValues("miss").Inc()
		}
	}
}

// Generate encodes every registered icon found in dir. Icons without a
// usable source image are skipped and reported in Result.Warnings; only
// cancellation or a cache failure stops the run.
func (g *Generator) Generate(ctx context.Context, dir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	jobs, errc := g.queueIcons(ctx)
	errcList = append(errcList, errc)

	// Big enough that workers never block on the collector
	outcomes := make(chan outcome, len(g.opts.Icons))
	for i := 0; i < g.opts.Workers; i++ {
		errcList = append(errcList, g.iconWorker(ctx, dir, jobs, outcomes))
	}

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}
	close(outcomes)

	ordered := make([]*outcome, len(g.opts.Icons))
	for o := range outcomes {
		ordered[o.index] = &o
	}

	r := &Result{
		Size:  g.encoder.Config().Size,
		Table: g.opts.Table,
	}
	for _, o := range ordered {
		g.record(*o)
		if o.err != nil {
			g.logger.Printf("Warning: %v\n", o.err)
			r.Warnings = append(r.Warnings, o.err)
			continue
		}
		r.Entries = append(r.Entries, o.entry)
	}

	return r, nil
}
