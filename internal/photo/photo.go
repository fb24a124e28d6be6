package photo

import (
	"context"

	"github.com/extramurs/matchday/internal/config"
	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/metrics"
)

// Processor transforms one player photo.
type Processor interface {
	Process(ctx context.Context, img []byte, playerName string) ([]byte, error)
}

// Noop returns photos unchanged.
type Noop struct{}

// Process implements Processor
func (Noop) Process(_ context.Context, img []byte, _ string) ([]byte, error) {
	return img, nil
}

// Chain applies processors in order. A failing step is logged and skipped; the
// next step receives the bytes the failing step was given.
type Chain []Processor

// Process implements Processor. It never returns an error.
func (c Chain) Process(ctx context.Context, img []byte, playerName string) ([]byte, error) {
	out := img
	for i, p := range c {
		if err := ctx.Err(); err != nil {
			return out, nil
		}
		next, err := p.Process(ctx, out, playerName)
		if err != nil {
			metrics.IncrCounter("photos.step_failed")
			logger.Warn("Photo processing step failed", logger.Fields{
				"player": playerName,
				"step":   i,
				"error":  err.Error(),
			})
			continue
		}
		out = next
	}
	return out, nil
}

// FromConfig builds the processor described by the images section.
func FromConfig(cfg config.Images) Processor {
	if !cfg.Enabled {
		return Noop{}
	}
	var chain Chain
	if cfg.RemoveBackground {
		chain = append(chain, NewRemoveBG(cfg.RemoveBgAPIKey, ""))
	}
	if cfg.Upscale {
		chain = append(chain, Upscaler{Factor: cfg.UpscaleFactor})
	}
	if len(chain) == 0 {
		return Noop{}
	}
	return chain
}
