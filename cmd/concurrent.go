package cmd

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/vinwiki/vinwiki"
)

// maxConcurrentLookups bounds the number of requests in flight for one command
const maxConcurrentLookups = 4

// fetchVehicles looks up vins concurrently. The result keeps the order of
// vins; lookups that fail are logged and left nil.
func fetchVehicles(ctx context.Context, api *vinwiki.Strict, vins []string) ([]*vinwiki.Vehicle, error) {
	vehicles := make([]*vinwiki.Vehicle, len(vins))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i, vin := range vins {
		g.Go(func() error {
			vehicle, err := api.GetVehicle(gctx, vin)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("vin", vin).
					Msg("Failed to look up vehicle")
				// Continue with the other vins
				return nil
			}

			// each goroutine owns its own slot
			vehicles[i] = vehicle
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vehicles, ctx.Err()
}
