package nettest

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SplicePackets shuttles packets between two stacks in both directions
// until the context is canceled.
func SplicePackets(ctx context.Context, a, b *Stack) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return copyPackets(ctx, a, b)
	})

	g.Go(func() error {
		return copyPackets(ctx, b, a)
	})

	return g.Wait()
}

func copyPackets(ctx context.Context, dst, src *Stack) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		packet, err := src.ReadPacket(ctx)
		if err != nil {
			return err
		}

		if _, err := dst.WritePacket(packet); err != nil {
			return err
		}
	}
}
