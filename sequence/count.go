package sequence

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/graph"
)

// checkEvery is how many progressions a counter pulls between context checks.
const checkEvery = 1024

// CountAll counts the progressions of the given length from every chord in
// g, running at most limit enumerations at once (limit < 1 means no limit).
// The result is keyed by printed start chord.
func CountAll(ctx context.Context, g *graph.Graph, length int, limit int) (map[string]int, error) {
	key, ok := g.Key()
	if !ok {
		return nil, ErrKeylessGraph
	}

	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	var mu sync.Mutex
	counts := make(map[string]int)
	for _, c := range g.Chords() {
		start := chord.NewKeyedChord(key, c).Name()
		eg.Go(func() error {
			n, err := count(ctx, g, start, length)
			if err != nil {
				return err
			}
			mu.Lock()
			counts[start] = n
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func count(ctx context.Context, g *graph.Graph, start string, length int) (int, error) {
	e, err := New(g, start, length)
	if err != nil {
		return 0, err
	}
	n := 0
	for e.Next() {
		n++
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
	}
	if err := e.Err(); err != nil {
		return 0, err
	}
	return n, ctx.Err()
}
