package geo

import "context"

// Position is a raw GPS fix. AccuracyMeters is the reported horizontal
// uncertainty, when the source provides one.
type Position struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters *float64
}

// PositionSource yields the current position of the acting user, or nil
// when no position could be obtained. In the API server the position
// arrives with the request; other frontends (CLI tooling, device
// agents) can plug in their own source. Implementations must respect
// the context deadline and return nil rather than block.
type PositionSource interface {
	Current(ctx context.Context) *Position
}

// StaticSource wraps an already-acquired position.
type StaticSource struct {
	Position *Position
}

func (s StaticSource) Current(_ context.Context) *Position {
	return s.Position
}
