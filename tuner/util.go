// tuner/util.go
package tuner

import "golang.org/x/exp/constraints"

// clampAbs limits v to [-limit, limit]; limit <= 0 leaves v unchanged.
func clampAbs[T constraints.Float](v, limit T) T {
	if limit <= 0 {
		return v
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
