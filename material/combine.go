package material

import "math"

// CombineFriction merges the friction coefficients of two materials using
// the first material's combine mode.
func CombineFriction(a, b Material) (static, dynamic float64) {
	switch a.FrictionCombine {
	case CombineMinimum:
		return math.Min(a.StaticFriction, b.StaticFriction), math.Min(a.DynamicFriction, b.DynamicFriction)
	case CombineMaximum:
		return math.Max(a.StaticFriction, b.StaticFriction), math.Max(a.DynamicFriction, b.DynamicFriction)
	case CombineMultiply:
		return a.StaticFriction * b.StaticFriction, a.DynamicFriction * b.DynamicFriction
	default:
		return (a.StaticFriction + b.StaticFriction) / 2, (a.DynamicFriction + b.DynamicFriction) / 2
	}
}

// CombineRestitution merges restitution as the minimum of both materials,
// regardless of either combine mode.
func CombineRestitution(a, b Material) float64 {
	return math.Min(a.Restitution, b.Restitution)
}
