package scale

import "math"

func clamp(t, min, max float64) float64 {
	min, max = math.Min(min, max), math.Max(min, max)
	return math.Max(math.Min(t, max), min)
}

// Clamp returns a function that maps a number from [rMin,rMax] onto [tMin,tMax] linearly.
// Results outside the target interval are clamped to its bounds.
func Clamp(rMin, rMax, tMin, tMax float64) func(m float64) float64 {
	return func(m float64) float64 {
		if rMax == rMin {
			return tMin
		}
		return clamp(tMin+(m-rMin)*(tMax-tMin)/(rMax-rMin), tMin, tMax)
	}
}

// ToUnitClamp returns a function that scales a number from the interval [rMin,rMax]
// to the unit interval ([0,1]), if the result falls outside [0,1], it is clamped
// to 0 or 1.
func ToUnitClamp(rMin, rMax float64) func(m float64) float64 {
	return Clamp(rMin, rMax, 0, 1)
}

// ToByte scales a number from [rMin,rMax] to a DMX level.
func ToByte(rMin, rMax float64) func(m float64) byte {
	toDMX := Clamp(rMin, rMax, 0, 255)
	return func(m float64) byte {
		return byte(math.Round(toDMX(m)))
	}
}
