package config

import (
	"fmt"
	"time"
)

// RenderQuality trades fade smoothness for CPU time.
type RenderQuality string

const (
	RenderQualityLow    RenderQuality = "low"
	RenderQualityMedium RenderQuality = "medium"
	RenderQualityHigh   RenderQuality = "high"
)

// ParseRenderQuality converts a config value into a RenderQuality.
func ParseRenderQuality(s string) (RenderQuality, error) {
	switch q := RenderQuality(s); q {
	case RenderQualityLow, RenderQualityMedium, RenderQualityHigh:
		return q, nil
	}
	return "", fmt.Errorf("unknown render quality %q (expected low, medium or high)", s)
}

// FadeSamplePeriod returns how often a running fade is sampled.
func (q RenderQuality) FadeSamplePeriod() time.Duration {
	switch q {
	case RenderQualityLow:
		return 200 * time.Millisecond
	case RenderQualityHigh:
		return 50 * time.Millisecond
	}
	return 100 * time.Millisecond
}
