package effect

import (
	"fmt"
	"math"

	"github.com/fogleman/ease"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Curve maps linear progress in [0,1] onto eased progress.
type Curve func(t float64) float64

// Linear is the default curve.
const Linear = "linear"

var curves = map[string]Curve{
	Linear:           ease.Linear,
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-quart":       ease.InQuart,
	"out-quart":      ease.OutQuart,
	"in-out-quart":   ease.InOutQuart,
	"in-quint":       ease.InQuint,
	"out-quint":      ease.OutQuint,
	"in-out-quint":   ease.InOutQuint,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-circ":        ease.InCirc,
	"out-circ":       ease.OutCirc,
	"in-out-circ":    ease.InOutCirc,
	"out-bounce":     ease.OutBounce,
	"in-out-elastic": ease.InOutElastic,
	"in-out-back":    ease.InOutBack,
}

// CurveByName looks up a curve. An empty name is linear.
func CurveByName(name string) (Curve, error) {
	if name == "" {
		name = Linear
	}
	curve, ok := curves[name]
	if !ok {
		return nil, fmt.Errorf("unknown fade curve %q", name)
	}
	return curve, nil
}

// Names lists the available curves in alphabetical order.
func Names() []string {
	names := maps.Keys(curves)
	slices.Sort(names)
	return names
}

// below1 is the largest eased value reported while a fade is still running.
var below1 = math.Nextafter(1, 0)

// Progress returns how far a fade of duration seconds starting at start has got by position.
// Before the start and from the end on the raw fraction is returned unchanged, so a sampler
// can tell the fade is over. In between, the curve is applied and kept inside [0,1) because
// overshooting curves would otherwise end the fade early.
func Progress(position, start, duration float64, curve Curve) float64 {
	if duration <= 0 {
		if position < start {
			return -1
		}
		return 1
	}

	t := (position - start) / duration
	if t < 0 || t >= 1 {
		return t
	}
	if curve == nil {
		return t
	}
	return math.Min(math.Max(curve(t), 0), below1)
}
