package body

import "github.com/Versifine/corridor/internal/physics"

// InputState is the per-tick action format shared by the console and tests.
// It aliases physics.Input to avoid field divergence.
type InputState = physics.Input
