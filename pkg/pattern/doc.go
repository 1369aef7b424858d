// Package pattern provides reference frame sources for driving
// TPM2.net walls: solid colors, gradients, animated effects, and SVG
// rendering. All sources implement output.FrameSource and model the
// wall as panels placed side by side, left to right, in display
// order.
package pattern
