// Package pixmap transforms per-panel pixel buffers into the byte
// order expected by physical LED hardware.
//
// Buffers are row-major slices of 0xRRGGBB pixels. The transform
// pipeline applies, in order:
//
//  1. Geometric transform (rotation and/or vertical mirroring) per the
//     panel's mounting orientation.
//  2. Snake-cabling flip, reversing every second scan line, or a manual
//     pixel index mapping. The two are mutually exclusive and snake
//     cabling takes priority.
//  3. Color packing into 3 bytes per pixel in the channel order the
//     hardware expects (RGB, GRB, ...).
//
// All functions are pure: they never mutate their input buffer and
// return freshly allocated results unless documented otherwise.
package pixmap
