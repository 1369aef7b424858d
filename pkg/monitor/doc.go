// Package monitor implements receiver-side tooling for TPM2.net
// streams: reassembly of multi-packet logical frames, traffic
// statistics, and a WebSocket hub that mirrors received frames to
// browser previews.
package monitor
