// Package tpm2 implements framing for the TPM2 family of LED streaming
// protocols.
//
// TPM2.net carries pixel data over UDP (port 65506). Every packet wraps
// a payload of 1-65535 bytes:
//
//	┌──────┬───────┬─────────┬─────────┬────────┬─────────┬─────────┬──────┐
//	│ 0x9C │ block │ size hi │ size lo │ packet │ total   │ payload │ 0x36 │
//	│      │ type  │         │         │ number │ packets │         │      │
//	└──────┴───────┴─────────┴─────────┴────────┴─────────┴─────────┴──────┘
//
// Block types: 0xDA data, 0xC0 command, 0xAA requested response. A
// logical frame may span up to 255 packets; packet numbers start at 0.
//
// The serial TPM2 flavor uses start byte 0xC9 and omits the two packet
// counter bytes.
//
// Frame builders are pure functions: they validate sizes, allocate the
// packet, and never retain the payload. Parse is the inverse, used by
// receiver tooling.
package tpm2
