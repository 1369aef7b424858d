// Package version exposes the library version and the TPM2 protocol
// revision implemented by this module.
package version

import "fmt"

// Library is the tpm2net-go release version.
const Library = "1.0.0"

// ProtocolRevision is the TPM2 protocol revision this module
// implements. Revision 2 added the packet counter bytes to the
// network flavor.
const ProtocolRevision = 2

// String returns a human-readable version summary for -version flags.
func String() string {
	return fmt.Sprintf("tpm2net-go %s (TPM2 protocol revision %d)", Library, ProtocolRevision)
}
