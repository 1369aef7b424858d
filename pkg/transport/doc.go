// Package transport provides the network and serial transports that
// carry TPM2.net packets.
//
// UDP implements the sending side: a connected UDP socket aimed at a
// receiver's port 65506. Serial wraps a serial port for the TPM2
// serial protocol variant. Receiver implements the listening side
// used by monitors and test harnesses.
//
// All transports support optional protocol logging: configured with a
// log.Logger, every sent or received packet is captured as a
// transport-layer event (truncated to MaxLogPacketDataSize bytes).
package transport
