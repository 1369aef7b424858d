// Package discovery implements zero-configuration networking for
// TPM2.net walls.
//
// Receivers advertise the service type "_tpm2net._udp" with TXT
// records describing their panel geometry:
//
//	w=8 h=8 n=4 ver=2 DN=Lobby Wall
//
// Senders browse for "_tpm2net._udp" services and can configure a
// driver entirely from what a receiver announces: address, port,
// panel dimensions, and panel count.
//
// The advertised geometry is informational. The TPM2.net protocol
// itself has no capability negotiation; a sender that ignores the TXT
// records and streams a different geometry is not rejected, the
// receiver simply displays what it gets.
package discovery
