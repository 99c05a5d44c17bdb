// Package wire frames the byte stream shared by two peers.
//
// Two framings share one TCP stream:
//
//	key block   exactly KeyBlockSize raw bytes, no delimiter
//	            (initial handshake only; the listener writes first)
//	line        text terminated by "\n" ("\r\n" is accepted on read)
//
// Lines come in two kinds:
//
//	base64(nonce ‖ ciphertext)      an encrypted chat message
//	"!KEY " base64(key block)       a rekey offer or answer
//
// '!' is not in the base64 alphabet, so the kinds cannot be confused. Rekey
// blocks travel as lines rather than raw bytes so that a rekey can start at
// any point in the stream without a reader mistaking key bytes for a message
// line or the other way round.
package wire
