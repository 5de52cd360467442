// Package acmodel holds the in-memory representation of the air conditioner
// as reconstructed from AB-bus broadcast and reply frames: the bit layout of
// state broadcasts, the symbol tables that translate raw bit patterns into
// short codes and labels, and the target-confirmation logic the session state
// machine uses to decide whether an outstanding command has taken effect.
package acmodel
