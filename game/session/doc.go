// Package session holds player identity for the dog walk server: the
// bearer-token generator, the Player record, and the Registry that
// indexes players by token and by dog id.
//
// Tokens are 32 lowercase hex characters built from crypto/rand, so
// they are unguessable as well as collision-free for the lifetime of
// the process. The registry assigns player ids monotonically from 0
// and keeps token<->player and dog-id<->player as bijections.
//
// The package performs no locking; the owning game service serializes
// all access.
package session
