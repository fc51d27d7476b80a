package common

// Hash is a 32-byte cryptographic digest.
type Hash [32]byte

// PublicKey is a compressed secp256k1 public key identifying an
// already-authenticated transaction author. This package treats it as
// an opaque value; verification happens in the identity layer.
type PublicKey [33]byte

// InstanceID is the numeric identifier of a started service instance,
// unique among all active instances of a node.
type InstanceID uint32

// MethodID identifies a method within the scope of a single service
// artifact. It is not globally unique.
type MethodID uint32
