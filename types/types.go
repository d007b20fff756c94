// Package types contains types that are used by the peer protocol and connection packages and need
// to be shared between them.
package types

type PieceIndex = int
