// Package steamid converts between 64-bit Steam account identifiers and their
// bit-field components.
//
// An id64 packs five fields, most significant first: universe (8 bits),
// account type (4), account instance (20), account number (31) and a parity
// bit (1). Decode extracts them with shift/mask arithmetic and Raw puts them
// back together losslessly. ID32 and ID64 are the platform's own encodings:
// ID32 keeps only the account number and parity, while ID64 rebuilds the full
// identifier from a per-account-type base offset and fails with
// ErrUnsupportedAccountType for types it has no offset for.
//
// Everything here is a pure function over value types and is safe to call
// from any goroutine.
package steamid
