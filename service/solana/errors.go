package solana

import "errors"

// Decode and resolution failures wrap one of these sentinels so callers
// can classify them with errors.Is. The wrapped message carries the
// section and offset where decoding stopped.
var (
	// ErrShortBuffer is returned when a read would run past the end of
	// the input.
	ErrShortBuffer = errors.New("unexpected end of input")

	// ErrCompactOverflow is returned when a compact-u16 length prefix
	// would not fit in 16 bits.
	ErrCompactOverflow = errors.New("compact-u16 length overflows 16 bits")

	// ErrUnsupportedVersion is returned for versioned messages with a
	// version other than 0.
	ErrUnsupportedVersion = errors.New("unsupported message version")

	// ErrTrailingBytes is returned when input remains after the message
	// has been fully decoded.
	ErrTrailingBytes = errors.New("trailing bytes after message")

	// ErrAccountIndexOutOfRange is returned when an instruction account
	// or program index references a position beyond both the static keys
	// and the combined lookup index space.
	ErrAccountIndexOutOfRange = errors.New("account index out of range")
)
