package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// signatureLength is the size of an ed25519 transaction signature.
const signatureLength = 64

// Version byte layout: the high bit marks a versioned message, the low
// seven bits carry the version number.
const (
	versionedFlag = byte(0x80)
	versionMask   = byte(0x7f)
)

// Version identifies the message wire encoding.
type Version uint8

const (
	// VersionLegacy is the original message format without address table
	// lookups.
	VersionLegacy Version = iota
	// VersionV0 is the versioned format that adds address table lookups.
	VersionV0
)

func (v Version) String() string {
	if v == VersionV0 {
		return "v0"
	}
	return "legacy"
}

// MarshalText renders the version name, which is also its JSON form.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses a version name produced by MarshalText.
func (v *Version) UnmarshalText(text []byte) error {
	switch string(text) {
	case "legacy":
		*v = VersionLegacy
	case "v0":
		*v = VersionV0
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, text)
	}
	return nil
}

// Message is a decoded transaction message: the signed region of a
// transaction in either the legacy or v0 encoding. Field order follows
// the wire layout.
type Message struct {
	Version             Version
	Header              solana.MessageHeader
	AccountKeys         []solana.PublicKey
	RecentBlockhash     solana.Hash
	Instructions        []CompiledInstruction
	AddressTableLookups []solana.MessageAddressTableLookup
}

// CompiledInstruction is an instruction exactly as encoded: one-byte
// indexes into the combined account space and opaque data bytes. Index
// ranges are not validated here; resolution happens against the full
// message.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}

// decodeMessage reads one message from cur and verifies that it consumes
// the region exactly: leftover bytes fail with ErrTrailingBytes.
func decodeMessage(cur *cursor) (*Message, error) {
	version, header, err := decodeHeader(cur)
	if err != nil {
		return nil, fmt.Errorf("message header: %w", err)
	}

	keys, err := decodeAccountKeys(cur)
	if err != nil {
		return nil, fmt.Errorf("static account keys: %w", err)
	}

	hashBytes, err := cur.read(solana.PublicKeyLength)
	if err != nil {
		return nil, fmt.Errorf("recent blockhash: %w", err)
	}

	instructions, err := decodeInstructions(cur)
	if err != nil {
		return nil, fmt.Errorf("instructions: %w", err)
	}

	msg := &Message{
		Version:         version,
		Header:          header,
		AccountKeys:     keys,
		RecentBlockhash: solana.Hash(solana.PublicKeyFromBytes(hashBytes)),
		Instructions:    instructions,
	}

	// The lookup section exists only in v0 messages. For legacy messages
	// not a single byte of it may be read.
	if version == VersionV0 {
		lookups, err := decodeAddressTableLookups(cur)
		if err != nil {
			return nil, fmt.Errorf("address table lookups: %w", err)
		}
		msg.AddressTableLookups = lookups
	}

	if rem := cur.remaining(); rem != 0 {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingBytes, rem, cur.offset())
	}
	return msg, nil
}

// decodeHeader determines the encoding version and reads the three
// signer/writable counts. A set high bit on the first byte marks a
// versioned message whose low seven bits must name version 0; a clear
// high bit means legacy and the byte is itself the required-signature
// count.
func decodeHeader(cur *cursor) (Version, solana.MessageHeader, error) {
	first, err := cur.readByte()
	if err != nil {
		return 0, solana.MessageHeader{}, err
	}

	if first&versionedFlag != 0 {
		if v := first & versionMask; v != 0 {
			return 0, solana.MessageHeader{}, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, v)
		}
		counts, err := cur.read(3)
		if err != nil {
			return 0, solana.MessageHeader{}, err
		}
		return VersionV0, solana.MessageHeader{
			NumRequiredSignatures:       counts[0],
			NumReadonlySignedAccounts:   counts[1],
			NumReadonlyUnsignedAccounts: counts[2],
		}, nil
	}

	counts, err := cur.read(2)
	if err != nil {
		return 0, solana.MessageHeader{}, err
	}
	return VersionLegacy, solana.MessageHeader{
		NumRequiredSignatures:       first,
		NumReadonlySignedAccounts:   counts[0],
		NumReadonlyUnsignedAccounts: counts[1],
	}, nil
}

// decodeAccountKeys reads the compact array of static account keys,
// preserving wire order exactly. Order determines signer/writable status
// and account-index resolution.
func decodeAccountKeys(cur *cursor) ([]solana.PublicKey, error) {
	n, err := cur.readCompactU16()
	if err != nil {
		return nil, err
	}
	keys := make([]solana.PublicKey, 0, n)
	for i := 0; i < n; i++ {
		b, err := cur.read(solana.PublicKeyLength)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, solana.PublicKeyFromBytes(b))
	}
	return keys, nil
}

func decodeInstructions(cur *cursor) ([]CompiledInstruction, error) {
	n, err := cur.readCompactU16()
	if err != nil {
		return nil, err
	}
	instructions := make([]CompiledInstruction, 0, n)
	for i := 0; i < n; i++ {
		inst, err := decodeInstruction(cur)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		instructions = append(instructions, inst)
	}
	return instructions, nil
}

func decodeInstruction(cur *cursor) (CompiledInstruction, error) {
	programIndex, err := cur.readByte()
	if err != nil {
		return CompiledInstruction{}, fmt.Errorf("program index: %w", err)
	}
	accounts, err := cur.readCompactBytes()
	if err != nil {
		return CompiledInstruction{}, fmt.Errorf("account indexes: %w", err)
	}
	data, err := cur.readCompactBytes()
	if err != nil {
		return CompiledInstruction{}, fmt.Errorf("data: %w", err)
	}
	return CompiledInstruction{
		ProgramIDIndex: programIndex,
		Accounts:       accounts,
		Data:           data,
	}, nil
}

func decodeAddressTableLookups(cur *cursor) ([]solana.MessageAddressTableLookup, error) {
	n, err := cur.readCompactU16()
	if err != nil {
		return nil, err
	}
	lookups := make([]solana.MessageAddressTableLookup, 0, n)
	for i := 0; i < n; i++ {
		lookup, err := decodeAddressTableLookup(cur)
		if err != nil {
			return nil, fmt.Errorf("lookup %d: %w", i, err)
		}
		lookups = append(lookups, lookup)
	}
	return lookups, nil
}

func decodeAddressTableLookup(cur *cursor) (solana.MessageAddressTableLookup, error) {
	keyBytes, err := cur.read(solana.PublicKeyLength)
	if err != nil {
		return solana.MessageAddressTableLookup{}, fmt.Errorf("table key: %w", err)
	}
	writable, err := cur.readCompactBytes()
	if err != nil {
		return solana.MessageAddressTableLookup{}, fmt.Errorf("writable indexes: %w", err)
	}
	readonly, err := cur.readCompactBytes()
	if err != nil {
		return solana.MessageAddressTableLookup{}, fmt.Errorf("readonly indexes: %w", err)
	}
	return solana.MessageAddressTableLookup{
		AccountKey:      solana.PublicKeyFromBytes(keyBytes),
		WritableIndexes: solana.Uint8SliceAsNum(writable),
		ReadonlyIndexes: solana.Uint8SliceAsNum(readonly),
	}, nil
}
