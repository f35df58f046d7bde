package solana

import (
	"github.com/gagliardetto/solana-go"
)

// ParsedTransaction is the decoded form of a transaction or bare
// message, shaped for JSON output. Byte fields render as lowercase hex,
// key fields as base58.
type ParsedTransaction struct {
	Version             Version              `json:"version"`
	UnsignedPayload     string               `json:"unsigned_payload"`
	Signatures          []string             `json:"signatures"`
	AccountKeys         []AccountMeta        `json:"account_keys"`
	ProgramKeys         []solana.PublicKey   `json:"program_keys"`
	RecentBlockhash     solana.Hash          `json:"recent_blockhash"`
	Instructions        []Instruction        `json:"instructions"`
	Transfers           []Transfer           `json:"transfers"`
	TokenTransfers      []TokenTransfer      `json:"token_transfers"`
	AddressTableLookups []AddressTableLookup `json:"address_table_lookups"`
}

// AccountMeta is a static account key with the permissions derived from
// its position and the message header.
type AccountMeta struct {
	AccountKey solana.PublicKey `json:"account_key"`
	Signer     bool             `json:"signer"`
	Writable   bool             `json:"writable"`
}

// TableLookupRef is an account reference that cannot be resolved to a
// key offline: a raw index into the named on-chain address table.
type TableLookupRef struct {
	AddressTableKey solana.PublicKey `json:"address_table_key"`
	Index           uint8            `json:"index"`
	Writable        bool             `json:"writable"`
}

// Instruction is one decoded instruction. Static account references and
// table coordinates are split into separate lists, each preserving the
// instruction's reference order. ProgramKey is a base58 key, or a table
// coordinate rendered as table-key[index] when the program itself is
// loaded through a lookup.
type Instruction struct {
	ProgramKey          string           `json:"program_key"`
	Accounts            []AccountMeta    `json:"accounts"`
	InstructionDataHex  string           `json:"instruction_data_hex"`
	AddressTableLookups []TableLookupRef `json:"address_table_lookups"`
}

// Transfer is a system program lamport transfer. From and To are
// rendered identities since either side may be a table coordinate.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// TokenTransfer is an SPL token movement: Transfer, TransferChecked, or
// TransferCheckedWithFee. TokenMint, Decimals, and Fee are present only
// on the variants that carry them; Signers holds any trailing multisig
// signer accounts.
type TokenTransfer struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Owner     string   `json:"owner"`
	Amount    uint64   `json:"amount"`
	TokenMint string   `json:"token_mint,omitempty"`
	Decimals  *uint8   `json:"decimals,omitempty"`
	Fee       *uint64  `json:"fee,omitempty"`
	Signers   []string `json:"signers,omitempty"`
}

// AddressTableLookup is a message's lookup request against one on-chain
// address table, echoed with its raw writable and readonly index lists.
type AddressTableLookup struct {
	AddressTableKey solana.PublicKey       `json:"address_table_key"`
	WritableIndexes solana.Uint8SliceAsNum `json:"writable_indexes"`
	ReadonlyIndexes solana.Uint8SliceAsNum `json:"readonly_indexes"`
}

// ProgramInfo describes one program the transfer extractor recognizes
// and the instruction forms it matches.
type ProgramInfo struct {
	ProgramKey   string   `json:"program_key"`
	Name         string   `json:"name"`
	Instructions []string `json:"instructions"`
}
