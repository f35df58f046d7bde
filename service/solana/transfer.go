package solana

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Programs whose transfer instructions the extractor understands.
var (
	// SystemProgramID is the native program that owns plain lamport
	// transfers.
	SystemProgramID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	// TokenProgramID is the original SPL token program.
	TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	// Token2022ProgramID is the token extensions program. It shares the
	// SPL token instruction layout and adds the transfer fee extension.
	Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)

// System program instructions are tagged with a little-endian uint32,
// SPL token instructions with a single byte. The transfer fee extension
// nests a second tag byte.
const (
	systemInstructionTransfer = uint32(2)

	tokenInstructionTransfer              = uint8(3)
	tokenInstructionTransferChecked       = uint8(12)
	tokenInstructionTransferFeeExtension  = uint8(26)
	transferFeeInstructionTransferChecked = uint8(1)
)

// matchSystemTransfer reports the lamport transfer a system program
// instruction encodes, if it encodes one. Position 0 of the account
// references is the funding account, position 1 the recipient. Any
// mismatch in discriminator, data length, or account count means no
// transfer; it is never an error.
func matchSystemTransfer(data []byte, accounts []AccountRef) (Transfer, bool) {
	if len(data) < 12 || binary.LittleEndian.Uint32(data[:4]) != systemInstructionTransfer {
		return Transfer{}, false
	}
	if len(accounts) < 2 {
		return Transfer{}, false
	}
	return Transfer{
		From:   accounts[0].DisplayKey(),
		To:     accounts[1].DisplayKey(),
		Amount: binary.LittleEndian.Uint64(data[4:12]),
	}, true
}

// matchTokenTransfer reports the token movement an SPL token instruction
// encodes, if it is one of the three transfer forms. Account positions
// follow the token program layouts; accounts past the documented
// positions are multisig signers. Like the system matcher, a mismatch
// yields no transfer rather than an error.
func matchTokenTransfer(data []byte, accounts []AccountRef) (TokenTransfer, bool) {
	if len(data) == 0 {
		return TokenTransfer{}, false
	}
	switch data[0] {
	case tokenInstructionTransfer:
		// [tag u8, amount u64] with accounts [source, destination, owner].
		if len(data) < 9 || len(accounts) < 3 {
			return TokenTransfer{}, false
		}
		return TokenTransfer{
			From:    accounts[0].DisplayKey(),
			To:      accounts[1].DisplayKey(),
			Owner:   accounts[2].DisplayKey(),
			Amount:  binary.LittleEndian.Uint64(data[1:9]),
			Signers: displayKeys(accounts[3:]),
		}, true

	case tokenInstructionTransferChecked:
		// [tag u8, amount u64, decimals u8] with accounts
		// [source, mint, destination, owner].
		if len(data) < 10 || len(accounts) < 4 {
			return TokenTransfer{}, false
		}
		decimals := data[9]
		return TokenTransfer{
			From:      accounts[0].DisplayKey(),
			TokenMint: accounts[1].DisplayKey(),
			To:        accounts[2].DisplayKey(),
			Owner:     accounts[3].DisplayKey(),
			Amount:    binary.LittleEndian.Uint64(data[1:9]),
			Decimals:  &decimals,
			Signers:   displayKeys(accounts[4:]),
		}, true

	case tokenInstructionTransferFeeExtension:
		// [tag u8, fee tag u8, amount u64, decimals u8, fee u64] with the
		// TransferChecked account layout.
		if len(data) < 19 || data[1] != transferFeeInstructionTransferChecked || len(accounts) < 4 {
			return TokenTransfer{}, false
		}
		decimals := data[10]
		fee := binary.LittleEndian.Uint64(data[11:19])
		return TokenTransfer{
			From:      accounts[0].DisplayKey(),
			TokenMint: accounts[1].DisplayKey(),
			To:        accounts[2].DisplayKey(),
			Owner:     accounts[3].DisplayKey(),
			Amount:    binary.LittleEndian.Uint64(data[2:10]),
			Decimals:  &decimals,
			Fee:       &fee,
			Signers:   displayKeys(accounts[4:]),
		}, true
	}
	return TokenTransfer{}, false
}

// displayKeys renders each reference's identity, nil for none so the
// slice omits itself from JSON.
func displayKeys(refs []AccountRef) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.DisplayKey())
	}
	return out
}

// RecognizedPrograms is the fixed table of programs the transfer
// extractor matches, in the order the API and CLI report them.
func RecognizedPrograms() []ProgramInfo {
	return []ProgramInfo{
		{
			ProgramKey:   SystemProgramID.String(),
			Name:         "System Program",
			Instructions: []string{"Transfer"},
		},
		{
			ProgramKey:   TokenProgramID.String(),
			Name:         "SPL Token",
			Instructions: []string{"Transfer", "TransferChecked"},
		},
		{
			ProgramKey:   Token2022ProgramID.String(),
			Name:         "SPL Token-2022",
			Instructions: []string{"Transfer", "TransferChecked", "TransferCheckedWithFee"},
		},
	}
}
