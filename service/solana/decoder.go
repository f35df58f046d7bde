package solana

import (
	"encoding/hex"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ParseMessage decodes data as a bare message: the signed region of a
// transaction with no signature block in front. The input must be
// consumed exactly; decoding never mutates data.
func ParseMessage(data []byte) (*ParsedTransaction, error) {
	msg, err := decodeMessage(newCursor(data))
	if err != nil {
		return nil, err
	}
	return assemble(msg, nil, data)
}

// ParseTransaction decodes data as a full transaction: a compact array
// of 64-byte signatures followed by the message region. Signatures are
// carried through untouched; no count-versus-header check is applied.
func ParseTransaction(data []byte) (*ParsedTransaction, error) {
	cur := newCursor(data)
	sigs, err := decodeSignatures(cur)
	if err != nil {
		return nil, fmt.Errorf("signatures: %w", err)
	}
	region := data[cur.offset():]
	msg, err := decodeMessage(cur)
	if err != nil {
		return nil, err
	}
	return assemble(msg, sigs, region)
}

func decodeSignatures(cur *cursor) ([]solana.Signature, error) {
	n, err := cur.readCompactU16()
	if err != nil {
		return nil, err
	}
	sigs := make([]solana.Signature, 0, n)
	for i := 0; i < n; i++ {
		b, err := cur.read(signatureLength)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		sigs = append(sigs, solana.SignatureFromBytes(b))
	}
	return sigs, nil
}

// assemble builds the output form of a decoded message. region is the
// raw message bytes, which become the unsigned payload whether or not a
// signature block preceded them.
func assemble(msg *Message, sigs []solana.Signature, region []byte) (*ParsedTransaction, error) {
	out := &ParsedTransaction{
		Version:             msg.Version,
		UnsignedPayload:     hex.EncodeToString(region),
		Signatures:          make([]string, 0, len(sigs)),
		AccountKeys:         make([]AccountMeta, 0, len(msg.AccountKeys)),
		ProgramKeys:         []solana.PublicKey{},
		RecentBlockhash:     msg.RecentBlockhash,
		Instructions:        make([]Instruction, 0, len(msg.Instructions)),
		Transfers:           []Transfer{},
		TokenTransfers:      []TokenTransfer{},
		AddressTableLookups: make([]AddressTableLookup, 0, len(msg.AddressTableLookups)),
	}

	for _, sig := range sigs {
		out.Signatures = append(out.Signatures, hex.EncodeToString(sig[:]))
	}
	for i := range msg.AccountKeys {
		out.AccountKeys = append(out.AccountKeys, msg.staticRef(i).Static)
	}

	// Static keys invoked as some instruction's program, in static list
	// order. A program loaded through a lookup table has no key known
	// offline and stays out of this list.
	invoked := make([]bool, len(msg.AccountKeys))
	for _, inst := range msg.Instructions {
		if int(inst.ProgramIDIndex) < len(invoked) {
			invoked[inst.ProgramIDIndex] = true
		}
	}
	for i, key := range msg.AccountKeys {
		if invoked[i] {
			out.ProgramKeys = append(out.ProgramKeys, key)
		}
	}

	for i, inst := range msg.Instructions {
		view, refs, err := resolveInstruction(msg, inst)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		out.Instructions = append(out.Instructions, view)
		collectTransfers(out, inst, refs)
	}

	for _, l := range msg.AddressTableLookups {
		out.AddressTableLookups = append(out.AddressTableLookups, AddressTableLookup{
			AddressTableKey: l.AccountKey,
			WritableIndexes: l.WritableIndexes,
			ReadonlyIndexes: l.ReadonlyIndexes,
		})
	}
	return out, nil
}

// instructionRefs carries the resolved references of one instruction:
// the program plus the accounts in their original positional order,
// before the static/lookup split.
type instructionRefs struct {
	program  AccountRef
	accounts []AccountRef
}

// resolveInstruction resolves every index an instruction carries. Any
// reference past the combined account space aborts the decode.
func resolveInstruction(msg *Message, inst CompiledInstruction) (Instruction, instructionRefs, error) {
	program, err := msg.ResolveAccountIndex(int(inst.ProgramIDIndex))
	if err != nil {
		return Instruction{}, instructionRefs{}, fmt.Errorf("program index: %w", err)
	}

	view := Instruction{
		ProgramKey:          program.DisplayKey(),
		Accounts:            []AccountMeta{},
		InstructionDataHex:  hex.EncodeToString(inst.Data),
		AddressTableLookups: []TableLookupRef{},
	}
	refs := instructionRefs{
		program:  program,
		accounts: make([]AccountRef, 0, len(inst.Accounts)),
	}
	for pos, ai := range inst.Accounts {
		ref, err := msg.ResolveAccountIndex(int(ai))
		if err != nil {
			return Instruction{}, instructionRefs{}, fmt.Errorf("account %d: %w", pos, err)
		}
		refs.accounts = append(refs.accounts, ref)
		switch ref.Kind {
		case RefStatic:
			view.Accounts = append(view.Accounts, ref.Static)
		case RefTableLookup:
			view.AddressTableLookups = append(view.AddressTableLookups, ref.Lookup)
		}
	}
	return view, refs, nil
}

// collectTransfers appends any transfer the instruction encodes. Only a
// statically keyed program can match; transfer positions count the
// combined reference list, not the static/lookup split.
func collectTransfers(out *ParsedTransaction, inst CompiledInstruction, refs instructionRefs) {
	if refs.program.Kind != RefStatic {
		return
	}
	switch key := refs.program.Static.AccountKey; {
	case key.Equals(SystemProgramID):
		if t, ok := matchSystemTransfer(inst.Data, refs.accounts); ok {
			out.Transfers = append(out.Transfers, t)
		}
	case key.Equals(TokenProgramID), key.Equals(Token2022ProgramID):
		if t, ok := matchTokenTransfer(inst.Data, refs.accounts); ok {
			out.TokenTransfers = append(out.TokenTransfers, t)
		}
	}
}
