package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brojonat/solparse/service/solana"
	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
)

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a hex-encoded transaction or message locally",
		ArgsUsage: "HEX",
		Description: `Decodes a hex-encoded Solana payload without contacting a server.

Reads the payload from the HEX argument, or from stdin when no argument is
given. Exactly one of --transaction or --message selects how the payload is
interpreted.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "transaction",
				Aliases: []string{"t"},
				Usage:   "Interpret the payload as a signed transaction",
			},
			&cli.BoolFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Interpret the payload as a bare message",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output the decoded payload as JSON",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "Apply a jq expression to the decoded payload",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("transaction") == c.Bool("message") {
				return fmt.Errorf("exactly one of --transaction or --message is required")
			}

			input, err := readHexArg(c)
			if err != nil {
				return err
			}

			raw, err := hex.DecodeString(input)
			if err != nil {
				return fmt.Errorf("payload must be a hex-encoded byte string: %w", err)
			}

			var tx *solana.ParsedTransaction
			if c.Bool("transaction") {
				tx, err = solana.ParseTransaction(raw)
			} else {
				tx, err = solana.ParseMessage(raw)
			}
			if err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}

			return printParsed(tx, c.Bool("json"), c.String("jq"))
		},
	}
}

// readHexArg returns the hex payload from the first positional argument, or
// from stdin when no argument is given.
func readHexArg(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.TrimSpace(c.Args().Get(0)), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", fmt.Errorf("hex payload is required (pass HEX argument or pipe it to stdin)")
	}
	return input, nil
}

// printParsed writes the decoded payload to stdout, either as indented JSON,
// filtered through a jq expression, or in a human-readable layout.
func printParsed(tx *solana.ParsedTransaction, jsonOutput bool, jqExpr string) error {
	if jqExpr != "" {
		return printJQ(tx, jqExpr)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(tx, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal transaction: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printParsedTransaction(tx)
	return nil
}

// printJQ applies a jq expression to the decoded payload and prints each
// result as a JSON line.
func printJQ(tx *solana.ParsedTransaction, expr string) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("failed to parse jq filter %q: %w", expr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq filter %q: %w", expr, err)
	}

	// Round-trip through JSON so the filter sees the same shape the API serves.
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	iter := code.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("jq filter error: %w", err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal jq result: %w", err)
		}
		fmt.Println(string(out))
	}

	return nil
}

func printParsedTransaction(tx *solana.ParsedTransaction) {
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("✓ Decoded Payload")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Version:      %s\n", tx.Version)
	fmt.Printf("Blockhash:    %s\n", tx.RecentBlockhash)
	fmt.Printf("Accounts:     %d\n", len(tx.AccountKeys))
	fmt.Printf("Instructions: %d\n", len(tx.Instructions))

	if len(tx.Signatures) > 0 {
		fmt.Println("\nSignatures:")
		for i, sig := range tx.Signatures {
			fmt.Printf("  %2d: %s\n", i, sig)
		}
	}

	fmt.Println("\nAccount Keys:")
	for i, meta := range tx.AccountKeys {
		fmt.Printf("  %2d: %s%s\n", i, meta.AccountKey, accountFlagSuffix(meta))
	}

	if len(tx.ProgramKeys) > 0 {
		fmt.Println("\nProgram Keys:")
		for _, key := range tx.ProgramKeys {
			fmt.Printf("  %s\n", key)
		}
	}

	if len(tx.Instructions) > 0 {
		fmt.Println("\nInstructions:")
		for i, inst := range tx.Instructions {
			fmt.Printf("  %2d: program %s\n", i, inst.ProgramKey)
			fmt.Printf("      accounts: %d static, %d via lookup\n", len(inst.Accounts), len(inst.AddressTableLookups))
			fmt.Printf("      data:     %s\n", inst.InstructionDataHex)
		}
	}

	if len(tx.Transfers) > 0 {
		fmt.Println("\nTransfers:")
		for _, tr := range tx.Transfers {
			fmt.Printf("  %s -> %s\n", tr.From, tr.To)
			fmt.Printf("    Amount: %d lamports (%.4f SOL)\n", tr.Amount, float64(tr.Amount)/1e9)
		}
	}

	if len(tx.TokenTransfers) > 0 {
		fmt.Println("\nToken Transfers:")
		for _, tr := range tx.TokenTransfers {
			fmt.Printf("  %s -> %s\n", tr.From, tr.To)
			fmt.Printf("    Owner:  %s\n", tr.Owner)
			fmt.Printf("    Amount: %d\n", tr.Amount)
			if tr.TokenMint != "" {
				fmt.Printf("    Mint:   %s\n", tr.TokenMint)
			}
			if tr.Decimals != nil {
				fmt.Printf("    Decimals: %d\n", *tr.Decimals)
			}
			if tr.Fee != nil {
				fmt.Printf("    Fee:    %d\n", *tr.Fee)
			}
		}
	}

	if len(tx.AddressTableLookups) > 0 {
		fmt.Println("\nAddress Table Lookups:")
		for _, lookup := range tx.AddressTableLookups {
			fmt.Printf("  %s\n", lookup.AddressTableKey)
			fmt.Printf("    writable: %v\n", lookup.WritableIndexes)
			fmt.Printf("    readonly: %v\n", lookup.ReadonlyIndexes)
		}
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

func accountFlagSuffix(meta solana.AccountMeta) string {
	var flags []string
	if meta.Signer {
		flags = append(flags, "signer")
	}
	if meta.Writable {
		flags = append(flags, "writable")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}
