package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/brojonat/solparse/client"
	"github.com/brojonat/solparse/service/solana"
	"github.com/urfave/cli/v2"
)

func clientCommands() *cli.Command {
	return &cli.Command{
		Name:  "client",
		Usage: "HTTP client commands for interacting with the solparse service",
		Subcommands: []*cli.Command{
			clientDecodeCommand(),
			clientProgramsCommand(),
		},
	}
}

func clientDecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a payload via the decode service",
		ArgsUsage: "HEX",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "HTTP server URL",
				EnvVars: []string{"SOLPARSE_SERVER_URL"},
			},
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

			// Create logger
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError, // Only errors to stderr
			}))

			// Create client
			cl := client.NewClient(c.String("server"), nil, logger)

			ctx := context.Background()
			var tx *solana.ParsedTransaction
			if c.Bool("transaction") {
				tx, err = cl.DecodeTransaction(ctx, input)
			} else {
				tx, err = cl.DecodeMessage(ctx, input)
			}
			if err != nil {
				return fmt.Errorf("failed to decode payload: %w", err)
			}

			return printParsed(tx, c.Bool("json"), c.String("jq"))
		},
	}
}

func clientProgramsCommand() *cli.Command {
	return &cli.Command{
		Name:  "programs",
		Usage: "List programs the decode service recognizes for transfer extraction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "HTTP server URL",
				EnvVars: []string{"SOLPARSE_SERVER_URL"},
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output programs as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
			}))

			cl := client.NewClient(c.String("server"), nil, logger)

			programs, err := cl.Programs(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list programs: %w", err)
			}

			if c.Bool("json") {
				data, err := json.MarshalIndent(programs, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal programs: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			for _, p := range programs {
				fmt.Printf("%s\n", p.Name)
				fmt.Printf("  Key:          %s\n", p.ProgramKey)
				fmt.Printf("  Instructions: %v\n", p.Instructions)
			}

			return nil
		},
	}
}
