package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/urfave/cli/v2"

	"github.com/JafarAz/emulated-light-client/cryptohash"
	"github.com/JafarAz/emulated-light-client/proof"
	"github.com/JafarAz/emulated-light-client/proofbundle"
)

func commandLog(c *cli.Context) logger.Logger {
	return logger.Sugar.WithServiceName(serviceName + "." + c.Command.Name)
}

// readInput returns the bytes named by the hex flag, or the contents of the
// file flag ("-" for stdin).
func readInput(c *cli.Context, hexFlag, fileFlag string) ([]byte, error) {
	if s := c.String(hexFlag); s != "" {
		return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	}
	name := c.String(fileFlag)
	if name == "" {
		return nil, fmt.Errorf("one of --%s or --%s is required", hexFlag, fileFlag)
	}
	if name == "-" {
		return io.ReadAll(c.App.Reader)
	}
	return os.ReadFile(name)
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "decode",
		Usage: "decode a wire encoded proof",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "hex", Usage: "proof bytes as hex"},
			&cli.StringFlag{Name: "file", Usage: "file holding raw proof bytes, - for stdin"},
			&cli.BoolFlag{Name: "json", Usage: "print the proof as JSON accepted by encode"},
		},
		Action: func(c *cli.Context) error {
			log := commandLog(c)
			data, err := readInput(c, "hex", "file")
			if err != nil {
				return err
			}
			p, err := proof.UnmarshalProof(data)
			if err != nil {
				return fmt.Errorf("decode proof: %w", err)
			}
			logger.Sugar.Debugf("decode: %x", data)
			log.Infof("decoded %d byte proof", len(data))

			if !c.Bool("json") {
				return printLines(c.App.Writer, proof.Describe(p))
			}
			jp, err := toJSON(p)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(jp)
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "encode a JSON proof description to wire hex",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "json", Usage: "JSON file, - for stdin", Required: true},
		},
		Action: func(c *cli.Context) error {
			log := commandLog(c)
			data, err := readInput(c, "", "json")
			if err != nil {
				return err
			}
			var jp jsonProof
			if err := json.Unmarshal(data, &jp); err != nil {
				return fmt.Errorf("parse proof JSON: %w", err)
			}
			p, err := fromJSON(jp)
			if err != nil {
				return err
			}
			if err := proof.ValidateProof(p); err != nil {
				return err
			}
			wire := proof.MarshalProof(p)
			log.Infof("encoded %s proof to %d bytes", jp.Type, len(wire))
			_, err = fmt.Fprintln(c.App.Writer, hex.EncodeToString(wire))
			return err
		},
	}
}

func bundleCommand() *cli.Command {
	return &cli.Command{
		Name:  "bundle",
		Usage: "wrap a wire encoded proof with its root and key as CBOR",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "trie root digest as hex", Required: true},
			&cli.StringFlag{Name: "key", Usage: "proven key as hex"},
			&cli.StringFlag{Name: "hex", Usage: "proof bytes as hex"},
			&cli.StringFlag{Name: "file", Usage: "file holding raw proof bytes, - for stdin"},
			&cli.IntFlag{Name: "max-proof-bytes", Value: proofbundle.DefaultMaxProofBytes},
		},
		Action: func(c *cli.Context) error {
			log := commandLog(c)
			root, err := cryptohash.ParseHex(c.String("root"))
			if err != nil {
				return fmt.Errorf("root: %w", err)
			}
			key, err := hex.DecodeString(c.String("key"))
			if err != nil {
				return fmt.Errorf("key: %w", err)
			}
			data, err := readInput(c, "hex", "file")
			if err != nil {
				return err
			}
			p, err := proof.UnmarshalProof(data)
			if err != nil {
				return fmt.Errorf("decode proof: %w", err)
			}

			codec, err := proofbundle.NewCodec(proofbundle.WithMaxProofBytes(c.Int("max-proof-bytes")))
			if err != nil {
				return err
			}
			out, err := codec.MarshalProof(root, key, p)
			if err != nil {
				return err
			}
			log.Infof("bundled proof for root %s: %d bytes", root, len(out))
			_, err = fmt.Fprintln(c.App.Writer, hex.EncodeToString(out))
			return err
		},
	}
}

func unbundleCommand() *cli.Command {
	return &cli.Command{
		Name:  "unbundle",
		Usage: "decode a CBOR proof bundle",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "hex", Usage: "bundle bytes as hex"},
			&cli.StringFlag{Name: "file", Usage: "file holding raw bundle bytes, - for stdin"},
			&cli.IntFlag{Name: "max-proof-bytes", Value: proofbundle.DefaultMaxProofBytes},
		},
		Action: func(c *cli.Context) error {
			log := commandLog(c)
			data, err := readInput(c, "hex", "file")
			if err != nil {
				return err
			}
			codec, err := proofbundle.NewCodec(proofbundle.WithMaxProofBytes(c.Int("max-proof-bytes")))
			if err != nil {
				return err
			}
			b, p, err := codec.Unmarshal(data)
			if err != nil {
				return fmt.Errorf("decode bundle: %w", err)
			}
			log.Infof("unbundled proof of %d bytes", len(b.Proof))

			root, err := b.RootHash()
			if err != nil {
				return err
			}
			lines := []string{
				"root " + root.String(),
				"key " + hex.EncodeToString(b.Key),
			}
			return printLines(c.App.Writer, append(lines, proof.Describe(p)...))
		},
	}
}
