// Command trieproof inspects and builds encoded sealable trie proofs.
package main

import (
	"fmt"
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/urfave/cli/v2"
)

const serviceName = "trieproof"

func newApp() *cli.App {
	return &cli.App{
		Name:  serviceName,
		Usage: "decode, encode and bundle sealable trie proofs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "INFO",
				Usage:   "logger level (DEBUG, INFO, NOOP, ...)",
				EnvVars: []string{"TRIEPROOF_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.New(c.String("log-level"))
			return nil
		},
		After: func(c *cli.Context) error {
			logger.OnExit()
			return nil
		},
		Commands: []*cli.Command{
			decodeCommand(),
			encodeCommand(),
			bundleCommand(),
			unbundleCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
