// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command slhdsa generates SLH-DSA keys and signs and verifies files with
// them.
//
// Usage:
//
//	slhdsa [-v] keygen -params SLH-DSA-SHAKE-128f -out key.pem [-pub key.pub.pem]
//	slhdsa [-v] sign -key key.pem -in FILE -sig FILE.sig [-ctx HEX] [-prehash SHA-256] [-deterministic]
//	slhdsa [-v] verify -pub key.pub.pem -in FILE -sig FILE.sig [-ctx HEX] [-prehash SHA-256]
//
// Private keys are stored as PEM "PRIVATE KEY" blocks holding PKCS #8 DER,
// public keys as PEM "PUBLIC KEY" blocks holding SubjectPublicKeyInfo DER.
// Signatures are written as raw bytes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errUsage marks errors caused by invalid command line arguments.
var errUsage = errors.New("usage error")

type command struct {
	name    string
	summary string
	run     func(log *zap.Logger, args []string, stdout, stderr io.Writer) error
}

var commands = []command{
	{"keygen", "generate a key pair", runKeygen},
	{"sign", "sign a file", runSign},
	{"verify", "verify the signature of a file", runVerify},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: slhdsa [flags] <command> [command flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nFlags:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		level = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("slhdsa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log at debug level in a human-readable format")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	log := newLogger(stderr, *verbose)
	defer log.Sync()

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(log.Named(c.name), fs.Args()[1:], stdout, stderr)
		switch {
		case err == nil:
			return exitOK
		case errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp):
			return exitUsage
		default:
			log.Error("command failed", zap.String("command", c.name), zap.Error(err))
			return exitFailure
		}
	}
	fmt.Fprintf(stderr, "slhdsa: unknown command %q\n", name)
	fs.Usage()
	return exitUsage
}
