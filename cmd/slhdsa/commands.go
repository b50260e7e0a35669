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

package main

import (
	"encoding/hex"
	"encoding/pem"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tink-crypto/tink-go-slhdsa/signature/slhdsa"
	"go.uber.org/zap"
)

const (
	privateKeyPEMType = "PRIVATE KEY"
	publicKeyPEMType  = "PUBLIC KEY"
)

var preHashes = []slhdsa.PreHash{
	slhdsa.PreHashSHA256,
	slhdsa.PreHashSHA384,
	slhdsa.PreHashSHA512,
	slhdsa.PreHashSHA224,
	slhdsa.PreHashSHA512_224,
	slhdsa.PreHashSHA512_256,
	slhdsa.PreHashSHA3_224,
	slhdsa.PreHashSHA3_256,
	slhdsa.PreHashSHA3_384,
	slhdsa.PreHashSHA3_512,
	slhdsa.PreHashSHAKE128,
	slhdsa.PreHashSHAKE256,
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse parses args and checks that every flag in required is set.
func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("%w: unexpected arguments %q", errUsage, fs.Args())
	}
	for _, name := range required {
		if fs.Lookup(name).Value.String() == "" {
			return fmt.Errorf("%w: -%s is required", errUsage, name)
		}
	}
	return nil
}

// signatureFlags are shared by sign and verify.
type signatureFlags struct {
	in      string
	sig     string
	ctx     string
	preHash string
}

func (f *signatureFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.in, "in", "", "file holding the message")
	fs.StringVar(&f.sig, "sig", "", "signature file")
	fs.StringVar(&f.ctx, "ctx", "", "hex-encoded context string, at most 255 bytes")
	fs.StringVar(&f.preHash, "prehash", "", "sign the digest of the message (HashSLH-DSA), e.g. SHA-256")
}

func (f *signatureFlags) options() ([]slhdsa.Option, error) {
	var opts []slhdsa.Option
	if f.ctx != "" {
		ctx, err := hex.DecodeString(f.ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: -ctx: %v", errUsage, err)
		}
		opts = append(opts, slhdsa.WithContext(ctx))
	}
	if f.preHash != "" {
		ph, err := parsePreHash(f.preHash)
		if err != nil {
			return nil, err
		}
		opts = append(opts, slhdsa.WithPreHash(ph))
	}
	return opts, nil
}

func parsePreHash(name string) (slhdsa.PreHash, error) {
	for _, ph := range preHashes {
		if ph.String() == name {
			return ph, nil
		}
	}
	return slhdsa.PreHashUnknown, fmt.Errorf("%w: unknown pre-hash function %q", errUsage, name)
}

func writePEM(path, blockType string, der []byte, perm os.FileMode) error {
	b := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	defer clear(b)
	return os.WriteFile(path, b, perm)
}

func readPEM(path, blockType string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer clear(b)
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM data found", path)
	}
	if block.Type != blockType {
		return nil, fmt.Errorf("%s: PEM block type is %q, want %q", path, block.Type, blockType)
	}
	return block.Bytes, nil
}

func runKeygen(log *zap.Logger, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("keygen", stderr)
	paramsName := fs.String("params", "SLH-DSA-SHAKE-128f", fmt.Sprintf("parameter set, one of %q", slhdsa.ParameterSetNames()))
	out := fs.String("out", "", "output file for the private key")
	pub := fs.String("pub", "", "output file for the public key (default: <out>.pub)")
	if err := parse(fs, args, "out"); err != nil {
		return err
	}
	if *pub == "" {
		*pub = *out + ".pub"
	}

	params, err := slhdsa.NewParametersFromName(*paramsName, slhdsa.VariantNoPrefix)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	log.Debug("generating key", zap.Stringer("params", params))
	privateKey, err := slhdsa.GeneratePrivateKey(params, 0)
	if err != nil {
		return err
	}
	defer privateKey.PrivateKeyBytes().Destroy()

	der, err := slhdsa.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return err
	}
	defer clear(der)
	if err := writePEM(*out, privateKeyPEMType, der, 0o600); err != nil {
		return err
	}
	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return err
	}
	spki, err := slhdsa.MarshalPKIXPublicKey(publicKey.(*slhdsa.PublicKey))
	if err != nil {
		return err
	}
	if err := writePEM(*pub, publicKeyPEMType, spki, 0o644); err != nil {
		return err
	}
	log.Info("generated key pair",
		zap.String("params", params.Name()),
		zap.String("private_key", *out),
		zap.String("public_key", *pub))
	return nil
}

func runSign(log *zap.Logger, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("sign", stderr)
	keyPath := fs.String("key", "", "PEM file holding the private key")
	deterministic := fs.Bool("deterministic", false, "use the deterministic variant instead of hedged signing")
	var sf signatureFlags
	sf.register(fs)
	if err := parse(fs, args, "key", "in", "sig"); err != nil {
		return err
	}
	opts, err := sf.options()
	if err != nil {
		return err
	}
	if *deterministic {
		opts = append(opts, slhdsa.WithDeterministicSigning())
	}

	der, err := readPEM(*keyPath, privateKeyPEMType)
	if err != nil {
		return err
	}
	privateKey, err := slhdsa.ParsePKCS8PrivateKey(der)
	clear(der)
	if err != nil {
		return err
	}
	defer privateKey.PrivateKeyBytes().Destroy()
	signer, err := slhdsa.NewSigner(privateKey, opts...)
	if err != nil {
		return err
	}
	message, err := os.ReadFile(sf.in)
	if err != nil {
		return err
	}
	log.Debug("signing", zap.String("params", privateKey.Parameters().(*slhdsa.Parameters).Name()), zap.Int("num_bytes", len(message)))
	sig, err := signer.Sign(message)
	if err != nil {
		return err
	}
	if err := os.WriteFile(sf.sig, sig, 0o644); err != nil {
		return err
	}
	log.Info("signed", zap.String("in", sf.in), zap.String("sig", sf.sig), zap.Int("signature_bytes", len(sig)))
	return nil
}

func runVerify(log *zap.Logger, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("verify", stderr)
	pubPath := fs.String("pub", "", "PEM file holding the public key")
	var sf signatureFlags
	sf.register(fs)
	if err := parse(fs, args, "pub", "in", "sig"); err != nil {
		return err
	}
	opts, err := sf.options()
	if err != nil {
		return err
	}

	der, err := readPEM(*pubPath, publicKeyPEMType)
	if err != nil {
		return err
	}
	publicKey, err := slhdsa.ParsePKIXPublicKey(der)
	if err != nil {
		return err
	}
	verifier, err := slhdsa.NewVerifier(publicKey, opts...)
	if err != nil {
		return err
	}
	message, err := os.ReadFile(sf.in)
	if err != nil {
		return err
	}
	sig, err := os.ReadFile(sf.sig)
	if err != nil {
		return err
	}
	log.Debug("verifying", zap.Int("num_bytes", len(message)), zap.Int("signature_bytes", len(sig)))
	if err := verifier.Verify(sig, message); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Verified OK")
	return nil
}
