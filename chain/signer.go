package chain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os/exec"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/catalyst-tools/regnode/types"
)

// LocalSigner signs in-process with a held Ed25519 signing key
type LocalSigner struct {
	key *types.SigningKey
}

// NewLocalSigner returns a LocalSigner for the given key
func NewLocalSigner(key *types.SigningKey) *LocalSigner {
	return &LocalSigner{key: key}
}

// keyEnvelope is the on-disk text envelope of a signing key: a JSON
// document whose cborHex field holds the CBOR byte string of the raw key.
type keyEnvelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

// LocalSignerFromFile loads a signing key from its text envelope file
func LocalSignerFromFile(path string) (*LocalSigner, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var env keyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("can not parse key envelope %s: %w", path, err)
	}
	cborBytes, err := hex.DecodeString(env.CborHex)
	if err != nil {
		return nil, fmt.Errorf("can not parse key envelope %s: %w", path, err)
	}
	var seed []byte
	if err := cbor.Unmarshal(cborBytes, &seed); err != nil {
		return nil, fmt.Errorf("can not parse key envelope %s: %w", path, err)
	}
	key, err := types.SigningKeyFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("key envelope %s: %w", path, err)
	}
	return NewLocalSigner(key), nil
}

// Sign returns the detached signature of msg
func (s *LocalSigner) Sign(msg []byte) (types.Signature, error) {
	return s.key.Sign(msg), nil
}

// VerificationKey returns the verification key of the held signing key
func (s *LocalSigner) VerificationKey() types.VerificationKey {
	return s.key.VerificationKey()
}

// CLISigner invokes an external signing executable as a subprocess: the
// message is passed hex-encoded as the last argument and the tool prints
// the hex signature on stdout.
type CLISigner struct {
	// Binary is the signing executable
	Binary string
	// Args are the fixed arguments (key handle etc.) placed before the
	// message
	Args []string

	vkey types.VerificationKey
}

// NewCLISigner returns a CLISigner for the given executable and the
// verification key counterpart of the key it holds
func NewCLISigner(binary string, vkey types.VerificationKey, args ...string) *CLISigner {
	return &CLISigner{Binary: binary, Args: args, vkey: vkey}
}

// Sign invokes the executable. A non-zero exit surfaces as an error that
// includes the command line and the raw stderr.
func (s *CLISigner) Sign(msg []byte) (types.Signature, error) {
	args := append(append([]string{}, s.Args...), hex.EncodeToString(msg))
	cmd := exec.Command(s.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return types.Signature{}, fmt.Errorf("%s %s: %w: %s", s.Binary,
			strings.Join(args, " "), err, stderr.String())
	}
	sigBytes, err := hex.DecodeString(strings.TrimSpace(stdout.String()))
	if err != nil {
		return types.Signature{}, fmt.Errorf("%s returned a non-hex signature: %w", s.Binary, err)
	}
	sig, err := types.SignatureFromBytes(sigBytes)
	if err != nil {
		return types.Signature{}, fmt.Errorf("%s: %w", s.Binary, err)
	}
	return sig, nil
}

// VerificationKey returns the verification key counterpart of the key held
// by the external tool
func (s *CLISigner) VerificationKey() types.VerificationKey {
	return s.vkey
}
