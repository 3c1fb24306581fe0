package chain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.vocdoni.io/dvote/log"

	"github.com/catalyst-tools/regnode/txbuilder"
	"github.com/catalyst-tools/regnode/types"
)

// Options is used to pass the parameters to load a new CLIClient
type Options struct {
	// Binary is the cardano-cli compatible binary to invoke
	Binary string
	// NetworkMagic selects the network; 0 selects mainnet
	NetworkMagic uint64
	// SocketPath is the node socket handed to the binary through its
	// environment
	SocketPath string
}

// CLIClient implements Client by invoking a cardano-cli compatible binary
// as a subprocess and parsing its JSON output
type CLIClient struct {
	opts Options
}

// New loads a new CLIClient
func New(opts Options) (*CLIClient, error) {
	if opts.Binary == "" {
		opts.Binary = "cardano-cli"
	}
	return &CLIClient{opts: opts}, nil
}

// run executes the binary with the given arguments. On failure the error
// includes the full command line and the raw stderr, so the environment
// problem can be diagnosed outside the node.
func (c *CLIClient) run(args ...string) ([]byte, error) {
	cmd := exec.Command(c.opts.Binary, args...)
	if c.opts.SocketPath != "" {
		cmd.Env = append(os.Environ(),
			"CARDANO_NODE_SOCKET_PATH="+c.opts.SocketPath)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Debugf("exec: %s %s", c.opts.Binary, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", c.opts.Binary,
			strings.Join(args, " "), err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func (c *CLIClient) networkArgs() []string {
	if c.opts.NetworkMagic == 0 {
		return []string{"--mainnet"}
	}
	return []string{"--testnet-magic", strconv.FormatUint(c.opts.NetworkMagic, 10)}
}

// Tip returns the slot number of the current chain tip
func (c *CLIClient) Tip() (uint64, error) {
	args := append([]string{"query", "tip"}, c.networkArgs()...)
	out, err := c.run(args...)
	if err != nil {
		return 0, err
	}
	return parseTip(out)
}

func parseTip(out []byte) (uint64, error) {
	var tip struct {
		Slot uint64 `json:"slot"`
	}
	if err := json.Unmarshal(out, &tip); err != nil {
		return 0, fmt.Errorf("can not parse tip query output: %w: %s", err, out)
	}
	return tip.Slot, nil
}

// ProtocolParams returns the current fee parameters
func (c *CLIClient) ProtocolParams() (txbuilder.FeeParams, error) {
	args := append([]string{"query", "protocol-parameters"}, c.networkArgs()...)
	out, err := c.run(args...)
	if err != nil {
		return txbuilder.FeeParams{}, err
	}
	return parseProtocolParams(out)
}

func parseProtocolParams(out []byte) (txbuilder.FeeParams, error) {
	var pp struct {
		TxFeeFixed   uint64 `json:"txFeeFixed"`
		TxFeePerByte uint64 `json:"txFeePerByte"`
		MinUTXOValue uint64 `json:"minUTxOValue"`
	}
	if err := json.Unmarshal(out, &pp); err != nil {
		return txbuilder.FeeParams{}, fmt.Errorf(
			"can not parse protocol-parameters output: %w: %s", err, out)
	}
	return txbuilder.FeeParams{
		Base:         pp.TxFeeFixed,
		PerByte:      pp.TxFeePerByte,
		MinUTXOValue: pp.MinUTXOValue,
	}, nil
}

// UnspentAt returns the spendable outputs at the given address. The query
// output is a JSON object keyed by "txhash#index"; since JSON objects have
// no order, the outputs are returned sorted by (tx hash, index) so repeated
// queries over the same set supply the same order to coin selection.
func (c *CLIClient) UnspentAt(addr types.PaymentAddress) ([]txbuilder.UTXO, error) {
	bech, err := addr.Bech32()
	if err != nil {
		return nil, err
	}
	args := append([]string{"query", "utxo", "--address", bech, "--out-file", "/dev/stdout"},
		c.networkArgs()...)
	out, err := c.run(args...)
	if err != nil {
		return nil, err
	}
	return parseUTXOs(out)
}

func parseUTXOs(out []byte) ([]txbuilder.UTXO, error) {
	var raw map[string]struct {
		Value uint64 `json:"value"`
	}
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("can not parse utxo query output: %w: %s", err, out)
	}
	utxos := make([]txbuilder.UTXO, 0, len(raw))
	for ref, entry := range raw {
		op, err := parseOutPoint(ref)
		if err != nil {
			return nil, err
		}
		utxos = append(utxos, txbuilder.UTXO{OutPoint: op, Value: entry.Value})
	}
	sort.Slice(utxos, func(i, j int) bool {
		a, b := utxos[i].OutPoint, utxos[j].OutPoint
		if c := bytes.Compare(a.TxHash[:], b.TxHash[:]); c != 0 {
			return c < 0
		}
		return a.Index < b.Index
	})
	return utxos, nil
}

func parseOutPoint(ref string) (txbuilder.OutPoint, error) {
	var op txbuilder.OutPoint
	parts := strings.SplitN(ref, "#", 2)
	if len(parts) != 2 {
		return op, fmt.Errorf("malformed utxo reference: %q", ref)
	}
	h, err := hex.DecodeString(parts[0])
	if err != nil || len(h) != len(op.TxHash) {
		return op, fmt.Errorf("malformed tx hash in utxo reference: %q", ref)
	}
	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return op, fmt.Errorf("malformed output index in utxo reference: %q", ref)
	}
	copy(op.TxHash[:], h)
	op.Index = uint32(index)
	return op, nil
}

// Submit sends the raw signed transaction through the binary's submit
// command. The transaction is handed over as a temporary envelope file.
func (c *CLIClient) Submit(rawTx []byte) error {
	f, err := ioutil.TempFile("", "regnode-tx-*.signed")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck

	envelope := map[string]string{
		"type":        "Tx MaryEra",
		"description": "",
		"cborHex":     hex.EncodeToString(rawTx),
	}
	enc, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if _, err := f.Write(enc); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	args := append([]string{"transaction", "submit", "--tx-file", filepath.Clean(f.Name())},
		c.networkArgs()...)
	_, err = c.run(args...)
	return err
}
