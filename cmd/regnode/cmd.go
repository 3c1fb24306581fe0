package main

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	flag "github.com/spf13/pflag"
	"go.vocdoni.io/dvote/log"

	"github.com/catalyst-tools/regnode/api"
	"github.com/catalyst-tools/regnode/chain"
	"github.com/catalyst-tools/regnode/db"
	"github.com/catalyst-tools/regnode/registrar"
	"github.com/catalyst-tools/regnode/txbuilder"
	"github.com/catalyst-tools/regnode/types"
)

// Config contains the main configuration parameters of the node
type Config struct {
	dir, logLevel, port string
	serve               bool

	cliBinary    string
	socketPath   string
	networkMagic uint64

	voteKeyHex   string
	stakeSKey    string
	paymentSKey  string
	paymentAddr  string
	rewardsAddr  string
	ttl          uint64
	submit       bool
	submitURL    string
	signCmd      string
	signVKeyHex  string
}

func main() {
	config := Config{}

	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	flag.StringVarP(&config.dir, "dir", "d", filepath.Join(home, ".regnode"),
		"storage data directory")
	flag.StringVarP(&config.logLevel, "logLevel", "l", "info", "log level (info, debug, warn, error)")
	flag.StringVarP(&config.port, "port", "p", "8080", "network port for the HTTP API")
	flag.BoolVarP(&config.serve, "serve", "s", false, "serve the HTTP API instead of registering once")
	flag.StringVar(&config.cliBinary, "cli", "cardano-cli", "cardano-cli compatible binary")
	flag.StringVar(&config.socketPath, "socket", "", "node socket path handed to the cli binary")
	flag.Uint64Var(&config.networkMagic, "magic", 0, "network magic (0 for mainnet)")
	flag.StringVar(&config.voteKeyHex, "vote-key", "", "voting public key (hex)")
	flag.StringVar(&config.stakeSKey, "stake-skey", "", "stake signing key envelope file")
	flag.StringVar(&config.paymentSKey, "payment-skey", "", "payment signing key envelope file")
	flag.StringVar(&config.paymentAddr, "payment-addr", "", "payment address (bech32)")
	flag.StringVar(&config.rewardsAddr, "rewards-addr", "", "rewards address (bech32)")
	flag.Uint64Var(&config.ttl, "ttl", 7200, "transaction time-to-live in slots past the current tip")
	flag.BoolVar(&config.submit, "submit", false, "submit the signed transaction to the network")
	flag.StringVar(&config.submitURL, "submit-url", "",
		"submit-api endpoint used to submit instead of the cli binary")
	flag.StringVar(&config.signCmd, "sign-cmd", "",
		"external payment signing executable (overrides --payment-skey)")
	flag.StringVar(&config.signVKeyHex, "sign-vkey", "",
		"payment verification key (hex) of the key held by --sign-cmd")

	flag.CommandLine.SortFlags = false
	flag.Parse()

	log.Init(config.logLevel, "stdout")

	log.Debugf("Config: %#v\n", config)

	if err := os.MkdirAll(config.dir, 0o700); err != nil {
		log.Fatal(err)
	}
	sqlDB, err := sql.Open("sqlite3", filepath.Join(config.dir, "regnode.sqlite3"))
	if err != nil {
		log.Fatal(err)
	}
	sqlite := db.NewSQLite(sqlDB)
	if err := sqlite.Migrate(); err != nil {
		log.Fatal(err)
	}

	if config.serve {
		reg, err := registrar.New(sqlite, nil, nil)
		if err != nil {
			log.Fatal(err)
		}
		a, err := api.New(reg)
		if err != nil {
			log.Fatal(err)
		}
		if err := a.Serve(config.port); err != nil {
			log.Fatal(err)
		}
		return
	}

	registerOnce(config, sqlite)
}

// registerOnce builds, signs and (optionally) submits one registration
// transaction from the configured keys and addresses
func registerOnce(config Config, sqlite *db.SQLite) {
	cliClient, err := chain.New(chain.Options{
		Binary:       config.cliBinary,
		NetworkMagic: config.networkMagic,
		SocketPath:   config.socketPath,
	})
	if err != nil {
		log.Fatal(err)
	}
	var client chain.Client = cliClient
	if config.submitURL != "" {
		client = chain.NewHTTPSubmitter(cliClient, chain.NewSubmitClient(config.submitURL))
	}

	paymentSigner, err := newPaymentSigner(config)
	if err != nil {
		log.Fatal(err)
	}

	voteKey, err := types.HexToVoteKey(config.voteKeyHex)
	if err != nil {
		log.Fatalf("invalid --vote-key: %v", err)
	}
	stakeSigner, err := chain.LocalSignerFromFile(config.stakeSKey)
	if err != nil {
		log.Fatalf("invalid --stake-skey: %v", err)
	}
	rewardsAddr, err := types.RewardsAddressFromBech32(config.rewardsAddr)
	if err != nil {
		log.Fatalf("invalid --rewards-addr: %v", err)
	}
	paymentAddr, err := types.PaymentAddressFromBech32(config.paymentAddr)
	if err != nil {
		log.Fatalf("invalid --payment-addr: %v", err)
	}

	tip, err := client.Tip()
	if err != nil {
		log.Fatal(err)
	}

	payload := types.VotePayload{
		VoteKey:         voteKey,
		VerificationKey: stakeSigner.VerificationKey(),
		RewardsAddress:  rewardsAddr,
		Slot:            tip,
	}
	msg, err := payload.SigningHash()
	if err != nil {
		log.Fatal(err)
	}
	sig, err := stakeSigner.Sign(msg)
	if err != nil {
		log.Fatal(err)
	}
	vote, err := types.NewVote(payload, sig)
	if err != nil {
		log.Fatal(err)
	}

	reg, err := registrar.New(sqlite, client, paymentSigner)
	if err != nil {
		log.Fatal(err)
	}
	signed, err := reg.Register(vote, paymentAddr, config.ttl, config.submit)
	if err != nil {
		log.Fatal(err)
	}
	txID, err := signed.ID()
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("registration tx: %x (fee %d, ttl %d)", txID,
		signed.Body.Fee, signed.Body.TTL)
}

// newPaymentSigner picks the payment signing oracle: an external signing
// executable when configured, the local key file otherwise
func newPaymentSigner(config Config) (txbuilder.Signer, error) {
	if config.signCmd != "" {
		vkeyBytes, err := hex.DecodeString(config.signVKeyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid --sign-vkey: %w", err)
		}
		vkey, err := types.VerificationKeyFromBytes(vkeyBytes)
		if err != nil {
			return nil, fmt.Errorf("invalid --sign-vkey: %w", err)
		}
		return chain.NewCLISigner(config.signCmd, vkey), nil
	}
	return chain.LocalSignerFromFile(config.paymentSKey)
}
