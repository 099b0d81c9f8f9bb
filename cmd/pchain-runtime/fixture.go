package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/params"
)

// fixture is the on-disk shape the demo CLI reads: a world-state
// snapshot plus the one transaction to run against it. It exists so
// the library can be exercised end to end without standing up a node
// or a persistent trie store — see SPEC_FULL.md's CLI demo entry.
type fixture struct {
	Variant        string            `json:"variant"`
	WorldState     map[string]string `json:"world_state"`
	BlockchainData jsonBlockchain    `json:"blockchain_data"`
	Transaction    jsonTransaction   `json:"transaction"`
}

type jsonBlockchain struct {
	BlockHeight   uint64 `json:"block_height"`
	BlockHash     string `json:"block_hash"`
	Proposer      string `json:"proposer"`
	Treasury      string `json:"treasury"`
	PrevBlockHash string `json:"prev_block_hash"`
	Timestamp     uint64 `json:"timestamp"`
	BaseFeePerGas uint64 `json:"base_fee_per_gas"`
}

type jsonTransaction struct {
	Signer            string        `json:"signer"`
	Nonce             uint64        `json:"nonce"`
	GasLimit          uint64        `json:"gas_limit"`
	BaseFeePerGas     uint64        `json:"base_fee_per_gas"`
	PriorityFeePerGas uint64        `json:"priority_fee_per_gas"`
	SizeBytes         uint64        `json:"size_bytes"`
	Commands          []jsonCommand `json:"commands"`
}

// jsonCommand is a tagged union over every core.Command variant,
// decoded field-by-field since encoding/json has no native support for
// interface-typed fields.
type jsonCommand struct {
	Kind             string `json:"kind"`
	Recipient        string `json:"recipient,omitempty"`
	Amount           uint64 `json:"amount,omitempty"`
	Contract         string `json:"contract,omitempty"`
	CBIVersion       uint32 `json:"cbi_version,omitempty"`
	InitArgs         string `json:"init_args,omitempty"`
	Target           string `json:"target,omitempty"`
	Method           string `json:"method,omitempty"`
	Args             string `json:"args,omitempty"`
	CommissionRate   uint8  `json:"commission_rate,omitempty"`
	Operator         string `json:"operator,omitempty"`
	Balance          uint64 `json:"balance,omitempty"`
	AutoStakeRewards bool   `json:"auto_stake_rewards,omitempty"`
	Requested        uint64 `json:"requested,omitempty"`
}

func hexToAddress(s string) (core.Address, error) {
	if s == "" {
		return core.Address{}, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return core.Address{}, fmt.Errorf("decoding address %q: %w", s, err)
	}
	return core.BytesToAddress(b), nil
}

func hexToBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func (f *fixture) variant() params.Variant {
	if f.Variant == "V4" || f.Variant == "v4" {
		return params.V4
	}
	return params.V5
}

func (jc jsonCommand) toCommand() (core.Command, error) {
	switch jc.Kind {
	case "transfer":
		recipient, err := hexToAddress(jc.Recipient)
		if err != nil {
			return nil, err
		}
		return core.TransferCommand{Recipient: recipient, Amount: jc.Amount}, nil
	case "deploy":
		contract, err := hexToBytes(jc.Contract)
		if err != nil {
			return nil, err
		}
		initArgs, err := hexToBytes(jc.InitArgs)
		if err != nil {
			return nil, err
		}
		return core.DeployCommand{Contract: contract, CBIVersion: jc.CBIVersion, InitArgs: initArgs}, nil
	case "call":
		target, err := hexToAddress(jc.Target)
		if err != nil {
			return nil, err
		}
		args, err := hexToBytes(jc.Args)
		if err != nil {
			return nil, err
		}
		return core.CallCommand{Target: target, Method: jc.Method, Args: args, Amount: jc.Amount}, nil
	case "create_pool":
		return core.CreatePoolCommand{CommissionRate: jc.CommissionRate}, nil
	case "set_pool_settings":
		return core.SetPoolSettingsCommand{CommissionRate: jc.CommissionRate}, nil
	case "delete_pool":
		return core.DeletePoolCommand{}, nil
	case "create_deposit":
		operator, err := hexToAddress(jc.Operator)
		if err != nil {
			return nil, err
		}
		return core.CreateDepositCommand{Operator: operator, Balance: jc.Balance, AutoStakeRewards: jc.AutoStakeRewards}, nil
	case "set_deposit_settings":
		operator, err := hexToAddress(jc.Operator)
		if err != nil {
			return nil, err
		}
		return core.SetDepositSettingsCommand{Operator: operator, AutoStakeRewards: jc.AutoStakeRewards}, nil
	case "top_up_deposit":
		operator, err := hexToAddress(jc.Operator)
		if err != nil {
			return nil, err
		}
		return core.TopUpDepositCommand{Operator: operator, Amount: jc.Amount}, nil
	case "withdraw_deposit":
		operator, err := hexToAddress(jc.Operator)
		if err != nil {
			return nil, err
		}
		return core.WithdrawDepositCommand{Operator: operator, Requested: jc.Requested}, nil
	case "stake_deposit":
		operator, err := hexToAddress(jc.Operator)
		if err != nil {
			return nil, err
		}
		return core.StakeDepositCommand{Operator: operator, Requested: jc.Requested}, nil
	case "unstake_deposit":
		operator, err := hexToAddress(jc.Operator)
		if err != nil {
			return nil, err
		}
		return core.UnstakeDepositCommand{Operator: operator, Requested: jc.Requested}, nil
	case "next_epoch":
		return core.NextEpochCommand{}, nil
	default:
		return nil, fmt.Errorf("unknown command kind %q", jc.Kind)
	}
}

func (f *fixture) toTransaction() (core.Transaction, error) {
	signer, err := hexToAddress(f.Transaction.Signer)
	if err != nil {
		return core.Transaction{}, err
	}
	cmds := make([]core.Command, 0, len(f.Transaction.Commands))
	for i, jc := range f.Transaction.Commands {
		cmd, err := jc.toCommand()
		if err != nil {
			return core.Transaction{}, fmt.Errorf("command %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return core.Transaction{
		Signer:            signer,
		Nonce:             f.Transaction.Nonce,
		GasLimit:          f.Transaction.GasLimit,
		BaseFeePerGas:     f.Transaction.BaseFeePerGas,
		PriorityFeePerGas: f.Transaction.PriorityFeePerGas,
		Commands:          cmds,
		SizeBytes:         f.Transaction.SizeBytes,
	}, nil
}

func (f *fixture) toBlockchainData() (core.BlockchainData, error) {
	proposer, err := hexToAddress(f.BlockchainData.Proposer)
	if err != nil {
		return core.BlockchainData{}, err
	}
	treasury, err := hexToAddress(f.BlockchainData.Treasury)
	if err != nil {
		return core.BlockchainData{}, err
	}
	blockHash, err := hexToBytes(f.BlockchainData.BlockHash)
	if err != nil {
		return core.BlockchainData{}, err
	}
	prevHash, err := hexToBytes(f.BlockchainData.PrevBlockHash)
	if err != nil {
		return core.BlockchainData{}, err
	}
	return core.BlockchainData{
		BlockHeight:   f.BlockchainData.BlockHeight,
		BlockHash:     core.BytesToHash(blockHash),
		Proposer:      proposer,
		Treasury:      treasury,
		PrevBlockHash: core.BytesToHash(prevHash),
		Timestamp:     f.BlockchainData.Timestamp,
		BaseFeePerGas: f.BlockchainData.BaseFeePerGas,
	}, nil
}

// memWorldState is the in-memory state.WorldStateView the demo builds
// from the fixture's world_state map; a real embedder substitutes its
// own persistent-trie-backed implementation.
type memWorldState map[string][]byte

func (m memWorldState) Get(key []byte) ([]byte, bool) { v, ok := m[string(key)]; return v, ok }
func (m memWorldState) Contains(key []byte) bool      { _, ok := m[string(key)]; return ok }

func (f *fixture) toWorldState() (memWorldState, error) {
	out := make(memWorldState, len(f.WorldState))
	for k, v := range f.WorldState {
		keyBytes, err := hex.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("decoding world_state key %q: %w", k, err)
		}
		valBytes, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("decoding world_state value for key %q: %w", k, err)
		}
		out[string(keyBytes)] = valBytes
	}
	return out, nil
}

func loadFixture(b []byte) (*fixture, error) {
	var f fixture
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}
