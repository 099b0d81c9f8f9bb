// Command pchain-runtime is a small demonstration harness for the
// library: it loads a JSON fixture describing a world-state snapshot,
// a transaction and the enclosing block's data, runs it through
// engine.Driver.Transition and prints the resulting receipt and
// write-set. It mirrors the cobra command shape the teacher's
// standalone binaries use (cmd/txpool, cmd/rpcdaemon) without any of
// their node-wiring — there is no store, no network, just one
// transition.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/vm"
	"github.com/parallelchain-io/pchain-runtime/engine"
	"github.com/parallelchain-io/pchain-runtime/metrics"
	"github.com/parallelchain-io/pchain-runtime/params"
)

var (
	fixturePath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "pchain-runtime",
	Short: "Run one transaction fixture through the state-transition core and print its receipt",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.Root()
		if verbose {
			logger.SetHandler(log.LvlFilterHandler(log.LvlDebug, log.StreamHandler(os.Stdout, log.TerminalFormat())))
		}
		return run(logger)
	},
}

func init() {
	rootCmd.Flags().StringVar(&fixturePath, "fixture", "", "path to a JSON fixture (world state + transaction + block data)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "emit driver debug logs to stdout")
	_ = rootCmd.MarkFlagRequired("fixture")
}

// noContractsLoader backs the demo's Driver: this harness only
// exercises account-transfer and staking commands, so Deploy/Call
// fixtures fail fast with a clear reason instead of silently no-oping.
type noContractsLoader struct{}

func (noContractsLoader) Load([]byte, uint32) (vm.ExecutableModule, error) {
	return nil, fmt.Errorf("pchain-runtime demo harness has no contract runtime wired in")
}

func (noContractsLoader) ImportsCompatible(uint32) bool { return false }

func run(logger log.Logger) error {
	raw, err := os.ReadFile(fixturePath)
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}

	fx, err := loadFixture(raw)
	if err != nil {
		return err
	}

	ws, err := fx.toWorldState()
	if err != nil {
		return err
	}
	tx, err := fx.toTransaction()
	if err != nil {
		return err
	}
	bd, err := fx.toBlockchainData()
	if err != nil {
		return err
	}

	cfg := params.DefaultConfig(fx.variant())

	driver := engine.NewDriver(noContractsLoader{}, logger).WithRecorder(metrics.NopRecorder{})
	result := driver.Transition(ws, tx, bd, cfg)

	return printResult(result)
}

type jsonResult struct {
	Err      string            `json:"error,omitempty"`
	Receipt  *jsonReceipt      `json:"receipt,omitempty"`
	WriteSet map[string]string `json:"write_set,omitempty"`
}

type jsonReceipt struct {
	ExitStatusOverall string           `json:"exit_status_overall"`
	GasUsed           uint64           `json:"gas_used"`
	Commands          []jsonCmdReceipt `json:"commands"`
}

type jsonCmdReceipt struct {
	ExitStatus        string `json:"exit_status"`
	GasUsed           uint64 `json:"gas_used"`
	ReturnValue       string `json:"return_value,omitempty"`
	InclusionGasShare uint64 `json:"inclusion_gas_share,omitempty"`
}

func exitStatusString(s core.ExitStatus) string {
	if s == core.ExitSuccess {
		return "Success"
	}
	return "Failed"
}

func printResult(result engine.TransitionResult) error {
	out := jsonResult{}
	if result.Err != nil {
		out.Err = result.Err.Error()
	}
	if result.Receipt != nil {
		r := &jsonReceipt{
			ExitStatusOverall: exitStatusString(result.Receipt.ExitStatusOverall),
			GasUsed:           result.Receipt.GasUsed,
		}
		for _, cr := range result.Receipt.CommandReceipts {
			r.Commands = append(r.Commands, jsonCmdReceipt{
				ExitStatus:        exitStatusString(cr.ExitStatus),
				GasUsed:           cr.GasUsed,
				ReturnValue:       hex.EncodeToString(cr.ReturnValue),
				InclusionGasShare: cr.InclusionGasShare,
			})
		}
		out.Receipt = r
	}
	if len(result.NewWriteSet) > 0 {
		out.WriteSet = make(map[string]string, len(result.NewWriteSet))
		for k, entry := range result.NewWriteSet {
			if entry.Deleted {
				out.WriteSet[hex.EncodeToString([]byte(k))] = "<deleted>"
				continue
			}
			out.WriteSet[hex.EncodeToString([]byte(k))] = hex.EncodeToString(entry.Value)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
