package vm

import (
	"fmt"

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/params"
)

// ExecutionOutcome is what a module invocation reports back to the
// Contract Runtime: the ABI-encoded return value, and how much of the
// guest-side metering budget it consumed.
type ExecutionOutcome struct {
	ReturnValue   []byte
	GasUsedInWasm uint64
}

// ExecutableModule is an instantiated contract, ready to run one entry
// function. The embedder's ContractLoader produces these; the core
// never constructs one directly.
type ExecutableModule interface {
	Invoke(host *HostAPI, method string, args []byte) (ExecutionOutcome, error)
}

// ContractLoader is the required-of-embedders seam (spec §6): it
// resolves module bytes for a CBI version into something invokable,
// and reports whether it can satisfy that version's host-import table
// at all (independent of any particular module).
type ContractLoader interface {
	Load(contractBytes []byte, cbiVersion uint32) (ExecutableModule, error)
	ImportsCompatible(cbiVersion uint32) bool
}

// Runtime is the Contract Runtime (CR, spec §4.5): it validates a
// module at Deploy time, instantiates and invokes it at Call time, and
// translates every failure mode (traps, gas exhaustion, instantiation
// failure, ABI mismatch) into a ContractError with the right exit
// status for the calling executor to map to a CommandError.
type Runtime struct {
	loader  ContractLoader
	cbi     params.CBIConfig
	modules *moduleCache
	imports *importCompatCache
	logger  log.Logger
}

func NewRuntime(loader ContractLoader, cbi params.CBIConfig, logger log.Logger) *Runtime {
	if logger == nil {
		logger = log.Root()
	}
	return &Runtime{
		loader:  loader,
		cbi:     cbi,
		modules: newModuleCache(4 << 20),
		imports: newImportCompatCache(len(cbi.Supported) + 4),
		logger:  logger,
	}
}

// ValidateForDeploy runs the Deploy-time checks (spec §4.4 Deploy):
// the CBI version must be supported, the loader must report its
// import table compatible, and the module bytes must actually load.
func (r *Runtime) ValidateForDeploy(contractAddr core.Address, contractBytes []byte, cbiVersion uint32) error {
	if r.modules.isValidated(contractAddr.Bytes(), cbiVersion) {
		r.logger.Debug("contract deploy validation cache hit", "contract", contractAddr.Hex(), "cbi", cbiVersion)
		return nil
	}
	if !r.cbi.IsSupported(cbiVersion) {
		return newContractError("deploy", fmt.Errorf("unsupported cbi version %d", cbiVersion))
	}
	if compatible, ok := r.imports.get(cbiVersion); ok {
		if !compatible {
			return newContractError("deploy", fmt.Errorf("cbi version %d imports incompatible", cbiVersion))
		}
	} else {
		compatible := r.loader.ImportsCompatible(cbiVersion)
		r.imports.set(cbiVersion, compatible)
		if !compatible {
			return newContractError("deploy", fmt.Errorf("cbi version %d imports incompatible", cbiVersion))
		}
	}
	if _, err := r.loader.Load(contractBytes, cbiVersion); err != nil {
		return newContractError("deploy", err)
	}
	r.modules.markValidated(contractAddr.Bytes(), cbiVersion)
	r.logger.Debug("contract deploy validated", "contract", contractAddr.Hex(), "cbi", cbiVersion)
	return nil
}

// Call instantiates contractBytes and invokes method on it. Traps and
// loader failures are recovered and reported as ContractError, never as
// a Go panic crossing back into the executor. Call does not pass the gas
// meter's remaining budget to the module and does not stop the module
// when that budget runs out: host-import calls are metered through host
// as they happen, and the reported GasUsedInWasm is charged by the
// caller after Call returns.
func (r *Runtime) Call(contractAddr core.Address, contractBytes []byte, cbiVersion uint32, method string, args []byte, host *HostAPI) (outcome ExecutionOutcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = newContractError("call", fmt.Errorf("trap: %v", p))
		}
	}()

	mod, loadErr := r.loader.Load(contractBytes, cbiVersion)
	if loadErr != nil {
		return ExecutionOutcome{}, newContractError("call", loadErr)
	}

	outcome, invokeErr := mod.Invoke(host, method, args)
	if invokeErr != nil {
		return ExecutionOutcome{}, newContractError("call", invokeErr)
	}

	r.logger.Debug("contract call completed", "contract", contractAddr.Hex(), "method", method, "gas_used_wasm", outcome.GasUsedInWasm)
	return outcome, nil
}
