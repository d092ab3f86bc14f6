package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/CosmWasm/wasmsim/app"
	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/wasm/contracts"
)

// Step kinds
const (
	StepStoreCode   = "store_code"
	StepInstantiate = "instantiate"
	StepExecute     = "execute"
	StepMigrate     = "migrate"
	StepSudo        = "sudo"
	StepQuery       = "query"
	StepMint        = "mint"
	StepNextBlock   = "next_block"
)

// Scenario is a list of steps run against a fresh App. Accounts and contracts are referred to
// by name; names resolve to addresses when the step runs.
type Scenario struct {
	// Accounts maps account names to their genesis balance, e.g. "100stake,5token"
	Accounts map[string]string `json:"accounts,omitempty"`
	Steps    []Step            `json:"steps"`
}

// Step is one call. Only the fields of the kind are read.
type Step struct {
	Kind string `json:"kind"`
	// As names the code or contract the step creates
	As string `json:"as,omitempty"`
	// Contract is a builtin contract name for store_code and a contract name otherwise
	Contract string          `json:"contract,omitempty"`
	Code     string          `json:"code,omitempty"`
	Sender   string          `json:"sender,omitempty"`
	Admin    string          `json:"admin,omitempty"`
	Label    string          `json:"label,omitempty"`
	Msg      json.RawMessage `json:"msg,omitempty"`
	Funds    string          `json:"funds,omitempty"`
	To       string          `json:"to,omitempty"`
	Amount   string          `json:"amount,omitempty"`
	Blocks   int             `json:"blocks,omitempty"`
	// Inject sets the json path of msg to the address of the named account or contract
	Inject      map[string]string `json:"inject,omitempty"`
	ExpectError bool              `json:"expect_error,omitempty"`
}

// StepResult is printed as one json line per step.
type StepResult struct {
	Step      int              `json:"step"`
	Kind      string           `json:"kind"`
	Address   string           `json:"address,omitempty"`
	CodeID    uint64           `json:"code_id,omitempty"`
	Data      []byte           `json:"data,omitempty"`
	Result    json.RawMessage  `json:"result,omitempty"`
	Events    sdk.StringEvents `json:"events,omitempty"`
	Height    uint64           `json:"height,omitempty"`
	Error     string           `json:"error,omitempty"`
	Codespace string           `json:"codespace,omitempty"`
	Code      uint32           `json:"code,omitempty"`
}

// ParseScenario decodes and checks a scenario
func ParseScenario(bz []byte) (Scenario, error) {
	var s Scenario
	if err := json.Unmarshal(bz, &s); err != nil {
		return s, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, err.Error())
	}
	if len(s.Steps) == 0 {
		return s, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "no steps")
	}
	return s, nil
}

// AccountAddress returns the address scenarios use for the account name
func AccountAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(address.Module(appName, []byte(name)))
}

type runner struct {
	app   *app.App
	names map[string]sdk.AccAddress
	codes map[string]uint64
	out   io.Writer
}

func newRunner(a *app.App, out io.Writer) *runner {
	return &runner{
		app:   a,
		names: make(map[string]sdk.AccAddress),
		codes: make(map[string]uint64),
		out:   out,
	}
}

// Run sets up the accounts and executes all steps. It stops at the first step whose outcome
// is not the expected one.
func (r *runner) Run(s Scenario) error {
	names := make([]string, 0, len(s.Accounts))
	for name := range s.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		coins, err := sdk.ParseCoinsNormalized(s.Accounts[name])
		if err != nil {
			return errorsmod.Wrapf(sdkerrors.ErrInvalidCoins, "account %s: %s", name, err)
		}
		if err := r.app.InitBalance(r.account(name), coins); err != nil {
			return errorsmod.Wrapf(err, "account %s", name)
		}
	}

	enc := json.NewEncoder(r.out)
	for i, step := range s.Steps {
		res, err := r.runStep(step)
		res.Step, res.Kind = i, step.Kind
		if err != nil {
			res.Codespace, res.Code, res.Error = errorsmod.ABCIInfo(err, false)
		}
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
		switch {
		case err != nil && !step.ExpectError:
			return fmt.Errorf("step %d (%s): %w", i, step.Kind, err)
		case err == nil && step.ExpectError:
			return fmt.Errorf("step %d (%s): expected an error", i, step.Kind)
		}
	}
	return nil
}

func (r *runner) runStep(step Step) (StepResult, error) {
	var res StepResult
	switch step.Kind {
	case StepStoreCode:
		contract, ok := contracts.Builtin(step.Contract)
		if !ok {
			return res, errorsmod.Wrapf(sdkerrors.ErrNotFound, "builtin contract %q", step.Contract)
		}
		creator := app.DefaultCodeCreator
		if step.Sender != "" {
			creator = r.account(step.Sender)
		}
		codeID, err := r.app.StoreCodeWithCreator(creator, contract)
		if err != nil {
			return res, err
		}
		r.codes[nameOr(step.As, step.Contract)] = codeID
		res.CodeID = codeID
		return res, nil
	case StepInstantiate:
		codeID, err := r.code(step.Code)
		if err != nil {
			return res, err
		}
		msg, funds, err := r.prepare(step)
		if err != nil {
			return res, err
		}
		var admin sdk.AccAddress
		if step.Admin != "" {
			if admin, err = r.resolve(step.Admin); err != nil {
				return res, err
			}
		}
		addr, rsp, err := r.app.InstantiateContract(codeID, r.account(step.Sender), msg, funds, nameOr(step.Label, step.As), admin)
		if err != nil {
			return res, err
		}
		if step.As != "" {
			r.names[step.As] = addr
		}
		res.Address = addr.String()
		setResponse(&res, rsp)
		return res, nil
	case StepExecute:
		contract, err := r.resolve(step.Contract)
		if err != nil {
			return res, err
		}
		msg, funds, err := r.prepare(step)
		if err != nil {
			return res, err
		}
		rsp, err := r.app.ExecuteContract(r.account(step.Sender), contract, msg, funds)
		if err != nil {
			return res, err
		}
		setResponse(&res, rsp)
		return res, nil
	case StepMigrate:
		contract, err := r.resolve(step.Contract)
		if err != nil {
			return res, err
		}
		codeID, err := r.code(step.Code)
		if err != nil {
			return res, err
		}
		msg, _, err := r.prepare(step)
		if err != nil {
			return res, err
		}
		rsp, err := r.app.MigrateContract(r.account(step.Sender), contract, msg, codeID)
		if err != nil {
			return res, err
		}
		setResponse(&res, rsp)
		return res, nil
	case StepSudo:
		contract, err := r.resolve(step.Contract)
		if err != nil {
			return res, err
		}
		msg, _, err := r.prepare(step)
		if err != nil {
			return res, err
		}
		rsp, err := r.app.WasmSudo(contract, msg)
		if err != nil {
			return res, err
		}
		setResponse(&res, rsp)
		return res, nil
	case StepQuery:
		contract, err := r.resolve(step.Contract)
		if err != nil {
			return res, err
		}
		msg, _, err := r.prepare(step)
		if err != nil {
			return res, err
		}
		bz, err := r.app.QuerySmart(contract, msg)
		if err != nil {
			return res, err
		}
		if gjson.ValidBytes(bz) {
			res.Result = bz
		} else {
			res.Data = bz
		}
		return res, nil
	case StepMint:
		to, err := r.resolve(step.To)
		if err != nil {
			return res, err
		}
		coins, err := sdk.ParseCoinsNormalized(step.Amount)
		if err != nil {
			return res, errorsmod.Wrap(sdkerrors.ErrInvalidCoins, err.Error())
		}
		rsp, err := r.app.Sudo(simtypes.SudoMsg{Bank: &simtypes.BankSudo{Mint: &simtypes.MintSudo{
			ToAddress: to.String(),
			Amount:    simtypes.ConvertSdkCoinsToWasmCoins(coins),
		}}})
		if err != nil {
			return res, err
		}
		setResponse(&res, rsp)
		return res, nil
	case StepNextBlock:
		blocks := step.Blocks
		if blocks == 0 {
			blocks = 1
		}
		for i := 0; i < blocks; i++ {
			if err := r.app.NextBlock(); err != nil {
				return res, err
			}
		}
		res.Height = r.app.BlockInfo().Height
		return res, nil
	}
	return res, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "unknown step kind %q", step.Kind)
}

// prepare returns the message with all injections applied and the parsed funds.
func (r *runner) prepare(step Step) ([]byte, sdk.Coins, error) {
	msg := []byte(step.Msg)
	if len(msg) == 0 {
		msg = []byte("{}")
	}
	paths := make([]string, 0, len(step.Inject))
	for path := range step.Inject {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		addr, err := r.resolve(step.Inject[path])
		if err != nil {
			return nil, nil, err
		}
		if msg, err = sjson.SetBytes(msg, path, addr.String()); err != nil {
			return nil, nil, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "inject %s: %s", path, err)
		}
	}
	funds, err := sdk.ParseCoinsNormalized(step.Funds)
	if err != nil {
		return nil, nil, errorsmod.Wrap(sdkerrors.ErrInvalidCoins, err.Error())
	}
	return msg, funds, nil
}

// account returns the address of a named account, registering the name on first use
func (r *runner) account(name string) sdk.AccAddress {
	if addr, ok := r.names[name]; ok {
		return addr
	}
	addr := AccountAddress(name)
	r.names[name] = addr
	return addr
}

// resolve returns the address of a known account or contract name, or parses a bech32 address
func (r *runner) resolve(name string) (sdk.AccAddress, error) {
	if addr, ok := r.names[name]; ok {
		return addr, nil
	}
	addr, err := sdk.AccAddressFromBech32(name)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrNotFound, "unknown name %q", name)
	}
	return addr, nil
}

func (r *runner) code(name string) (uint64, error) {
	codeID, ok := r.codes[name]
	if !ok {
		return 0, errorsmod.Wrapf(sdkerrors.ErrNotFound, "unknown code %q", name)
	}
	return codeID, nil
}

func setResponse(res *StepResult, rsp *simtypes.AppResponse) {
	res.Data = rsp.Data
	res.Events = sdk.StringifyEvents(rsp.Events.ToABCIEvents())
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
