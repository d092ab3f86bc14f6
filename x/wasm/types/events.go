package types

const (
	// WasmModuleEventType is stored with any contract call that returns non empty EventAttributes
	WasmModuleEventType = "wasm"
	// CustomContractEventPrefix contracts can create custom events. To not mix them with other system events they got the `wasm-` prefix.
	CustomContractEventPrefix = "wasm-"

	EventTypeStoreCode   = "store_code"
	EventTypeInstantiate = "instantiate"
	EventTypeExecute     = "execute"
	EventTypeMigrate     = "migrate"
	EventTypeUpdateAdmin = "update_contract_admin"
	EventTypeClearAdmin  = "clear_contract_admin"
	EventTypeSudo        = "sudo"
	EventTypeReply       = "reply"
)

// event attributes returned from contract execution
const (
	AttributeReservedPrefix = "_"

	AttributeKeyContractAddr = "_contract_address"
	AttributeKeyCodeID       = "code_id"
	AttributeKeyChecksum     = "code_checksum"
	AttributeKeyNewAdmin     = "new_admin_address"
	AttributeKeyMode         = "mode"

	AttributeValueHandleSuccess = "handle_success"
	AttributeValueHandleFailure = "handle_failure"
)
