package types

// Event types for the AMM module
const (
	EventTypeInitialize      = "amm_initialize"
	EventTypeAddLiquidity    = "amm_add_liquidity"
	EventTypeRemoveLiquidity = "amm_remove_liquidity"
	EventTypeSwap            = "amm_swap"

	AttributeKeyAdmin       = "admin"
	AttributeKeyTokenA      = "token_a"
	AttributeKeyTokenB      = "token_b"
	AttributeKeyFeeBps      = "fee_bps"
	AttributeKeyProvider    = "provider"
	AttributeKeyTrader      = "trader"
	AttributeKeyAmountA     = "amount_a"
	AttributeKeyAmountB     = "amount_b"
	AttributeKeyShares      = "shares"
	AttributeKeyTokenIn     = "token_in"
	AttributeKeyTokenOut    = "token_out"
	AttributeKeyAmountIn    = "amount_in"
	AttributeKeyAmountOut   = "amount_out"
	AttributeKeyFee         = "fee"
	AttributeKeyPoolVersion = "pool_version"
)
