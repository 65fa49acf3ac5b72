package keeper

import (
	"math/big"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AMMMetrics holds all Prometheus metrics for the AMM module
type AMMMetrics struct {
	// Swap metrics
	SwapsTotal         *prometheus.CounterVec
	SwapVolume         *prometheus.CounterVec
	SwapFeesCollected  *prometheus.CounterVec
	SlippageRejections prometheus.Counter

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	TotalShares      prometheus.Gauge

	// Operation outcomes
	OperationsTotal *prometheus.CounterVec
}

var (
	ammMetricsOnce sync.Once
	ammMetrics     *AMMMetrics
)

// NewAMMMetrics creates and registers AMM metrics (singleton pattern)
func NewAMMMetrics() *AMMMetrics {
	ammMetricsOnce.Do(func() {
		ammMetrics = &AMMMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of swaps by outcome",
				},
				[]string{"token_in", "token_out", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"denom"},
			),
			SwapFeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "swap_fees_collected_total",
					Help:      "Total swap fees accrued to the pool",
				},
				[]string{"denom"},
			),
			SlippageRejections: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "slippage_rejections_total",
					Help:      "Swaps rejected because the output fell below the caller minimum",
				},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity deposited",
				},
				[]string{"denom"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity withdrawn",
				},
				[]string{"denom"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "pool_reserves",
					Help:      "Current pool reserves",
				},
				[]string{"denom"},
			),
			TotalShares: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "total_shares",
					Help:      "Liquidity shares outstanding",
				},
			),
			OperationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammpool",
					Subsystem: "amm",
					Name:      "operations_total",
					Help:      "Pool operations by type and outcome",
				},
				[]string{"operation", "status"},
			),
		}
	})
	return ammMetrics
}

// toFloat converts an amount for export; precision loss above 2^53 is acceptable for gauges.
func toFloat(amt math.Int) float64 {
	if amt.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(amt.BigInt()).Float64()
	return f
}
