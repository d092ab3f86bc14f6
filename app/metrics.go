package app

import (
	"github.com/prometheus/client_golang/prometheus"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
	wasmtypes "github.com/CosmWasm/wasmsim/x/wasm/types"
)

var _ prometheus.Collector = (*StoreCollector)(nil)

// StoreCollector reports the checkpoint counters of the App store and the number of
// stored codes and contracts.
type StoreCollector struct {
	app         *App
	depth       *prometheus.Desc
	checkpoints *prometheus.Desc
	commits     *prometheus.Desc
	rollbacks   *prometheus.Desc
	codes       *prometheus.Desc
	contracts   *prometheus.Desc
}

func NewStoreCollector(namespace string, app *App) *StoreCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "store", name), help, nil, nil)
	}
	return &StoreCollector{
		app:         app,
		depth:       desc("checkpoint_depth", "number of open checkpoints"),
		checkpoints: desc("checkpoints_total", "checkpoints opened"),
		commits:     desc("commits_total", "checkpoints committed"),
		rollbacks:   desc("rollbacks_total", "checkpoints rolled back"),
		codes:       desc("codes", "stored wasm codes"),
		contracts:   desc("contracts", "instantiated wasm contracts"),
	}
}

func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.depth
	ch <- c.checkpoints
	ch <- c.commits
	ch <- c.rollbacks
	ch <- c.codes
	ch <- c.contracts
}

func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	// read before the counting query below opens its own checkpoint
	stats := c.app.Store().Stats()
	ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(stats.Depth))
	ch <- prometheus.MustNewConstMetric(c.checkpoints, prometheus.CounterValue, float64(stats.Checkpoints))
	ch <- prometheus.MustNewConstMetric(c.commits, prometheus.CounterValue, float64(stats.Commits))
	ch <- prometheus.MustNewConstMetric(c.rollbacks, prometheus.CounterValue, float64(stats.Rollbacks))

	var codes, contracts int
	c.app.WasmKeeper.IterateCodeInfos(func(uint64, wasmtypes.CodeInfo) bool {
		codes++
		return false
	})
	_ = c.app.ReadModule(func(ctx simtypes.Context) error {
		c.app.WasmKeeper.IterateContractInfo(ctx, func(sdk.AccAddress, wasmtypes.ContractInfo) bool {
			contracts++
			return false
		})
		return nil
	})
	ch <- prometheus.MustNewConstMetric(c.codes, prometheus.GaugeValue, float64(codes))
	ch <- prometheus.MustNewConstMetric(c.contracts, prometheus.GaugeValue, float64(contracts))
}
