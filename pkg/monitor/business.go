package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	TransferBuiltTotal     *prometheus.CounterVec
	TransferBroadcastTotal *prometheus.CounterVec
	TransferAmountTotal    *prometheus.CounterVec
	MultisigDerivedTotal   prometheus.Counter
	RPCRequestDuration     *prometheus.HistogramVec
	ExplorerRequestTotal   *prometheus.CounterVec
	PendingTransfers       prometheus.Gauge
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		TransferBuiltTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transfer_built_total",
			Help: "Total number of signed transfers built",
		}, []string{"scheme"}),
		TransferBroadcastTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transfer_broadcast_total",
			Help: "Total number of transfer broadcasts by result",
		}, []string{"status"}),
		TransferAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transfer_amount_total",
			Help: "The total amount broadcast, in whole units",
		}, []string{"symbol"}),
		MultisigDerivedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_multisig_derived_total",
			Help: "Total number of multisig addresses derived",
		}),
		RPCRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_chain_rpc_duration_seconds",
			Help:    "Duration of chain JSON-RPC calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
		ExplorerRequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_explorer_requests_total",
			Help: "Total number of block explorer requests",
		}, []string{"endpoint", "status"}),
		PendingTransfers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_pending_transfers",
			Help: "Signed transfers waiting for a deferred send",
		}),
	}
}

// Status 将 error 转成指标标签
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
