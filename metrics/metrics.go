// Package metrics provides Prometheus metrics for the quoter
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LaddersPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quoter_ladders_published_total",
		Help: "已发布的报价阶梯数量",
	})
	LadderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quoter_ladder_failures_total",
		Help: "报价阶梯构建或发布失败次数",
	}, []string{"reason"})
	Offers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quoter_offers_total",
		Help: "对手方报价评估结果",
	}, []string{"result"})
	UnsafeReferencePrices = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quoter_unsafe_reference_prices_total",
		Help: "参考价超出安全区间的次数",
	})
	FairPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quoter_fair_price",
		Help: "最近一次使用的公允价（B/A）",
	})
	InventoryBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "quoter_inventory_balance",
		Help: "当前资产余额",
	}, []string{"asset"})
	BestSpreadBps = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "quoter_best_spread_bps",
		Help: "阶梯最内层相对公允价的价差（bp）",
	}, []string{"side"})
)

// Offer results.
const (
	OfferAccepted = "accepted"
	OfferRejected = "rejected"
	OfferPending  = "pending"
	OfferForeign  = "foreign"
	OfferError    = "error"
)

// UpdateLadderMetrics 记录一次成功发布的阶梯。
func UpdateLadderMetrics(fairPrice, assetA, assetB, bestBuyBps, bestSellBps float64) {
	LaddersPublished.Inc()
	FairPrice.Set(fairPrice)
	InventoryBalance.WithLabelValues("a").Set(assetA)
	InventoryBalance.WithLabelValues("b").Set(assetB)
	BestSpreadBps.WithLabelValues("buy").Set(bestBuyBps)
	BestSpreadBps.WithLabelValues("sell").Set(bestSellBps)
}

// RecordLadderFailure 按原因计数。
func RecordLadderFailure(reason string) {
	LadderFailures.WithLabelValues(reason).Inc()
}

// RecordOffer 按结果计数。
func RecordOffer(result string) {
	Offers.WithLabelValues(result).Inc()
}

// Handler 返回暴露 /metrics 的 mux，调用方可继续挂载其他路由。
func Handler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
