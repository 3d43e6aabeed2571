package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"curve-mm-go/config"
	"curve-mm-go/internal/container"
	"curve-mm-go/market"
	"curve-mm-go/metrics"
	"curve-mm-go/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRootCmd(ctx context.Context) *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "quoter",
		Short:         "inventory-curve market maker for a two-asset pair",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "configs/config.yaml", "配置文件路径")

	root.AddCommand(spreadCmd(&cfgPath))
	root.AddCommand(ladderCmd(ctx, &cfgPath))
	root.AddCommand(evaluateCmd(ctx, &cfgPath))
	root.AddCommand(checkCmd(ctx, &cfgPath))
	root.AddCommand(serveCmd(ctx, &cfgPath))
	return root
}

func spreadCmd(cfgPath *string) *cobra.Command {
	var side, valueA, valueB string
	cmd := &cobra.Command{
		Use:   "spread",
		Short: "print the curve spread (bp) for a valued inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnvOverrides(*cfgPath)
			if err != nil {
				return err
			}
			isBuy, err := parseSide(side)
			if err != nil {
				return err
			}
			a, b, err := parsePair(valueA, valueB)
			if err != nil {
				return err
			}
			bp, err := pricing.SpreadBp(cfg.Curve, isBuy, a, b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bp.StringFixed(4))
			return nil
		},
	}
	cmd.Flags().StringVar(&side, "side", "buy", "buy|sell")
	cmd.Flags().StringVar(&valueA, "a", "0", "value of asset A holdings, in B")
	cmd.Flags().StringVar(&valueB, "b", "0", "value of asset B holdings")
	return cmd
}

func ladderCmd(ctx context.Context, cfgPath *string) *cobra.Command {
	var fair string
	cmd := &cobra.Command{
		Use:   "ladder",
		Short: "build the ladder for the configured inventory and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnvOverrides(*cfgPath)
			if err != nil {
				return err
			}
			price, err := resolveFair(ctx, cfg, fair)
			if err != nil {
				return err
			}
			ladder, err := pricing.BuildLadder(cfg.Curve, cfg.Ladder.Slices, price, cfg.StartingInventory())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"market":    cfg.Market.ID,
				"fairPrice": price.String(),
				"ladder":    ladder,
			})
		},
	}
	cmd.Flags().StringVar(&fair, "fair", "", "fair price override (default: configured price feed)")
	return cmd
}

func evaluateCmd(ctx context.Context, cfgPath *string) *cobra.Command {
	var side, fair, amountA, amountB string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "evaluate a counter-offer against the configured inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnvOverrides(*cfgPath)
			if err != nil {
				return err
			}
			isBuy, err := parseSide(side)
			if err != nil {
				return err
			}
			a, b, err := parsePair(amountA, amountB)
			if err != nil {
				return err
			}
			price, err := resolveFair(ctx, cfg, fair)
			if err != nil {
				return err
			}
			fee := cfg.Fees.Base
			if isBuy {
				fee = cfg.Fees.Quote
			}
			if !a.IsPositive() || (!isBuy && !a.GreaterThan(fee)) {
				return fmt.Errorf("%w: asset A amount must exceed the fee", pricing.ErrInvalidParameter)
			}
			ev, err := pricing.EvaluateTrade(cfg.Curve, price, cfg.StartingInventory(),
				pricing.TradeOffer{IsBuy: isBuy, AssetA: a, AssetB: b, Fee: fee})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"accepted":      ev.Accepted,
				"spreadBp":      ev.SpreadBp.StringFixed(4),
				"requiredPrice": ev.RequiredPrice.String(),
				"offeredPrice":  ev.OfferedPrice.String(),
			})
		},
	}
	cmd.Flags().StringVar(&side, "side", "buy", "counterparty side: buy|sell")
	cmd.Flags().StringVar(&fair, "fair", "", "fair price override (default: configured price feed)")
	cmd.Flags().StringVar(&amountA, "a", "0", "asset A amount")
	cmd.Flags().StringVar(&amountB, "b", "0", "asset B amount")
	return cmd
}

func checkCmd(ctx context.Context, cfgPath *string) *cobra.Command {
	var price string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "check a reference price (or the live feed) against the safety gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnvOverrides(*cfgPath)
			if err != nil {
				return err
			}
			p, err := resolveFair(ctx, cfg, price)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "safe %s\n", p)
			return nil
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "reference price to check (default: configured price feed)")
	return cmd
}

// resolveFair 取公允价（命令行覆盖或配置的价格源），并始终经过安全闸。
func resolveFair(ctx context.Context, cfg config.AppConfig, override string) (decimal.Decimal, error) {
	var src market.PriceSource = container.PriceSource(cfg)
	if override != "" {
		p, err := decimal.NewFromString(override)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse fair price: %w", err)
		}
		src = market.StaticSource{Price: p}
	}
	gated := market.GatedSource{
		Source:   src,
		Gate:     cfg.Safety,
		OnUnsafe: func(decimal.Decimal) { metrics.UnsafeReferencePrices.Inc() },
	}
	ctx, cancel := context.WithTimeout(ctx, container.FeedTimeout(cfg)+time.Second)
	defer cancel()
	return gated.FairPrice(ctx)
}

func parseSide(s string) (bool, error) {
	switch s {
	case "buy", "b":
		return true, nil
	case "sell", "s":
		return false, nil
	}
	return false, fmt.Errorf("unknown side %q (want buy|sell)", s)
}

func parsePair(a, b string) (decimal.Decimal, decimal.Decimal, error) {
	da, err := decimal.NewFromString(a)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parse asset A: %w", err)
	}
	db, err := decimal.NewFromString(b)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parse asset B: %w", err)
	}
	return da, db, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
