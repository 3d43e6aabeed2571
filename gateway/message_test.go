package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"curve-mm-go/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	msg, err := DecodeInbound([]byte(`{"op":"offer","market":"rETH-ETH","offerId":"o-1","side":"b","assetA":"10","assetB":11.1}`))
	require.NoError(t, err)
	assert.Equal(t, OpOffer, msg.Op)
	assert.Equal(t, pricing.Buy, msg.Side)
	assert.True(t, msg.AssetA.Equal(decimal.NewFromInt(10)))
	assert.True(t, msg.AssetB.Equal(decimal.RequireFromString("11.1")))

	msg, err = DecodeInbound([]byte(`{"op":"settle","negotiationId":"n-1","filled":true}`))
	require.NoError(t, err)
	assert.Equal(t, "n-1", msg.NegotiationID)
	assert.True(t, msg.Filled)

	msg, err = DecodeInbound([]byte(`{"op":"fees","baseFee":"0.0002","quoteFee":"0.0003"}`))
	require.NoError(t, err)
	assert.True(t, msg.QuoteFee.Equal(decimal.RequireFromString("0.0003")))
}

func TestDecodeInboundRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `offer`},
		{"unknown op", `{"op":"cancel"}`},
		{"offer without side", `{"op":"offer","assetA":"1","assetB":"1"}`},
		{"settle without id", `{"op":"settle","filled":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
	_, err := DecodeInbound([]byte(`{"op":"cancel"}`))
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestFillRequestShape(t *testing.T) {
	reply := NewFillRequest("rETH-ETH", "mm-1", "o-1", "n-1", time.Unix(1_700_000_070, 0))
	data, err := json.Marshal(reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"fill_request","market":"rETH-ETH","clientId":"mm-1","offerId":"o-1","negotiationId":"n-1","expiresAt":1700000070}`, string(data))
}
