// Package logschema 定义每个日志事件必须携带的字段，便于集中校验与生成文档。
package logschema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema 定义每个日志事件所需的关键字段。
type Schema struct {
	Event    string
	Required []string
}

var schemas = map[string]Schema{
	"ladder_published": {
		Event:    "ladder_published",
		Required: []string{"market", "fair_price", "asset_a", "asset_b", "buys", "sells"},
	},
	"ladder_dry_run": {
		Event:    "ladder_dry_run",
		Required: []string{"market", "buys", "sells"},
	},
	"offer_accepted": {
		Event:    "offer_accepted",
		Required: []string{"offer_id", "negotiation_id", "side", "fee", "required_price", "offered_price"},
	},
	"offer_rejected": {
		Event:    "offer_rejected",
		Required: []string{"offer_id", "side", "fee", "required_price", "offered_price"},
	},
	"negotiation_settled": {
		Event:    "negotiation_settled",
		Required: []string{"offer_id", "negotiation_id", "filled"},
	},
	"negotiation_expired": {
		Event:    "negotiation_expired",
		Required: []string{"offer_id", "negotiation_id"},
	},
	"unsafe_reference_price": {
		Event:    "unsafe_reference_price",
		Required: []string{"fair_price", "lower", "upper"},
	},
}

// Known 返回所有事件名，便于外部生成文档。
func Known() []string {
	names := make([]string, 0, len(schemas))
	for k := range schemas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate 检查日志字段是否包含 schema 中要求的 key；未登记的事件不校验。
func Validate(event string, fields map[string]interface{}) error {
	s, ok := schemas[event]
	if !ok {
		return nil
	}
	var missing []string
	for _, key := range s.Required {
		if _, exists := fields[key]; !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s missing fields: %s", event, strings.Join(missing, ","))
	}
	return nil
}
