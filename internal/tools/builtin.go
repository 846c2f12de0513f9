package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
)

func init() {
	MustRegister("order.lookup", func(ctx context.Context, params map[string]interface{}, cfg tenant.Config) (json.RawMessage, error) {
		orderID, _ := params["order_id"].(string)
		if orderID == "" {
			return nil, fmt.Errorf("order_id is required")
		}
		return json.Marshal(map[string]interface{}{
			"order_id": orderID,
			"status":   "shipped",
			"carrier":  "DHL",
		})
	})
	MustRegister("account.lookup", func(ctx context.Context, params map[string]interface{}, cfg tenant.Config) (json.RawMessage, error) {
		customerID, _ := params["customer_id"].(string)
		return json.Marshal(map[string]interface{}{
			"customer_id": customerID,
			"plan":        "standard",
			"active":      true,
		})
	})
	MustRegister("subscription.status", func(ctx context.Context, params map[string]interface{}, cfg tenant.Config) (json.RawMessage, error) {
		customerID, _ := params["customer_id"].(string)
		return json.Marshal(map[string]interface{}{
			"customer_id": customerID,
			"status":      "active",
			"renews_at":   "2026-09-30",
		})
	})
}
