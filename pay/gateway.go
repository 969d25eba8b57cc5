package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is the slice of the payment provider this app uses: create an
// order, look its status up. Everything else the provider offers is out of
// scope.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (GatewayOrder, error)
	FetchStatus(ctx context.Context, gatewayOrderID string) (string, error)
}

// GatewayOrder is the provider's view of an order. Amount is in the smallest
// currency unit.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RESTGateway talks to the provider's order API with basic auth.
type RESTGateway struct {
	BaseURL string
	KeyID   string
	Secret  string
	client  *http.Client
}

func NewRESTGateway(baseURL, keyID, secret string) *RESTGateway {
	return &RESTGateway{
		BaseURL: baseURL,
		KeyID:   keyID,
		Secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *RESTGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (GatewayOrder, error) {
	var order GatewayOrder

	body, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return order, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return order, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.KeyID, g.Secret)

	resp, err := g.client.Do(req)
	if err != nil {
		return order, fmt.Errorf("gateway create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return order, fmt.Errorf("gateway create order: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return order, fmt.Errorf("gateway decode order: %w", err)
	}
	return order, nil
}

func (g *RESTGateway) FetchStatus(ctx context.Context, gatewayOrderID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/v1/orders/"+gatewayOrderID, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.KeyID, g.Secret)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway fetch status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway fetch status: status %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("gateway decode status: %w", err)
	}
	return order.Status, nil
}
