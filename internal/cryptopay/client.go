package cryptopay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"roulettebot/types"
)

// ErrInvoiceNotFound means the provider has no invoice with the given id.
var ErrInvoiceNotFound = errors.New("invoice not found")

// Client talks to the Crypto Pay API (pay.crypt.bot). It implements
// types.PaymentProvider.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token, baseURL string) *Client {
	return &Client{
		token:   token,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type apiError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

type apiResponse struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

type invoice struct {
	InvoiceID int64  `json:"invoice_id"`
	Status    string `json:"status"`
	PayURL    string `json:"pay_url"`
}

func (inv *invoice) toProvider() *types.ProviderInvoice {
	status := types.InvoiceStatusPending
	switch inv.Status {
	case "paid":
		status = types.InvoiceStatusPaid
	case "expired":
		status = types.InvoiceStatusExpired
	}
	return &types.ProviderInvoice{
		ID:     inv.InvoiceID,
		Status: status,
		PayURL: inv.PayURL,
	}
}

// CreateInvoice opens a new invoice with the provider. The amount is sent
// as a decimal string, as the API requires.
func (c *Client) CreateInvoice(ctx context.Context, asset string, amount float64, description, payload string) (*types.ProviderInvoice, error) {
	body := map[string]string{
		"asset":       asset,
		"amount":      strconv.FormatFloat(amount, 'f', -1, 64),
		"description": description,
		"payload":     payload,
	}

	var inv invoice
	if err := c.call(ctx, "createInvoice", body, &inv); err != nil {
		return nil, err
	}
	return inv.toProvider(), nil
}

// GetInvoice fetches the current status of a single invoice.
func (c *Client) GetInvoice(ctx context.Context, invoiceID int64) (*types.ProviderInvoice, error) {
	body := map[string]string{
		"invoice_ids": strconv.FormatInt(invoiceID, 10),
	}

	var result struct {
		Items []invoice `json:"items"`
	}
	if err := c.call(ctx, "getInvoices", body, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrInvoiceNotFound
	}
	return result.Items[0].toProvider(), nil
}

func (c *Client) call(ctx context.Context, method string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Crypto-Pay-API-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !apiResp.OK {
		if apiResp.Error != nil {
			return fmt.Errorf("%s returned %d %s", method, apiResp.Error.Code, apiResp.Error.Name)
		}
		return fmt.Errorf("%s returned an error", method)
	}
	return json.Unmarshal(apiResp.Result, result)
}
