package toncenter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nusapay/nusapay-api/internal/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultRPCURL  = "https://toncenter.com/api/v2/jsonRPC"
	defaultTimeout = 10 * time.Second
)

// Client talks JSON-RPC 2.0 to a TonCenter-compatible endpoint. Destination
// account state is resolved against a second endpoint (GetBlock-style) when
// one is configured, because not every provider exposes getAddressState.
type Client struct {
	rpcURL       string
	addrStateURL string
	apiKey       string
	httpClient   *http.Client
}

// NewClient creates a TON RPC client. Empty rpcURL falls back to the public
// TonCenter endpoint; empty addrStateURL falls back to rpcURL.
func NewClient(rpcURL, addrStateURL, apiKey string) *Client {
	if rpcURL == "" {
		rpcURL = defaultRPCURL
	}
	if addrStateURL == "" {
		addrStateURL = rpcURL
	}
	return &Client{
		rpcURL:       rpcURL,
		addrStateURL: addrStateURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	Ok     *bool           `json:"ok,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
	Code   int             `json:"code,omitempty"`
}

func (c *Client) call(ctx context.Context, endpoint, method string, params interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode RPC request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build RPC request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s request failed", method)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read RPC response body")
	}
	if resp.StatusCode >= 400 {
		logger.Warn("TON RPC returned an error status",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode))
		return nil, errors.Errorf("%s returned status %d: %s", method, resp.StatusCode, truncate(string(body), 200))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s response", method)
	}
	if rpcResp.Ok != nil && !*rpcResp.Ok {
		return nil, errors.Errorf("%s rejected: %s", method, truncate(string(rpcResp.Error), 200))
	}
	if len(rpcResp.Error) > 0 && string(rpcResp.Error) != "null" {
		return nil, errors.Errorf("%s error: %s", method, truncate(string(rpcResp.Error), 200))
	}
	return rpcResp.Result, nil
}

// Seqno runs the seqno get-method on a wallet contract. Uninitialized
// accounts have no code to run, so callers treat an error as seqno 0.
func (c *Client) Seqno(ctx context.Context, address string) (uint64, error) {
	result, err := c.call(ctx, c.rpcURL, "runGetMethod", map[string]interface{}{
		"address": address,
		"method":  "seqno",
		"stack":   []interface{}{},
	})
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Stack [][]json.RawMessage `json:"stack"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return 0, errors.Wrap(err, "failed to decode seqno stack")
	}
	if len(parsed.Stack) == 0 || len(parsed.Stack[0]) < 2 {
		return 0, errors.New("seqno stack empty")
	}
	return parseStackNumber(parsed.Stack[0][1])
}

// AddressState returns the account state string ("active", "uninitialized",
// "frozen") from the address-state endpoint.
func (c *Client) AddressState(ctx context.Context, address string) (string, error) {
	result, err := c.call(ctx, c.addrStateURL, "getAddressState", map[string]interface{}{
		"address": address,
	})
	if err != nil {
		return "", err
	}
	var state string
	if err := json.Unmarshal(result, &state); err != nil {
		return "", errors.Wrap(err, "failed to decode address state")
	}
	return state, nil
}

// EstimateFee asks the node to price a prospective external message. The raw
// result is returned untouched: providers disagree on its shape, and the fee
// engine owns normalization.
func (c *Client) EstimateFee(ctx context.Context, address string, bodyBOC []byte) (json.RawMessage, error) {
	result, err := c.call(ctx, c.rpcURL, "estimateFee", map[string]interface{}{
		"address":       address,
		"body":          base64.StdEncoding.EncodeToString(bodyBOC),
		"init_code":     "",
		"init_data":     "",
		"ignore_chksig": true,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parseStackNumber decodes one TVM stack value, which arrives either as a
// "0x.."/decimal string or as a JSON number.
func parseStackNumber(raw json.RawMessage) (uint64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			v, err := strconv.ParseUint(s[2:], 16, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "invalid hex stack value %q", s)
			}
			return v, nil
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid stack value %q", s)
		}
		return v, nil
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errors.Errorf("unrecognized stack value %s", string(raw))
	}
	return n, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
