// rpc.go - JSON-RPC 2.0 read-side client.
//
// Covers the query half of the Client interface over a node's HTTP RPC.
// Transaction submission needs a signing layer this core deliberately does
// not own, so SendTransaction reports ErrReadOnly; spend flows inject a
// full client from the embedding application.

package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
)

// ErrReadOnly marks a client that can query but not submit.
var ErrReadOnly = errors.New("ledger: client is read-only")

// RPCClient implements the query half of Client against a JSON-RPC node.
type RPCClient struct {
	endpoint string
	http     *http.Client
}

// NewRPCClient builds a read-only client for the given endpoint.
func NewRPCClient(endpoint string) *RPCClient {
	return &RPCClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("ledger: encode %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger: %s: http status %s", method, resp.Status)
	}

	var envelope struct {
		Error  *rpcError       `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("ledger: decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("ledger: %s: rpc error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("ledger: decode %s result: %w", method, err)
		}
	}
	return nil
}

func decodeAccountData(raw []json.RawMessage) ([]byte, error) {
	// Account data arrives as ["<base64>", "base64"].
	if len(raw) < 1 {
		return nil, errors.New("empty data field")
	}
	var s string
	if err := json.Unmarshal(raw[0], &s); err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(s)
}

// GetAccountData fetches one account's raw bytes. A missing account is
// (nil, false, nil).
func (c *RPCClient) GetAccountData(ctx context.Context, addr Address) ([]byte, bool, error) {
	var result struct {
		Value *struct {
			Data []json.RawMessage `json:"data"`
		} `json:"value"`
	}
	params := []any{addr.String(), map[string]string{"encoding": "base64"}}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, false, err
	}
	if result.Value == nil {
		return nil, false, nil
	}
	data, err := decodeAccountData(result.Value.Data)
	if err != nil {
		return nil, false, fmt.Errorf("ledger: account %s data: %w", addr, err)
	}
	return data, true, nil
}

// GetProgramAccounts queries all accounts owned by a program, applying
// size and memcmp filters node-side.
func (c *RPCClient) GetProgramAccounts(ctx context.Context, program Address, filters []Filter) ([]ProgramAccount, error) {
	rpcFilters := make([]any, 0, len(filters))
	for _, f := range filters {
		if f.DataSize > 0 {
			rpcFilters = append(rpcFilters, map[string]any{"dataSize": f.DataSize})
		}
		if len(f.Bytes) > 0 {
			rpcFilters = append(rpcFilters, map[string]any{
				"memcmp": map[string]any{
					"offset": f.Offset,
					"bytes":  base58.Encode(f.Bytes),
				},
			})
		}
	}
	params := []any{program.String(), map[string]any{"encoding": "base64", "filters": rpcFilters}}

	var result []struct {
		Pubkey  string `json:"pubkey"`
		Account struct {
			Data []json.RawMessage `json:"data"`
		} `json:"account"`
	}
	if err := c.call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, err
	}

	out := make([]ProgramAccount, 0, len(result))
	for _, r := range result {
		addr, err := ParseAddress(r.Pubkey)
		if err != nil {
			return nil, err
		}
		data, err := decodeAccountData(r.Account.Data)
		if err != nil {
			return nil, fmt.Errorf("ledger: account %s data: %w", addr, err)
		}
		out = append(out, ProgramAccount{Address: addr, Data: data})
	}
	return out, nil
}

// SendTransaction always fails: this client has no signing capability.
func (c *RPCClient) SendTransaction(ctx context.Context, instructions []Instruction) (string, error) {
	return "", ErrReadOnly
}
