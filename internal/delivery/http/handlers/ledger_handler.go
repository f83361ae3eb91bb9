package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	ledgerRequest "github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/ledger/request"
	ledgerResponse "github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/ledger/response"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/signature"
)

// HTTPLedgerHandler - клиент внешнего ledger-сервиса. Вызов идет последним
// в транзакции: при ошибке ledger статус не коммитится.
type HTTPLedgerHandler struct {
	Address string
	client  *http.Client
}

func NewHTTPLedgerHandler(address string, timeout time.Duration) (*HTTPLedgerHandler, error) {
	if address == "" {
		return nil, errors.New("ledger address is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPLedgerHandler{
		Address: address,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (h *HTTPLedgerHandler) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	return h.post(ctx, "/ledger/transfer", ledgerRequest.TransferRequest{
		From:   from,
		To:     to,
		Amount: amount,
	})
}

func (h *HTTPLedgerHandler) Hold(ctx context.Context, account, holdID string, amount uint64) error {
	return h.post(ctx, "/ledger/holds", ledgerRequest.HoldRequest{
		Account: account,
		HoldID:  holdID,
		Amount:  amount,
	})
}

func (h *HTTPLedgerHandler) Release(ctx context.Context, holdID string, payouts ...domain.Payout) error {
	body := ledgerRequest.ReleaseRequest{Payouts: make([]ledgerRequest.Payout, 0, len(payouts))}
	for _, p := range payouts {
		body.Payouts = append(body.Payouts, ledgerRequest.Payout{To: p.To, Amount: p.Amount})
	}
	return h.post(ctx, fmt.Sprintf("/ledger/holds/%s/release", url.PathEscape(holdID)), body)
}

// VerifySignature проверяется локально, ключ приходит из токена вызывающего
func (h *HTTPLedgerHandler) VerifySignature(pubKey, payload, sig []byte) bool {
	return signature.Verify(pubKey, payload, sig)
}

func (h *HTTPLedgerHandler) GetBalance(ctx context.Context, account string) (*ledgerResponse.BalanceResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/ledger/accounts/%s/balance", h.Address, url.PathEscape(account)), nil)
	if err != nil {
		return nil, err
	}
	response, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var balanceResponse ledgerResponse.BalanceResponse
		if err := json.Unmarshal(responseBodyBytes, &balanceResponse); err != nil {
			return nil, err
		}
		return &balanceResponse, nil
	}
	return nil, decodeError(response.StatusCode, responseBodyBytes)
}

func (h *HTTPLedgerHandler) post(ctx context.Context, path string, body any) error {
	requestBodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Address+path, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	return decodeError(response.StatusCode, responseBodyBytes)
}

// decodeError переводит ответ ledger в доменные ошибки
func decodeError(statusCode int, body []byte) error {
	var errorResponse ledgerResponse.ErrorResponse
	if err := json.Unmarshal(body, &errorResponse); err != nil {
		return fmt.Errorf("ledger responded %d: %s", statusCode, string(body))
	}
	switch errorResponse.Code {
	case "INSUFFICIENT_FUNDS":
		return fmt.Errorf("%w: %s", domain.ErrInsufficientFunds, errorResponse.Error)
	case "HOLD_NOT_FOUND":
		return domain.ErrHoldNotFound
	case "HOLD_MISMATCH":
		return domain.ErrHoldMismatch
	}
	return fmt.Errorf("ledger responded %d: %s", statusCode, errorResponse.Error)
}
