package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulwww/fintrack/pkg/dto"
)

func TestClient_AuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		_ = json.NewEncoder(w).Encode([]dto.AccountResponse{
			{ID: 1, Balance: "100.00", Currency: "RUB"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token", 5*time.Second, nil)
	accounts, err := client.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_PeriodQueryUsesWholeDays(t *testing.T) {
	var gotPath, gotStart, gotEnd string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("startDate")
		gotEnd = r.URL.Query().Get("endDate")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, nil)
	start := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)
	end := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	_, err := client.TransactionsForPeriod(context.Background(), 10, start, end)
	require.NoError(t, err)
	assert.Equal(t, "/transactions/account/10/period", gotPath)
	assert.Equal(t, "2025-06-10", gotStart)
	assert.Equal(t, "2025-06-13", gotEnd)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such transaction", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, nil)
	err := client.DeleteTransaction(context.Background(), 42)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Contains(t, string(statusErr.Body), "no such transaction")
	assert.NotErrorIs(t, err, ErrUnreachable, "a reachable server is not a transport failure")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL, "", time.Second, nil)
	_, err := client.Accounts(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 20*time.Millisecond, nil)
	_, err := client.Accounts(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable, "a timed out call counts as unreachable")
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, nil)
	_, err := client.Accounts(context.Background())

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestClient_CreateSendsBody(t *testing.T) {
	var got dto.TransactionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.TransactionResponse{
			ID: 101, AccountID: got.AccountID, CategoryID: got.CategoryID,
			Amount: got.Amount, TransactionDate: got.TransactionDate,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, nil)
	resp, err := client.CreateTransaction(context.Background(), dto.TransactionRequest{
		AccountID: 10, CategoryID: 3, Amount: "5.50",
		TransactionDate: "2025-06-12T12:00:00.000Z",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "5.50", got.Amount)
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Code: 500, Body: []byte("boom")}
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}

func TestDecodeErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &DecodeError{Err: cause}
	assert.ErrorIs(t, err, cause)
}
