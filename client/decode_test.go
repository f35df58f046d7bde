package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brojonat/solparse/service/solana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const decodedTransactionJSON = `{
	"transaction": {
		"version": "legacy",
		"unsigned_payload": "010000",
		"signatures": [],
		"account_keys": [
			{"account_key": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", "signer": true, "writable": true}
		],
		"program_keys": [],
		"recent_blockhash": "11111111111111111111111111111111",
		"instructions": [],
		"transfers": [
			{"from": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", "to": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "amount": 111}
		],
		"token_transfers": [],
		"address_table_lookups": []
	}
}`

func TestDecodeMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/decode", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&body)
		require.NoError(t, err)

		assert.Equal(t, "message", body["mode"])
		assert.Equal(t, "010000", body["data"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(decodedTransactionJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	tx, err := client.DecodeMessage(context.Background(), "010000")
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, solana.VersionLegacy, tx.Version)
	assert.Equal(t, "010000", tx.UnsignedPayload)
	require.Len(t, tx.AccountKeys, 1)
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", tx.AccountKeys[0].AccountKey.String())
	assert.True(t, tx.AccountKeys[0].Signer)
	require.Len(t, tx.Transfers, 1)
	assert.Equal(t, uint64(111), tx.Transfers[0].Amount)
}

func TestDecodeTransaction_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&body)
		require.NoError(t, err)

		assert.Equal(t, "transaction", body["mode"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(decodedTransactionJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	tx, err := client.DecodeTransaction(context.Background(), "010000")
	require.NoError(t, err)
	require.NotNil(t, tx)
}

func TestDecode_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "message header: unexpected end of input at offset 1",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	tx, err := client.DecodeMessage(context.Background(), "01")
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.Contains(t, err.Error(), "unexpected end of input")
}

func TestDecode_MissingTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	tx, err := client.DecodeMessage(context.Background(), "010000")
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.Contains(t, err.Error(), "missing transaction")
}

func TestPrograms_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/programs", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"programs": [
				{"program_key": "11111111111111111111111111111111", "name": "System Program", "instructions": ["Transfer"]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	programs, err := client.Programs(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 1)

	assert.Equal(t, "11111111111111111111111111111111", programs[0].ProgramKey)
	assert.Equal(t, "System Program", programs[0].Name)
	assert.Equal(t, []string{"Transfer"}, programs[0].Instructions)
}

func TestHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/health", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	err := client.Health(context.Background())
	assert.NoError(t, err)
}

func TestHealth_Unhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unhealthy status")
}
