package server

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/brojonat/solparse/service/config"
	"github.com/brojonat/solparse/service/metrics"
	"github.com/brojonat/solparse/service/solana"
)

const (
	maxRequestBodySize = 1 << 20 // 1MB - plenty for a hex-encoded transaction

	modeMessage     = "message"
	modeTransaction = "transaction"
)

// decodeRequest is the JSON request format for the decode endpoint.
type decodeRequest struct {
	Mode string `json:"mode"`
	Data string `json:"data"`
}

// handleDecode returns a handler that decodes a hex-encoded transaction or
// bare message and responds with its parsed form.
// POST /api/v1/decode
func handleDecode(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Limit request body size to prevent memory exhaustion
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req decodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("failed to decode request body", "error", err)
			// Check if error is due to body size limit
			if strings.Contains(err.Error(), "http: request body too large") {
				writeError(w, "request body too large: maximum size is 1MB", http.StatusBadRequest)
				return
			}
			writeError(w, "invalid request body: must be valid JSON", http.StatusBadRequest)
			return
		}

		// Validate mode
		if req.Mode != modeMessage && req.Mode != modeTransaction {
			logger.Debug("invalid mode", "mode", req.Mode)
			writeError(w, `mode must be "message" or "transaction"`, http.StatusBadRequest)
			return
		}

		// Validate and decode the hex payload
		raw, err := decodeHexInput(req.Data, cfg.MaxInputBytes)
		if err != nil {
			logger.Debug("invalid data", "mode", req.Mode, "error", err)
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		var tx *solana.ParsedTransaction
		if req.Mode == modeMessage {
			tx, err = solana.ParseMessage(raw)
		} else {
			tx, err = solana.ParseTransaction(raw)
		}
		duration := time.Since(start).Seconds()

		if err != nil {
			if m != nil {
				m.RecordDecode(req.Mode, "error", duration)
			}
			logger.Debug("decode failed", "mode", req.Mode, "bytes", len(raw), "error", err)
			writeError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		if m != nil {
			m.RecordDecode(req.Mode, "success", duration)
			m.RecordDecodeInputSize(req.Mode, float64(len(raw)))
			m.RecordTransfersExtracted("system", len(tx.Transfers))
			m.RecordTransfersExtracted("token", len(tx.TokenTransfers))
		}

		logger.Info("payload decoded",
			"mode", req.Mode,
			"bytes", len(raw),
			"version", tx.Version.String(),
			"instructions", len(tx.Instructions),
			"transfers", len(tx.Transfers),
			"token_transfers", len(tx.TokenTransfers),
		)

		writeJSON(w, map[string]interface{}{
			"transaction": tx,
		}, http.StatusOK)
	})
}

// handleListPrograms returns a handler that lists the programs the decoder
// recognizes when extracting transfers.
// GET /api/v1/programs
func handleListPrograms(logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		programs := solana.RecognizedPrograms()

		logger.Debug("programs listed", "count", len(programs))

		writeJSON(w, map[string]interface{}{
			"programs": programs,
		}, http.StatusOK)
	})
}

// decodeHexInput validates and decodes a hex-encoded payload. The maxBytes
// limit applies to the decoded byte length; zero disables the limit.
func decodeHexInput(s string, maxBytes int) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errorf("data is required")
	}

	if len(s)%2 != 0 {
		return nil, errorf("data has odd length: hex strings encode whole bytes")
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errorf("data must be a hex-encoded byte string")
	}

	if maxBytes > 0 && len(raw) > maxBytes {
		return nil, errorf("data too large: maximum size is %d bytes", maxBytes)
	}

	return raw, nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// errorf is a helper to format error strings.
func errorf(format string, args ...interface{}) error {
	return &validationError{msg: strings.TrimSpace(fmt.Sprintf(format, args...))}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string {
	return e.msg
}
