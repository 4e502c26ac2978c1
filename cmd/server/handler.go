package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"stock-quote-service/internal/directory"
	"stock-quote-service/internal/interfaces"
	"stock-quote-service/internal/logger"
	"stock-quote-service/internal/types"
)

// stockHandler is the thin request surface over the engine. All logic lives
// in the pipeline; this only maps query parameters in and the failure
// taxonomy out.
func stockHandler(eng interfaces.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		val := r.URL.Query().Get("name")
		if val == "" {
			val = r.URL.Query().Get("ticker")
		}

		res, err := eng.GetStock(r.Context(), val)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	var nf *types.NotFoundError
	var qu *types.QuoteUnavailableError

	switch {
	case errors.Is(err, types.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "name 또는 ticker 파라미터가 필요합니다.")
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s 종목을 찾을 수 없습니다.", nf.Query))
	case errors.As(err, &qu):
		// Distinct from not-found on purpose: the symbol exists, the
		// caller should retry later rather than fix the spelling.
		writeError(w, http.StatusBadGateway, fmt.Sprintf("%s 시세 조회에 실패했습니다.", qu.Symbol))
	default:
		writeError(w, http.StatusInternalServerError, "조회 실패")
	}
}

func refreshHandler(dir *directory.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir.Invalidate()
		logger.Info(r.Context(), "Directory invalidated via debug endpoint")
		writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON renders v with UTF-8 text verbatim; Hangul company names must
// not be escaped.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
