package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
)

// TxMiddleware wraps an HTTP handler with a database transaction.
// Precondition reads and the write that follows them run on the same
// transaction, so a checked row cannot disappear between the two steps.
// The transaction is rolled back when the handler reports a client or
// server error status. The handler's response is buffered and sent only
// after the commit succeeds, so a failed commit reaches the client as a
// 500 instead of a success status for a rolled-back write.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.BeginTxx(r.Context(), nil)
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			rw := newBufferedResponseWriter()

			ctx := setTxToContext(r.Context(), tx)
			next.ServeHTTP(rw, r.WithContext(ctx))

			if rw.statusCode >= http.StatusBadRequest {
				tx.Rollback()
				rw.flush(w)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			rw.flush(w)
		})
	}
}

// bufferedResponseWriter holds the handler's response until the surrounding
// transaction settles.
type bufferedResponseWriter struct {
	header     http.Header
	body       bytes.Buffer
	statusCode int
}

func newBufferedResponseWriter() *bufferedResponseWriter {
	return &bufferedResponseWriter{
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (rw *bufferedResponseWriter) Header() http.Header {
	return rw.header
}

func (rw *bufferedResponseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
}

func (rw *bufferedResponseWriter) Write(b []byte) (int, error) {
	return rw.body.Write(b)
}

// flush copies the buffered response onto the real writer.
func (rw *bufferedResponseWriter) flush(w http.ResponseWriter) {
	for key, values := range rw.header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(rw.statusCode)
	w.Write(rw.body.Bytes())
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

// setTxToContext stores a transaction in the context
func setTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}
