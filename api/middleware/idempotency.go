package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/angelmondragon/menuflow-backend/api/responses"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/menuflow-backend/pkg/redis"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	replayedHeader        = "Idempotent-Replayed"
	maxIdempotencyKeyLen  = 200
	DefaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyPolicy configures one guarded endpoint. When Required is false a
// request without the header runs unguarded.
type IdempotencyPolicy struct {
	TTL      time.Duration
	Required bool
}

// idempotencyRecord is what lives under a key: a reservation while the first
// request runs, then the captured response.
type idempotencyRecord struct {
	Fingerprint string `json:"fingerprint"`
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency reserves the key before the handler runs, so a concurrent
// duplicate is rejected instead of executed twice. A completed key replays its
// response; a key reused with a different body is rejected. 5xx responses
// release the reservation so the client can retry. Mount it per route so the
// scope uses the resolved path.
func Idempotency(store pkgredis.IdempotencyStore, policy IdempotencyPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	ttl := policy.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			switch {
			case header == "" && policy.Required:
				responses.WriteError(ctx, logg, w, pkgerrors.Invalid(idempotencyHeader, "Idempotency-Key header required"))
				return
			case header == "":
				next.ServeHTTP(w, r)
				return
			case len(header) > maxIdempotencyKeyLen:
				responses.WriteError(ctx, logg, w, pkgerrors.Invalid(idempotencyHeader, "Idempotency-Key header too long"))
				return
			}

			body, err := peekBody(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			fingerprint := fingerprintOf(body)
			key := store.IdempotencyKey(idempotencyScope(r), header)

			reservation, _ := json.Marshal(idempotencyRecord{Fingerprint: fingerprint, Pending: true})
			acquired, err := store.SetNX(ctx, key, string(reservation), ttl)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !acquired {
				replayOrReject(w, r, store, key, fingerprint, logg)
				return
			}

			var captured bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&captured)
			next.ServeHTTP(ww, r)

			status := statusOf(ww)
			if status >= http.StatusInternalServerError {
				if err := store.Del(ctx, key); err != nil {
					logg.Error(ctx, "idempotency.release_failed", err)
				}
				return
			}

			done, _ := json.Marshal(idempotencyRecord{
				Fingerprint: fingerprint,
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        captured.Bytes(),
			})
			if err := store.Set(ctx, key, string(done), ttl); err != nil {
				logg.Error(ctx, "idempotency.persist_failed", err)
			}
		})
	}
}

func replayOrReject(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, key, fingerprint string, logg *logger.Logger) {
	ctx := r.Context()
	raw, err := store.Get(ctx, key)
	if pkgredis.IsMissing(err) {
		// The reservation expired between SetNX and Get; ask the client to retry.
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in progress"))
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return
	}

	var record idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	switch {
	case record.Fingerprint != fingerprint:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case record.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in progress"))
	default:
		if record.ContentType != "" {
			w.Header().Set("Content-Type", record.ContentType)
		}
		w.Header().Set(replayedHeader, "true")
		w.WriteHeader(record.Status)
		_, _ = w.Write(record.Body)
	}
}

// idempotencyScope keeps keys from different actors and endpoints apart.
func idempotencyScope(r *http.Request) string {
	actor := "anonymous"
	if a, ok := ActorFromContext(r.Context()); ok {
		actor = a.UserID.String()
	}
	return actor + "|" + r.Method + "|" + r.URL.Path
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
