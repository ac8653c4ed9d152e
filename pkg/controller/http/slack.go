package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// maxSlackBodyBytes bounds interaction payloads before they are hashed.
const maxSlackBodyBytes = 64 << 10

// verifySlackRequest checks the v0 signature Slack puts on every request.
// Requests older than five minutes are rejected by the verifier.
func verifySlackRequest(signingSecret string, header http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, signingSecret)
	if err != nil {
		return goerr.Wrap(err, "invalid slack signature headers")
	}
	if _, err := sv.Write(body); err != nil {
		return goerr.Wrap(err, "failed to hash slack request body")
	}
	if err := sv.Ensure(); err != nil {
		return goerr.Wrap(err, "slack signature mismatch")
	}
	return nil
}

// SlackSignatureMiddleware rejects requests not signed with signingSecret.
// The body is buffered and handed to the next handler unchanged.
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			defer safe.Close(ctx, r.Body)

			body, err := io.ReadAll(io.LimitReader(r.Body, maxSlackBodyBytes))
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}

			if err := verifySlackRequest(signingSecret, r.Header, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
