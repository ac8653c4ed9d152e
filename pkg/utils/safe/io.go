package safe

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/aadee-inc/steward/pkg/utils/logging"
)

// Close closes closer and logs a failure. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// EncodeJSON writes v to w as JSON. Once a response status is sent there is
// nobody left to return an error to, so a failure is only logged.
func EncodeJSON(ctx context.Context, w io.Writer, v any) {
	if w == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Warn("Failed to encode JSON", slog.Any("error", err))
	}
}
