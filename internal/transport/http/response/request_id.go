package response

import (
	"net/http"

	appCtx "github.com/baechuer/real-time-ressys/services/contacts-service/internal/pkg/context"
)

func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
