package middleware

import (
	"net/http"

	logrusLogger "github.com/chi-middleware/logrus-logger"
	"github.com/sirupsen/logrus"
)

// Logger logs every request through logrus under the "router" category.
func Logger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return logrusLogger.Logger("router", log)
}
