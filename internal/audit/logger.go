package audit

import (
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// Logger writes business events (signups, logins, contact changes) as
// structured audit lines.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record logs one audit action. Actions ending in "_failed" are logged at
// warn level. Any "email" field is masked.
func (l *Logger) Record(action string, fields map[string]string) {
	evt := l.log.Info()
	if strings.HasSuffix(action, "_failed") {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)

	for _, k := range slices.Sorted(maps.Keys(fields)) {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}

// Func adapts the logger to the hook signature the services accept.
func (l *Logger) Func() func(action string, fields map[string]string) {
	return l.Record
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email[:2] + "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
