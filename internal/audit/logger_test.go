package audit

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRecord_InfoWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	l.Record("contact_created", map[string]string{"owner": "u1", "contact_id": "c1"})

	line := decodeLine(t, &buf)
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, true, line["audit"])
	assert.Equal(t, "contact_created", line["action"])
	assert.Equal(t, "u1", line["owner"])
	assert.Equal(t, "c1", line["contact_id"])
	assert.Equal(t, "audit", line["message"])
}

func TestRecord_FailedActionsWarn(t *testing.T) {
	var buf bytes.Buffer
	New(zerolog.New(&buf)).Func()("login_failed", map[string]string{"user_id": "u1"})

	line := decodeLine(t, &buf)
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "login_failed", line["action"])
}

func TestRecord_MasksEmail(t *testing.T) {
	var buf bytes.Buffer
	New(zerolog.New(&buf)).Record("verification_email_failed", map[string]string{"email": "alice@example.com"})

	line := decodeLine(t, &buf)
	assert.Equal(t, "al***@example.com", line["email"])
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"":                "***",
		"a@b.c":           "a***@b.c",
		"bob@example.com": "bo***@example.com",
		"no-at-sign":      "no***",
	}
	for in, want := range cases {
		assert.Equal(t, want, maskEmail(in), in)
	}
}
