package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

func TestZerologAuditLogger_LogEvent(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuditLogger(zerolog.New(&buf))

	event := domain.NewAuditEvent(domain.StepUpFailedEvent, "actor-1").
		WithIdentity(createAdminIdentity(t)).
		WithError(errors.New("invalid phone number")).
		WithClientContext(&domain.ClientContext{IPAddress: "10.0.0.1"}).
		WithMetadata("attempt", 2)
	audit.LogEvent(context.Background(), event)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "audit", line["component"])
	assert.Equal(t, "STEP_UP_FAILED", line["event_type"])
	assert.Equal(t, "admin-1", line["user_id"])
	assert.Equal(t, "ADMIN", line["role"])
	assert.Equal(t, "10.0.0.1", line["ip"])
	assert.Equal(t, float64(2), line["attempt"])
	assert.NotContains(t, line, "phone")
	assert.NotContains(t, buf.String(), "hashed_p")
}

func TestZerologAuditLogger_NilEvent(t *testing.T) {
	var buf bytes.Buffer
	NewAuditLogger(zerolog.New(&buf)).LogEvent(context.Background(), nil)
	assert.Zero(t, buf.Len())
}
