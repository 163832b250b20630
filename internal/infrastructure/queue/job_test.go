package queue_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ppe-stock-api/internal/application/notification"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/queue"
)

func TestEncodeDecodeJob(t *testing.T) {
	ev := notification.AlertEvent{AlertID: "a-1", StationName: "Norte", CurrentStock: 3, Severity: "CRITICAL"}
	raw, err := queue.EncodeJob(notification.JobTypeStockAlert, ev, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	job, err := queue.DecodeJob(string(raw))
	require.NoError(t, err)
	assert.Equal(t, notification.JobTypeStockAlert, job.Type)

	var got notification.AlertEvent
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, ev.AlertID, got.AlertID)
	assert.Equal(t, 3, got.CurrentStock)
}

func TestDecodeJob_Invalido(t *testing.T) {
	_, err := queue.DecodeJob("no es json")
	assert.Error(t, err)

	_, err = queue.DecodeJob(`{"payload":{}}`)
	assert.Error(t, err)
}
