package outbox

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-aids-go/internal/config"
	"resume-aids-go/internal/storage/models"
)

func TestApplyPublishResultSuccess(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := &models.OutboxMessage{Status: models.OutboxStatusPending, RetryCount: 2, ErrorMessage: "old"}

	applyPublishResult(msg, nil, 5, now)

	assert.Equal(t, models.OutboxStatusSent, msg.Status)
	require.NotNil(t, msg.ProcessedAt)
	assert.Equal(t, now, *msg.ProcessedAt)
	assert.Empty(t, msg.ErrorMessage)
	assert.Equal(t, 2, msg.RetryCount)
}

func TestApplyPublishResultRetryThenFail(t *testing.T) {
	msg := &models.OutboxMessage{Status: models.OutboxStatusPending}
	boom := errors.New("channel closed")

	for i := 1; i < 3; i++ {
		applyPublishResult(msg, boom, 3, time.Now())
		assert.Equal(t, i, msg.RetryCount)
		assert.Equal(t, models.OutboxStatusPending, msg.Status, "未达到上限前保持待发送")
	}

	applyPublishResult(msg, boom, 3, time.Now())
	assert.Equal(t, 3, msg.RetryCount)
	assert.Equal(t, models.OutboxStatusFailed, msg.Status)
	assert.Equal(t, "channel closed", msg.ErrorMessage)
	assert.Nil(t, msg.ProcessedAt)
}

func TestNewMessageRelayDefaults(t *testing.T) {
	r := NewMessageRelay(nil, nil, config.OutboxConfig{})
	assert.Equal(t, defaultPollingInterval, r.pollingInterval)
	assert.Equal(t, defaultBatchSize, r.batchSize)
	assert.Equal(t, defaultMaxRetryCount, r.maxRetries)

	r = NewMessageRelay(nil, nil, config.OutboxConfig{PollInterval: "250ms", BatchSize: 3, MaxRetries: 7})
	assert.Equal(t, 250*time.Millisecond, r.pollingInterval)
	assert.Equal(t, 3, r.batchSize)
	assert.Equal(t, 7, r.maxRetries)
}

func TestRelayStartStop(t *testing.T) {
	r := NewMessageRelay(nil, nil, config.OutboxConfig{PollInterval: "1h"})
	r.Start()
	r.Stop()
	assert.NotPanics(t, r.Stop, "重复停止是安全的")
}
