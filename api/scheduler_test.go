package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-extensions/store/sqlite"
)

func TestDigestScheduler_NextRunOnlyWhileRunning(t *testing.T) {
	srv := newTestServer(t)
	ds := srv.handler.Digest
	mailer := &recordingMailer{}
	ds.Mailer = mailer
	ds.Recipients = []string{"hr@example.com"}
	ds.CheckInterval = time.Hour

	// GIVEN: a scheduler that was never started
	assert.True(t, ds.GetNextRunTime().IsZero())
	rec := srv.do(http.MethodGet, "/api/digest/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"next_run_at":null`)

	// WHEN: it starts, it sends once and schedules the next tick
	ds.Start()
	require.Eventually(t, func() bool {
		runs, err := srv.handler.Store.ListDigestRuns(context.Background(), sqlite.DigestCompleted)
		return err == nil && len(runs) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, fixedNow.Add(time.Hour), ds.GetNextRunTime())

	// THEN: stopping clears it
	ds.Stop()
	assert.True(t, ds.GetNextRunTime().IsZero())
	assert.Len(t, mailer.sent, 1)
}

func TestDigestScheduler_DisabledDoesNotSchedule(t *testing.T) {
	srv := newTestServer(t)
	ds := srv.handler.Digest
	ds.Enabled = false

	ds.Start()
	defer ds.Stop()

	assert.True(t, ds.GetNextRunTime().IsZero())
	runs, err := srv.handler.Store.ListDigestRuns(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, runs)
}
