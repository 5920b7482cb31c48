// internal/notify/notify_test.go
package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
)

func sampleFailureReport() schemas.Report {
	return schemas.Report{
		RunID:         "run-42",
		Success:       false,
		Processed:     1,
		Total:         3,
		RecordNames:   []string{"Widget-100", "Widget-200", "Widget-300"},
		FailedIndex:   1,
		FailureDetail: `record name mismatch: page shows "X", expected "Widget-200"`,
		Duration:      90 * time.Second,
	}
}

func TestFormatReportMarksFailurePoint(t *testing.T) {
	body := FormatReport(sampleFailureReport())

	assert.Contains(t, body, "run-42: FAILED")
	assert.Contains(t, body, "Processed 1 of 3")
	assert.Contains(t, body, "[done]          Widget-100")
	assert.Contains(t, body, "[failed]        Widget-200")
	assert.Contains(t, body, "[not attempted] Widget-300")
	assert.Contains(t, body, "name mismatch")
}

func TestFormatReportSuccess(t *testing.T) {
	body := FormatReport(schemas.Report{
		RunID:       "run-7",
		Success:     true,
		Processed:   2,
		Total:       2,
		RecordNames: []string{"A", "B"},
		FailedIndex: -1,
		Duration:    time.Minute,
	})

	assert.Contains(t, body, "run-7: SUCCESS")
	assert.Contains(t, body, "[done]          A")
	assert.Contains(t, body, "[done]          B")
	assert.NotContains(t, body, "[failed]")
	assert.NotContains(t, body, "[not attempted]")
}

func TestSMTPNotifierSendsMail(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	n := NewSMTPNotifier(config.SMTPConfig{
		Host: "mail.example.com",
		Port: 587,
		From: "sync@example.com",
		To:   []string{"ops@example.com"},
	}, zap.NewNop())
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, n.Deliver(context.Background(), sampleFailureReport()))

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "sync@example.com", gotFrom)
	assert.Equal(t, []string{"ops@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Storefront sync FAILED: 1/3 records")
	assert.Contains(t, string(gotMsg), "Widget-200")
}

func TestSMTPNotifierNoRecipients(t *testing.T) {
	n := NewSMTPNotifier(config.SMTPConfig{Host: "mail.example.com"}, zap.NewNop())
	err := n.Deliver(context.Background(), sampleFailureReport())
	require.Error(t, err)
}

func TestSMTPNotifierSendFailure(t *testing.T) {
	n := NewSMTPNotifier(config.SMTPConfig{
		Host: "mail.example.com",
		Port: 587,
		From: "sync@example.com",
		To:   []string{"ops@example.com"},
	}, zap.NewNop())
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	err := n.Deliver(context.Background(), sampleFailureReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMultiNotifierJoinsErrors(t *testing.T) {
	failing := &stubNotifier{err: errors.New("smtp down")}
	ok := &stubNotifier{}
	m := multiNotifier{ok, failing}

	m.Cue(context.Background(), schemas.CueStart)
	assert.Equal(t, 1, ok.cues)
	assert.Equal(t, 1, failing.cues)

	err := m.Deliver(context.Background(), sampleFailureReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Equal(t, 1, ok.delivered, "healthy sink still receives the report")
}

type stubNotifier struct {
	err       error
	cues      int
	delivered int
}

func (s *stubNotifier) Cue(ctx context.Context, c schemas.Cue) { s.cues++ }

func (s *stubNotifier) Deliver(ctx context.Context, r schemas.Report) error {
	s.delivered++
	return s.err
}
