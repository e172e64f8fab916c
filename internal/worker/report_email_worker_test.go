package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Joe-Bills/moto-spares-manager/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExporter struct {
	format, from, to string
	err              error
}

func (s *stubExporter) ExportSales(_ context.Context, format, from, to string) (*infra.Attachment, error) {
	s.format, s.from, s.to = format, from, to
	if s.err != nil {
		return nil, s.err
	}
	return &infra.Attachment{Filename: "sales.pdf", ContentType: "application/pdf", Content: []byte("%PDF")}, nil
}

type sentMail struct {
	to, subject, body string
	attachments       []infra.Attachment
}

type stubSender struct {
	sent []sentMail
	err  error
}

func (s *stubSender) Send(to, subject, body string, attachments ...infra.Attachment) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to, subject, body, attachments})
	return nil
}

func TestReportEmailWorker_SendsAttachment(t *testing.T) {
	exp := &stubExporter{}
	snd := &stubSender{}
	w := NewReportEmailWorker(exp, snd, "Moto Spares")

	raw, _ := json.Marshal(ReportEmailPayload{To: "owner@example.com", Format: "pdf", From: "2026-01-01", RequestedBy: "admin"})
	require.NoError(t, w.Process(context.Background(), raw))

	assert.Equal(t, "pdf", exp.format)
	assert.Equal(t, "2026-01-01", exp.from)
	require.Len(t, snd.sent, 1)
	mail := snd.sent[0]
	assert.Equal(t, "owner@example.com", mail.to)
	assert.Equal(t, "Moto Spares sales report", mail.subject)
	assert.Contains(t, mail.body, "2026-01-01 to today")
	assert.Contains(t, mail.body, "Requested by admin")
	require.Len(t, mail.attachments, 1)
	assert.Equal(t, "sales.pdf", mail.attachments[0].Filename)
}

func TestReportEmailWorker_BadPayloadIsPermanent(t *testing.T) {
	w := NewReportEmailWorker(&stubExporter{}, &stubSender{}, "Shop")

	err := w.Process(context.Background(), json.RawMessage(`{"to":`))
	assert.ErrorIs(t, err, ErrPermanent)

	err = w.Process(context.Background(), json.RawMessage(`{"format":"pdf"}`))
	assert.ErrorIs(t, err, ErrPermanent)
}

func TestReportEmailWorker_SendFailureIsRetryable(t *testing.T) {
	w := NewReportEmailWorker(&stubExporter{}, &stubSender{err: infra.ErrCircuitOpen}, "Shop")

	raw, _ := json.Marshal(ReportEmailPayload{To: "a@b.c", Format: "excel"})
	err := w.Process(context.Background(), raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.False(t, errors.Is(err, ErrPermanent))
}
