// internal/workers/candidate/notify-status-change/handler_test.go
package notifystatuschange

import (
	"context"
	"errors"
	"testing"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/scoring/eligibility"

	"github.com/stretchr/testify/assert"
)

type fakeSMS struct {
	phone    string
	message  string
	senderID string
	err      error
	calls    int
}

func (f *fakeSMS) SendSMS(_ context.Context, phone, message, senderID string) error {
	f.calls++
	f.phone = phone
	f.message = message
	f.senderID = senderID
	return f.err
}

type fakeEmail struct {
	to      string
	subject string
	body    string
	err     error
	calls   int
}

func (f *fakeEmail) SendPlainEmail(_ context.Context, _, to, subject, body string) error {
	f.calls++
	f.to = to
	f.subject = subject
	f.body = body
	return f.err
}

func createTestInput() *Input {
	return &Input{
		CandidateID: "cand-001",
		FullName:    "Grace Wanjiku",
		Phone:       "+254712345678",
		Email:       "grace@example.com",
		Status:      eligibility.StatusPending,
		Role:        "nanny",
	}
}

func TestHandler_Execute_PendingSendsSMS(t *testing.T) {
	sms := &fakeSMS{}
	email := &fakeEmail{}
	config := LoadConfig()
	config.SenderID = "AGENCY"
	handler := NewHandler(config, sms, email, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, 1, sms.calls)
	assert.Equal(t, "+254712345678", sms.phone)
	assert.Equal(t, "AGENCY", sms.senderID)
	assert.Contains(t, sms.message, "Grace")
	assert.Contains(t, sms.message, "accepted")
	assert.Equal(t, 0, email.calls)
}

func TestHandler_Execute_InterviewDateInMessage(t *testing.T) {
	sms := &fakeSMS{}
	handler := NewHandler(LoadConfig(), sms, &fakeEmail{}, logger.NewNoOpLogger())

	input := createTestInput()
	input.InterviewDate = "2025-06-20"

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Contains(t, sms.message, "2025-06-20")
}

func TestHandler_Execute_WaiverStatusMentionsCertificate(t *testing.T) {
	sms := &fakeSMS{}
	handler := NewHandler(LoadConfig(), sms, &fakeEmail{}, logger.NewNoOpLogger())

	input := createTestInput()
	input.Status = eligibility.StatusPendingApplyingGC

	_, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Contains(t, sms.message, "Good Conduct Certificate")
}

func TestHandler_Execute_LostStatusSendsRegret(t *testing.T) {
	sms := &fakeSMS{}
	handler := NewHandler(LoadConfig(), sms, &fakeEmail{}, logger.NewNoOpLogger())

	for _, status := range []string{
		eligibility.StatusLostAge,
		eligibility.StatusLostExperience,
		eligibility.StatusLostNoReferences,
		eligibility.StatusLostNoGoodConduct,
	} {
		input := createTestInput()
		input.Status = status

		_, err := handler.Execute(context.Background(), input)

		assert.NoError(t, err)
		assert.Contains(t, sms.message, "does not meet")
	}
}

func TestHandler_Execute_UnknownStatus(t *testing.T) {
	handler := NewHandler(LoadConfig(), &fakeSMS{}, &fakeEmail{}, logger.NewNoOpLogger())

	input := createTestInput()
	input.Status = "nonsense"

	output, err := handler.Execute(context.Background(), input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStatus))
	assert.Nil(t, output)
}

func TestHandler_Execute_SMSFailure(t *testing.T) {
	sms := &fakeSMS{err: errors.New("throttled")}
	handler := NewHandler(LoadConfig(), sms, &fakeEmail{}, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotificationSendFailed))
	assert.Nil(t, output)
}

func TestHandler_Execute_EmailChannel(t *testing.T) {
	sms := &fakeSMS{}
	email := &fakeEmail{}
	config := LoadConfig()
	config.SMSEnabled = false
	config.EmailEnabled = true
	config.FromEmail = "no-reply@agency.example"
	handler := NewHandler(config, sms, email, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, 0, sms.calls)
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, "grace@example.com", email.to)
	assert.Equal(t, "Application accepted", email.subject)
}

func TestHandler_Execute_AllChannelsDisabled(t *testing.T) {
	config := LoadConfig()
	config.SMSEnabled = false
	config.EmailEnabled = false
	handler := NewHandler(config, &fakeSMS{}, &fakeEmail{}, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}
