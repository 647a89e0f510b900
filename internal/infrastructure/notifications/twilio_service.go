package notifications

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// messageCreator is the slice of the Twilio API the service needs
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioServiceImpl implements domain.NotificationService
type TwilioServiceImpl struct {
	api        messageCreator
	fromNumber string
	log        zerolog.Logger
}

// NewTwilioService creates a new Twilio notification service. Without a
// sender number messages are only logged.
func NewTwilioService(accountSID, authToken, fromNumber string, log zerolog.Logger) *TwilioServiceImpl {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		api:        client.Api,
		fromNumber: fromNumber,
		log:        log.With().Str("component", "sms").Logger(),
	}
}

// SendSMS implements domain.NotificationService
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	if t.fromNumber == "" {
		t.log.Info().Str("to", mask(to)).Str("body", message).Msg("sms not configured, message dropped")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	t.log.Debug().Str("to", mask(to)).Msg("sms sent")
	return nil
}

// mask keeps the last two digits of a phone number
func mask(phone string) string {
	if len(phone) <= 2 {
		return "**"
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}

var _ domain.NotificationService = (*TwilioServiceImpl)(nil)
