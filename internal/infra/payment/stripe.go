package payment

import (
	"context"
	"encoding/json"

	"psyconnect/internal/pkg/config"
	"psyconnect/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// CheckoutSession is the externally payable session created for one
// confirmed reservation. The URL is handed to the patient; settlement comes
// back asynchronously through the webhook.
type CheckoutSession struct {
	ID  string
	URL string
}

const consultationPriceCents int64 = 6000

type StripeGateway struct {
	cfg config.StripeConfig
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{cfg: cfg}
}

func (g *StripeGateway) CreateCheckoutSession(_ context.Context, reservationID uuid.UUID, description string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyEUR)),
					UnitAmount: stripe.Int64(consultationPriceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(reservationID.String()),
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create checkout session")
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyWebhook authenticates a webhook payload and returns the session ID of
// a completed checkout, or ok=false for event types this service ignores.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (sessionID string, ok bool, err error) {
	event, err := webhook.ConstructEvent(payload, signature, g.cfg.WebhookSecret)
	if err != nil {
		return "", false, errs.Wrap(err, "webhook signature verification failed")
	}

	if event.Type != "checkout.session.completed" {
		return "", false, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return "", false, errs.Wrap(err, "failed to decode checkout session event")
	}

	return sess.ID, true, nil
}
