package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"github.com/nats-io/nats.go"
)

const connectTimeout = 5 * time.Second

// NATS sends forecast requests to a forecasting service over NATS request/reply.
type NATS struct {
	nc      *nats.Conn
	subject string
}

var _ contract.Forecaster = &NATS{} // Compile-time check

// NewNATS connects to the server at url.
func NewNATS(url, subject string) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("skillspot-forecast"), nats.Timeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	return NewNATSWithConn(nc, subject), nil
}

// NewNATSWithConn uses an existing connection.
func NewNATSWithConn(nc *nats.Conn, subject string) *NATS {
	if subject == "" {
		subject = contract.DefaultForecastSubject
	}
	return &NATS{nc: nc, subject: subject}
}

// Forecast implements the Forecaster interface. The context deadline bounds the request.
func (n *NATS) Forecast(ctx context.Context, history []schema.SeriesPoint, periods int) (schema.ForecastOutput, error) {
	body, err := json.Marshal(Request{History: history, Periods: periods})
	if err != nil {
		return schema.ForecastOutput{}, fmt.Errorf("failed to encode forecast request: %w", err)
	}

	msg, err := n.nc.RequestWithContext(ctx, n.subject, body)
	if err != nil {
		return schema.ForecastOutput{}, fmt.Errorf("forecast request on %s: %w", n.subject, err)
	}

	var out schema.ForecastOutput
	if err := json.Unmarshal(msg.Data, &out); err != nil {
		return schema.ForecastOutput{}, fmt.Errorf("failed to decode forecast reply: %w", err)
	}
	return out, nil
}

// Close closes the connection.
func (n *NATS) Close() error {
	n.nc.Close()
	return nil
}
