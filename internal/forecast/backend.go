package forecast

import (
	"fmt"
	"io"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromConfig builds the adapter for the configured backend. The returned closer
// releases any connection the backend holds.
func FromConfig(cfg *contract.Config) (*Adapter, io.Closer, error) {
	var f contract.Forecaster
	var closer io.Closer = nopCloser{}

	switch cfg.ForecastBackend {
	case schema.LinearForecast, "":
		f = Linear{}
	case schema.ExecForecast:
		e, err := NewExec(cfg.ForecastCommand)
		if err != nil {
			return nil, nil, err
		}
		f = e
	case schema.NATSForecast:
		n, err := NewNATS(cfg.NATSURL, cfg.ForecastSubject)
		if err != nil {
			return nil, nil, err
		}
		f, closer = n, n
	case schema.NoneForecast:
		f = Unavailable{}
	default:
		return nil, nil, fmt.Errorf("unsupported forecast backend: %s", cfg.ForecastBackend)
	}
	return NewAdapter(f, cfg.ForecastTimeout), closer, nil
}
