package transferegov

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rastraverba/etl/internal/config"
	"github.com/rastraverba/etl/internal/logger"
	"github.com/rastraverba/etl/internal/retry"
	"github.com/rastraverba/etl/internal/tracker/types"
)

const DefaultBaseURL = "https://api.transferegov.gestao.gov.br"

// Delay between successive executor lookups inside one trace. The executor
// sub-resource throttles harder than the transfer listings.
const executorLookupDelay = 500 * time.Millisecond

// Client traces amendments to their transfers and executing entities on the
// TransfereGov API. The bearer key is fixed at construction; an empty key
// degrades to unauthenticated calls.
type Client struct {
	BaseURL string
	http    *http.Client
	apiKey  string
	logger  *logger.Logger

	// Attempt-indexed 429-aware backoff, no jitter.
	backoff retry.Policy
	sleep   func(time.Duration)
}

func New(cfg config.Config, appLogger *logger.Logger) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		apiKey:  cfg.TransfereGovKey,
		logger:  appLogger,
		backoff: retry.Default(),
		sleep:   time.Sleep,
	}
}

// GetEmendasPix fetches the Emendas Pix listing for a year: richer amendment
// records with author and value already attached. An empty result tells the
// caller to fall back to the Câmara source.
func (c *Client) GetEmendasPix(year int) []types.Amendment {
	const component = "TransfereGovClient"

	params := url.Values{}
	if year > 0 {
		params.Set("ano", strconv.Itoa(year))
	}

	var decoded emendasPixResponse
	if err := c.makeRequest(c.BaseURL+"/emendas-pix", params, &decoded); err != nil {
		c.logger.Error(component, "Emendas Pix fetch failed: year=%d error=%v", year, err)
		return nil
	}

	amendments := make([]types.Amendment, 0, len(decoded.Data))
	for _, e := range decoded.Data {
		amendments = append(amendments, e.normalize())
	}
	return amendments
}

// Trace resolves the transfers an amendment produced. It probes the
// amendment-scoped endpoint first and falls back to the generic listing
// filtered by amendment id and optional value. Transfers that carry a
// convenio id get their Executor resolved in a nested lookup. An empty slice
// means the amendment has no resolvable transfer; the orchestrator keeps the
// row alive with a not_found status.
func (c *Client) Trace(amendmentID string, value float64) []types.Transfer {
	const component = "TransfereGovClient"

	rows := c.fetchAmendmentScoped(amendmentID)
	if len(rows) == 0 {
		rows = c.fetchGeneric(amendmentID, value)
	}

	transfers := make([]types.Transfer, 0, len(rows))
	for i, row := range rows {
		transfer := row.transfer

		if row.convenioID != "" {
			if i > 0 {
				c.sleep(executorLookupDelay)
			}
			executor, err := c.GetExecutor(row.convenioID)
			if err != nil {
				c.logger.Warn(component, "Executor lookup failed: convenioId=%s error=%v", row.convenioID, err)
			} else {
				transfer.Executor = executor
			}
		}

		transfers = append(transfers, transfer)
	}

	return transfers
}

// GetExecutor fetches the executor especial for a convenio: the bank account
// and municipality (IBGE code) actually receiving the funds.
func (c *Client) GetExecutor(convenioID string) (*types.Executor, error) {
	endpoint := fmt.Sprintf("%s/convenios/%s/executor-especial", c.BaseURL, url.PathEscape(convenioID))

	var decoded executorResponse
	if err := c.makeRequest(endpoint, nil, &decoded); err != nil {
		return nil, err
	}

	return decoded.Data.normalize(), nil
}

func (c *Client) fetchAmendmentScoped(amendmentID string) []normalizedTransfer {
	endpoint := fmt.Sprintf("%s/emendas/%s/transferencias", c.BaseURL, url.PathEscape(amendmentID))

	var decoded emendaTransfersResponse
	if err := c.makeRequest(endpoint, nil, &decoded); err != nil {
		c.logger.Debug("TransfereGovClient", "Amendment-scoped trace failed: emendaId=%s error=%v", amendmentID, err)
		return nil
	}

	rows := make([]normalizedTransfer, 0, len(decoded.Data))
	for _, t := range decoded.Data {
		rows = append(rows, t.normalize(amendmentID))
	}
	return rows
}

func (c *Client) fetchGeneric(amendmentID string, value float64) []normalizedTransfer {
	params := url.Values{}
	params.Set("emenda", amendmentID)
	if value > 0 {
		params.Set("valor", strconv.FormatFloat(value, 'f', -1, 64))
	}

	var decoded genericTransfersResponse
	if err := c.makeRequest(c.BaseURL+"/transferencias", params, &decoded); err != nil {
		c.logger.Debug("TransfereGovClient", "Generic trace failed: emendaId=%s error=%v", amendmentID, err)
		return nil
	}

	rows := make([]normalizedTransfer, 0, len(decoded.Data))
	for _, t := range decoded.Data {
		rows = append(rows, t.normalize(amendmentID))
	}
	return rows
}

// makeRequest performs one GET with bearer auth and the 429-aware backoff
// loop: throttling and transient failures sleep an attempt-indexed delay and
// retry; the last failure surfaces after MaxAttempts.
func (c *Client) makeRequest(endpoint string, params url.Values, target any) error {
	const component = "TransfereGovClient"

	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.backoff.MaxAttempts; attempt++ {
		req, err := http.NewRequest(http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("rate limited by %s", endpoint)
			delay := c.backoff.Delay(attempt)
			c.logger.Warn(component, "Rate limited, waiting %.1fs before retry: url=%s", delay.Seconds(), endpoint)
			c.sleep(delay)
			continue
		} else if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
		} else {
			err = json.NewDecoder(resp.Body).Decode(target)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decoding %s: %w", endpoint, err)
			}
			return nil
		}

		if attempt < c.backoff.MaxAttempts-1 {
			delay := c.backoff.Delay(attempt)
			c.logger.Warn(component, "Request failed, retrying in %.1fs: error=%v", delay.Seconds(), lastErr)
			c.sleep(delay)
		}
	}

	c.logger.Error(component, "Request failed after %d attempts: url=%s error=%v", c.backoff.MaxAttempts, endpoint, lastErr)
	return lastErr
}
