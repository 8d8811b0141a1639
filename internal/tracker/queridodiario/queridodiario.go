package queridodiario

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rastraverba/etl/internal/logger"
	"github.com/rastraverba/etl/internal/ratelimit"
	"github.com/rastraverba/etl/internal/retry"
	"github.com/rastraverba/etl/internal/tracker/types"
	"github.com/rastraverba/etl/internal/tracker/utils"
)

const (
	DefaultBaseURL = "https://queridodiario.ok.org.br/api/gazettes"

	// Human-facing gazette page, derived per match from territory and date.
	sourceURLBase = "https://queridodiario.ok.org.br/diario"
)

// Procurement query terms. One search per term, results merged.
var searchQueries = []string{"Licitação", "Contrato", "Dispensa de Licitação", "Pregão"}

const (
	searchWindowDays   = 90
	fallbackWindowDays = 180
	resultsPerQuery    = 20
	maxExcerpts        = 3
)

// Client searches municipal official gazettes for procurement evidence
// around a transfer date.
type Client struct {
	BaseURL  string
	http     *http.Client
	governor *ratelimit.Governor
	logger   *logger.Logger
	retry    retry.Policy

	now func() time.Time
}

func New(governor *ratelimit.Governor, appLogger *logger.Logger) *Client {
	p := retry.Default()
	p.MaxAttempts = 3
	p.Jitter = true

	return &Client{
		BaseURL:  DefaultBaseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		governor: governor,
		logger:   appLogger,
		retry:    p,
		now:      time.Now,
	}
}

type gazette struct {
	ID            string   `json:"id"`
	TerritoryID   string   `json:"territory_id"`
	TerritoryName string   `json:"territory_name"`
	Date          string   `json:"date"`
	URL           string   `json:"url"`
	TxtURL        string   `json:"txt_url"`
	Excerpts      []string `json:"excerpts"`
}

func (g gazette) equal(other gazette) bool {
	if g.ID != other.ID || g.TerritoryID != other.TerritoryID ||
		g.TerritoryName != other.TerritoryName || g.Date != other.Date ||
		g.URL != other.URL || g.TxtURL != other.TxtURL ||
		len(g.Excerpts) != len(other.Excerpts) {
		return false
	}
	for i := range g.Excerpts {
		if g.Excerpts[i] != other.Excerpts[i] {
			return false
		}
	}
	return true
}

type searchResponse struct {
	Gazettes []gazette `json:"gazettes"`
}

// LinkTransferToGazettes searches the municipality's gazettes in a window
// after the transfer and extracts procurement evidence (CNPJs, value
// mention) from the matched excerpts. Search outages degrade to an empty
// result, never an error.
func (c *Client) LinkTransferToGazettes(ibgeCode, transferDate string, value float64) []types.GazetteMatch {
	gazettes := c.searchContractsAndBidding(ibgeCode, transferDate)

	matches := make([]types.GazetteMatch, 0, len(gazettes))
	for _, g := range gazettes {
		excerpts := g.Excerpts
		if len(excerpts) > maxExcerpts {
			excerpts = excerpts[:maxExcerpts]
		}
		fullText := strings.Join(excerpts, " ")

		matches = append(matches, types.GazetteMatch{
			ID:             g.ID,
			TerritoryID:    g.TerritoryID,
			TerritoryName:  g.TerritoryName,
			Date:           g.Date,
			URL:            g.URL,
			TxtURL:         g.TxtURL,
			Excerpts:       excerpts,
			CNPJsFound:     ExtractCNPJs(fullText),
			ValueMentioned: valueMentioned(fullText, value),
			SourceURL:      fmt.Sprintf("%s/%s/%s", sourceURLBase, g.TerritoryID, g.Date),
		})
	}

	return matches
}

// valueMentioned tests two renderings of the value against the excerpt
// text: the Brazilian-punctuated form and the plain integer truncation. A
// substring heuristic only; false negatives are expected.
func valueMentioned(text string, value float64) bool {
	if value == 0 || text == "" {
		return false
	}
	if strings.Contains(text, utils.FormatAmountBRL(value)) {
		return true
	}
	return strings.Contains(text, strconv.FormatInt(int64(value), 10))
}

func (c *Client) searchContractsAndBidding(ibgeCode, transferDate string) []gazette {
	const component = "QueridoDiarioClient"

	since, until := c.searchWindow(transferDate)

	var all []gazette
	for _, query := range searchQueries {
		found, err := c.searchGazettes(ibgeCode, since, until, query, resultsPerQuery)
		if err != nil {
			c.logger.Error(component, "Gazette search failed: territory=%s query=%q error=%v", ibgeCode, query, err)
			continue
		}

		// Exact-equality dedup across terms; the bounded result size keeps
		// the O(n) insertion scan harmless.
		for _, g := range found {
			duplicate := false
			for _, existing := range all {
				if g.equal(existing) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				all = append(all, g)
			}
		}
	}

	return all
}

// searchWindow computes [date, date+90d]. Unparseable dates fall back to the
// trailing 180 days rather than aborting the link.
func (c *Client) searchWindow(transferDate string) (since, until string) {
	const component = "QueridoDiarioClient"

	start, ok := utils.ParseDate(transferDate)
	if !ok {
		c.logger.Warn(component, "Invalid date format, using trailing window: date=%q", transferDate)
		end := c.now()
		return end.AddDate(0, 0, -fallbackWindowDays).Format("2006-01-02"), end.Format("2006-01-02")
	}

	return start.Format("2006-01-02"), start.AddDate(0, 0, searchWindowDays).Format("2006-01-02")
}

func (c *Client) searchGazettes(territoryID, since, until, query string, size int) ([]gazette, error) {
	const component = "QueridoDiarioClient"

	if size > 100 {
		size = 100
	}

	params := url.Values{}
	params.Set("territory_ids", territoryID)
	params.Set("published_since", since)
	params.Set("published_until", until)
	params.Set("querystring", query)
	params.Set("size", strconv.Itoa(size))

	endpoint := c.BaseURL + "?" + params.Encode()

	var decoded searchResponse
	err := c.retry.Do(func() error {
		c.governor.Wait()
		return c.getJSON(endpoint, &decoded)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(component, "Found %d gazettes: territory=%s query=%q", len(decoded.Gazettes), territoryID, query)
	return decoded.Gazettes, nil
}

// GetGazetteText fetches a gazette record and follows its txt_url for the
// full plain-text content.
func (c *Client) GetGazetteText(gazetteID string) (string, error) {
	var decoded gazette

	c.governor.Wait()
	if err := c.getJSON(c.BaseURL+"/"+url.PathEscape(gazetteID), &decoded); err != nil {
		return "", err
	}
	if decoded.TxtURL == "" {
		return "", fmt.Errorf("gazette %s has no text url", gazetteID)
	}

	c.governor.Wait()
	resp, err := c.http.Get(decoded.TxtURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, decoded.TxtURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) getJSON(endpoint string, target any) error {
	resp, err := c.http.Get(endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
