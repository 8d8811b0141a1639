package camara

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rastraverba/etl/internal/logger"
	"github.com/rastraverba/etl/internal/ratelimit"
	"github.com/rastraverba/etl/internal/tracker/types"
)

const DefaultBaseURL = "https://dadosabertos.camara.leg.br/api/v2"

// Amendment proposition type codes accepted by the proposições endpoint.
const amendmentTypeCodes = "EMC,EMP,EMR,EMS"

const (
	itemsPerPage = 100
	// Safety bound on pagination. When hit, the client logs and stops with
	// whatever it has instead of fetching the full corpus.
	maxPages = 10
)

// Client fetches parliamentary amendments from the Câmara dos Deputados open
// data API. It is the fallback Amendment Source when TransfereGov yields
// nothing.
type Client struct {
	BaseURL  string
	http     *http.Client
	governor *ratelimit.Governor
	logger   *logger.Logger
}

func New(governor *ratelimit.Governor, appLogger *logger.Logger) *Client {
	return &Client{
		BaseURL:  DefaultBaseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		governor: governor,
		logger:   appLogger,
	}
}

type proposicao struct {
	ID        int64  `json:"id"`
	SiglaTipo string `json:"siglaTipo"`
	Numero    int    `json:"numero"`
	Ano       int    `json:"ano"`
	Ementa    string `json:"ementa"`
}

type proposicoesResponse struct {
	Dados []proposicao `json:"dados"`
}

type autor struct {
	Nome string `json:"nome"`
	Tipo string `json:"tipo"`
	URI  string `json:"uri"`
}

type autoresResponse struct {
	Dados []autor `json:"dados"`
}

// DeputyDetails carries the civil name and current party/state of a deputy.
type DeputyDetails struct {
	ID    int64
	Name  string
	Party string
	UF    string
}

// FetchAmendments pages through the proposições endpoint ascending by id and
// augments each item with a best-effort first-author lookup. It returns an
// empty slice on persistent upstream failure, never an error.
func (c *Client) FetchAmendments(year int) []types.Amendment {
	const component = "CamaraClient"

	var amendments []types.Amendment
	page := 1

	c.logger.Info(component, "Fetching emendas: year=%d", year)

	for {
		c.governor.Wait()

		items, err := c.fetchPage(year, page)
		if err != nil {
			c.logger.Error(component, "Failed to fetch page: page=%d error=%v", page, err)
			break
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			amendment := types.Amendment{
				ID:     strconv.FormatInt(item.ID, 10),
				Type:   item.SiglaTipo,
				Number: strconv.Itoa(item.Numero),
				Year:   item.Ano,
			}

			// First author only; a failed lookup leaves the fields empty.
			if author, ok := c.fetchAuthor(item.ID); ok {
				amendment.Author = author.Nome
				amendment.AuthorType = author.Tipo
			}

			amendments = append(amendments, amendment)
		}

		c.logger.Info(component, "Fetched page: page=%d totalItems=%d", page, len(amendments))
		page++

		if page > maxPages {
			c.logger.Warn(component, "Reached page limit, stopping fetch: maxPages=%d", maxPages)
			break
		}
	}

	return amendments
}

func (c *Client) fetchPage(year, page int) ([]proposicao, error) {
	params := url.Values{}
	params.Set("siglaTipo", amendmentTypeCodes)
	params.Set("ano", strconv.Itoa(year))
	params.Set("pagina", strconv.Itoa(page))
	params.Set("itens", strconv.Itoa(itemsPerPage))
	params.Set("ordem", "ASC")
	params.Set("ordenarPor", "id")

	var decoded proposicoesResponse
	if err := c.getJSON(c.BaseURL+"/proposicoes?"+params.Encode(), &decoded); err != nil {
		return nil, err
	}
	return decoded.Dados, nil
}

func (c *Client) fetchAuthor(proposicaoID int64) (autor, bool) {
	const component = "CamaraClient"

	var decoded autoresResponse
	endpoint := fmt.Sprintf("%s/proposicoes/%d/autores", c.BaseURL, proposicaoID)
	if err := c.getJSON(endpoint, &decoded); err != nil {
		c.logger.Debug(component, "Could not fetch author: proposicaoId=%d error=%v", proposicaoID, err)
		return autor{}, false
	}
	if len(decoded.Dados) == 0 {
		return autor{}, false
	}
	return decoded.Dados[0], true
}

// FetchDeputyDetails looks up a deputy's civil name and current mandate.
func (c *Client) FetchDeputyDetails(deputadoID int64) (*DeputyDetails, error) {
	var decoded struct {
		Dados struct {
			ID           int64  `json:"id"`
			NomeCivil    string `json:"nomeCivil"`
			UltimoStatus struct {
				SiglaPartido string `json:"siglaPartido"`
				SiglaUf      string `json:"siglaUf"`
			} `json:"ultimoStatus"`
		} `json:"dados"`
	}

	endpoint := fmt.Sprintf("%s/deputados/%d", c.BaseURL, deputadoID)
	if err := c.getJSON(endpoint, &decoded); err != nil {
		return nil, err
	}

	return &DeputyDetails{
		ID:    decoded.Dados.ID,
		Name:  decoded.Dados.NomeCivil,
		Party: decoded.Dados.UltimoStatus.SiglaPartido,
		UF:    decoded.Dados.UltimoStatus.SiglaUf,
	}, nil
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
