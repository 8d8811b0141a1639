package queridodiario

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rastraverba/etl/internal/logger"
	"github.com/rastraverba/etl/internal/ratelimit"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(ratelimit.New(600000), &logger.Logger{MinLevel: logger.LevelError})
	c.BaseURL = srv.URL
	c.http = srv.Client()
	c.retry.MaxAttempts = 1
	return c
}

func TestNormalizeCNPJ(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "punctuated", input: "12.345.678/0001-90", want: "12.345.678/0001-90", ok: true},
		{name: "bare digits", input: "12345678000190", want: "12.345.678/0001-90", ok: true},
		{name: "partial punctuation", input: "12.345.678000190", want: "12.345.678/0001-90", ok: true},
		{name: "too short", input: "1234567890", ok: false},
		{name: "too long", input: "123456780001901", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeCNPJ(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeCNPJIdempotent(t *testing.T) {
	once, ok := NormalizeCNPJ("98765432000110")
	require.True(t, ok)
	twice, ok := NormalizeCNPJ(once)
	require.True(t, ok)
	assert.Equal(t, once, twice)
}

func TestExtractCNPJs(t *testing.T) {
	text := "CONTRATO Nº 001/2024 firmado com 12.345.678/0001-90 e com a empresa " +
		"98765432000110. Menção repetida: 12.345.678/0001-90. CPF 123.456.789-09 ignorado."

	got := ExtractCNPJs(text)

	assert.Equal(t, []string{"12.345.678/0001-90", "98.765.432/0001-10"}, got)
}

func TestExtractCNPJsIgnoresNonHeadOfficeBranch(t *testing.T) {
	// Fourth group pinned to 0001; branch 0002 must not match.
	got := ExtractCNPJs("fornecedor 12.345.678/0002-71")
	assert.Empty(t, got)
}

func TestExtractCNPJsEmptyText(t *testing.T) {
	assert.Empty(t, ExtractCNPJs(""))
}

func TestSearchWindow(t *testing.T) {
	c := New(ratelimit.New(60), &logger.Logger{MinLevel: logger.LevelError})
	c.now = func() time.Time { return time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC) }

	since, until := c.searchWindow("2024-01-15")
	assert.Equal(t, "2024-01-15", since)
	assert.Equal(t, "2024-04-14", until)

	// Unparseable date falls back to the trailing 180 days.
	since, until = c.searchWindow("not-a-date")
	assert.Equal(t, "2024-01-02", since)
	assert.Equal(t, "2024-06-30", until)
}

func TestLinkTransferToGazettesExtractsEvidence(t *testing.T) {
	served := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		assert.Equal(t, "3550308", r.URL.Query().Get("territory_ids"))
		assert.Equal(t, "20", r.URL.Query().Get("size"))
		if r.URL.Query().Get("querystring") != "Contrato" {
			fmt.Fprint(w, `{"gazettes":[]}`)
			return
		}
		fmt.Fprint(w, `{"gazettes":[{
			"id":"gz1","territory_id":"3550308","territory_name":"São Paulo",
			"date":"2024-01-20","url":"https://example.org/gz1","txt_url":"https://example.org/gz1.txt",
			"excerpts":["CONTRATO Nº 001/2024 - Objeto: Pavimentação, valor R$ 500.000,00, contratada 12.345.678/0001-90","segundo trecho","terceiro trecho","quarto trecho"]
		}]}`)
	})

	c := newTestClient(t, handler)
	got := c.LinkTransferToGazettes("3550308", "2024-01-15", 500000)

	assert.Equal(t, len(searchQueries), served, "one search per query term")
	require.Len(t, got, 1)

	match := got[0]
	assert.Equal(t, "gz1", match.ID)
	assert.Len(t, match.Excerpts, 3, "excerpts bounded")
	assert.Equal(t, []string{"12.345.678/0001-90"}, match.CNPJsFound)
	assert.True(t, match.ValueMentioned)
	assert.Equal(t, "https://queridodiario.ok.org.br/diario/3550308/2024-01-20", match.SourceURL)
}

func TestLinkTransferToGazettesDeduplicatesAcrossTerms(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Same gazette returned for every term.
		fmt.Fprint(w, `{"gazettes":[{"id":"gz1","territory_id":"3106200","date":"2024-03-05","excerpts":["Pregão"]}]}`)
	})

	c := newTestClient(t, handler)
	got := c.LinkTransferToGazettes("3106200", "2024-03-01", 0)

	assert.Len(t, got, 1)
}

func TestLinkTransferToGazettesEmptyWhenAllSearchesFail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	got := c.LinkTransferToGazettes("3550308", "2024-01-15", 500000)
	assert.Empty(t, got)
}

func TestValueMentioned(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value float64
		want  bool
	}{
		{name: "brazilian rendering", text: "no valor de 500.000,00 reais", value: 500000, want: true},
		{name: "plain integer truncation", text: "valor global 250000 contratado", value: 250000.75, want: true},
		{name: "absent", text: "nenhuma menção", value: 500000, want: false},
		{name: "zero value never matches", text: "0", value: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valueMentioned(tt.text, tt.value))
		})
	}
}

func TestGetGazetteText(t *testing.T) {
	mux := http.NewServeMux()
	var base string
	mux.HandleFunc("/gz9", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":"gz9","txt_url":"%s/gz9.txt"}`, base)
	})
	mux.HandleFunc("/gz9.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "conteúdo integral do diário")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	base = srv.URL

	c := New(ratelimit.New(600000), &logger.Logger{MinLevel: logger.LevelError})
	c.BaseURL = srv.URL
	c.http = srv.Client()

	text, err := c.GetGazetteText("gz9")
	require.NoError(t, err)
	assert.Equal(t, "conteúdo integral do diário", text)
}

func TestGetGazetteTextNoTxtURL(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"gz0"}`)
	}))

	_, err := c.GetGazetteText("gz0")
	assert.Error(t, err)
}
