package types

// TraceStatus / LinkStatus values carried on rows instead of dropping them.
const (
	TraceStatusOK       = "ok"
	TraceStatusNotFound = "not_found"

	LinkStatusFound       = "found"
	LinkStatusNoGazette   = "no_gazette"
	LinkStatusMissingData = "missing_data"
)

// Amendment is one parliamentary budget amendment as fetched from either the
// TransfereGov emendas-pix endpoint or the Câmara proposições API. Immutable
// once fetched.
type Amendment struct {
	ID         string
	Type       string
	Number     string
	Year       int
	Author     string
	AuthorType string
	Value      float64
}

// Executor is the receiving entity (bank account + municipality) bound to a
// transfer. MunicipalityIBGE is the join key into the gazette corpus.
type Executor struct {
	Name             string
	CNPJ             string
	MunicipalityName string
	MunicipalityIBGE string
	UF               string
	Bank             string
	Agency           string
	Account          string
}

// Transfer is one disbursement event produced by an amendment. Executor is
// nil when the upstream trace has no executing-entity record.
type Transfer struct {
	AmendmentID     string
	ID              string
	Value           float64
	SignatureDate   string
	PublicationDate string
	Status          string
	Executor        *Executor
}

// TracedTransfer pairs a Transfer with the amendment it came from, carried
// through the pipeline so no stage loses amendment context. A placeholder
// with an empty Transfer and TraceStatusNotFound stands in when no transfer
// was resolvable.
type TracedTransfer struct {
	Amendment   Amendment
	Transfer    Transfer
	TraceStatus string
}

// Date reports the date used for gazette linking: publication date when
// present, signature date otherwise.
func (t TracedTransfer) Date() string {
	if t.Transfer.PublicationDate != "" {
		return t.Transfer.PublicationDate
	}
	return t.Transfer.SignatureDate
}

// LinkValue reports the monetary value used for gazette evidence matching:
// the transfer value when present, the amendment value otherwise.
func (t TracedTransfer) LinkValue() float64 {
	if t.Transfer.Value != 0 {
		return t.Transfer.Value
	}
	return t.Amendment.Value
}

// GazetteMatch is one gazette found in the transfer's search window, with
// the identifiers extracted from its excerpts. Computed fresh per run.
type GazetteMatch struct {
	ID             string
	TerritoryID    string
	TerritoryName  string
	Date           string
	URL            string
	TxtURL         string
	Excerpts       []string
	CNPJsFound     []string
	ValueMentioned bool
	SourceURL      string
}

// LinkedRecord is the final flattened row: amendment + transfer + executor +
// gazette evidence + status discriminants. Field tags drive the parquet
// schema; every string column is dictionary-encoded and the whole file is
// snappy-compressed for the web-facing reader.
type LinkedRecord struct {
	AmendmentID     string  `parquet:"emenda_id,dict,snappy"`
	AmendmentType   string  `parquet:"emenda_tipo,dict,snappy"`
	AmendmentNumber string  `parquet:"emenda_numero,dict,snappy"`
	AmendmentAuthor string  `parquet:"emenda_autor,dict,snappy"`
	AuthorType      string  `parquet:"autor_tipo,dict,snappy"`
	AmendmentValue  float64 `parquet:"emenda_valor,snappy"`
	AmendmentYear   int32   `parquet:"emenda_ano,snappy"`

	TransferID      string  `parquet:"transferencia_id,dict,snappy"`
	TransferValue   float64 `parquet:"valor,snappy"`
	SignatureDate   string  `parquet:"data_assinatura,dict,snappy"`
	PublicationDate string  `parquet:"data_publicacao,dict,snappy"`
	TransferStatus  string  `parquet:"situacao,dict,snappy"`
	TraceStatus     string  `parquet:"trace_status,dict,snappy"`

	ExecutorName     string `parquet:"executor_nome,dict,snappy"`
	ExecutorCNPJ     string `parquet:"executor_cnpj,dict,snappy"`
	MunicipalityName string `parquet:"municipio_nome,dict,snappy"`
	MunicipalityIBGE string `parquet:"municipio_ibge,dict,snappy"`
	UF               string `parquet:"uf,dict,snappy"`
	Bank             string `parquet:"banco,dict,snappy"`
	Agency           string `parquet:"agencia,dict,snappy"`
	Account          string `parquet:"conta,dict,snappy"`

	GazetteID        string `parquet:"gazette_id,dict,snappy"`
	GazetteDate      string `parquet:"gazette_date,dict,snappy"`
	GazetteURL       string `parquet:"gazette_url,dict,snappy"`
	GazetteSourceURL string `parquet:"gazette_source_url,dict,snappy"`
	CNPJsFound       string `parquet:"cnpjs_encontrados,dict,snappy"`
	EvidenceExcerpts string `parquet:"evidencia_excerpts,snappy"`
	ValueMentioned   bool   `parquet:"value_mentioned,snappy"`

	LinkStatus string `parquet:"link_status,dict,snappy"`
}
