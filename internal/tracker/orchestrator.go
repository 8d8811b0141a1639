package tracker

import (
	"strings"

	"github.com/rastraverba/etl/internal/config"
	"github.com/rastraverba/etl/internal/logger"
	"github.com/rastraverba/etl/internal/ratelimit"
	"github.com/rastraverba/etl/internal/tracker/types"
)

// Progress is reported every progressInterval processed rows.
const progressInterval = 10

// AmendmentSource is the richer, preferred listing (TransfereGov Emendas
// Pix).
type AmendmentSource interface {
	GetEmendasPix(year int) []types.Amendment
}

// FallbackSource is the legislature-records listing used when the preferred
// source yields nothing.
type FallbackSource interface {
	FetchAmendments(year int) []types.Amendment
}

// Tracer resolves the transfers an amendment produced.
type Tracer interface {
	Trace(amendmentID string, value float64) []types.Transfer
}

// Linker searches the gazette corpus for evidence around a transfer.
type Linker interface {
	LinkTransferToGazettes(ibgeCode, transferDate string, value float64) []types.GazetteMatch
}

// Persister writes the final linked table.
type Persister interface {
	Write(records []types.LinkedRecord) error
}

// Orchestrator sequences Fetch, Trace, Link and Persist. Every stage is
// total over its input rows: a row that gains no richer data is annotated
// with a status, never dropped.
type Orchestrator struct {
	cfg       config.Config
	pix       AmendmentSource
	fallback  FallbackSource
	tracer    Tracer
	linker    Linker
	persister Persister
	logger    *logger.Logger

	traceGovernor *ratelimit.Governor
	linkGovernor  *ratelimit.Governor
}

func NewOrchestrator(
	cfg config.Config,
	pix AmendmentSource,
	fallback FallbackSource,
	tracer Tracer,
	linker Linker,
	persister Persister,
	appLogger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:           cfg,
		pix:           pix,
		fallback:      fallback,
		tracer:        tracer,
		linker:        linker,
		persister:     persister,
		logger:        appLogger,
		traceGovernor: ratelimit.New(cfg.RequestsPerMinute),
		linkGovernor:  ratelimit.New(cfg.RequestsPerMinute),
	}
}

// Run executes the full pipeline and returns the records it persisted.
func (o *Orchestrator) Run() ([]types.LinkedRecord, error) {
	const component = "Orchestrator"

	var records []types.LinkedRecord

	if o.cfg.DryRun {
		o.logger.Info(component, "Dry run: using sample data")
		records = SampleRecords()
	} else {
		amendments := o.fetchAmendments()

		if len(amendments) == 0 {
			o.logger.Warn(component, "No emendas found, generating sample data")
			records = SampleRecords()
		} else {
			traced := o.traceTransfers(amendments)
			records = o.linkGazettes(traced)
		}
	}

	o.logSummary(records)

	if err := o.persister.Write(records); err != nil {
		return nil, err
	}
	return records, nil
}

// fetchAmendments tries the Emendas Pix listing first and falls back to the
// Câmara API when it is empty. The optional limit truncates after fetch.
func (o *Orchestrator) fetchAmendments() []types.Amendment {
	const component = "Orchestrator"

	o.logger.Info(component, "Fetching emendas: year=%d", o.cfg.Year)

	amendments := o.pix.GetEmendasPix(o.cfg.Year)
	if len(amendments) == 0 {
		o.logger.Info(component, "Falling back to Câmara API")
		amendments = o.fallback.FetchAmendments(o.cfg.Year)
	}

	if o.cfg.Limit > 0 && len(amendments) > o.cfg.Limit {
		amendments = amendments[:o.cfg.Limit]
	}

	o.logger.Info(component, "Found %d emendas", len(amendments))
	return amendments
}

// traceTransfers expands each amendment into its transfers, contiguously,
// preserving amendments with no resolvable transfer as not_found rows.
func (o *Orchestrator) traceTransfers(amendments []types.Amendment) []types.TracedTransfer {
	const component = "Orchestrator"

	o.logger.Info(component, "Tracing transfers")

	var traced []types.TracedTransfer
	for idx, amendment := range amendments {
		if amendment.ID != "" {
			o.traceGovernor.Wait()

			transfers := o.tracer.Trace(amendment.ID, amendment.Value)
			if len(transfers) > 0 {
				for _, t := range transfers {
					traced = append(traced, types.TracedTransfer{
						Amendment:   amendment,
						Transfer:    t,
						TraceStatus: types.TraceStatusOK,
					})
				}
			} else {
				// Keep the record even without a transfer trace.
				traced = append(traced, types.TracedTransfer{
					Amendment:   amendment,
					TraceStatus: types.TraceStatusNotFound,
				})
			}
		}

		if (idx+1)%progressInterval == 0 {
			o.logger.Info(component, "Processed %d/%d emendas", idx+1, len(amendments))
		}
	}

	return traced
}

// linkGazettes searches gazette evidence per traced transfer. Rows without
// a municipality code or date become missing_data; searches with no hits
// become no_gazette; each gazette hit becomes its own found row.
func (o *Orchestrator) linkGazettes(traced []types.TracedTransfer) []types.LinkedRecord {
	const component = "Orchestrator"

	o.logger.Info(component, "Linking to gazettes")

	var linked []types.LinkedRecord
	for idx, row := range traced {
		ibge := ""
		if row.Transfer.Executor != nil {
			ibge = row.Transfer.Executor.MunicipalityIBGE
		}
		transferDate := row.Date()

		if ibge == "" || transferDate == "" {
			record := flattenRow(row)
			record.LinkStatus = types.LinkStatusMissingData
			linked = append(linked, record)
		} else {
			o.linkGovernor.Wait()

			gazettes := o.linker.LinkTransferToGazettes(ibge, transferDate, row.LinkValue())
			if len(gazettes) > 0 {
				for _, gazette := range gazettes {
					record := flattenRow(row)
					attachGazette(&record, gazette)
					record.LinkStatus = types.LinkStatusFound
					linked = append(linked, record)
				}
			} else {
				record := flattenRow(row)
				record.LinkStatus = types.LinkStatusNoGazette
				linked = append(linked, record)
			}
		}

		if (idx+1)%progressInterval == 0 {
			o.logger.Info(component, "Linked %d/%d transfers", idx+1, len(traced))
		}
	}

	return linked
}

// flattenRow lays a traced transfer out as the final table row, without
// gazette evidence or link status.
func flattenRow(row types.TracedTransfer) types.LinkedRecord {
	record := types.LinkedRecord{
		AmendmentID:     row.Amendment.ID,
		AmendmentType:   row.Amendment.Type,
		AmendmentNumber: row.Amendment.Number,
		AmendmentAuthor: row.Amendment.Author,
		AuthorType:      row.Amendment.AuthorType,
		AmendmentValue:  row.Amendment.Value,
		AmendmentYear:   int32(row.Amendment.Year),

		TransferID:      row.Transfer.ID,
		TransferValue:   row.Transfer.Value,
		SignatureDate:   row.Transfer.SignatureDate,
		PublicationDate: row.Transfer.PublicationDate,
		TransferStatus:  row.Transfer.Status,
		TraceStatus:     row.TraceStatus,
	}

	if executor := row.Transfer.Executor; executor != nil {
		record.ExecutorName = executor.Name
		record.ExecutorCNPJ = executor.CNPJ
		record.MunicipalityName = executor.MunicipalityName
		record.MunicipalityIBGE = executor.MunicipalityIBGE
		record.UF = executor.UF
		record.Bank = executor.Bank
		record.Agency = executor.Agency
		record.Account = executor.Account
	}

	return record
}

// attachGazette folds one gazette match into a row. Only the first two
// excerpts travel into the table.
func attachGazette(record *types.LinkedRecord, gazette types.GazetteMatch) {
	excerpts := gazette.Excerpts
	if len(excerpts) > 2 {
		excerpts = excerpts[:2]
	}

	record.GazetteID = gazette.ID
	record.GazetteDate = gazette.Date
	record.GazetteURL = gazette.URL
	record.GazetteSourceURL = gazette.SourceURL
	record.CNPJsFound = strings.Join(gazette.CNPJsFound, ", ")
	record.EvidenceExcerpts = strings.Join(excerpts, " | ")
	record.ValueMentioned = gazette.ValueMentioned
}
