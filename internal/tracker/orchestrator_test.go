package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rastraverba/etl/internal/config"
	"github.com/rastraverba/etl/internal/logger"
	"github.com/rastraverba/etl/internal/tracker/types"
)

type fakePix struct{ amendments []types.Amendment }

func (f *fakePix) GetEmendasPix(year int) []types.Amendment { return f.amendments }

type fakeFallback struct {
	amendments []types.Amendment
	called     bool
}

func (f *fakeFallback) FetchAmendments(year int) []types.Amendment {
	f.called = true
	return f.amendments
}

type fakeTracer struct {
	transfers map[string][]types.Transfer
	order     []string
}

func (f *fakeTracer) Trace(amendmentID string, value float64) []types.Transfer {
	f.order = append(f.order, amendmentID)
	return f.transfers[amendmentID]
}

type fakeLinker struct{ matches map[string][]types.GazetteMatch }

func (f *fakeLinker) LinkTransferToGazettes(ibge, date string, value float64) []types.GazetteMatch {
	return f.matches[ibge]
}

type fakePersister struct {
	written []types.LinkedRecord
	err     error
}

func (f *fakePersister) Write(records []types.LinkedRecord) error {
	f.written = records
	return f.err
}

func quietLogger() *logger.Logger {
	return &logger.Logger{MinLevel: logger.LevelError}
}

func newTestOrchestrator(cfg config.Config, pix *fakePix, fb *fakeFallback, tr *fakeTracer, ln *fakeLinker, ps *fakePersister) *Orchestrator {
	cfg.RequestsPerMinute = 600000
	return NewOrchestrator(cfg, pix, fb, tr, ln, ps, quietLogger())
}

func executorFor(ibge string) *types.Executor {
	return &types.Executor{MunicipalityIBGE: ibge, MunicipalityName: "Cidade", UF: "SP"}
}

func TestRunEndToEndFoundPath(t *testing.T) {
	amendment := types.Amendment{ID: "EMD001", Author: "Deputado Exemplo Silva", Value: 500000, Year: 2024}
	pix := &fakePix{amendments: []types.Amendment{amendment}}
	tracer := &fakeTracer{transfers: map[string][]types.Transfer{
		"EMD001": {{
			AmendmentID:     "EMD001",
			ID:              "T1",
			Value:           500000,
			PublicationDate: "2024-01-15",
			Executor:        executorFor("3550308"),
		}},
	}}
	linker := &fakeLinker{matches: map[string][]types.GazetteMatch{
		"3550308": {{
			ID:             "gz1",
			Date:           "2024-01-20",
			SourceURL:      "https://queridodiario.ok.org.br/diario/3550308/2024-01-20",
			Excerpts:       []string{"CONTRATO Nº 001/2024", "500.000,00", "terceiro"},
			CNPJsFound:     []string{"12.345.678/0001-90"},
			ValueMentioned: true,
		}},
	}}
	persister := &fakePersister{}

	o := newTestOrchestrator(config.Config{Year: 2024}, pix, &fakeFallback{}, tracer, linker, persister)
	records, err := o.Run()

	require.NoError(t, err)
	require.Len(t, records, 1)

	row := records[0]
	assert.Equal(t, "EMD001", row.AmendmentID)
	assert.Equal(t, types.TraceStatusOK, row.TraceStatus)
	assert.Equal(t, "3550308", row.MunicipalityIBGE)
	assert.Equal(t, "12.345.678/0001-90", row.CNPJsFound)
	assert.True(t, row.ValueMentioned)
	assert.Equal(t, types.LinkStatusFound, row.LinkStatus)
	assert.Equal(t, "CONTRATO Nº 001/2024 | 500.000,00", row.EvidenceExcerpts, "two excerpts at most")
	assert.Equal(t, records, persister.written)
}

func TestRunNotFoundTraceBecomesMissingDataRow(t *testing.T) {
	pix := &fakePix{amendments: []types.Amendment{{ID: "EMD404", Author: "Autor", Value: 1000, Year: 2024}}}
	persister := &fakePersister{}

	o := newTestOrchestrator(config.Config{Year: 2024}, pix, &fakeFallback{}, &fakeTracer{}, &fakeLinker{}, persister)
	records, err := o.Run()

	require.NoError(t, err)
	require.Len(t, records, 1, "amendment without transfers is never dropped")

	row := records[0]
	assert.Equal(t, types.TraceStatusNotFound, row.TraceStatus)
	assert.Empty(t, row.ExecutorCNPJ)
	assert.Empty(t, row.MunicipalityIBGE)
	assert.Equal(t, types.LinkStatusMissingData, row.LinkStatus)
	assert.Equal(t, "Autor", row.AmendmentAuthor)
	assert.Equal(t, 1000.0, row.AmendmentValue)
}

func TestRunNoGazetteRow(t *testing.T) {
	pix := &fakePix{amendments: []types.Amendment{{ID: "E1", Value: 100, Year: 2024}}}
	tracer := &fakeTracer{transfers: map[string][]types.Transfer{
		"E1": {{AmendmentID: "E1", ID: "T1", SignatureDate: "2024-02-01", Executor: executorFor("3304557")}},
	}}
	persister := &fakePersister{}

	o := newTestOrchestrator(config.Config{Year: 2024}, pix, &fakeFallback{}, tracer, &fakeLinker{}, persister)
	records, err := o.Run()

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.LinkStatusNoGazette, records[0].LinkStatus)
}

func TestRunRowConservationAndOrdering(t *testing.T) {
	// Three amendments: one fans out to two transfers, one has no trace,
	// one has a transfer without an executor.
	pix := &fakePix{amendments: []types.Amendment{
		{ID: "A", Value: 1, Year: 2024},
		{ID: "B", Value: 2, Year: 2024},
		{ID: "C", Value: 3, Year: 2024},
	}}
	tracer := &fakeTracer{transfers: map[string][]types.Transfer{
		"A": {
			{AmendmentID: "A", ID: "A-T1", SignatureDate: "2024-01-01", Executor: executorFor("111")},
			{AmendmentID: "A", ID: "A-T2", SignatureDate: "2024-01-02", Executor: executorFor("222")},
		},
		"C": {{AmendmentID: "C", ID: "C-T1"}},
	}}
	persister := &fakePersister{}

	o := newTestOrchestrator(config.Config{Year: 2024}, pix, &fakeFallback{}, tracer, &fakeLinker{}, persister)
	records, err := o.Run()

	require.NoError(t, err)
	require.Len(t, records, 4, "fan-out plus not_found plus executorless rows all survive")

	assert.Equal(t, []string{"A", "B", "C"}, tracer.order, "upstream iteration order preserved")
	assert.Equal(t, []string{"A-T1", "A-T2", "", "C-T1"}, []string{
		records[0].TransferID, records[1].TransferID, records[2].TransferID, records[3].TransferID,
	}, "expanded rows for one amendment stay contiguous")

	assert.Equal(t, types.LinkStatusNoGazette, records[0].LinkStatus)
	assert.Equal(t, types.LinkStatusNoGazette, records[1].LinkStatus)
	assert.Equal(t, types.LinkStatusMissingData, records[2].LinkStatus, "no trace means no municipality")
	assert.Equal(t, types.LinkStatusMissingData, records[3].LinkStatus, "transfer without executor or date")
}

func TestRunFallsBackToCamaraWhenPixEmpty(t *testing.T) {
	fallback := &fakeFallback{amendments: []types.Amendment{{ID: "F1", Year: 2024}}}
	persister := &fakePersister{}

	o := newTestOrchestrator(config.Config{Year: 2024}, &fakePix{}, fallback, &fakeTracer{}, &fakeLinker{}, persister)
	records, err := o.Run()

	require.NoError(t, err)
	assert.True(t, fallback.called)
	require.Len(t, records, 1)
	assert.Equal(t, "F1", records[0].AmendmentID)
}

func TestRunLimitTruncatesAfterFetch(t *testing.T) {
	pix := &fakePix{amendments: []types.Amendment{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	persister := &fakePersister{}

	o := newTestOrchestrator(config.Config{Year: 2024, Limit: 2}, pix, &fakeFallback{}, &fakeTracer{}, &fakeLinker{}, persister)
	records, err := o.Run()

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRunDryRunUsesSampleData(t *testing.T) {
	tracer := &fakeTracer{}
	persister := &fakePersister{}

	o := newTestOrchestrator(config.Config{DryRun: true}, &fakePix{}, &fakeFallback{}, tracer, &fakeLinker{}, persister)
	records, err := o.Run()

	require.NoError(t, err)
	assert.Empty(t, tracer.order, "dry run never touches live stages")
	assert.Equal(t, SampleRecords(), records)
	assert.Equal(t, records, persister.written, "persist still runs in dry-run mode")
}

func TestRunEmptyLiveFetchDegradesToSample(t *testing.T) {
	persister := &fakePersister{}

	o := newTestOrchestrator(config.Config{Year: 2024}, &fakePix{}, &fakeFallback{}, &fakeTracer{}, &fakeLinker{}, persister)
	records, err := o.Run()

	require.NoError(t, err)
	assert.Equal(t, SampleRecords(), records)
}

func TestRunSurfacesPersistError(t *testing.T) {
	persister := &fakePersister{err: errors.New("disk full")}

	o := newTestOrchestrator(config.Config{DryRun: true}, &fakePix{}, &fakeFallback{}, &fakeTracer{}, &fakeLinker{}, persister)
	_, err := o.Run()

	assert.EqualError(t, err, "disk full")
}

func TestSummarize(t *testing.T) {
	s := summarize(SampleRecords())

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Found)
	assert.Equal(t, 1, s.NoGazette)
	assert.Equal(t, 0, s.MissingData)
	assert.Equal(t, 1500000.0, s.TotalValue)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, runSummary{}, summarize(nil))
}
