package tracker

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rastraverba/etl/internal/tracker/types"
	"github.com/rastraverba/etl/internal/tracker/utils"
)

// runSummary aggregates the final table for the end-of-run log line.
type runSummary struct {
	Total       int
	Found       int
	NoGazette   int
	MissingData int
	TotalValue  float64
}

// summarize folds the linked table into per-status counts via a dataframe.
func summarize(records []types.LinkedRecord) runSummary {
	if len(records) == 0 {
		return runSummary{}
	}

	df := dataframe.LoadStructs(records)
	if df.Error() != nil {
		return runSummary{Total: len(records)}
	}

	countByStatus := func(status string) int {
		return df.Filter(dataframe.F{
			Colname:    "LinkStatus",
			Comparator: series.Eq,
			Comparando: status,
		}).Nrow()
	}

	summary := runSummary{
		Total:       df.Nrow(),
		Found:       countByStatus(types.LinkStatusFound),
		NoGazette:   countByStatus(types.LinkStatusNoGazette),
		MissingData: countByStatus(types.LinkStatusMissingData),
	}

	values := df.Col("AmendmentValue")
	if values.Err == nil {
		summary.TotalValue = values.Sum()
	}

	return summary
}

func (o *Orchestrator) logSummary(records []types.LinkedRecord) {
	const component = "RunSummary"

	s := summarize(records)
	o.logger.Info(component, "Rows=%d found=%d noGazette=%d missingData=%d totalEmendaValue=%s",
		s.Total, s.Found, s.NoGazette, s.MissingData, utils.FormatCurrencyBRL(s.TotalValue))
}
