package tracker

import "github.com/rastraverba/etl/internal/tracker/types"

// SampleRecords returns the fixed development dataset used by dry runs and
// as the degraded output when the live fetch comes back empty. It exercises
// the full column set so downstream consumers can be validated without API
// cost.
func SampleRecords() []types.LinkedRecord {
	return []types.LinkedRecord{
		{
			AmendmentID:      "EMD001",
			AmendmentAuthor:  "Deputado Exemplo Silva",
			AmendmentValue:   500000.00,
			AmendmentYear:    2024,
			TraceStatus:      types.TraceStatusOK,
			MunicipalityName: "São Paulo",
			MunicipalityIBGE: "3550308",
			UF:               "SP",
			ExecutorCNPJ:     "12.345.678/0001-90",
			PublicationDate:  "2024-01-15",
			GazetteURL:       "https://queridodiario.ok.org.br/diario/3550308/2024-01-20",
			CNPJsFound:       "12.345.678/0001-90, 98.765.432/0001-10",
			EvidenceExcerpts: "CONTRATO Nº 001/2024 - Objeto: Pavimentação",
			ValueMentioned:   true,
			LinkStatus:       types.LinkStatusFound,
		},
		{
			AmendmentID:      "EMD002",
			AmendmentAuthor:  "Deputado Teste Oliveira",
			AmendmentValue:   250000.00,
			AmendmentYear:    2024,
			TraceStatus:      types.TraceStatusOK,
			MunicipalityName: "Rio de Janeiro",
			MunicipalityIBGE: "3304557",
			UF:               "RJ",
			ExecutorCNPJ:     "11.222.333/0001-44",
			PublicationDate:  "2024-02-10",
			GazetteURL:       "https://queridodiario.ok.org.br/diario/3304557/2024-02-15",
			CNPJsFound:       "11.222.333/0001-44",
			EvidenceExcerpts: "PREGÃO ELETRÔNICO Nº 015/2024",
			LinkStatus:       types.LinkStatusFound,
		},
		{
			AmendmentID:      "EMD003",
			AmendmentAuthor:  "Deputado Demo Santos",
			AmendmentValue:   750000.00,
			AmendmentYear:    2024,
			TraceStatus:      types.TraceStatusOK,
			MunicipalityName: "Belo Horizonte",
			MunicipalityIBGE: "3106200",
			UF:               "MG",
			ExecutorCNPJ:     "55.666.777/0001-88",
			PublicationDate:  "2024-03-01",
			LinkStatus:       types.LinkStatusNoGazette,
		},
	}
}
