package transferegov

import (
	"encoding/json"

	"github.com/rastraverba/etl/internal/tracker/types"
)

// The two transfer endpoints answer with different field names for the same
// concepts. Each shape gets its own decode struct and an explicit normalize
// method to the canonical Transfer instead of probing optional keys inline.

type normalizedTransfer struct {
	transfer   types.Transfer
	convenioID string
}

// emendaTransfersResponse is the /emendas/{id}/transferencias shape: value
// under "valor", convenio under "convenioId".
type emendaTransfersResponse struct {
	Data []emendaTransfer `json:"data"`
}

type emendaTransfer struct {
	ID             json.Number `json:"id"`
	ConvenioID     json.Number `json:"convenioId"`
	Valor          float64     `json:"valor"`
	DataAssinatura string      `json:"dataAssinatura"`
	DataPublicacao string      `json:"dataPublicacao"`
	Situacao       string      `json:"situacao"`
}

func (t emendaTransfer) normalize(amendmentID string) normalizedTransfer {
	convenioID := t.ConvenioID.String()
	if convenioID == "" {
		convenioID = t.ID.String()
	}
	return normalizedTransfer{
		transfer: types.Transfer{
			AmendmentID:     amendmentID,
			ID:              t.ID.String(),
			Value:           t.Valor,
			SignatureDate:   t.DataAssinatura,
			PublicationDate: t.DataPublicacao,
			Status:          t.Situacao,
		},
		convenioID: convenioID,
	}
}

// genericTransfersResponse is the /transferencias listing shape: value under
// "valorTotal", the convenio id doubling as the record id.
type genericTransfersResponse struct {
	Data []genericTransfer `json:"data"`
}

type genericTransfer struct {
	ID             json.Number `json:"id"`
	ValorTotal     float64     `json:"valorTotal"`
	DataAssinatura string      `json:"dataAssinatura"`
	DataPublicacao string      `json:"dataPublicacao"`
	Situacao       string      `json:"situacao"`
}

func (t genericTransfer) normalize(amendmentID string) normalizedTransfer {
	return normalizedTransfer{
		transfer: types.Transfer{
			AmendmentID:     amendmentID,
			ID:              t.ID.String(),
			Value:           t.ValorTotal,
			SignatureDate:   t.DataAssinatura,
			PublicationDate: t.DataPublicacao,
			Status:          t.Situacao,
		},
		convenioID: t.ID.String(),
	}
}

type emendasPixResponse struct {
	Data []emendaPix `json:"data"`
}

type emendaPix struct {
	ID     json.Number `json:"id"`
	Numero json.Number `json:"numero"`
	Autor  string      `json:"autor"`
	Valor  float64     `json:"valor"`
	Ano    int         `json:"ano"`
	Tipo   string      `json:"tipo"`
}

func (e emendaPix) normalize() types.Amendment {
	return types.Amendment{
		ID:     e.ID.String(),
		Type:   e.Tipo,
		Number: e.Numero.String(),
		Year:   e.Ano,
		Author: e.Autor,
		Value:  e.Valor,
	}
}

type executorResponse struct {
	Data executorRecord `json:"data"`
}

type executorRecord struct {
	Nome       string      `json:"nome"`
	CNPJ       string      `json:"cnpj"`
	Municipio  string      `json:"municipio"`
	CodigoIbge json.Number `json:"codigoIbge"`
	UF         string      `json:"uf"`
	Banco      string      `json:"banco"`
	Agencia    string      `json:"agencia"`
	Conta      string      `json:"conta"`
}

func (e executorRecord) normalize() *types.Executor {
	return &types.Executor{
		Name:             e.Nome,
		CNPJ:             e.CNPJ,
		MunicipalityName: e.Municipio,
		MunicipalityIBGE: e.CodigoIbge.String(),
		UF:               e.UF,
		Bank:             e.Banco,
		Agency:           e.Agencia,
		Account:          e.Conta,
	}
}
