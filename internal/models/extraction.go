package models

import "time"

// Extraction holds the structured data pulled out of one publication by the
// language model. JSON field names match the payload the prompt asks for.
type Extraction struct {
	CaseNumber        string   `json:"numero_processo"`
	Client            string   `json:"cliente"`
	ActType           string   `json:"tipo_ato"`
	Court             string   `json:"tribunal"`
	Venue             string   `json:"vara"`
	DeadlineMentioned string   `json:"prazo_mencionado"`
	DeadlineImplicit  bool     `json:"prazo_implicito"`
	DeadlineDays      int      `json:"prazo_dias"`
	Summary           []string `json:"resumo_topicos"`
	Urgent            bool     `json:"urgente"`
	Notes             string   `json:"observacoes"`
	Confidence        float64  `json:"confianca"`

	// Computed after parsing, never sent to or received from the model.
	Deadline time.Time `json:"-"`
	Provider string    `json:"-"`
}

// Card represents a created task card in the remote board
type Card struct {
	ID    string
	URL   string
	Title string
}
