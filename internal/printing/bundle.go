package printing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/khata-erp/khata-erp/internal/templates"
)

// RenderBundle is everything the printing collaborator needs to lay out
// one physical cheque. The engine resolves it; rendering happens outside.
type RenderBundle struct {
	PayeeName     string           `json:"payee_name"`
	Amount        decimal.Decimal  `json:"amount"`
	AmountFigures string           `json:"amount_figures"`
	AmountWords   string           `json:"amount_words"`
	ChequeDate    time.Time        `json:"cheque_date"`
	LeafNumber    int64            `json:"leaf_number"`
	IsACPayee     bool             `json:"is_ac_payee"`
	Template      templates.Config `json:"template"`
}

// newRenderBundle assembles the bundle from a staged item, its reserved
// leaf and the bank's resolved layout.
func newRenderBundle(item QueueItem, leaf int64, tmpl templates.Config) RenderBundle {
	return RenderBundle{
		PayeeName:     item.PayeeName,
		Amount:        item.Amount,
		AmountFigures: AmountFigures(item.Amount),
		AmountWords:   AmountInWords(item.Amount),
		ChequeDate:    item.ChequeDate,
		LeafNumber:    leaf,
		IsACPayee:     item.IsACPayee,
		Template:      tmpl,
	}
}
