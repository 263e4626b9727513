package templates

import (
	"errors"
	"time"
)

// Standard cheque stock dimensions in millimeters, used to scale
// normalized layouts for banks without calibrated constants.
const (
	StandardWidthMM  = 202.0
	StandardHeightMM = 92.0
)

// Unit declares how a layout's coordinates are expressed.
type Unit string

const (
	// UnitMM marks calibrated absolute positions in millimeters.
	UnitMM Unit = "mm"
	// UnitPercent marks normalized positions scaled to the standard
	// cheque size at render time.
	UnitPercent Unit = "pct"
)

// Field names every layout positions on the cheque face.
const (
	FieldDate          = "date"
	FieldPayee         = "payee"
	FieldAmountWords   = "amount_words"
	FieldAmountFigures = "amount_figures"
	FieldACPayee       = "ac_payee"
	FieldSignature     = "signature"
)

// FieldPosition is one printed field's anchor point.
type FieldPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FontMetrics describes the typeface the renderer should use.
type FontMetrics struct {
	Family string  `json:"family"`
	SizePt float64 `json:"size_pt"`
}

// Config is the per-bank cheque layout. The printing collaborator reads
// it; the only write path is an explicit operator calibration.
type Config struct {
	BankName     string                   `json:"bank_name"`
	Unit         Unit                     `json:"unit"`
	Fields       map[string]FieldPosition `json:"fields"`
	Font         FontMetrics              `json:"font"`
	MICRCode     string                   `json:"micr_code,omitempty"`
	MICRPosition FieldPosition            `json:"micr_position"`
	Orientation  string                   `json:"orientation"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// FieldDelta is a millimeter offset correction for one field.
type FieldDelta struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

var (
	// ErrNotFound indicates no stored calibration for the bank.
	ErrNotFound = errors.New("templates: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("templates: invalid input")
)

// clone returns a deep copy so calibration never mutates a shared default.
func (c Config) clone() Config {
	fields := make(map[string]FieldPosition, len(c.Fields))
	for name, pos := range c.Fields {
		fields[name] = pos
	}
	c.Fields = fields
	return c
}
