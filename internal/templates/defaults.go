package templates

// factoryDefaults holds calibrated constants for cheque stocks the
// business prints on regularly. Positions are millimeters from the top
// left corner of a landscape cheque.
var factoryDefaults = map[string]Config{
	"SBI": {
		BankName: "SBI",
		Unit:     UnitMM,
		Fields: map[string]FieldPosition{
			FieldDate:          {X: 160, Y: 10},
			FieldPayee:         {X: 22, Y: 24},
			FieldAmountWords:   {X: 30, Y: 34},
			FieldAmountFigures: {X: 158, Y: 36},
			FieldACPayee:       {X: 18, Y: 8},
			FieldSignature:     {X: 150, Y: 70},
		},
		Font:         FontMetrics{Family: "Courier", SizePt: 11},
		MICRPosition: FieldPosition{X: 60, Y: 86},
		Orientation:  "landscape",
	},
	"HDFC": {
		BankName: "HDFC",
		Unit:     UnitMM,
		Fields: map[string]FieldPosition{
			FieldDate:          {X: 162, Y: 9},
			FieldPayee:         {X: 20, Y: 22},
			FieldAmountWords:   {X: 28, Y: 33},
			FieldAmountFigures: {X: 156, Y: 35},
			FieldACPayee:       {X: 16, Y: 7},
			FieldSignature:     {X: 152, Y: 68},
		},
		Font:         FontMetrics{Family: "Courier", SizePt: 11},
		MICRPosition: FieldPosition{X: 58, Y: 85},
		Orientation:  "landscape",
	},
	"ICICI": {
		BankName: "ICICI",
		Unit:     UnitMM,
		Fields: map[string]FieldPosition{
			FieldDate:          {X: 159, Y: 11},
			FieldPayee:         {X: 21, Y: 23},
			FieldAmountWords:   {X: 29, Y: 35},
			FieldAmountFigures: {X: 157, Y: 37},
			FieldACPayee:       {X: 17, Y: 8},
			FieldSignature:     {X: 151, Y: 71},
		},
		Font:         FontMetrics{Family: "Courier", SizePt: 11},
		MICRPosition: FieldPosition{X: 59, Y: 86},
		Orientation:  "landscape",
	},
}

// FactoryDefaults returns the calibrated constants for a known bank. An
// unrecognised bank gets a conservative normalized layout scaled to the
// standard cheque size by the renderer.
func FactoryDefaults(bankName string) Config {
	if cfg, ok := factoryDefaults[bankName]; ok {
		return cfg.clone()
	}
	return Config{
		BankName: bankName,
		Unit:     UnitPercent,
		Fields: map[string]FieldPosition{
			FieldDate:          {X: 0.78, Y: 0.10},
			FieldPayee:         {X: 0.10, Y: 0.26},
			FieldAmountWords:   {X: 0.14, Y: 0.38},
			FieldAmountFigures: {X: 0.77, Y: 0.40},
			FieldACPayee:       {X: 0.08, Y: 0.08},
			FieldSignature:     {X: 0.74, Y: 0.76},
		},
		Font:         FontMetrics{Family: "Courier", SizePt: 11},
		MICRPosition: FieldPosition{X: 0.30, Y: 0.93},
		Orientation:  "landscape",
	}
}
