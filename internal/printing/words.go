package printing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var figuresPrinter = message.NewPrinter(language.MustParse("en-IN"))

// AmountFigures formats an amount with Indian digit grouping, the form
// printed in the cheque's amount box.
func AmountFigures(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return figuresPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}

var onesWords = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen"}

var tensWords = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty",
	"Seventy", "Eighty", "Ninety"}

func twoDigitWords(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}

func threeDigitWords(n int64) string {
	if n < 100 {
		return twoDigitWords(n)
	}
	s := onesWords[n/100] + " Hundred"
	if n%100 != 0 {
		s += " " + twoDigitWords(n%100)
	}
	return s
}

// integerWords spells an integer in the Indian crore/lakh system.
func integerWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, integerWords(crore)+" Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, twoDigitWords(lakh)+" Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, twoDigitWords(thousand)+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, threeDigitWords(n))
	}
	return strings.Join(parts, " ")
}

// AmountInWords spells an amount the way it is written on a cheque's
// amount line.
func AmountInWords(d decimal.Decimal) string {
	d = d.Abs().Round(2)
	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	s := integerWords(rupees) + " Rupees"
	if paise > 0 {
		s += " and " + twoDigitWords(paise) + " Paise"
	}
	return s + " Only"
}
