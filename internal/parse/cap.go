package parse

import (
	"strings"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

var capSentinels = map[string]string{
	"uncapped":  "Uncapped",
	"no cap":    "Uncapped",
	"unlimited": "Uncapped",
	"n/a":       "N/A",
	"na":        "N/A",
	"tbc":       "TBC",
	"tbd":       "TBC",
}

// Cap parses a daily cap cell. Known sentinel words are kept as labels;
// anything else that is not a number is kept verbatim as a label.
func Cap(v any) models.Cap {
	raw := text(v)
	if isBlank(raw) {
		return models.Cap{Label: "N/A"}
	}
	if label, ok := capSentinels[strings.ToLower(raw)]; ok {
		return models.Cap{Label: label}
	}
	amount, err := Currency(raw)
	if err != nil {
		return models.Cap{Label: raw}
	}
	return models.Cap{Amount: amount}
}
