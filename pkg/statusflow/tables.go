package statusflow

// Finite lookup tables mapping the hosted database layer's free-text labels
// to catalog codes. Each table has a documented default branch in the
// translator; do not scatter conditionals around these.

// productCodes maps dashboard product type labels to product codes.
// Unmapped labels pass through unchanged.
var productCodes = map[string]string{
	"Import LC":              "ILC",
	"Export LC":              "ELC",
	"Bank Guarantee":         "IBG",
	"Documentary Collection": "ODC",
	"BG":                     "OBG",
}

// eventCodes maps process type labels to event codes. Unmapped labels
// default to ISS.
var eventCodes = map[string]string{
	"Issuance":           "ISS",
	"Create":             "ISS",
	"Amendment":          "AMD",
	"Cancellation":       "CAN",
	"LC Transfer":        "TRF",
	"Assignment Request": "ASG",
}

// legacyCompletedStages maps flat pre-template statuses (lowercased) to the
// stage they imply was just completed.
var legacyCompletedStages = map[string]string{
	"submitted":       "Data Entry",
	"bank processing": "Data Entry",
	"limit checked":   "Limit Check",
	"checker reviewed": "Checker Review",
	"approved":        "Final Approval",
}
