package renderer

// Labels are the localized texts of reports.
type Labels struct {
	Report               string
	Generated            string
	Portfolio            string
	Ticker               string
	Currency             string
	Quantity             string
	AveragePrice         string
	InvestedAmount       string
	MarketValue          string
	ProfitAndLoss        string
	ProfitAndLossPercent string
	Deposits             string
	Withdrawals          string
	Costs                string
	Totals               string
	Transactions         string
	Date                 string
	Type                 string
	Price                string
	Fee                  string
	Valuation            string
	TransferID           string
}

var labels = map[string]Labels{
	"en": {
		Report:               "Positions",
		Generated:            "Generated",
		Portfolio:            "Portfolio",
		Ticker:               "Ticker",
		Currency:             "Currency",
		Quantity:             "Quantity",
		AveragePrice:         "Average Price",
		InvestedAmount:       "Invested",
		MarketValue:          "Market Value",
		ProfitAndLoss:        "P&L",
		ProfitAndLossPercent: "P&L %",
		Deposits:             "Deposits",
		Withdrawals:          "Withdrawals",
		Costs:                "Costs",
		Totals:               "Totals",
		Transactions:         "Transactions",
		Date:                 "Date",
		Type:                 "Type",
		Price:                "Price",
		Fee:                  "Fee",
		Valuation:            "Valuation",
		TransferID:           "Transfer ID",
	},
	"de": {
		Report:               "Positionen",
		Generated:            "Erstellt",
		Portfolio:            "Depot",
		Ticker:               "Symbol",
		Currency:             "Währung",
		Quantity:             "Anzahl",
		AveragePrice:         "Einstandskurs",
		InvestedAmount:       "Einstandswert",
		MarketValue:          "Marktwert",
		ProfitAndLoss:        "G/V",
		ProfitAndLossPercent: "G/V %",
		Deposits:             "Einzahlungen",
		Withdrawals:          "Auszahlungen",
		Costs:                "Kosten",
		Totals:               "Summen",
		Transactions:         "Buchungen",
		Date:                 "Datum",
		Type:                 "Art",
		Price:                "Kurs",
		Fee:                  "Gebühr",
		Valuation:            "Bewertung",
		TransferID:           "Transfer-ID",
	},
}

// LabelsFor returns the labels of lang, English when lang is unknown.
func LabelsFor(lang string) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels["en"]
}
