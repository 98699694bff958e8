package domain

// ReportRequest é o envelope da API de relatórios (formato TSV)
type ReportRequest struct {
	Params ReportParams `json:"params"`
}

type ReportParams struct {
	SelectionCriteria ReportSelectionCriteria `json:"SelectionCriteria"`
	FieldNames        []string                `json:"FieldNames"`
	ReportName        string                  `json:"ReportName"`
	ReportType        string                  `json:"ReportType"`
	DateRangeType     string                  `json:"DateRangeType"`
	Format            string                  `json:"Format"`
	IncludeVAT        string                  `json:"IncludeVAT"`
	IncludeDiscount   string                  `json:"IncludeDiscount"`
}

type ReportSelectionCriteria struct {
	DateFrom string         `json:"DateFrom,omitempty"`
	DateTo   string         `json:"DateTo,omitempty"`
	Filter   []ReportFilter `json:"Filter,omitempty"`
}

type ReportFilter struct {
	Field    string   `json:"Field"`
	Operator string   `json:"Operator"`
	Values   []string `json:"Values"`
}
