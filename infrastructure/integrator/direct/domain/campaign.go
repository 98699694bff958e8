package domain

// Campaign é uma campanha como retornada pelo método campaigns.get.
// DailyBudgetAmount é preenchido pelo cliente já na moeda da conta
type Campaign struct {
	ID          int64        `json:"Id"`
	Name        string       `json:"Name"`
	Status      string       `json:"Status"`
	State       string       `json:"State"`
	Type        string       `json:"Type"`
	DailyBudget *DailyBudget `json:"DailyBudget"`

	DailyBudgetAmount float64 `json:"-"`
}

// DailyBudget vem em micro-unidades da moeda da conta
type DailyBudget struct {
	Amount int64  `json:"Amount"`
	Mode   string `json:"Mode"`
}

// CampaignsRequest é o envelope do método campaigns.get
type CampaignsRequest struct {
	Method string          `json:"method"`
	Params CampaignsParams `json:"params"`
}

type CampaignsParams struct {
	SelectionCriteria CampaignsSelectionCriteria `json:"SelectionCriteria"`
	FieldNames        []string                   `json:"FieldNames"`
}

type CampaignsSelectionCriteria struct {
	States []string `json:"States,omitempty"`
}

// CampaignsResponse é a resposta do método campaigns.get
type CampaignsResponse struct {
	Result *CampaignsResult `json:"result"`
	Error  *APIError        `json:"error"`
}

type CampaignsResult struct {
	Campaigns []Campaign `json:"Campaigns"`
}
