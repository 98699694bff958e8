package directclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportFieldNames(t *testing.T) {
	tests := []struct {
		name     string
		metrics  []string
		expected []string
	}{
		{
			name:     "Campos base sempre presentes",
			metrics:  nil,
			expected: []string{"CampaignId", "CampaignName", "Impressions", "Clicks", "Cost"},
		},
		{
			name:     "Métricas extras entram sem duplicar as base",
			metrics:  []string{"Clicks", "Conversions", "Ctr"},
			expected: []string{"CampaignId", "CampaignName", "Impressions", "Clicks", "Cost", "Conversions", "Ctr"},
		},
		{
			name:     "Métricas derivadas não são pedidas à API",
			metrics:  []string{"ConversionRate", "CostPerConversion", "Conversions"},
			expected: []string{"CampaignId", "CampaignName", "Impressions", "Clicks", "Cost", "Conversions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reportFieldNames(tt.metrics))
		})
	}
}

func TestParseReportTSVNormalizesUnits(t *testing.T) {
	fields := []string{"CampaignId", "CampaignName", "Impressions", "Clicks", "Cost", "Conversions", "Ctr"}

	// Custo em micro-unidades e Ctr em fração, como a API entrega
	body := []byte("101\tCampanha A\t1000\t50\t123450000\t7\t0.05\n" +
		"102\tCampanha B\t500\t0\t0\t--\t--\n")

	rows, err := parseReportTSV(body, fields)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "101", first.CampaignID)
	assert.Equal(t, "Campanha A", first.CampaignName)
	assert.Equal(t, int64(1000), first.Impressions)
	assert.Equal(t, int64(50), first.Clicks)
	assert.Equal(t, 123.45, first.Cost)
	assert.Equal(t, int64(7), *first.Conversions)
	assert.Equal(t, 5.0, *first.Ctr)

	// "--" vira métrica ausente, não zero
	second := rows[1]
	assert.Equal(t, "102", second.CampaignID)
	assert.Nil(t, second.Conversions)
	assert.Nil(t, second.Ctr)
}

func TestParseReportTSVEmptyBody(t *testing.T) {
	fields := []string{"CampaignId", "CampaignName", "Impressions", "Clicks", "Cost"}

	rows, err := parseReportTSV([]byte(""), fields)

	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseReportTSVShortLine(t *testing.T) {
	fields := []string{"CampaignId", "CampaignName", "Impressions", "Clicks", "Cost"}

	_, err := parseReportTSV([]byte("101\tCampanha A\t10\n"), fields)

	assert.Error(t, err)
}

func TestIsTokenError(t *testing.T) {
	assert.True(t, isTokenError([]byte(`{"error": {"error_code": 53, "error_string": "Authorization error"}}`)))
	assert.True(t, isTokenError([]byte("Invalid OAuth token")))
	assert.False(t, isTokenError([]byte(`{"error": {"error_code": 152}}`)))
}

func TestParseOptionalValues(t *testing.T) {
	_, present := parseOptionalInt("--")
	assert.False(t, present)

	_, present = parseOptionalFloat(" ")
	assert.False(t, present)

	v, present := parseOptionalInt(" 42 ")
	assert.True(t, present)
	assert.Equal(t, int64(42), v)
}
