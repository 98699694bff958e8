package directclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	directdomain "github.com/directpulse/direct-pulse-api/infrastructure/integrator/direct/domain"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

const (
	reportTypeCampaignPerformance = "CAMPAIGN_PERFORMANCE_REPORT"

	// A API enfileira relatórios grandes; aguardamos algumas tentativas
	reportMaxAttempts = 5
	reportRetryDelay  = 5 * time.Second

	// Valores monetários chegam em micro-unidades e o Ctr em fração
	microUnits = 1_000_000
)

// GetReport baixa um relatório de desempenho de campanhas em TSV e o converte
// em linhas tipadas. A normalização de unidades acontece aqui e em nenhum outro
// lugar: Cost dividido por 1.000.000 e Ctr multiplicado por 100
func (c *YandexClient) GetReport(ctx context.Context, cred *domain.Credential, query *ReportQuery) ([]domain.StatRow, error) {
	fields := reportFieldNames(query.Fields)

	criteria := directdomain.ReportSelectionCriteria{}
	dateRangeType := query.DateRange
	if query.DateFrom != nil && query.DateTo != nil {
		dateRangeType = "CUSTOM_DATE"
		criteria.DateFrom = query.DateFrom.Format("2006-01-02")
		criteria.DateTo = query.DateTo.Format("2006-01-02")
	}
	if len(query.CampaignIDs) > 0 {
		criteria.Filter = []directdomain.ReportFilter{
			{Field: "CampaignId", Operator: "IN", Values: query.CampaignIDs},
		}
	}

	request := directdomain.ReportRequest{
		Params: directdomain.ReportParams{
			SelectionCriteria: criteria,
			FieldNames:        fields,
			ReportName:        fmt.Sprintf("report_%s", uuid.NewString()),
			ReportType:        reportTypeCampaignPerformance,
			DateRangeType:     dateRangeType,
			Format:            "TSV",
			IncludeVAT:        "YES",
			IncludeDiscount:   "YES",
		},
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar a requisição: %w", err)
	}

	body, err := c.downloadReport(ctx, cred, payload)
	if err != nil {
		return nil, err
	}

	return parseReportTSV(body, fields)
}

// downloadReport envia a requisição e aguarda o relatório ficar pronto quando
// a API responde 201/202 (fila offline)
func (c *YandexClient) downloadReport(ctx context.Context, cred *domain.Credential, payload []byte) ([]byte, error) {
	for attempt := 1; attempt <= reportMaxAttempts; attempt++ {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Yandex.ReportsURL, bytes.NewReader(payload))
		if err != nil {
			logrus.WithError(err).Error("Erro ao criar a requisição")
			return nil, err
		}

		c.setAuthHeaders(req, cred)
		req.Header.Set("processingMode", "auto")
		req.Header.Set("skipReportHeader", "true")
		req.Header.Set("skipReportSummary", "true")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logrus.WithError(err).Error("Erro ao fazer a requisição")
			return nil, fmt.Errorf("%w: %v", domain.ErrDataSourceUnavailable, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("erro ao ler resposta: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			return body, nil
		case http.StatusCreated, http.StatusAccepted:
			// Relatório ainda em processamento
			delay := reportRetryDelay
			if retryIn := resp.Header.Get("retryIn"); retryIn != "" {
				if seconds, err := strconv.Atoi(retryIn); err == nil && seconds > 0 {
					delay = time.Duration(seconds) * time.Second
				}
			}

			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
			}).Debug("Relatório em processamento, aguardando")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		default:
			if isTokenError(body) {
				return nil, fmt.Errorf("%w: %s", domain.ErrTokenRefreshFailed, string(body))
			}
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrDataSourceUnavailable, resp.StatusCode, string(body))
		}
	}

	return nil, fmt.Errorf("%w: relatório não ficou pronto após %d tentativas", domain.ErrDataSourceUnavailable, reportMaxAttempts)
}

// isTokenError verifica pelo corpo da resposta se a falha é de autorização
func isTokenError(body []byte) bool {
	bodyStr := string(body)
	return strings.Contains(bodyStr, "Invalid OAuth token") ||
		strings.Contains(bodyStr, "error_code\": 53") ||
		strings.Contains(bodyStr, "\"error_code\":53")
}

// reportFieldNames garante que os campos de identificação e as métricas base
// sempre façam parte do relatório
func reportFieldNames(metrics []string) []string {
	fields := []string{"CampaignId", "CampaignName", "Impressions", "Clicks", "Cost"}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f] = true
	}

	for _, m := range metrics {
		// Métricas derivadas são calculadas na agregação, não pedidas à API
		if m == domain.MetricConversionRate || m == domain.MetricCostPerConversion {
			continue
		}
		if !seen[m] {
			fields = append(fields, m)
			seen[m] = true
		}
	}

	return fields
}

// parseReportTSV converte o corpo TSV em linhas tipadas, aplicando a
// normalização de unidades
func parseReportTSV(body []byte, fields []string) ([]domain.StatRow, error) {
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) == 0 || (len(lines) == 1 && strings.TrimSpace(lines[0]) == "") {
		return []domain.StatRow{}, nil
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f] = i
	}

	rows := make([]domain.StatRow, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < len(fields) {
			return nil, fmt.Errorf("linha do relatório com %d colunas, esperado %d", len(cols), len(fields))
		}

		row := domain.StatRow{
			CampaignID:   cols[index["CampaignId"]],
			CampaignName: cols[index["CampaignName"]],
		}

		row.Impressions = parseInt(cols[index["Impressions"]])
		row.Clicks = parseInt(cols[index["Clicks"]])
		row.Cost = parseFloat(cols[index["Cost"]]) / microUnits

		if i, ok := index["Conversions"]; ok {
			if v, present := parseOptionalInt(cols[i]); present {
				row.Conversions = &v
			}
		}
		if i, ok := index["Ctr"]; ok {
			if v, present := parseOptionalFloat(cols[i]); present {
				ctr := v * 100
				row.Ctr = &ctr
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// A API usa "--" para valores ausentes
func parseInt(s string) int64 {
	v, present := parseOptionalInt(s)
	if !present {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, present := parseOptionalFloat(s)
	if !present {
		return 0
	}
	return v
}

func parseOptionalInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseOptionalFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
