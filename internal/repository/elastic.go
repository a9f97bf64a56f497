// internal/repository/elastic.go
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"jobsearch-analytics/internal/common/errors"
	"jobsearch-analytics/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticCohorts computes cohort statistics from an index of response-time
// samples with fields userId, industry, jobType, companySize and responseDays.
type ElasticCohorts struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticCohorts(client *elasticsearch.Client, index string) *ElasticCohorts {
	return &ElasticCohorts{client: client, index: index}
}

var cohortPercents = []float64{10, 50, 80, 90}

func buildCohortQuery(userID string, key models.CohortKey) map[string]interface{} {
	filters := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"userId": userID}},
		map[string]interface{}{"range": map[string]interface{}{"responseDays": map[string]interface{}{"gte": 0}}},
	}
	for field, value := range map[string]string{
		"industry":    key.Industry,
		"jobType":     key.JobType,
		"companySize": key.CompanySize,
	} {
		if value != "" {
			filters = append(filters, map[string]interface{}{"term": map[string]interface{}{field: value}})
		}
	}

	return map[string]interface{}{
		"size":             0,
		"track_total_hits": true,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"aggs": map[string]interface{}{
			"avg_days": map[string]interface{}{
				"avg": map[string]interface{}{"field": "responseDays"},
			},
			"pct_days": map[string]interface{}{
				"percentiles": map[string]interface{}{"field": "responseDays", "percents": cohortPercents},
			},
		},
	}
}

type cohortSearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
	} `json:"hits"`
	Aggregations struct {
		AvgDays struct {
			Value *float64 `json:"value"`
		} `json:"avg_days"`
		PctDays struct {
			Values map[string]*float64 `json:"values"`
		} `json:"pct_days"`
	} `json:"aggregations"`
}

func (e *ElasticCohorts) CohortStats(ctx context.Context, userID string, key models.CohortKey) (models.CohortStats, error) {
	body, err := json.Marshal(buildCohortQuery(userID, key))
	if err != nil {
		return models.CohortStats{}, fmt.Errorf("encode cohort query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return models.CohortStats{}, fmt.Errorf("cohort search %s: %w", key, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return models.CohortStats{}, errors.NewSearchQueryFailedError(e.index,
			fmt.Errorf("cohort %s: %s: %s", key, res.Status(), bytes.TrimSpace(msg))).
			WithMetadata("cohort", key.String())
	}

	var parsed cohortSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return models.CohortStats{}, fmt.Errorf("decode cohort search: %w", err)
	}

	stats := models.CohortStats{Count: parsed.Hits.Total.Value}
	if stats.Count == 0 {
		return stats, nil
	}
	stats.AvgDays = deref(parsed.Aggregations.AvgDays.Value)
	stats.P10 = percentile(parsed.Aggregations.PctDays.Values, 10)
	stats.P50 = percentile(parsed.Aggregations.PctDays.Values, 50)
	stats.P80 = percentile(parsed.Aggregations.PctDays.Values, 80)
	stats.P90 = percentile(parsed.Aggregations.PctDays.Values, 90)
	return stats, nil
}

// percentile reads a value keyed "10.0" (the server's formatting) or "10".
func percentile(values map[string]*float64, p float64) float64 {
	for _, k := range []string{strconv.FormatFloat(p, 'f', 1, 64), strconv.FormatFloat(p, 'f', -1, 64)} {
		if v, ok := values[k]; ok {
			return deref(v)
		}
	}
	return 0
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
