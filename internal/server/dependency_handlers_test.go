package server

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateDependency(t *testing.T) {
	srv, _ := newTestServer(t)
	parent := createTestSeries(t, srv, "Metals Index", "")
	child := createTestSeries(t, srv, "Gold Spot USD", "XAUUSD")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/dependencies/dependencies/", map[string]any{
		"parent_series_id": parent.SeriesID,
		"child_series_id":  child.SeriesID,
		"dependency_type":  "component",
		"weight":           "0.5",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("创建依赖应返回 201, 实际 %d: %s", rec.Code, rec.Body.String())
	}

	var created dependencyResponse
	decodeResponse(t, rec, &created)
	if created.DependencyID == 0 || !created.IsActive {
		t.Fatalf("创建结果不正确: %#v", created)
	}
	if created.Weight == nil || created.Weight.String() != "0.5" {
		t.Fatalf("weight 不正确: %#v", created)
	}
}

func TestCreateDependencyValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	series := createTestSeries(t, srv, "Gold Spot USD", "XAUUSD")

	// 自依赖
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/dependencies/dependencies/", map[string]any{
		"parent_series_id": series.SeriesID,
		"child_series_id":  series.SeriesID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("自依赖应返回 400, 实际 %d", rec.Code)
	}

	// 引用不存在的 series
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/dependencies/dependencies/", map[string]any{
		"parent_series_id": series.SeriesID,
		"child_series_id":  999,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("未知 series 应返回 422, 实际 %d", rec.Code)
	}
}

func TestListDependenciesFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	parent := createTestSeries(t, srv, "Metals Index", "")
	gold := createTestSeries(t, srv, "Gold Spot USD", "XAUUSD")
	silver := createTestSeries(t, srv, "Silver Spot USD", "XAGUSD")

	for _, child := range []int64{gold.SeriesID, silver.SeriesID} {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/dependencies/dependencies/", map[string]any{
			"parent_series_id": parent.SeriesID,
			"child_series_id":  child,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("创建依赖失败: %d", rec.Code)
		}
	}

	rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/dependencies/dependencies/?child_series_id=%d", silver.SeriesID), nil)
	var list []dependencyResponse
	decodeResponse(t, rec, &list)
	if len(list) != 1 || list[0].ChildSeriesID != silver.SeriesID {
		t.Fatalf("child_series_id 过滤结果不正确: %#v", list)
	}
}

func TestCreateAndGetCalculation(t *testing.T) {
	srv, _ := newTestServer(t)
	derived := createTestSeries(t, srv, "Metals Index", "")
	gold := createTestSeries(t, srv, "Gold Spot USD", "XAUUSD")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/dependencies/calculations/", map[string]any{
		"derived_series_id":      derived.SeriesID,
		"calculation_method":     "weighted_average",
		"input_series_ids":       []int64{gold.SeriesID},
		"calculation_parameters": map[string]any{"window": 30},
		"status":                 "success",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("创建计算日志应返回 201, 实际 %d: %s", rec.Code, rec.Body.String())
	}

	var created calculationResponse
	decodeResponse(t, rec, &created)
	if created.CalculationID == 0 {
		t.Fatalf("calculation_id 应大于 0: %#v", created)
	}

	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/dependencies/calculations/%d", created.CalculationID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", rec.Code)
	}

	var fetched calculationResponse
	decodeResponse(t, rec, &fetched)
	if len(fetched.InputSeriesIDs) != 1 || fetched.InputSeriesIDs[0] != gold.SeriesID {
		t.Fatalf("input_series_ids 不正确: %#v", fetched)
	}
}

func TestGetCalculationNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dependencies/calculations/77", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("期望 404, 实际 %d", rec.Code)
	}
}

func TestListCalculationsFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	derived := createTestSeries(t, srv, "Metals Index", "")

	for _, status := range []string{"success", "failed"} {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/dependencies/calculations/", map[string]any{
			"derived_series_id": derived.SeriesID,
			"status":            status,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("创建计算日志失败: %d", rec.Code)
		}
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dependencies/calculations/?status=failed", nil)
	var list []calculationResponse
	decodeResponse(t, rec, &list)
	if len(list) != 1 || list[0].Status == nil || *list[0].Status != "failed" {
		t.Fatalf("status 过滤结果不正确: %#v", list)
	}
}
