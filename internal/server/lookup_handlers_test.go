package server

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateAndGetAssetClass(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/lookup/asset-classes/", map[string]any{
		"asset_class_name": "Commodity",
		"description":      "Physical commodities",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("创建 asset class 应返回 201, 实际 %d: %s", rec.Code, rec.Body.String())
	}

	var created assetClassResponse
	decodeResponse(t, rec, &created)
	if created.AssetClassID == 0 || created.AssetClassName != "Commodity" {
		t.Fatalf("创建结果不正确: %#v", created)
	}

	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/lookup/asset-classes/%d", created.AssetClassID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", rec.Code)
	}
}

func TestCreateAssetClassDuplicate(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{"asset_class_name": "FX"}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/lookup/asset-classes/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("首次创建失败: %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/lookup/asset-classes/", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("重复名称应返回 409, 实际 %d", rec.Code)
	}
}

func TestAssetClassValidationAndNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/lookup/asset-classes/", map[string]any{"asset_class_name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("空名称应返回 400, 实际 %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/lookup/asset-classes/42", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("不存在的 id 应返回 404, 实际 %d", rec.Code)
	}
}

func TestListAssetClassesFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, name := range []string{"Commodity", "Credit", "FX"} {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/lookup/asset-classes/", map[string]any{"asset_class_name": name})
		if rec.Code != http.StatusCreated {
			t.Fatalf("创建 %s 失败: %d", name, rec.Code)
		}
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/lookup/asset-classes/?name=cr", nil)
	var list []assetClassResponse
	decodeResponse(t, rec, &list)
	if len(list) != 1 || list[0].AssetClassName != "Credit" {
		t.Fatalf("name 过滤结果不正确: %#v", list)
	}
}

func TestCreateAndListProductTypes(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/lookup/product-types/", map[string]any{
		"product_type_name": "Index",
		"is_derived":        true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("创建 product type 应返回 201, 实际 %d", rec.Code)
	}

	var created productTypeResponse
	decodeResponse(t, rec, &created)
	if !created.IsDerived {
		t.Fatalf("is_derived 标志未保存: %#v", created)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/lookup/product-types/", nil)
	var list []productTypeResponse
	decodeResponse(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("列表长度不正确: %#v", list)
	}

	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/lookup/product-types/%d", created.ProductTypeID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", rec.Code)
	}
}
