package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"condo-facility-management/internal/domain/memberships"
	"condo-facility-management/internal/router"
)

func TestHTTP_EndToEnd_MaintenanceLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	sindicoID := "sindico-1"
	zeladorID := "zelador-1"

	// 1) Síndico crea el condominio
	condoID := createCondo(t, ts.URL, sindicoID)

	// 2) Registra un ascensor => aprovisiona obligaciones del catálogo
	var assetID string
	{
		st, body := doReq(t, ts.URL, "POST", "/condos/"+condoID+"/assets", sindicoID, map[string]any{
			"name":     "Elevador social",
			"category": "elevator",
			"location": "Torre A",
		})
		if st != http.StatusCreated {
			t.Fatalf("create asset: expected 201, got %d body=%s", st, string(body))
		}

		var resp struct {
			Asset struct {
				ID string `json:"id"`
			} `json:"asset"`
			ProvisionedItems int `json:"provisioned_items"`
		}
		mustUnmarshal(t, body, &resp)

		assetID = resp.Asset.ID
		if resp.ProvisionedItems == 0 {
			t.Fatalf("expected provisioned items for elevator")
		}
	}

	// 3) Las obligaciones nacen rojas (nunca ejecutadas)
	var itemID, secondItemID string
	{
		st, body := doReq(t, ts.URL, "GET", "/condos/"+condoID+"/maintenance?status=red", sindicoID, nil)
		if st != http.StatusOK {
			t.Fatalf("list red items: expected 200, got %d body=%s", st, string(body))
		}

		var items []struct {
			ID          string `json:"id"`
			AssetID     string `json:"asset_id"`
			Status      string `json:"status"`
			StatusLabel string `json:"status_label"`
		}
		mustUnmarshal(t, body, &items)

		if len(items) < 2 {
			t.Fatalf("expected at least 2 red items, got %d", len(items))
		}
		for _, it := range items {
			if it.AssetID != assetID {
				t.Fatalf("item %s points to wrong asset %s", it.ID, it.AssetID)
			}
			if it.Status != "red" || it.StatusLabel != "Vencida" {
				t.Fatalf("item %s: status=%s label=%s", it.ID, it.Status, it.StatusLabel)
			}
		}
		itemID = items[0].ID
		secondItemID = items[1].ID
	}

	// 4) Concluye una obligación pidiendo OS de seguimiento
	today := time.Now().Format("2006-01-02")
	{
		st, body := doReq(t, ts.URL, "POST", "/condos/"+condoID+"/maintenance/"+itemID+"/complete", sindicoID, map[string]any{
			"completion_date":  today,
			"spawn_work_order": true,
		})
		if st != http.StatusOK {
			t.Fatalf("complete: expected 200, got %d body=%s", st, string(body))
		}

		var resp struct {
			Item struct {
				LastDone *string `json:"last_done"`
				Status   string  `json:"status"`
			} `json:"item"`
			WorkOrder *struct {
				Number  string  `json:"number"`
				Status  string  `json:"status"`
				DueDate *string `json:"due_date"`
			} `json:"work_order"`
			WorkOrderError string `json:"work_order_error"`
		}
		mustUnmarshal(t, body, &resp)

		if resp.Item.LastDone == nil {
			t.Fatalf("complete did not set last_done: %s", string(body))
		}
		if resp.Item.Status == "red" {
			t.Fatalf("completed item still red: %s", string(body))
		}
		if resp.WorkOrderError != "" {
			t.Fatalf("work order error: %s", resp.WorkOrderError)
		}
		if resp.WorkOrder == nil {
			t.Fatalf("expected spawned work order: %s", string(body))
		}
		if !strings.HasPrefix(resp.WorkOrder.Number, "OS-") {
			t.Fatalf("work order number = %q", resp.WorkOrder.Number)
		}
		if resp.WorkOrder.Status != "open" {
			t.Fatalf("work order status = %q", resp.WorkOrder.Status)
		}
		if resp.WorkOrder.DueDate == nil {
			t.Fatalf("work order without due date")
		}
	}

	// 5) La OS generada aparece en el listado del condominio
	{
		st, body := doReq(t, ts.URL, "GET", "/condos/"+condoID+"/workorders", sindicoID, nil)
		if st != http.StatusOK {
			t.Fatalf("list work orders: expected 200, got %d body=%s", st, string(body))
		}

		var items []struct {
			Origin       string `json:"origin"`
			SourceItemID string `json:"source_item_id"`
		}
		mustUnmarshal(t, body, &items)

		if len(items) != 1 {
			t.Fatalf("expected 1 work order, got %d", len(items))
		}
		if items[0].Origin != "maintenance" || items[0].SourceItemID != itemID {
			t.Fatalf("work order provenance: %+v", items[0])
		}
	}

	// 6) Postpone: solo hacia adelante
	{
		st, body := doReq(t, ts.URL, "POST", "/condos/"+condoID+"/maintenance/"+secondItemID+"/postpone", sindicoID, map[string]any{
			"new_next_due": "2004-01-01",
			"reason":       "typo",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("backwards postpone: expected 400, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "POST", "/condos/"+condoID+"/maintenance/"+secondItemID+"/postpone", sindicoID, map[string]any{
			"new_next_due": "2100-01-01",
			"reason":       "atraso do fornecedor",
		})
		if st != http.StatusOK {
			t.Fatalf("postpone: expected 200, got %d body=%s", st, string(body))
		}

		var it struct {
			LastDone     *string `json:"last_done"`
			Observations string  `json:"observations"`
		}
		mustUnmarshal(t, body, &it)

		if it.LastDone != nil {
			t.Fatalf("postpone touched last_done: %s", string(body))
		}
		if !strings.Contains(it.Observations, "atraso do fornecedor") {
			t.Fatalf("postpone reason not recorded: %q", it.Observations)
		}
	}

	// 7) El zelador no ve nada sin membresía
	{
		st, _ := doReq(t, ts.URL, "GET", "/condos/"+condoID+"/maintenance", zeladorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before membership, got %d", st)
		}
	}

	// 8) Síndico invita con scope de lectura; zelador acepta
	var membershipID string
	{
		st, body := doReq(t, ts.URL, "POST", "/condos/"+condoID+"/members", sindicoID, map[string]any{
			"member_user_id": zeladorID,
			"scopes":         []string{string(memberships.ScopeMaintenanceRead)},
		})
		if st != http.StatusCreated {
			t.Fatalf("invite: expected 201, got %d body=%s", st, string(body))
		}

		var m struct {
			ID string `json:"id"`
		}
		mustUnmarshal(t, body, &m)
		membershipID = m.ID

		st, body = doReq(t, ts.URL, "POST", "/members/"+membershipID+"/accept", zeladorID, nil)
		if st != http.StatusOK {
			t.Fatalf("accept: expected 200, got %d body=%s", st, string(body))
		}
	}

	// 9) Ahora lee el semáforo, pero no puede concluir (sin scope)
	{
		st, body := doReq(t, ts.URL, "GET", "/condos/"+condoID+"/maintenance", zeladorID, nil)
		if st != http.StatusOK {
			t.Fatalf("list as member: expected 200, got %d body=%s", st, string(body))
		}

		st, _ = doReq(t, ts.URL, "POST", "/condos/"+condoID+"/maintenance/"+secondItemID+"/complete", zeladorID, map[string]any{
			"completion_date": today,
		})
		if st != http.StatusForbidden {
			t.Fatalf("complete without scope: expected 403, got %d", st)
		}
	}

	// 10) Revocado, vuelve a quedar afuera
	{
		st, body := doReq(t, ts.URL, "POST", "/members/"+membershipID+"/revoke", sindicoID, nil)
		if st != http.StatusOK {
			t.Fatalf("revoke: expected 200, got %d body=%s", st, string(body))
		}

		st, _ = doReq(t, ts.URL, "GET", "/condos/"+condoID+"/maintenance", zeladorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 after revoke, got %d", st)
		}
	}
}

func TestHTTP_CompleteRejectsFutureDate(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	sindicoID := "sindico-1"
	condoID := createCondo(t, ts.URL, sindicoID)

	st, body := doReq(t, ts.URL, "POST", "/condos/"+condoID+"/assets", sindicoID, map[string]any{
		"name":     "Bomba de recalque",
		"category": "pump",
	})
	if st != http.StatusCreated {
		t.Fatalf("create asset: expected 201, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/condos/"+condoID+"/maintenance", sindicoID, nil)
	if st != http.StatusOK {
		t.Fatalf("list: expected 200, got %d body=%s", st, string(body))
	}
	var items []struct {
		ID string `json:"id"`
	}
	mustUnmarshal(t, body, &items)
	if len(items) == 0 {
		t.Fatalf("expected provisioned items")
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	st, body = doReq(t, ts.URL, "POST", "/condos/"+condoID+"/maintenance/"+items[0].ID+"/complete", sindicoID, map[string]any{
		"completion_date": tomorrow,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("future completion: expected 400, got %d body=%s", st, string(body))
	}
}

// -------------------------
// helpers
// -------------------------

func createCondo(t *testing.T, baseURL, userID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/condos", userID, map[string]any{
		"name":    "Edifício Jardim das Flores",
		"cnpj":    "12.345.678/0001-90",
		"address": "Rua das Acácias 100",
	})
	if st != http.StatusCreated {
		t.Fatalf("create condo: expected 201, got %d body=%s", st, string(body))
	}

	var c struct {
		ID string `json:"id"`
	}
	mustUnmarshal(t, body, &c)
	if c.ID == "" {
		t.Fatalf("condo created without id: %s", string(body))
	}
	return c.ID
}

func doReq(t *testing.T, baseURL, method, path, userID string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Debug-User-ID", userID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func mustUnmarshal(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("unmarshal %s: %v", string(b), err)
	}
}
