package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"funilaria-puma/backend/internal/app/config"
	apphttp "funilaria-puma/backend/internal/app/http"
	"funilaria-puma/backend/internal/app/http/handlers"
	"funilaria-puma/backend/internal/domain/quote"
)

// memStore is an in-memory quote.Store for exercising the HTTP surface.
type memStore struct {
	nextID int64
	quotes map[int64]*quote.Quote
}

func newMemStore() *memStore { return &memStore{quotes: map[int64]*quote.Quote{}} }

func (m *memStore) CreateQuote(ctx context.Context, q *quote.Quote) error {
	m.nextID++
	q.ID = m.nextID
	q.CreatedAt = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	c := *q
	m.quotes[q.ID] = &c
	return nil
}

func (m *memStore) UpdateQuote(ctx context.Context, q *quote.Quote) error {
	prev, ok := m.quotes[q.ID]
	if !ok {
		return quote.ErrNotFound
	}
	q.CreatedAt = prev.CreatedAt
	c := *q
	m.quotes[q.ID] = &c
	return nil
}

func (m *memStore) DeleteQuote(ctx context.Context, id int64) error {
	if _, ok := m.quotes[id]; !ok {
		return quote.ErrNotFound
	}
	delete(m.quotes, id)
	return nil
}

func (m *memStore) GetQuote(ctx context.Context, id int64) (*quote.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, quote.ErrNotFound
	}
	c := *q
	return &c, nil
}

func (m *memStore) ListQuotes(ctx context.Context, filter string) ([]quote.Summary, error) {
	ids := make([]int64, 0, len(m.quotes))
	for id := range m.quotes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	out := []quote.Summary{}
	for _, id := range ids {
		q := m.quotes[id]
		if filter != "" {
			if wantID, err := strconv.ParseInt(filter, 10, 64); err == nil {
				if q.ID != wantID {
					continue
				}
			} else if !strings.Contains(strings.ToLower(q.ClientName), strings.ToLower(filter)) {
				continue
			}
		}
		out = append(out, quote.Summary{ID: q.ID, ClientName: q.ClientName, Total: q.Total, CreatedAt: q.CreatedAt})
	}
	return out, nil
}

type stubPDF struct{}

func (stubPDF) Generate(q quote.Quote) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func newTestRouter() http.Handler {
	h := handlers.New(quote.NewService(newMemStore()), stubPDF{})
	return apphttp.NewRouter(config.Config{CORSAllowOrigin: "*"}, h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

const anaPayload = `{
	"cliente": "Ana",
	"telefone": "(19) 99999-0000",
	"carro_marca": "Fiat",
	"carro_modelo": "Uno",
	"carro_placa": "ABC1D23",
	"itens": [{"qtd": 2, "descricao": "para-choque", "unitario": 50}],
	"mao_obra": [{"descricao": "troca", "valor": 30}]
}`

func TestCreateQuote(t *testing.T) {
	router := newTestRouter()

	t.Run("valid payload", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/orcamentos", anaPayload)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		if body["id"] != float64(1) || body["total"] != 130.00 || body["cliente"] != "Ana" {
			t.Errorf("body = %v, want id 1, total 130, cliente Ana", body)
		}
	})

	t.Run("missing client", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/orcamentos", `{"itens":[]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "Informe o cliente" {
			t.Errorf("error = %v, want Informe o cliente", body["error"])
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/orcamentos", `{"cliente":`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestGetQuote(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/orcamentos", anaPayload)

	t.Run("existing", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/orcamentos/1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["cliente"] != "Ana" || body["total"] != 130.00 {
			t.Errorf("body = %v, want cliente Ana total 130", body)
		}
		itens, ok := body["itens"].([]any)
		if !ok || len(itens) != 1 {
			t.Fatalf("itens = %v, want one entry", body["itens"])
		}
		servicos, ok := body["servicos"].([]any)
		if !ok || len(servicos) != 1 {
			t.Fatalf("servicos = %v, want one entry", body["servicos"])
		}
	})

	t.Run("absent", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/orcamentos/99", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "Não encontrado" {
			t.Errorf("error = %v, want Não encontrado", body["error"])
		}
	})
}

func TestUpdateQuote(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/orcamentos", anaPayload)

	t.Run("replaces lines and recomputes", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/orcamentos/1",
			`{"cliente":"Ana","mao_obra":[{"descricao":"pintura","valor":80}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		if body["success"] != true || body["total"] != 80.00 {
			t.Errorf("body = %v, want success true, total 80", body)
		}

		got := decodeBody(t, doJSON(t, router, http.MethodGet, "/orcamentos/1", ""))
		if itens := got["itens"].([]any); len(itens) != 0 {
			t.Errorf("itens after replace = %v, want empty", itens)
		}
	})

	t.Run("absent id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/orcamentos/99", `{"cliente":"Ana"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestDeleteQuote(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/orcamentos", anaPayload)

	rec := doJSON(t, router, http.MethodDelete, "/orcamentos/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != true {
		t.Errorf("body = %v, want success true", body)
	}

	if rec := doJSON(t, router, http.MethodGet, "/orcamentos/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodDelete, "/orcamentos/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestListQuotes(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/orcamentos", `{"cliente":"Ana Souza","valor":100}`)
	doJSON(t, router, http.MethodPost, "/orcamentos", `{"cliente":"Bruno","valor":200}`)

	decodeList := func(rec *httptest.ResponseRecorder) []map[string]any {
		var list []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("decode list %q: %v", rec.Body.String(), err)
		}
		return list
	}

	t.Run("all, newest first", func(t *testing.T) {
		list := decodeList(doJSON(t, router, http.MethodGet, "/orcamentos", ""))
		if len(list) != 2 || list[0]["id"] != float64(2) || list[1]["id"] != float64(1) {
			t.Errorf("list = %v, want ids [2 1]", list)
		}
	})

	t.Run("by id", func(t *testing.T) {
		list := decodeList(doJSON(t, router, http.MethodGet, "/orcamentos?q=1", ""))
		if len(list) != 1 || list[0]["cliente"] != "Ana Souza" {
			t.Errorf("list = %v, want only Ana Souza", list)
		}
	})

	t.Run("by client name substring", func(t *testing.T) {
		list := decodeList(doJSON(t, router, http.MethodGet, "/orcamentos?q=ana", ""))
		if len(list) != 1 || list[0]["cliente"] != "Ana Souza" {
			t.Errorf("list = %v, want only Ana Souza", list)
		}
	})
}

func TestQuotePDF(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/orcamentos", anaPayload)

	rec := doJSON(t, router, http.MethodGet, "/orcamentos/1/pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=orcamento_1.pdf" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body does not look like a PDF")
	}

	if rec := doJSON(t, router, http.MethodGet, "/orcamentos/99/pdf", ""); rec.Code != http.StatusNotFound {
		t.Errorf("absent quote pdf = %d, want 404", rec.Code)
	}
}
