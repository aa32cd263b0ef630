package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"funilaria-puma/backend/internal/domain/quote"
)

type quotePayload struct {
	Cliente        string           `json:"cliente" validate:"required"`
	Telefone       string           `json:"telefone"`
	Descricao      string           `json:"descricao"`
	CarroMarca     string           `json:"carro_marca"`
	CarroModelo    string           `json:"carro_modelo"`
	CarroPlaca     string           `json:"carro_placa"`
	CarroAno       string           `json:"carro_ano"`
	FormaPagamento string           `json:"forma_pagamento"`
	Valor          float64          `json:"valor"`
	Itens          []itemPayload    `json:"itens"`
	MaoObra        []servicoPayload `json:"mao_obra"`
}

type itemPayload struct {
	Qtd       float64  `json:"qtd"`
	Descricao string   `json:"descricao"`
	Unitario  float64  `json:"unitario"`
	Total     *float64 `json:"total"`
}

type servicoPayload struct {
	Descricao string  `json:"descricao"`
	Valor     float64 `json:"valor"`
}

func (p quotePayload) toDraft() quote.Draft {
	d := quote.Draft{
		ClientName:   p.Cliente,
		Phone:        p.Telefone,
		Description:  p.Descricao,
		VehicleMake:  p.CarroMarca,
		VehicleModel: p.CarroModelo,
		VehiclePlate: p.CarroPlaca,
		VehicleYear:  p.CarroAno,
		PaymentTerms: p.FormaPagamento,
		FlatTotal:    p.Valor,
	}
	for _, it := range p.Itens {
		d.Parts = append(d.Parts, quote.PartDraft{
			Qty:         it.Qtd,
			Description: it.Descricao,
			UnitPrice:   it.Unitario,
			Subtotal:    it.Total,
		})
	}
	for _, sv := range p.MaoObra {
		d.Labor = append(d.Labor, quote.LaborDraft{
			Description: sv.Descricao,
			Value:       sv.Valor,
		})
	}
	return d
}

type summaryResponse struct {
	ID          int64     `json:"id"`
	Cliente     string    `json:"cliente"`
	Descricao   string    `json:"descricao"`
	Valor       float64   `json:"valor"`
	DataCriacao time.Time `json:"data_criacao"`
}

type itemResponse struct {
	ID        int64   `json:"id"`
	Qtd       float64 `json:"qtd"`
	Descricao string  `json:"descricao"`
	Unitario  float64 `json:"unitario"`
	Total     float64 `json:"total"`
}

type servicoResponse struct {
	ID        int64   `json:"id"`
	Descricao string  `json:"descricao"`
	Valor     float64 `json:"valor"`
}

type quoteResponse struct {
	ID             int64             `json:"id"`
	Cliente        string            `json:"cliente"`
	Telefone       string            `json:"telefone,omitempty"`
	Descricao      string            `json:"descricao"`
	CarroMarca     string            `json:"carro_marca,omitempty"`
	CarroModelo    string            `json:"carro_modelo,omitempty"`
	CarroPlaca     string            `json:"carro_placa,omitempty"`
	CarroAno       string            `json:"carro_ano,omitempty"`
	FormaPagamento string            `json:"forma_pagamento,omitempty"`
	TotalItens     float64           `json:"total_itens"`
	TotalServicos  float64           `json:"total_servicos"`
	Total          float64           `json:"total"`
	DataCriacao    time.Time         `json:"data_criacao"`
	Itens          []itemResponse    `json:"itens"`
	Servicos       []servicoResponse `json:"servicos"`
}

func toQuoteResponse(q *quote.Quote) quoteResponse {
	resp := quoteResponse{
		ID:             q.ID,
		Cliente:        q.ClientName,
		Telefone:       q.Phone,
		Descricao:      q.Description,
		CarroMarca:     q.VehicleMake,
		CarroModelo:    q.VehicleModel,
		CarroPlaca:     q.VehiclePlate,
		CarroAno:       q.VehicleYear,
		FormaPagamento: q.PaymentTerms,
		TotalItens:     q.PartsTotal,
		TotalServicos:  q.LaborTotal,
		Total:          q.Total,
		DataCriacao:    q.CreatedAt,
		Itens:          []itemResponse{},
		Servicos:       []servicoResponse{},
	}
	for _, p := range q.Parts {
		resp.Itens = append(resp.Itens, itemResponse{
			ID: p.ID, Qtd: p.Qty, Descricao: p.Description,
			Unitario: p.UnitPrice, Total: p.Subtotal,
		})
	}
	for _, l := range q.Labor {
		resp.Servicos = append(resp.Servicos, servicoResponse{
			ID: l.ID, Descricao: l.Description, Valor: l.Value,
		})
	}
	return resp
}

func (h *Handlers) ListQuotes(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Quotes.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.quoteError(w, err)
		return
	}
	out := []summaryResponse{}
	for _, s := range summaries {
		out = append(out, summaryResponse{
			ID:          s.ID,
			Cliente:     s.ClientName,
			Descricao:   s.Description,
			Valor:       s.Total,
			DataCriacao: s.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}
	q, err := h.Quotes.Get(r.Context(), id)
	if err != nil {
		h.quoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

func (h *Handlers) CreateQuote(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	receipt, err := h.Quotes.Create(r.Context(), payload.toDraft())
	if err != nil {
		h.quoteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      receipt.ID,
		"cliente": payload.Cliente,
		"total":   receipt.Total,
	})
}

func (h *Handlers) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	receipt, err := h.Quotes.Update(r.Context(), id, payload.toDraft())
	if err != nil {
		h.quoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      receipt.ID,
		"total":   receipt.Total,
	})
}

func (h *Handlers) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}
	if err := h.Quotes.Delete(r.Context(), id); err != nil {
		h.quoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) QuotePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}
	q, err := h.Quotes.Get(r.Context(), id)
	if err != nil {
		h.quoteError(w, err)
		return
	}
	doc, err := h.PDF.Generate(*q)
	if err != nil {
		slog.Error("quote pdf", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Erro ao gerar PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=orcamento_%d.pdf", id))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *Handlers) decodePayload(w http.ResponseWriter, r *http.Request) (quotePayload, bool) {
	var payload quotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return payload, false
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "Informe o cliente")
		return payload, false
	}
	return payload, true
}

func quoteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Não encontrado")
		return 0, false
	}
	return id, true
}

func (h *Handlers) quoteError(w http.ResponseWriter, err error) {
	var verr *quote.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, validationMessage(verr))
	case errors.Is(err, quote.ErrNotFound):
		writeError(w, http.StatusNotFound, "Não encontrado")
	default:
		// Driver detail is logged, never returned to the caller.
		slog.Error("quote operation failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Erro interno")
	}
}

func validationMessage(v *quote.ValidationError) string {
	if v.Field == "cliente" {
		return "Informe o cliente"
	}
	return "Dados inválidos: " + v.Field
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
