package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/log"
	"financas/internal/services"
)

const (
	msgNoData  = "Nenhum dado disponível."
	msgAdded   = "Entrada adicionada com sucesso!"
	msgCleared = "Todos os dados foram limpos!"

	partialTimeout = 7 * time.Second

	noticeMs      = 3000
	errorNoticeMs = 5000
)

var nowFunc = time.Now

type monthOption struct {
	Value int
	Name  string
}

type indexData struct {
	Today      string
	Types      []core.Type
	Categories []core.Category
	Years      []int
	Months     []monthOption
	Year       int
	Month      int
	Ledger     ledgerData
}

type ledgerRow struct {
	Date        string
	Type        string
	Category    string
	Amount      string
	Description string
	Expense     bool
}

type ledgerData struct {
	Filter        string
	Empty         bool
	Message       string
	Rows          []ledgerRow
	Income        string
	Expense       string
	Balance       string
	Negative      bool
	TypeChart     barChart
	CategoryChart barChart
	BalanceChart  barChart
}

func newLedgerData(v services.View) ledgerData {
	data := ledgerData{
		Filter:  filterLabel(v.Criteria),
		Empty:   v.Empty(),
		Message: msgNoData,
		Balance: formatReais(v.Balance.Cents),
	}
	if data.Empty {
		return data
	}

	data.Rows = make([]ledgerRow, 0, len(v.Transactions))
	for _, tx := range v.Transactions {
		data.Rows = append(data.Rows, ledgerRow{
			Date:        formatDate(tx.Date),
			Type:        tx.Type.String(),
			Category:    tx.Category.String(),
			Amount:      formatReais(tx.Amount.Cents),
			Description: tx.Description,
			Expense:     tx.Type == core.Expense,
		})
	}
	data.Income = formatReais(v.ByType.Total(core.Income).Cents)
	data.Expense = formatReais(v.ByType.Total(core.Expense).Cents)
	data.Negative = v.Balance.Cents < 0
	data.TypeChart = typeChart(v.ByType)
	data.CategoryChart = categoryChart(v.ByCategory)
	data.BalanceChart = balanceChart(v.Series)
	return data
}

func filterLabel(c ledger.Criteria) string {
	switch f := c.(type) {
	case ledger.YearMonth:
		return monthName(f.Month) + " de " + strconv.Itoa(f.Year)
	case ledger.MonthDay:
		return strconv.Itoa(f.Day) + " de " + monthName(f.Month) + ", todos os anos"
	default:
		return "Todos os lançamentos"
	}
}

// yearOptions returns the ledger years plus the selected one, ascending.
func yearOptions(years []int, selected int) []int {
	out := make([]int, 0, len(years)+1)
	inserted := false
	for _, y := range years {
		if !inserted && selected <= y {
			if selected != y {
				out = append(out, selected)
			}
			inserted = true
		}
		out = append(out, y)
	}
	if !inserted {
		out = append(out, selected)
	}
	return out
}

func monthOptions() []monthOption {
	out := make([]monthOption, 12)
	for i := range out {
		out[i] = monthOption{Value: i + 1, Name: monthName(i + 1)}
	}
	return out
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	logger := log.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldOperation, log.OpRender,
			"template", name,
			log.FieldError, err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleIndex renders the page with the current month selected. A store
// failure still renders the form, with an empty ledger.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), partialTimeout)
	defer cancel()

	now := nowFunc()
	criteria := ledger.YearMonth{Year: now.Year(), Month: int(now.Month())}
	view, err := s.ledger.View(ctx, criteria)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Ledger view failed",
			log.NewFields().WithOperation(log.OpView).WithError(err).ToSlice()...)
		view = services.View{Criteria: criteria}
	}

	data := indexData{
		Today:      now.Format("2006-01-02"),
		Types:      core.Types(),
		Categories: core.AllowedCategories[core.Income],
		Years:      yearOptions(view.Years, criteria.Year),
		Months:     monthOptions(),
		Year:       criteria.Year,
		Month:      criteria.Month,
		Ledger:     newLedgerData(view),
	}
	s.render(w, r, "index.html", data)
}

// handleCategoryOptions returns the <option> list of categories allowed for
// the selected type.
func (s *Server) handleCategoryOptions(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	t, err := core.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		BadRequestError("Tipo inválido").Write(w)
		return
	}
	s.render(w, r, "category_options", core.AllowedCategories[t])
}

// handleLedger returns the filtered table, charts and balance.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), partialTimeout)
	defer cancel()

	criteria := parseCriteria(r.URL.Query(), nowFunc())
	view, err := s.ledger.View(ctx, criteria)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Ledger view failed",
			log.NewFields().WithOperation(log.OpView).WithError(err).ToSlice()...)
		InternalServerError("Erro ao carregar os dados").Write(w)
		return
	}
	s.render(w, r, "ledger", newLedgerData(view))
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	logger := log.FromContext(ctx)

	tx, err := parseTransactionForm(r.PostForm, nowFunc())
	if err != nil {
		msg, ok := inputErrorMessage(err)
		if !ok {
			msg = "Dados inválidos"
		}
		logger.InfoContext(ctx, "Rejected ledger entry",
			log.NewFields().WithOperation(log.OpValidate).WithError(err).ToSlice()...)
		writeFailure(w, UnprocessableEntityError(msg), msg)
		return
	}

	if err := s.ledger.Add(ctx, tx); err != nil {
		if msg, ok := inputErrorMessage(err); ok {
			writeFailure(w, UnprocessableEntityError(msg), msg)
			return
		}
		logger.ErrorContext(ctx, "Ledger append failed",
			log.NewFields().WithOperation(log.OpAppend).WithError(err).ToSlice()...)
		writeFailure(w, InternalServerError("Erro ao salvar"), "Erro ao salvar")
		return
	}

	SuccessResponse(msgAdded).
		TriggerLedgerChanged().
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	if err := s.ledger.Clear(ctx); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Ledger clear failed",
			log.NewFields().WithOperation(log.OpClear).WithError(err).ToSlice()...)
		writeFailure(w, InternalServerError("Erro ao limpar os dados"), "Erro ao limpar os dados")
		return
	}
	SuccessResponse(msgCleared).
		TriggerLedgerChanged().
		TriggerNotification(NotificationSuccess, msgCleared, noticeMs).
		Write(w)
}

// writeFailure also sends msg as an error notification: htmx does not swap
// the body of 4xx and 5xx responses.
func writeFailure(w http.ResponseWriter, resp *HTMXResponseBuilder, msg string) {
	resp.TriggerNotification(NotificationError, msg, errorNoticeMs).Write(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().BodyString("ok").Write(w)
}

// handleReady reports whether templates are loaded and the store is readable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{"templates": "ok", "store": "ok"}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}
	if err := s.ledger.Ready(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"checks":    checks,
		"timestamp": nowFunc().Format(time.RFC3339),
	})
}
