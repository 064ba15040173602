// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the ledger filter from query strings and transactions from the entry form.

package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
	"financas/internal/ledger"
)

// parseCriteria reads the ledger filter from query parameters. A valid day
// selects that month and day in every year; otherwise year and month select
// one calendar month. Missing or invalid values fall back to now.
func parseCriteria(query url.Values, now time.Time) ledger.Criteria {
	year, month := now.Year(), int(now.Month())
	if y, ok := intParam(query, "year"); ok && y > 0 {
		year = y
	}
	if m, ok := intParam(query, "month"); ok && m >= 1 && m <= 12 {
		month = m
	}
	if d, ok := intParam(query, "day"); ok && d >= 1 && d <= 31 {
		return ledger.MonthDay{Month: month, Day: d}
	}
	return ledger.YearMonth{Year: year, Month: month}
}

func intParam(values url.Values, key string) (int, bool) {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseTransactionForm builds a transaction from the entry form fields type,
// category, amount, date and description. An empty date means today.
func parseTransactionForm(form url.Values, now time.Time) (core.Transaction, error) {
	t, err := core.ParseType(form.Get("type"))
	if err != nil {
		return core.Transaction{}, err
	}
	c, err := core.ParseCategory(t, sanitizeInput(form.Get("category")))
	if err != nil {
		return core.Transaction{}, err
	}

	amount := strings.TrimSpace(form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, amount)
	}

	date := core.DateOf(now)
	if v := strings.TrimSpace(form.Get("date")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, v)
		}
		date = d
	}

	return core.NewTransaction(t, c, core.Money{Cents: cents}, date, sanitizeInput(form.Get("description")))
}

// inputErrorMessage maps a validation error to the message shown to the user.
// ok is false when err is not caused by user input.
func inputErrorMessage(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Valor inválido", true
	case errors.Is(err, core.ErrInvalidDate):
		return "Data inválida", true
	case errors.Is(err, core.ErrInvalidType):
		return "Tipo inválido", true
	case errors.Is(err, core.ErrInvalidCategory):
		return "Subcategoria inválida para o tipo", true
	default:
		return "", false
	}
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET is a convenience function for read-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Formato de requisição inválido")
	}
	return nil
}
