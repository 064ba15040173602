package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// monthName returns the Portuguese name of month m (1-12).
func monthName(m int) string {
	if m < 1 || m > 12 {
		return strconv.Itoa(m)
	}
	return monthNames[m-1]
}

// formatReais formats cents as Brazilian currency (e.g., "R$ 1.234,56").
func formatReais(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	digits := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	s := "R$ " + b.String() + "," + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// formatDate renders a date the way the table shows it (dd/mm/yyyy).
func formatDate(d core.Date) string {
	return d.Format("02/01/2006")
}

func periodLabel(p core.Period) string {
	return fmt.Sprintf("%02d/%04d", p.Month, p.Year)
}

// parseDate parses a date string in YYYY-MM-DD format, as sent by date inputs.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(parsedTime), nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// requestIDFor reuses a short X-Request-ID sent by a proxy, or generates one.
func requestIDFor(r *http.Request) string {
	if id := sanitizeInput(r.Header.Get("X-Request-ID")); id != "" && len(id) <= 64 {
		return id
	}
	return generateRequestID()
}
