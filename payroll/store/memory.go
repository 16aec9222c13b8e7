// Package store provides InvoiceLedger implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/tutor-payroll/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory invoice view
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	rows  []payroll.InvoiceRow
	byID  map[string][]int
	order []string
}

// NewMemory indexes rows by tutor identity. Rows are copied.
func NewMemory(rows []payroll.InvoiceRow) *Memory {
	m := &Memory{byID: make(map[string][]int)}
	m.Replace(rows)
	return m
}

// Replace swaps the whole invoice set, e.g. after re-importing the export.
func (m *Memory) Replace(rows []payroll.InvoiceRow) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append([]payroll.InvoiceRow(nil), rows...)
	m.byID = make(map[string][]int)
	m.order = nil
	for i, row := range m.rows {
		if _, ok := m.byID[row.TutorID]; !ok {
			m.order = append(m.order, row.TutorID)
		}
		m.byID[row.TutorID] = append(m.byID[row.TutorID], i)
	}
}

// Identities returns distinct identities in first-seen order.
func (m *Memory) Identities(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]string, len(m.order))
	copy(result, m.order)
	return result, nil
}

func (m *Memory) RowsFor(_ context.Context, tutorID string) ([]payroll.InvoiceRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.byID[tutorID]
	result := make([]payroll.InvoiceRow, len(idx))
	for i, j := range idx {
		result[i] = m.rows[j]
	}
	return result, nil
}

// Len returns the number of invoice rows held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
