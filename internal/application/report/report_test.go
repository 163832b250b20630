package report_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ppe-stock-api/internal/application/report"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ppe-stock-api/internal/domain/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/infrastructure/memory"
)

var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	s.AddStation(entity.Station{ID: "st-norte", Name: "Norte", Active: true})
	s.AddStation(entity.Station{ID: "st-sur", Name: "Sur", Active: true})
	s.AddStation(entity.Station{ID: "st-vieja", Name: "Vieja", Active: false})
	s.AddItem(entity.PPEItem{ID: "it-guantes", Name: "Guantes", DefaultMinThreshold: 10, UnitCost: decimal.RequireFromString("1.25"), Active: true})
	s.AddItem(entity.PPEItem{ID: "it-gafas", Name: "Gafas", DefaultMinThreshold: 6, UnitCost: decimal.RequireFromString("4.90"), Active: true})

	s.PutRecord(entity.InventoryRecord{StationID: "st-norte", PPEItemID: "it-guantes", CurrentStock: 20, MinThreshold: 10, CriticalThreshold: 5})
	s.PutRecord(entity.InventoryRecord{StationID: "st-norte", PPEItemID: "it-gafas", CurrentStock: 2, MinThreshold: 6, CriticalThreshold: 3})
	s.PutRecord(entity.InventoryRecord{StationID: "st-sur", PPEItemID: "it-guantes", CurrentStock: 8, MinThreshold: 10, CriticalThreshold: 5})
	s.PutRecord(entity.InventoryRecord{StationID: "st-vieja", PPEItemID: "it-guantes", CurrentStock: 99, MinThreshold: 10, CriticalThreshold: 5})

	_, err := s.Alerts().Create(context.Background(), &entity.Alert{
		ID: "al-1", StationID: "st-norte", PPEItemID: "it-gafas",
		AlertType: entity.AlertTypeCriticalLow, Severity: entity.SeverityCritical,
		CurrentStockAtCreation: 2, ThresholdValue: 3, Status: entity.AlertStatusActive, CreatedAt: fixedNow,
	})
	require.NoError(t, err)
	return s
}

func newBuilder(s *memory.Store) *report.Builder {
	return report.NewBuilder(s.Stations(), s.Items(), s.Inventory(), s.Alerts()).
		WithClock(func() time.Time { return fixedNow })
}

func TestBuild(t *testing.T) {
	s := seededStore(t)
	rep, err := newBuilder(s).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fixedNow, rep.GeneratedAt)
	require.Len(t, rep.Lines, 3, "la estación inactiva no aparece")
	assert.Equal(t, "Norte", rep.Lines[0].StationName)
	assert.Equal(t, "Gafas", rep.Lines[0].ItemName)
	assert.Equal(t, domaininv.StatusCritical, rep.Lines[0].Status)
	assert.Equal(t, domaininv.StatusGood, rep.Lines[1].Status)
	assert.Equal(t, domaininv.StatusLow, rep.Lines[2].Status)

	// 20*1.25 + 2*4.90 + 8*1.25 = 25 + 9.8 + 10
	assert.True(t, decimal.RequireFromString("44.80").Equal(rep.TotalValue), rep.TotalValue.String())
	assert.Equal(t, 1, rep.LowCount)
	assert.Equal(t, 1, rep.CriticalCount)
	require.Len(t, rep.ActiveAlerts, 1)

	require.Len(t, rep.Stations, 2)
	assert.Equal(t, "Norte", rep.Stations[0].StationName)
	assert.Equal(t, 2, rep.Stations[0].Items)
	assert.Equal(t, 1, rep.Stations[0].CriticalItems)
	assert.True(t, decimal.RequireFromString("34.80").Equal(rep.Stations[0].StockValue))
	assert.Equal(t, 1, rep.Stations[1].LowItems)
}

func TestSummaryYFormatMoney(t *testing.T) {
	assert.Equal(t, "$1.234.568", report.FormatMoney(decimal.RequireFromString("1234567.6")))

	s := seededStore(t)
	rep, err := newBuilder(s).Build(context.Background())
	require.NoError(t, err)
	body := report.Summary(rep, time.UTC)
	assert.Contains(t, body, "Estaciones:          2")
	assert.Contains(t, body, "Alertas activas:     1")
	assert.Contains(t, body, "- Norte: 2 EPP, 0 bajos, 1 críticos")
}

type fakeRenderer struct{ name string }

func (r fakeRenderer) Render(*report.InventoryReport) (report.File, error) {
	return report.File{Filename: r.name, Data: []byte(r.name)}, nil
}

type failingRenderer struct{}

func (failingRenderer) Render(*report.InventoryReport) (report.File, error) {
	return report.File{}, errors.New("sin fuentes")
}

type capturingMailer struct {
	mu    sync.Mutex
	calls int
	to    []string
	files []report.File
	subj  string
}

func (m *capturingMailer) SendReport(_ context.Context, to []string, subject, _ string, files ...report.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.to, m.subj, m.files = to, subject, files
	return nil
}

type staticRecipients []string

func (r staticRecipients) Emails() []string { return r }

func TestScheduler_RunOnce(t *testing.T) {
	s := seededStore(t)
	mailer := &capturingMailer{}
	sch := report.NewScheduler(newBuilder(s), []report.Renderer{fakeRenderer{"a.pdf"}, fakeRenderer{"a.xlsx"}},
		mailer, staticRecipients{"jefe@planta.co"}, 7, 0, time.UTC, zerolog.Nop())

	require.NoError(t, sch.RunOnce(context.Background()))
	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, []string{"jefe@planta.co"}, mailer.to)
	assert.Equal(t, "Reporte de inventario EPP 2026-03-02", mailer.subj)
	require.Len(t, mailer.files, 2)
}

func TestScheduler_RunOnceSinDestinatarios(t *testing.T) {
	mailer := &capturingMailer{}
	sch := report.NewScheduler(newBuilder(seededStore(t)), nil, mailer, staticRecipients{}, 7, 0, time.UTC, zerolog.Nop())
	require.NoError(t, sch.RunOnce(context.Background()))
	assert.Zero(t, mailer.calls)
}

func TestScheduler_RunOnceErrorDeRender(t *testing.T) {
	mailer := &capturingMailer{}
	sch := report.NewScheduler(newBuilder(seededStore(t)), []report.Renderer{failingRenderer{}}, mailer,
		staticRecipients{"a@planta.co"}, 7, 0, time.UTC, zerolog.Nop())
	assert.Error(t, sch.RunOnce(context.Background()))
	assert.Zero(t, mailer.calls)
}

func TestScheduler_TickUnaVezPorDia(t *testing.T) {
	mailer := &capturingMailer{}
	sch := report.NewScheduler(newBuilder(seededStore(t)), nil, mailer, staticRecipients{"a@planta.co"}, 7, 30, time.UTC, zerolog.Nop())

	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	report.SetClock(sch, func() time.Time { return now })

	assert.False(t, sch.Tick(context.Background()), "antes de la hora")
	now = now.Add(30 * time.Minute)
	assert.True(t, sch.Tick(context.Background()))
	now = now.Add(time.Minute)
	assert.False(t, sch.Tick(context.Background()), "ya enviado hoy")
	now = now.Add(24 * time.Hour)
	assert.True(t, sch.Tick(context.Background()), "día siguiente")
	assert.Equal(t, 2, mailer.calls)
}
