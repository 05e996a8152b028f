package pdf_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/employee-roster/internal/adapters/pdf"
	"github.com/csg33k/employee-roster/internal/domain"
)

func fixedExporter() *pdf.Exporter {
	x := pdf.New()
	x.Now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return x
}

func TestExport_WritesPDF(t *testing.T) {
	employees := []domain.Employee{
		{ID: 1, Name: "João Silva", Position: "Desenvolvedor", Skills: []string{"React", "TypeScript", "Node.js"}},
		{ID: 2, Name: "Maria Santos", Position: "Designer", Skills: []string{"UI/UX", "Figma", "Adobe XD"}},
	}
	var buf bytes.Buffer
	require.NoError(t, fixedExporter().Export(context.Background(), employees, &buf))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "missing PDF header")
	assert.True(t, bytes.Contains(out, []byte("%%EOF")), "missing EOF marker")
}

func TestExport_EmptyRoster(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, fixedExporter().Export(context.Background(), nil, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExport_ManyRowsSpansPages(t *testing.T) {
	var employees []domain.Employee
	for i := 1; i <= 120; i++ {
		employees = append(employees, domain.Employee{
			ID:       int64(i),
			Name:     fmt.Sprintf("Funcionário %d", i),
			Position: "Analista",
			Skills:   []string{"Go", "SQL", "Kubernetes", "Terraform", "Observabilidade", "Segurança"},
		})
	}
	var buf bytes.Buffer
	require.NoError(t, fixedExporter().Export(context.Background(), employees, &buf))
	out := buf.Bytes()
	pages := bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
	assert.Greater(t, pages, 1)
}

func TestExport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := fixedExporter().Export(ctx, nil, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
