package assinatura

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crmaster/api-crm/internal/catalogo"
	"github.com/crmaster/api-crm/internal/tenant"
	"github.com/jung-kurt/gofpdf"
)

// GeradorContrato escreve o PDF de adesão de uma assinatura no diretório
// de contratos do tenant.
type GeradorContrato struct {
	Diretorio string
}

// NewGeradorContrato cria o gerador e garante o diretório base.
func NewGeradorContrato(diretorio string) (*GeradorContrato, error) {
	if err := os.MkdirAll(diretorio, 0o755); err != nil {
		return nil, fmt.Errorf("assinatura: criando diretório de contratos: %w", err)
	}
	return &GeradorContrato{Diretorio: diretorio}, nil
}

// Gerar monta o PDF do contrato e retorna o caminho do arquivo gravado.
func (g *GeradorContrato) Gerar(tc tenant.Context, sub *Subscription, plano *catalogo.Plan, nomeCliente string) (string, error) {
	dir := filepath.Join(g.Diretorio, tc.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("assinatura: criando diretório do tenant: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, "Contrato de Assinatura", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	linhas := []string{
		fmt.Sprintf("Contratante: %s", nomeCliente),
		fmt.Sprintf("Plano: %s", plano.Nome),
		fmt.Sprintf("Periodicidade: %s", plano.Periodicidade),
		fmt.Sprintf("Valor: R$ %.2f", sub.Valor),
		fmt.Sprintf("Início de vigência: %s", sub.DataInicio.Format("02/01/2006")),
	}
	for _, linha := range linhas {
		pdf.CellFormat(0, 8, linha, "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.MultiCell(0, 6, "O presente contrato entra em vigor na data da assinatura e se renova "+
		"automaticamente conforme a periodicidade do plano, podendo ser cancelado por qualquer "+
		"das partes mediante aviso prévio.", "", "J", false)

	pdf.Ln(14)
	pdf.CellFormat(0, 8, "____________________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Assinatura do contratante", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Gerado em %s", time.Now().Format("02/01/2006 15:04")), "", 1, "R", false, 0, "")

	caminho := filepath.Join(dir, fmt.Sprintf("contrato_%s.pdf", sub.ID))
	if err := pdf.OutputFileAndClose(caminho); err != nil {
		return "", fmt.Errorf("assinatura: gravando contrato: %w", err)
	}
	return caminho, nil
}
