// Package planilha implementa o armazenamento legado em planilhas: um
// arquivo .xlsx por tenant, uma aba por coleção, leitura e substituição
// sempre da coleção inteira. Mantido vivo durante a migração para o banco
// relacional; nenhuma garantia transacional.
package planilha

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Registro é uma linha da planilha, indexada pelo cabeçalho.
type Registro map[string]any

// Store lê e grava coleções de registros em planilhas por tenant.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore cria o Store garantindo que o diretório exista.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("criar diretório de planilhas: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) caminho(tenantSlug string) string {
	nome := tenantSlug
	if !strings.HasSuffix(nome, ".xlsx") {
		nome += ".xlsx"
	}
	return filepath.Join(s.dir, nome)
}

// Read retorna todos os registros da coleção. Arquivo ou aba inexistentes
// resultam em lista vazia, nunca em erro.
func (s *Store) Read(tenantSlug, colecao string) ([]Registro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caminho := s.caminho(tenantSlug)
	if _, err := os.Stat(caminho); os.IsNotExist(err) {
		return []Registro{}, nil
	}

	f, err := excelize.OpenFile(caminho)
	if err != nil {
		return nil, fmt.Errorf("abrir planilha %s: %w", tenantSlug, err)
	}
	defer f.Close()

	linhas, err := f.GetRows(colecao)
	if err != nil || len(linhas) == 0 {
		// aba ausente ou vazia
		return []Registro{}, nil
	}

	cabecalho := linhas[0]
	registros := make([]Registro, 0, len(linhas)-1)
	for _, linha := range linhas[1:] {
		reg := Registro{}
		for i, coluna := range cabecalho {
			if coluna == "" {
				continue
			}
			var valor any
			if i < len(linha) {
				valor = decodificarValor(linha[i])
			}
			reg[coluna] = valor
		}
		registros = append(registros, reg)
	}
	return registros, nil
}

// Write substitui a coleção inteira pelos registros informados.
func (s *Store) Write(tenantSlug, colecao string, registros []Registro) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caminho := s.caminho(tenantSlug)

	var f *excelize.File
	if _, err := os.Stat(caminho); err == nil {
		f, err = excelize.OpenFile(caminho)
		if err != nil {
			return fmt.Errorf("abrir planilha %s: %w", tenantSlug, err)
		}
	} else {
		f = excelize.NewFile()
	}
	defer f.Close()

	// a aba é sempre recriada do zero
	if idx, _ := f.GetSheetIndex(colecao); idx != -1 {
		if err := f.DeleteSheet(colecao); err != nil {
			return fmt.Errorf("recriar aba %s: %w", colecao, err)
		}
	}
	if _, err := f.NewSheet(colecao); err != nil {
		return fmt.Errorf("criar aba %s: %w", colecao, err)
	}
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	if len(registros) > 0 {
		cabecalho := colunas(registros)
		linha := make([]any, len(cabecalho))
		for i, c := range cabecalho {
			linha[i] = c
		}
		celula, _ := excelize.CoordinatesToCellName(1, 1)
		if err := f.SetSheetRow(colecao, celula, &linha); err != nil {
			return err
		}

		for n, reg := range registros {
			for i, c := range cabecalho {
				linha[i] = codificarValor(reg[c])
			}
			celula, _ = excelize.CoordinatesToCellName(1, n+2)
			if err := f.SetSheetRow(colecao, celula, &linha); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(caminho)
}

// colunas reúne a união das chaves de todos os registros, ordenada
// alfabeticamente para que o cabeçalho não mude entre gravações.
func colunas(registros []Registro) []string {
	vistas := map[string]bool{}
	var ordem []string
	for _, reg := range registros {
		for chave := range reg {
			if !vistas[chave] {
				vistas[chave] = true
				ordem = append(ordem, chave)
			}
		}
	}
	sort.Strings(ordem)
	return ordem
}

// codificarValor serializa listas e mapas como JSON na célula.
func codificarValor(v any) any {
	switch v.(type) {
	case nil:
		return ""
	case []any, map[string]any, []string:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return v
	}
}

// decodificarValor tenta reconstruir JSON embutido em texto de célula.
func decodificarValor(texto string) any {
	aparado := strings.TrimSpace(texto)
	if (strings.HasPrefix(aparado, "[") && strings.HasSuffix(aparado, "]")) ||
		(strings.HasPrefix(aparado, "{") && strings.HasSuffix(aparado, "}")) {
		var v any
		if err := json.Unmarshal([]byte(aparado), &v); err == nil {
			return v
		}
	}
	return texto
}
