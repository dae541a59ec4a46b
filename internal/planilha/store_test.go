package planilha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestEscreverELer(t *testing.T) {
	store := novoStore(t)

	registros := []Registro{
		{"id": "1", "name": "Joana", "value": 150.50},
		{"id": "2", "name": "Marcos", "value": 80.0},
	}
	require.NoError(t, store.Write("salao-a", "customers", registros))

	lidos, err := store.Read("salao-a", "customers")
	require.NoError(t, err)
	require.Len(t, lidos, 2)
	assert.Equal(t, "Joana", lidos[0].String("name"))
	assert.Equal(t, 150.50, lidos[0].Float("value"))
	assert.Equal(t, "2", lidos[1].String("id"))
}

func TestLeituraDeColecaoInexistente(t *testing.T) {
	store := novoStore(t)

	// arquivo do tenant ainda nem existe
	lidos, err := store.Read("salao-novo", "customers")
	require.NoError(t, err)
	assert.Empty(t, lidos)

	// arquivo existe mas a aba não
	require.NoError(t, store.Write("salao-novo", "leads", []Registro{{"id": "1"}}))
	lidos, err = store.Read("salao-novo", "customers")
	require.NoError(t, err)
	assert.Empty(t, lidos)
}

func TestEscritaSubstituiColecaoInteira(t *testing.T) {
	store := novoStore(t)

	require.NoError(t, store.Write("salao-a", "leads", []Registro{
		{"id": "1", "status": "new"},
		{"id": "2", "status": "new"},
	}))
	require.NoError(t, store.Write("salao-a", "leads", []Registro{
		{"id": "3", "status": "won"},
	}))

	lidos, err := store.Read("salao-a", "leads")
	require.NoError(t, err)
	require.Len(t, lidos, 1)
	assert.Equal(t, "3", lidos[0].String("id"))
}

func TestValoresAninhadosViramJSON(t *testing.T) {
	store := novoStore(t)

	require.NoError(t, store.Write("salao-a", "leads", []Registro{
		{"id": "1", "tags": []any{"vip", "indicacao"}},
	}))

	lidos, err := store.Read("salao-a", "leads")
	require.NoError(t, err)
	require.Len(t, lidos, 1)

	tags, ok := lidos[0]["tags"].([]any)
	require.True(t, ok)
	assert.Equal(t, "vip", tags[0])
}

func TestColecoesIsoladasPorTenant(t *testing.T) {
	store := novoStore(t)

	require.NoError(t, store.Write("salao-a", "customers", []Registro{{"id": "1"}}))
	require.NoError(t, store.Write("salao-b", "customers", []Registro{{"id": "2"}}))

	deA, err := store.Read("salao-a", "customers")
	require.NoError(t, err)
	deB, err := store.Read("salao-b", "customers")
	require.NoError(t, err)

	require.Len(t, deA, 1)
	require.Len(t, deB, 1)
	assert.Equal(t, "1", deA[0].String("id"))
	assert.Equal(t, "2", deB[0].String("id"))
}

func TestCabecalhoOrdenado(t *testing.T) {
	registros := []Registro{
		{"phone": "11999990000", "id": "1"},
		{"name": "Joana", "email": "joana@example.com", "id": "1"},
	}

	esperado := []string{"email", "id", "name", "phone"}
	for i := 0; i < 10; i++ {
		assert.Equal(t, esperado, colunas(registros))
	}
}
