package calendario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChaveDedup(t *testing.T) {
	inicio := time.Date(2024, 6, 1, 10, 0, 30, 0, time.UTC)

	a := ChaveDedup("Corte de Cabelo", inicio)
	b := ChaveDedup("  corte de cabelo ", inicio.Add(20*time.Second))
	assert.Equal(t, a, b, "título normalizado e início truncado no minuto devem colidir")

	c := ChaveDedup("Corte de Cabelo", inicio.Add(2*time.Minute))
	assert.NotEqual(t, a, c)
}

func TestMesclarPrioridadeDoExterno(t *testing.T) {
	inicio := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	externos := []Evento{
		{ID: "g-1", Titulo: "Corte", Inicio: inicio, Origem: "google"},
		{ID: "g-2", Titulo: "Reunião", Inicio: inicio.Add(time.Hour), Origem: "google"},
	}
	locais := []Evento{
		{ID: "l-1", Titulo: "corte", Inicio: inicio, Origem: "local"},
		{ID: "l-2", Titulo: "Escova", Inicio: inicio.Add(2 * time.Hour), Origem: "local"},
	}

	resultado := Mesclar(externos, locais)
	assert.Len(t, resultado, 3)

	// o evento duplicado fica com a versão externa
	assert.Equal(t, "g-1", resultado[0].ID)
	assert.Equal(t, "google", resultado[0].Origem)
	assert.Equal(t, "g-2", resultado[1].ID)
	assert.Equal(t, "l-2", resultado[2].ID)
}

func TestMesclarSemExternos(t *testing.T) {
	locais := []Evento{
		{ID: "l-1", Titulo: "Corte", Inicio: time.Now(), Origem: "local"},
	}
	resultado := Mesclar(nil, locais)
	assert.Len(t, resultado, 1)
	assert.Equal(t, "l-1", resultado[0].ID)
}

func TestMesclarDeduplicaDentroDoMesmoLado(t *testing.T) {
	inicio := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	externos := []Evento{
		{ID: "g-1", Titulo: "Corte", Inicio: inicio, Origem: "google"},
		{ID: "g-dup", Titulo: "Corte", Inicio: inicio, Origem: "google"},
	}
	resultado := Mesclar(externos, nil)
	assert.Len(t, resultado, 1)
	assert.Equal(t, "g-1", resultado[0].ID, "vence o primeiro visto")
}
