package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskCategoryFromScore(t *testing.T) {
	// Пороги включительны, выигрывает наивысший подходящий
	tests := []struct {
		pontuacao int
		perfil    string
	}{
		{0, "Conservador"},
		{30, "Conservador"},
		{40, "Conservador"},
		{41, "Moderado"},
		{60, "Moderado"},
		{70, "Moderado"},
		{71, "Agressivo"},
		{100, "Agressivo"},
	}

	for _, tt := range tests {
		categoria := RiskCategoryFromScore(tt.pontuacao)
		assert.Equal(t, tt.perfil, categoria.Nome, "pontuacao=%d", tt.pontuacao)
	}
}

func TestRiskCategoryAcceptedTiers(t *testing.T) {
	conservador := RiskCategoryFromScore(0)
	assert.Equal(t, []string{RiscoBaixo}, conservador.RiscosAceitos)

	moderado := RiskCategoryFromScore(41)
	assert.Equal(t, []string{RiscoBaixo, RiscoModerado}, moderado.RiscosAceitos)

	agressivo := RiskCategoryFromScore(71)
	assert.Equal(t, []string{RiscoBaixo, RiscoModerado, RiscoAlto}, agressivo.RiscosAceitos)
}

func TestRiskCategoryFromName(t *testing.T) {
	// Регистр и пробелы по краям не имеют значения
	for _, nome := range []string{"Moderado", "moderado", "MODERADO", "  moderado  "} {
		categoria, err := RiskCategoryFromName(nome)
		require.NoError(t, err, "nome=%q", nome)
		assert.Equal(t, "Moderado", categoria.Nome)
	}
}

func TestRiskCategoryFromNameUnknown(t *testing.T) {
	_, err := RiskCategoryFromName("Arrojado")
	require.Error(t, err)

	var businessErr *BusinessError
	require.ErrorAs(t, err, &businessErr)
	// Сообщение повторяет исходный ввод и перечисляет допустимые значения
	assert.Equal(t, "Perfil de risco inválido: 'Arrojado'. Use Conservador, Moderado ou Agressivo.", err.Error())
}
