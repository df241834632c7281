package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabelamed/backend/internal/domain/entities"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1234.56", 1234.56},
		{"1234,56", 1234.56},
		{"1.234,56", 1234.56},
		{"R$ 1.234,56", 1234.56},
		{"R$1234,56", 1234.56},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"-50,00", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseMoney(tt.raw), "raw: %q", tt.raw)
	}
}

func TestProcedureID_Stable(t *testing.T) {
	assert.Equal(t, "30912016",
		procedureID(entities.ProcedureCodes{TUSS: "30912016", CBHPM: "3.09.12.01-6"}, 0))
	assert.Equal(t, "cbhpm-3.09.12.01-6",
		procedureID(entities.ProcedureCodes{CBHPM: "3.09.12.01-6"}, 0))
	assert.Equal(t, "sus-0408050063",
		procedureID(entities.ProcedureCodes{SUS: "0408050063"}, 0))
	assert.Equal(t, "proc-00008",
		procedureID(entities.ProcedureCodes{}, 7))
}

const sampleSheet = `nome;cbhpm;valor cbhpm;tuss;valor tuss;sus;valor sus;porte;porte anestesico;uco;tempo cirurgico;descricao;cids
Artroscopia de joelho;3.09.12.01-6;R$ 1.234,56;30912016;980,00;;;10C;4;120,50;90;Artroscopia diagnóstica do joelho;m23.2, s83.2
Consulta de retorno;;;;;0301010072;10,00;;;;;;
`

func TestConvert(t *testing.T) {
	procedures, err := convert(strings.NewReader(sampleSheet))

	require.NoError(t, err)
	require.Len(t, procedures, 2)

	first := procedures[0]
	assert.Equal(t, "30912016", first.ID)
	assert.Equal(t, "Artroscopia de joelho", first.Name)
	assert.Equal(t, 1234.56, first.Values.CBHPM)
	assert.Equal(t, 980.00, first.Values.TUSS)
	assert.Equal(t, entities.TypeCirurgico, first.Type)
	assert.Equal(t, entities.RegionJoelho, first.Region)
	assert.Equal(t, "10C", first.Porte)
	assert.Equal(t, 120.50, first.UCO)
	require.NotNil(t, first.SurgicalTime)
	assert.Equal(t, 90, *first.SurgicalTime)
	assert.Equal(t, []string{"M23.2", "S83.2"}, first.CIDs)
	assert.Contains(t, first.Keywords, "artroscopia")
	assert.Contains(t, first.Keywords, "30912016")

	second := procedures[1]
	assert.Equal(t, "sus-0301010072", second.ID)
	assert.Equal(t, entities.TypeAmbulatorial, second.Type)
	assert.Equal(t, entities.RegionOutros, second.Region)
	assert.NotNil(t, second.CIDs)
	assert.Empty(t, second.CIDs)
	assert.Nil(t, second.SurgicalTime)
}

func TestConvert_SkipsShortAndBrokenRows(t *testing.T) {
	sheet := "nome;cbhpm;valor cbhpm;tuss;valor tuss;sus;valor sus;porte;porte anestesico;uco;tempo cirurgico;descricao;cids\n" +
		"Linha curta;123\n" +
		";;;;;;;;;;;;\n" +
		"Consulta;;;;;;;;;;;;\n"

	procedures, err := convert(strings.NewReader(sheet))

	require.NoError(t, err)
	require.Len(t, procedures, 1)
	assert.Equal(t, "Consulta", procedures[0].Name)
	assert.Equal(t, "proc-00001", procedures[0].ID)
}
