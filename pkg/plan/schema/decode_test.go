package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantio/entities"
	"plantio/pkg/validation"
)

const strictV3Reply = `{
  "data_fim_plantio": "2024-04-30",
  "descritivo_como_plantar": "Plante em vaso de 20 L.",
  "informacoes_adicionais": "Sol pleno pela manhã.",
  "tarefas": [
    {"nome": "Plantar", "tipo": "cultivo", "frequencia": "unica", "cron": "0 8 * * *", "quantidade_total": 1,
     "habilidade": {"id": "preparacao_solo", "nome": "Preparo", "multiplicador_xp": 1.4},
     "tutorial": {"materiais": [{"nome": "pá", "quantidade": 1, "unidade": "un"}], "etapas": [{"ordem": 1, "descricao": "Cavar"}]}},
    {"nome": "Regar", "tipo": "irrigacao", "frequencia": "diaria", "quantidade_total": 60,
     "habilidade": {"id": "rega", "multiplicador_xp": 1.0}},
    {"nome": "Adubar", "tipo": "nutricao", "frequencia": "quinzenal", "quantidade_total": 4,
     "habilidade": {"id": "adubacao", "multiplicador_xp": 1.2}}
  ]
}`

func ptr[T any](v T) *T { return &v }

func decodeRaw(t *testing.T, v Version, raw string) (*entities.PlantingPlan, error) {
	t.Helper()
	doc, err := Parse(raw)
	require.NoError(t, err)
	doc, err = Normalize(v, doc)
	require.NoError(t, err)
	return Decode(v, doc, validation.New())
}

func TestDecode_V3Projection(t *testing.T) {
	plan, err := decodeRaw(t, V3, strictV3Reply)
	require.NoError(t, err)

	assert.Equal(t, "2024-04-30", plan.DataFimPlantio)
	assert.Equal(t, ptr("Plante em vaso de 20 L."), plan.DescritivoComoPlantar)
	require.Len(t, plan.Tarefas, 3)

	first := plan.Tarefas[0]
	assert.Equal(t, "unica", first.Frequencia)
	assert.Empty(t, first.Cron)
	assert.Equal(t, "preparacao_solo", first.Habilidade.ID)
	assert.Empty(t, first.Habilidade.Nome)
	assert.Equal(t, ptr(1.4), first.Habilidade.MultiplicadorXP)
	require.NotNil(t, first.Tutorial)
	assert.Equal(t, []entities.Material{{Nome: "pá", Quantidade: ptr(1.0), Unidade: ptr("un")}}, first.Tutorial.Materiais)
	assert.Equal(t, []entities.Etapa{{Ordem: ptr(1), Descricao: "Cavar"}}, first.Tutorial.Etapas)

	assert.Equal(t, ptr(60), plan.Tarefas[1].QuantidadeTotal)
	assert.Nil(t, plan.Tarefas[1].Tutorial)
}

func TestDecode_V2AcceptsFreeFormCron(t *testing.T) {
	raw := strings.ReplaceAll(strictV3Reply, `"frequencia"`, `"cron_label"`)
	raw = strings.Replace(raw, `"cron_label": "diaria"`, `"cron": "todo dia às 8h"`, 1)
	raw = strings.Replace(raw, `"cron_label": "quinzenal"`, `"cron": "0 9 1,15 * *"`, 1)

	plan, err := decodeRaw(t, V2, raw)
	require.NoError(t, err)

	assert.Equal(t, "0 8 * * *", plan.Tarefas[0].Cron)
	assert.Equal(t, "todo dia às 8h", plan.Tarefas[1].Cron)
	for _, tk := range plan.Tarefas {
		assert.Empty(t, tk.Frequencia)
	}
}

func TestDecode_V1DropsTutorialAndID(t *testing.T) {
	raw := `{
	  "data_fim_plantio": "2024-04-30",
	  "descritivo_como_plantar": "x",
	  "informacoes_adicionais": "y",
	  "tarefas": [
	    {"nome": "Plantar", "tipo": "cultivo", "cron": "0 8 * * *", "quantidade_total": "1", "habilidade": {"nome": "Preparo", "multiplicador_xp": 1}, "tutorial": {"etapas": ["a"]}},
	    {"nome": "Regar", "tipo": "irrigacao", "cron": "0 7 * * *", "quantidade_total": 30, "habilidade": {"id": "rega", "multiplicador_xp": 1}},
	    {"nome": "Adubar", "tipo": "nutricao", "cron": "0 9 1 * *", "quantidade_total": 2, "habilidade": {"nome": "Adubação", "multiplicador_xp": 1.1}}
	  ]
	}`

	plan, err := decodeRaw(t, V1, raw)
	require.NoError(t, err)

	assert.Nil(t, plan.Tarefas[0].Tutorial)
	assert.Equal(t, "Preparo", plan.Tarefas[0].Habilidade.Nome)
	assert.Equal(t, "rega", plan.Tarefas[1].Habilidade.Nome)
	assert.Empty(t, plan.Tarefas[1].Habilidade.ID)
}

func TestDecode_MissingMandatoryType(t *testing.T) {
	raw := strings.Replace(strictV3Reply, `"tipo": "nutricao"`, `"tipo": "poda"`, 1)

	_, err := decodeRaw(t, V3, raw)

	var verr *ViolationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, V3, verr.Version)
	assert.Contains(t, verr.Error(), `missing mandatory task type "nutricao"`)
}

func TestDecode_UnknownFrequency(t *testing.T) {
	raw := strings.Replace(strictV3Reply, `"frequencia": "diaria"`, `"frequencia": "de hora em hora"`, 1)

	_, err := decodeRaw(t, V3, raw)

	var verr *ViolationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), `tarefas[1].frequencia "de hora em hora"`)
}

func TestDecode_UnknownTaskType(t *testing.T) {
	raw := strings.Replace(strictV3Reply, `"tipo": "irrigacao"`, `"tipo": "colheita_extra"`, 1)

	_, err := decodeRaw(t, V3, raw)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tarefas[1].tipo", verr.Fields[0].Field)
	assert.Equal(t, "oneof", verr.Fields[0].Rule)
}

func TestDecode_MissingSkillID(t *testing.T) {
	raw := strings.Replace(strictV3Reply, `{"id": "rega", "multiplicador_xp": 1.0}`, `{"multiplicador_xp": 1.0}`, 1)

	_, err := decodeRaw(t, V3, raw)

	var verr *ViolationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "tarefas[1].habilidade.id is required")
}

func TestDecode_WrongTypes(t *testing.T) {
	raw := strings.Replace(strictV3Reply, `"quantidade_total": 60`, `"quantidade_total": 60.5`, 1)

	_, err := decodeRaw(t, V3, raw)
	assert.ErrorContains(t, err, "decode plan")
}

func TestDecode_EmptyPlan(t *testing.T) {
	_, err := decodeRaw(t, V3, `{"data_fim_plantio": "2024-04-30", "descritivo_como_plantar": "", "informacoes_adicionais": "", "tarefas": []}`)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tarefas", verr.Fields[0].Field)
}

func TestDecode_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		remove string
		keep   string
		field  string
	}{
		{"descritivo", `"descritivo_como_plantar": "Plante em vaso de 20 L.",`, "", "descritivo_como_plantar"},
		{"informacoes", `"informacoes_adicionais": "Sol pleno pela manhã.",`, "", "informacoes_adicionais"},
		{"quantidade_total", `"quantidade_total": 60,`, "", "tarefas[1].quantidade_total"},
		{"multiplicador_xp", `{"id": "rega", "multiplicador_xp": 1.0}`, `{"id": "rega"}`, "tarefas[1].habilidade.multiplicador_xp"},
		{"material quantidade", `{"nome": "pá", "quantidade": 1, "unidade": "un"}`, `{"nome": "pá", "unidade": "un"}`, "tarefas[0].tutorial.materiais[0].quantidade"},
		{"material unidade", `{"nome": "pá", "quantidade": 1, "unidade": "un"}`, `{"nome": "pá", "quantidade": 1}`, "tarefas[0].tutorial.materiais[0].unidade"},
		{"etapa ordem", `{"ordem": 1, "descricao": "Cavar"}`, `{"descricao": "Cavar"}`, "tarefas[0].tutorial.etapas[0].ordem"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := strings.Replace(strictV3Reply, tc.remove, tc.keep, 1)
			require.NotEqual(t, strictV3Reply, raw)

			_, err := decodeRaw(t, V3, raw)

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tc.field, verr.Fields[0].Field)
			assert.Equal(t, "required", verr.Fields[0].Rule)
		})
	}
}

func TestDecode_EmptyValuesArePresent(t *testing.T) {
	raw := strings.Replace(strictV3Reply, `"Plante em vaso de 20 L."`, `""`, 1)
	raw = strings.Replace(raw, `"quantidade_total": 60`, `"quantidade_total": 0`, 1)
	raw = strings.Replace(raw, `"multiplicador_xp": 1.0`, `"multiplicador_xp": 0`, 1)

	plan, err := decodeRaw(t, V3, raw)
	require.NoError(t, err)
	assert.Equal(t, ptr(""), plan.DescritivoComoPlantar)
	assert.Equal(t, ptr(0), plan.Tarefas[1].QuantidadeTotal)
	assert.Equal(t, ptr(0.0), plan.Tarefas[1].Habilidade.MultiplicadorXP)
}

func TestDecode_Counts(t *testing.T) {
	raw := strings.Replace(strictV3Reply, `"quantidade_total": 60`, `"quantidade_total": 60.0`, 1)
	plan, err := decodeRaw(t, V3, raw)
	require.NoError(t, err)
	assert.Equal(t, ptr(60), plan.Tarefas[1].QuantidadeTotal)

	raw = strings.Replace(strictV3Reply, `"quantidade_total": 60`, `"quantidade_total": "99999999999999999999 regas"`, 1)
	_, err = decodeRaw(t, V3, raw)
	assert.ErrorContains(t, err, "decode plan")
}
