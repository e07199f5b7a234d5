// pkg/ai/mock_client.go

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"plantio/entities"
)

// mockClient answers like a loosely obedient model: end date follows the
// start + maturity rule, but counts come back as text and tutorial items as
// plain strings, the way real replies drift.
type mockClient struct{}

func NewMock() Client { return &mockClient{} }

func (m *mockClient) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var in entities.PlantingRequest
	if err := json.Unmarshal([]byte(req.UserMessage), &in); err != nil {
		return `{"erro": "dados_insuficientes", "mensagem": "entrada ilegível"}`, nil
	}
	if in.Planta == nil || in.Planta.DiasMaturidade == nil {
		return `{"erro": "dados_insuficientes", "mensagem": "planta.dias_maturidade ausente"}`, nil
	}
	start, err := time.Parse("2006-01-02", in.DataInicioPlantio)
	if err != nil {
		return `{"erro": "dados_insuficientes", "mensagem": "data_inicio_plantio inválida"}`, nil
	}
	days := *in.Planta.DiasMaturidade
	end := start.AddDate(0, 0, days)

	skill := func(i int) string {
		if i < len(in.HabilidadesExistentes) {
			return in.HabilidadesExistentes[i].ID
		}
		return "cultivo_basico"
	}

	tasks := []map[string]any{
		{
			"nome":             "Plantar " + in.Planta.NomeCientifico,
			"tipo":             entities.TaskCultivo,
			"frequencia":       "unica",
			"quantidade_total": "1 vez",
			"habilidade":       map[string]any{"id": skill(0), "multiplicador_xp": 1.4},
			"tutorial": map[string]any{
				"materiais": []any{"pá", "adubo orgânico"},
				"etapas":    []any{"preparar solo", "plantar semente"},
			},
		},
		{
			"nome":             "Regar",
			"tipo":             entities.TaskIrrigacao,
			"frequencia":       "diaria",
			"quantidade_total": fmt.Sprintf("%d regas", days),
			"habilidade":       map[string]any{"id": skill(1), "multiplicador_xp": 1.0},
		},
		{
			"nome":             "Adubar",
			"tipo":             entities.TaskNutricao,
			"frequencia":       "quinzenal",
			"quantidade_total": days / 15,
			"habilidade":       map[string]any{"id": skill(0), "multiplicador_xp": 1.2},
		},
	}
	if strings.Contains(strings.ToLower(in.InformacoesAdicionais), "inspe") {
		tasks = append(tasks, map[string]any{
			"nome":             "Inspecionar pragas",
			"tipo":             entities.TaskInspecao,
			"frequencia":       "semanal",
			"quantidade_total": days / 7,
			"habilidade":       map[string]any{"id": skill(0), "multiplicador_xp": 1.1},
		})
	}
	tasks = append(tasks, map[string]any{
		"nome":             "Colher",
		"tipo":             entities.TaskColheita,
		"frequencia":       "unica",
		"quantidade_total": 1,
		"habilidade":       map[string]any{"id": skill(0), "multiplicador_xp": 1.5},
	})

	ambiente := ""
	if in.Ambiente != nil {
		ambiente = in.Ambiente.Condicao
	}
	out := map[string]any{
		"data_fim_plantio":        end.Format("2006-01-02"),
		"descritivo_como_plantar": fmt.Sprintf("Plante %s em ambiente %s usando %s.", in.Planta.NomeCientifico, ambiente, in.SistemaCultivo),
		"informacoes_adicionais":  "Plano gerado pelo modelo simulado (mock).",
		"tarefas":                 tasks,
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
