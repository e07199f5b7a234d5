// Package export renders a validated plan as an .xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"plantio/entities"
)

const (
	SheetPlan      = "Plano"
	SheetTasks     = "Tarefas"
	SheetTutorials = "Tutoriais"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	taskHeader     = []any{"#", "nome", "tipo", "recorrencia", "quantidade_total", "habilidade", "multiplicador_xp"}
	tutorialHeader = []any{"tarefa", "secao", "ordem", "item", "quantidade", "unidade"}
)

// Workbook builds the three-sheet workbook. Callers must Close it.
func Workbook(plan *entities.PlantingPlan) (*excelize.File, error) {
	x := excelize.NewFile()
	if err := fill(x, plan); err != nil {
		_ = x.Close()
		return nil, err
	}
	return x, nil
}

// WritePlan streams the workbook for plan to w.
func WritePlan(w io.Writer, plan *entities.PlantingPlan) error {
	x, err := Workbook(plan)
	if err != nil {
		return err
	}
	defer x.Close()
	if err := x.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func fill(x *excelize.File, plan *entities.PlantingPlan) error {
	if err := x.SetSheetName("Sheet1", SheetPlan); err != nil {
		return err
	}
	for _, name := range []string{SheetTasks, SheetTutorials} {
		if _, err := x.NewSheet(name); err != nil {
			return err
		}
	}
	bold, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := [][]any{
		{"data_fim_plantio", plan.DataFimPlantio},
		{"descritivo_como_plantar", cell(plan.DescritivoComoPlantar)},
		{"informacoes_adicionais", cell(plan.InformacoesAdicionais)},
		{"total_tarefas", len(plan.Tarefas)},
	}
	if err := writeRows(x, SheetPlan, 1, summary); err != nil {
		return err
	}
	if err := x.SetColStyle(SheetPlan, "A", bold); err != nil {
		return err
	}
	if err := x.SetColWidth(SheetPlan, "A", "A", 26); err != nil {
		return err
	}
	if err := x.SetColWidth(SheetPlan, "B", "B", 80); err != nil {
		return err
	}

	tasks := [][]any{taskHeader}
	tutorials := [][]any{tutorialHeader}
	for i, t := range plan.Tarefas {
		tasks = append(tasks, []any{
			i + 1, t.Nome, t.Tipo, recurrence(t), cell(t.QuantidadeTotal), skill(t), cell(t.Habilidade.MultiplicadorXP),
		})
		if t.Tutorial == nil {
			continue
		}
		for _, m := range t.Tutorial.Materiais {
			tutorials = append(tutorials, []any{t.Nome, "material", "", m.Nome, cell(m.Quantidade), cell(m.Unidade)})
		}
		for _, e := range t.Tutorial.Etapas {
			tutorials = append(tutorials, []any{t.Nome, "etapa", cell(e.Ordem), e.Descricao, "", ""})
		}
	}
	if err := writeRows(x, SheetTasks, 1, tasks); err != nil {
		return err
	}
	if err := writeRows(x, SheetTutorials, 1, tutorials); err != nil {
		return err
	}
	for _, sheet := range []string{SheetTasks, SheetTutorials} {
		if err := x.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}
	x.SetActiveSheet(0)
	return nil
}

func writeRows(x *excelize.File, sheet string, startRow int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, startRow+i, err)
		}
	}
	return nil
}

// recurrence is whichever of cron/frequencia the schema version kept.
func recurrence(t entities.Task) string {
	if t.Frequencia != "" {
		return t.Frequencia
	}
	return t.Cron
}

// cell writes a nil field as an empty cell.
func cell[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}

func skill(t entities.Task) string {
	if t.Habilidade.ID != "" {
		return t.Habilidade.ID
	}
	return t.Habilidade.Nome
}
