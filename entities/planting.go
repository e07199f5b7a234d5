package entities

// PlantingRequest is the inbound body of the generate-plan operation.
type PlantingRequest struct {
	DataInicioPlantio     string       `json:"data_inicio_plantio" validate:"required,isodate"`
	Planta                *Planta      `json:"planta" validate:"required"`
	Quantidade            *int         `json:"quantidade" validate:"required,min=1"`
	Ambiente              *Ambiente    `json:"ambiente" validate:"required"`
	SistemaCultivo        string       `json:"sistemaCultivo" validate:"required"`
	InformacoesAdicionais string       `json:"informacoes_adicionais"`
	HabilidadesExistentes []Habilidade `json:"habilidades_existentes" validate:"required,dive"`
}

type Planta struct {
	NomeCientifico    string   `json:"nome_cientifico" validate:"required"`
	Dificuldade       string   `json:"dificuldade" validate:"required"`
	TemperaturaMinima *float64 `json:"temperatura_minima" validate:"required"`
	TemperaturaMaxima *float64 `json:"temperatura_maxima" validate:"required"`
	DiasMaturidade    *int     `json:"dias_maturidade" validate:"required,min=0"`
	SoloIdeal         string   `json:"solo_ideal,omitempty"`
	Ventilacao        string   `json:"ventilacao,omitempty"`
	EpocaPlantio      string   `json:"epoca_plantio,omitempty"`
}

type Ambiente struct {
	Local    string `json:"local" validate:"required"`
	Condicao string `json:"condicao" validate:"required,oneof=interno externo"`
}

// Habilidade is a skill the user already has.
type Habilidade struct {
	ID        string `json:"id" validate:"required"`
	Nome      string `json:"nome" validate:"required"`
	Descricao string `json:"descricao,omitempty"`
}

// PlantingPlan is the validated model output. Recurrence and skill keys
// depend on the schema version, so the version-specific ones are omitempty.
// Pointer fields must be present in the reply; empty text and zero counts are
// still accepted.
type PlantingPlan struct {
	DataFimPlantio        string  `json:"data_fim_plantio" validate:"required,isodate"`
	DescritivoComoPlantar *string `json:"descritivo_como_plantar" validate:"required"`
	InformacoesAdicionais *string `json:"informacoes_adicionais" validate:"required"`
	Tarefas               []Task  `json:"tarefas" validate:"required,min=1,dive"`
}

type Task struct {
	Nome            string         `json:"nome" validate:"required"`
	Tipo            string         `json:"tipo" validate:"required,oneof=cultivo irrigacao nutricao inspecao poda colheita"`
	Cron            string         `json:"cron,omitempty"`
	Frequencia      string         `json:"frequencia,omitempty"`
	QuantidadeTotal *int           `json:"quantidade_total" validate:"required,min=0"`
	Habilidade      SkillReference `json:"habilidade"`
	Tutorial        *Tutorial      `json:"tutorial,omitempty"`
}

// SkillReference links a task to a user skill; v1 replies use nome, later ones id.
type SkillReference struct {
	ID              string   `json:"id,omitempty"`
	Nome            string   `json:"nome,omitempty"`
	MultiplicadorXP *float64 `json:"multiplicador_xp" validate:"required,gte=0"`
}

type Tutorial struct {
	Materiais []Material `json:"materiais" validate:"dive"`
	Etapas    []Etapa    `json:"etapas" validate:"dive"`
}

type Material struct {
	Nome       string   `json:"nome" validate:"required"`
	Quantidade *float64 `json:"quantidade" validate:"required,gte=0"`
	Unidade    *string  `json:"unidade" validate:"required"`
}

type Etapa struct {
	Ordem     *int   `json:"ordem" validate:"required,min=0"`
	Descricao string `json:"descricao" validate:"required"`
}

const (
	TaskCultivo   = "cultivo"
	TaskIrrigacao = "irrigacao"
	TaskNutricao  = "nutricao"
	TaskInspecao  = "inspecao"
	TaskPoda      = "poda"
	TaskColheita  = "colheita"
)

// MandatoryTaskTypes must appear in every plan.
var MandatoryTaskTypes = []string{TaskCultivo, TaskIrrigacao, TaskNutricao}
