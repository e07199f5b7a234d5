package schema

// RejectionCode values are the markers the model is told to answer with
// instead of a plan.
type RejectionCode string

const (
	RejectInvalid      RejectionCode = "solicitacao_invalida"
	RejectOffTopic     RejectionCode = "fora_do_escopo"
	RejectInsufficient RejectionCode = "dados_insuficientes"
)

type Rejection struct {
	Code    RejectionCode `json:"erro"`
	Message string        `json:"mensagem,omitempty"`
}

// DetectRejection recognises a content-policy marker reply. Replies that
// carry tarefas are never treated as rejections.
func DetectRejection(reply map[string]any) (*Rejection, bool) {
	if _, hasTasks := reply["tarefas"]; hasTasks {
		return nil, false
	}
	code, _ := reply["erro"].(string)
	switch RejectionCode(code) {
	case RejectInvalid, RejectOffTopic, RejectInsufficient:
	default:
		return nil, false
	}
	msg, _ := reply["mensagem"].(string)
	return &Rejection{Code: RejectionCode(code), Message: msg}, true
}
