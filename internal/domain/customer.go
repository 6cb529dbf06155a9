package domain

// Customer é somente leitura neste serviço: apenas nome e email são projetados
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
