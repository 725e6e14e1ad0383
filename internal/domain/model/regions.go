package model

// UF IBGEが返すブラジルの州
type UF struct {
	ID    int    `json:"id,omitempty"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome,omitempty"`
}

// City IBGEが返す市区町村
type City struct {
	ID   int    `json:"id,omitempty"`
	Nome string `json:"nome"`
}
