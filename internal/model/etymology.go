package model

type WordRoot struct {
	Root    string `json:"root"`
	Origin  string `json:"origin"`
	Meaning string `json:"meaning"`
}

type Etymology struct {
	Word       string     `json:"word"`
	Definition string     `json:"definition"`
	Roots      []WordRoot `json:"roots"`
	Usage      string     `json:"usage"`
}
