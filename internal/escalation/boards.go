// Package escalation turns a completed funnel into a task on the external
// board, with the intake form attached as a comment.
package escalation

// Board holds the board coordinates for one service option.
type Board struct {
	ID         int64
	Code       string
	GroupID    string
	GroupTitle string
}

// boardCodes maps service labels to their board coordinates. The labels must
// match the funnel's option list exactly.
var boardCodes = map[string]Board{
	"Georadar (GPR)": {
		ID:         891902277,
		Code:       "GPR",
		GroupID:    "novo_grupo",
		GroupTitle: "Propostas a fazer",
	},
	"Locação de Georadar (GPR)": {
		ID:         1531023227,
		Code:       "LOC GPR",
		GroupID:    "novo_grupo",
		GroupTitle: "Propostas a fazer",
	},
	"Geoelétrica": {
		ID:         890896058,
		Code:       "IE geral",
		GroupID:    "novo_grupo",
		GroupTitle: "Propostas a fazer",
	},
	"Sísmica - MASW": {
		ID:         1476354654,
		Code:       "SIS",
		GroupID:    "novo_grupo",
		GroupTitle: "Propostas a fazer",
	},
	"Geofísica Geral": {
		ID:         1750329516,
		Code:       "GEO Geral",
		GroupID:    "novo_grupo",
		GroupTitle: "Propostas a fazer",
	},
	"Perfilagem Geofísica": {
		ID:         4608209516,
		Code:       "PERF GEOF",
		GroupID:    "novo_grupo",
		GroupTitle: "Propostas a fazer",
	},
	"Perfilagem Ótica": {
		ID:         4608206775,
		Code:       "Perfilagem Ótica",
		GroupID:    "novo_grupo",
		GroupTitle: "Propostas a fazer",
	},
	"Topografia Geofísica": {
		ID:         5501203736,
		Code:       "TOP",
		GroupID:    "topics",
		GroupTitle: "Propostas a fazer",
	},
}

// LookupBoard resolves a service label to its board coordinates.
func LookupBoard(service string) (Board, bool) {
	board, ok := boardCodes[service]
	return board, ok
}
