package model

import (
	"strings"
	"time"
)

type ID = int64

type User struct {
	ID          ID     `json:"id" db:"id"`
	ExternalID  string `json:"matricula" db:"external_id"`
	DisplayName string `json:"nome" db:"display_name"`
}

type Category string

const (
	CategoryWorkstation Category = "Workstation"
	CategoryDesk        Category = "Desk"
)

var _categoryAliases = map[string]Category{
	"workstation": CategoryWorkstation,
	"computador":  CategoryWorkstation,
	"desk":        CategoryDesk,
	"mesa":        CategoryDesk,
}

// Categories lists every category accepted by the store.
func Categories() []Category {
	return []Category{CategoryWorkstation, CategoryDesk}
}

// NormalizeCategory maps known spellings onto their canonical category.
// Unknown values are returned untouched so the store constraint can reject them.
func NormalizeCategory(s string) Category {
	if c, ok := _categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return Category(s)
}

type Resource struct {
	ID       ID       `json:"id" db:"id"`
	Label    string   `json:"identificador" db:"label"`
	Category Category `json:"tipo" db:"category"`
}

type Session struct {
	ID         ID         `json:"id" db:"id"`
	UserID     ID         `json:"aluno_id" db:"user_id"`
	ResourceID ID         `json:"recurso_id" db:"resource_id"`
	StartedAt  time.Time  `json:"hora_entrada" db:"started_at"`
	EndedAt    *time.Time `json:"hora_saida" db:"ended_at"`
}

func (s Session) Open() bool {
	return s.EndedAt == nil
}

// ActiveSession is an open session joined with its user and resource.
type ActiveSession struct {
	Session  Session
	User     User
	Resource Resource
}
