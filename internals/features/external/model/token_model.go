package model

import "time"

// APIToken stores the bearer tokens issued by the SIGA API. Every
// authentication appends a row; the newest row is the active token.
type APIToken struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	Token         string    `gorm:"column:token;size:2000;not null" json:"token"`
	RefreshToken  string    `gorm:"column:refresh_token;size:2000;not null" json:"refresh_token"`
	FechaRegistro time.Time `gorm:"column:fecha_registro;not null;autoCreateTime" json:"fecha_registro"`
}

func (APIToken) TableName() string {
	return "pp_token"
}
