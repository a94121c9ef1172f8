package domain

import (
	"fmt"
	"time"
)

type VisitorStatus string

const (
	VisitorActive     VisitorStatus = "VIGENTE"
	VisitorTerminated VisitorStatus = "FINIQUITADO"
	VisitorBlocked    VisitorStatus = "BLOQUEADO"
	VisitorExternal   VisitorStatus = "EXTERNO"
)

// Visit es un registro del control de acceso en portería. CheckOut queda
// en nil mientras la persona siga adentro.
type Visit struct {
	ID           int64         `json:"id"`
	RUT          string        `json:"rut"`
	Name         string        `json:"name"`
	Company      string        `json:"company"`
	RosterStatus VisitorStatus `json:"rosterStatus"`
	AuthorizedBy string        `json:"authorizedBy"`
	Host         string        `json:"host"`
	Location     string        `json:"location"`
	CardNumber   string        `json:"cardNumber"`
	Plate        string        `json:"plate"`
	Date         time.Time     `json:"date"`
	CheckIn      time.Time     `json:"checkIn"`
	CheckOut     *time.Time    `json:"checkOut"`
	RecordedBy   string        `json:"recordedBy"`
}

func (v *Visit) Inside() bool {
	return v.CheckOut == nil
}

// Duration devuelve la permanencia como "2h 05m", o "" si sigue adentro.
func (v *Visit) Duration() string {
	if v.CheckOut == nil {
		return ""
	}
	d := v.CheckOut.Sub(v.CheckIn).Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}
