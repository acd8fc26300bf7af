package invoice

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"repairshop-backend/internal/model"
)

var textTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
	"euros": func(v float64) string { return fmt.Sprintf("%.2f€", v) },
}).Parse(`FACTURE N° {{.Number}}

Date d'émission: {{date .IssuedAt}}

Client: {{.Client}}
Appareil: {{.Device}}
Service: {{.Service}}

Montant HT: {{euros .Amount}}
TVA (20%): {{euros .Tax}}
Montant TTC: {{euros .Total}}

Statut: {{.PaymentStatus}}
{{- with .PaymentMethod}}
Mode de paiement: {{.}}{{end}}
{{- with .PaidAt}}
Payé le: {{date .}}{{end}}
{{- with .Notes}}

Notes: {{.}}{{end}}
`))

type textView struct {
	Number        string
	IssuedAt      time.Time
	Client        string
	Device        string
	Service       string
	Amount        float64
	Tax           float64
	Total         float64
	PaymentStatus model.PaymentStatus
	PaymentMethod string
	PaidAt        *time.Time
	Notes         string
}

// Text renders the plain-text invoice handed to the client. inv should have
// its repair, client and device loaded; missing ones print as unknown.
func Text(inv *model.Invoice) (string, error) {
	v := textView{
		Number:        inv.Number,
		IssuedAt:      inv.IssuedAt,
		Client:        "Client inconnu",
		Device:        "Appareil inconnu",
		Service:       "Réparation inconnue",
		Amount:        inv.Amount,
		Tax:           inv.Tax,
		Total:         inv.Total,
		PaymentStatus: inv.PaymentStatus,
		PaidAt:        inv.PaidAt,
	}
	if inv.PaymentMethod != nil {
		v.PaymentMethod = *inv.PaymentMethod
	}
	if inv.Notes != nil {
		v.Notes = *inv.Notes
	}
	if r := inv.Repair; r != nil {
		v.Service = string(r.Category)
		if r.Client != nil {
			v.Client = r.Client.FullName()
		}
		if r.Device != nil {
			v.Device = r.Device.Label()
		}
	}

	var buf bytes.Buffer
	if err := textTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return buf.String(), nil
}

// TextFilename is the download name of the text export.
func TextFilename(inv *model.Invoice) string {
	return "facture-" + inv.Number + ".txt"
}
