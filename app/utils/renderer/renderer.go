package renderer

import (
	"html/template"

	"github.com/Rakhulsr/afronectar/app/utils/format"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

func New(directory, currencySymbol string, development bool) *render.Render {
	return render.New(render.Options{
		Directory:     directory,
		Layout:        "layout",
		Extensions:    []string{".html"},
		IsDevelopment: development,
		IndentJSON:    development,
		Funcs: []template.FuncMap{
			{
				"money": func(amount decimal.Decimal) string {
					return format.Money(currencySymbol, amount)
				},
				"orDash": func(s string) string {
					if s == "" {
						return "-"
					}
					return s
				},
			},
		},
	})
}
