package web

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"lampreasvioleta.com/storefront/internal/customer"
	"lampreasvioleta.com/storefront/internal/middleware"
)

// CustomersPage is what the customer list renders.
type CustomersPage struct {
	Query     string
	Customers []customer.Customer
	Error     string
	Notice    string
	Form      CustomerForm
}

// CustomerForm echoes back the create form after a failed submit.
type CustomerForm struct {
	ID      string
	Name    string
	Email   string
	Address string
	Phone   string
	Notes   string
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// layout wraps body in the page chrome shared by every web page.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>%s · Lampreas Violeta</title>
</head>
<body>
<header><h1>%s</h1></header>
<main>
`, esc(title), esc(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `</main>
<footer>storefront v%s</footer>
</body>
</html>
`, esc(middleware.GetVersion(ctx)))
		return err
	})
}

func csrfField(ctx context.Context) string {
	return fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`, middleware.CSRFForm, esc(middleware.GetCSRF(ctx)))
}

func loginPage(errMsg string) templ.Component {
	return layout("Acceso", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if errMsg != "" {
			if _, err := fmt.Fprintf(w, "<p class=\"error\">%s</p>\n", esc(errMsg)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<form method="post" action="/web/login">
%s
<label>API key <input type="password" name="api_key" autofocus></label>
<button type="submit">Entrar</button>
</form>
`, csrfField(ctx))
		return err
	}))
}

func customersPage(p CustomersPage) templ.Component {
	return layout("Clientes", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.Error != "" {
			if _, err := fmt.Fprintf(w, "<p class=\"error\">%s</p>\n", esc(p.Error)); err != nil {
				return err
			}
		}
		if p.Notice != "" {
			if _, err := fmt.Fprintf(w, "<p class=\"notice\">%s</p>\n", esc(p.Notice)); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `<form method="get" action="/web/customers">
<input type="search" name="q" value="%s" placeholder="Buscar por id, nombre o email">
<button type="submit">Buscar</button>
</form>
`, esc(p.Query)); err != nil {
			return err
		}

		if err := customersTable(p.Customers).Render(ctx, w); err != nil {
			return err
		}
		return customerForm(p.Form).Render(ctx, w)
	}))
}

func customersTable(customers []customer.Customer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(customers) == 0 {
			_, err := io.WriteString(w, "<p>No hay clientes.</p>\n")
			return err
		}
		if _, err := io.WriteString(w, "<table id=\"customers\">\n<thead><tr><th>ID</th><th>Nombre</th><th>Email</th><th></th></tr></thead>\n<tbody>\n"); err != nil {
			return err
		}
		for _, c := range customers {
			id := strconv.FormatInt(c.ID, 10)
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td><form method="post" action="/web/customers/%s/delete">%s<button type="submit">Eliminar</button></form></td></tr>
`, id, esc(c.Name), esc(c.Email), id, csrfField(ctx)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
}

func customerForm(f CustomerForm) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h2>Nuevo cliente</h2>
<form method="post" action="/web/customers">
%s
<label>ID <input name="id" value="%s" inputmode="numeric"></label>
<label>Nombre <input name="name" value="%s" required></label>
<label>Email <input name="email" value="%s"></label>
<label>Dirección <input name="address" value="%s"></label>
<label>Teléfono <input name="phone" value="%s"></label>
<label>Notas <textarea name="notes">%s</textarea></label>
<button type="submit">Guardar</button>
</form>
`, csrfField(ctx), esc(f.ID), esc(f.Name), esc(f.Email), esc(f.Address), esc(f.Phone), esc(f.Notes))
		return err
	})
}
