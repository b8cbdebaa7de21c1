package templates

import (
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

type LayoutProps struct {
	Title       string
	CurrentUser string
}

type PostSummary struct {
	Title string
	Slug  string
	Views uint
}

func NavbarComponent(props LayoutProps) g.Node {
	return Nav(Class("nav"),
		Div(Class("nav-left"),
			Div(Class("brand"), A(Href("/"), g.Text(props.Title))),
		),
		Div(Class("nav-links nav-right"),
			g.If(props.CurrentUser == "",
				Div(
					A(Href("/auth/login"), g.Text("Login")),
					A(Href("/auth/register"), g.Text("Register")),
				),
			),
			g.If(props.CurrentUser != "",
				Div(Class("row"),
					Div(Class("col"), g.Textf("Signed in as %s", props.CurrentUser)),
				)),
		),
	)
}

func FooterComponent() g.Node {
	return Footer(Class("footer"),
		P(Class("api-notice"),
			Small(I(g.Text("This is the API server; the reading experience lives in the frontend."))),
		),
	)
}

// HomePage is the small server-rendered status page at /.
func HomePage(props LayoutProps, recent []PostSummary) g.Node {
	items := make([]g.Node, 0, len(recent))
	for _, p := range recent {
		items = append(items, Li(
			A(Href("/blog/"+p.Slug), g.Text(p.Title)),
			Span(Class("views"), g.Textf(" (%d views)", p.Views)),
		))
	}

	return HTML(
		Head(
			TitleEl(g.Text(props.Title)),
			Meta(Charset("utf-8")),
		),
		Body(
			NavbarComponent(props),
			Main(
				H1(g.Text(props.Title)),
				P(g.Text("The blog API is up.")),
				H2(g.Text("Latest posts")),
				g.If(len(items) == 0, P(g.Text("Nothing published yet."))),
				Ul(items...),
			),
			FooterComponent(),
		),
	)
}
