package handlers

import (
	"net/http"
	"net/url"

	"github.com/anvilhq/anvil"
	"github.com/anvilhq/anvil/example/requests"
)

// Person is the typed page model for the person views.
type Person struct {
	Name string
}

// PersonHandler serves the person pages and the creation form.
type PersonHandler struct{}

func NewPerson() *PersonHandler {
	return &PersonHandler{}
}

func (h *PersonHandler) Routes(r anvil.Router) {
	r.GET("/", h.index)
	r.GET("/person", h.show)
	r.GET("/person/new", h.showCreate)
	r.POST("/person", h.create)
}

func (h *PersonHandler) index(c anvil.Context) error {
	return c.Render(http.StatusOK, "Index",
		anvil.WithViewValue("Title", "Home"),
	)
}

func (h *PersonHandler) show(c anvil.Context) error {
	name := anvil.QueryDefault(c, "name", "Razor")
	return c.Render(http.StatusOK, "Person",
		anvil.WithModel(Person{Name: name}),
		anvil.WithViewValue("Title", "Mr Fox"),
	)
}

func (h *PersonHandler) showCreate(c anvil.Context) error {
	return c.Render(http.StatusOK, "CreatePerson",
		anvil.WithViewValue("Title", "New Person"),
	)
}

func (h *PersonHandler) create(c anvil.Context) error {
	var req requests.CreatePersonRequest
	verrs, err := c.Bind(&req)
	if err != nil {
		return err
	}
	if !req.CheckMe {
		verrs.Add("CheckMe", "Checkbox must be checked")
	}
	if !verrs.IsEmpty() {
		return c.Render(http.StatusOK, "CreatePerson",
			anvil.WithModel(req),
			anvil.WithViewValue("Title", "New Person"),
			anvil.WithViewErrors(verrs),
		)
	}

	c.LogInfo("person created", "name", req.Name)
	return c.Redirect(http.StatusSeeOther, "/person?name="+url.QueryEscape(req.Name))
}
