// Package views renders HTML templates from a configured root directory
// into HTTP responses.
//
// The package splits the work into three small pieces that compose into a
// linear pipeline per request:
//
//   - Locator resolves a template name to exactly one file under the root.
//     Missing files and traversal attempts fail with ErrTemplateNotFound.
//   - Engine compiles templates on first use, caches the compiled form,
//     and executes them against a Scope{Model, Data, Errors}. Compile and
//     execution failures surface as *RenderError.
//   - WriteResult moves a finished Result onto an http.ResponseWriter,
//     refusing to touch a response that has already been started.
//
// Templates reach their inputs through the scope: {{.Model}} for the typed
// model, {{.Data.Title}} for view-data entries, and {{.Errors.Field "Name"}}
// for validation feedback. Errors is the reserved validation lookup; the
// pipeline never writes into Data, so user keys survive every merge.
//
// Rendering is deterministic and side-effect free: the same template, model,
// data, and validation state produce byte-identical output, and nothing is
// written to the response when rendering fails.
//
//	engine, _ := views.New("./views")
//	res, err := engine.Render("Person",
//	    views.WithModel(person),
//	    views.WithValue("Title", "People"),
//	)
//	if err != nil {
//	    // ErrTemplateNotFound or *RenderError
//	}
//	err = views.WriteResult(w, res)
package views
