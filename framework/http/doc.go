// Package http provides Laravel-compatible request and response helpers.
//
// # Request
//
// Request wraps *http.Request with a fluent API mirroring Laravel's
// Illuminate\Http\Request.
//
//	req := gohttp.NewRequest(r)
//
//	// Snapshot the declared fields of a JSON or form body for validation
//	values, err := req.Snapshot(schema.Fields())
//
//	// Bind JSON / form body into a struct
//	var payload struct {
//	    Name string `json:"name" form:"name"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	field := req.Query("field")
//	req.IsJSON() // Accept: application/json OR Content-Type: application/json
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)           // raw JSON with status
//	res.Success(data)             // 200 {"data": ...}
//	res.Created(data)             // 201 {"data": ...}
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.ServerError()             // 500 {"message": "Server Error."}
//	res.ValidationError(result)   // 422 {"errors": {"field": "msg"}}
//
// # ViewEngine
//
//	engine := gohttp.NewViewEngine(os.DirFS("./views"), ".html")
//	engine.ViewWithLayout(w, http.StatusOK, "layout", "form", data)
package http
